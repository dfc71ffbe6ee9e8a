package probe

import "strings"

// Verdict classifies what state the dashboard's login page reached.
type Verdict string

const (
	VerdictRendered     Verdict = "rendered"
	VerdictStuckLoading Verdict = "stuck-loading"
	VerdictUndetermined Verdict = "undetermined"
)

// Markers the rendered HTML is checked for. The demo-login button and the
// login form only appear after client-side hydration finishes; the spinner
// text is what the page shows while hydration is pending.
var (
	demoLoginMarkers = []string{"Try Demo Login", "demo-login"}
	loadingMarkers   = []string{"Loading...", "animate-spin"}
	loginFormMarkers = []string{`type="email"`, `type="password"`, "Sign in"}
)

type Result struct {
	Verdict      Verdict
	HasDemoLogin bool
	HasLoading   bool
	HasLoginForm bool
}

// Classify inspects a page's HTML and decides whether it finished
// rendering. A page showing only the loading indicator is stuck; a page
// with the login form or the demo-login affordance rendered fine.
func Classify(html string) Result {
	r := Result{
		HasDemoLogin: containsAny(html, demoLoginMarkers),
		HasLoading:   containsAny(html, loadingMarkers),
		HasLoginForm: containsAny(html, loginFormMarkers),
	}

	switch {
	case r.HasDemoLogin || r.HasLoginForm:
		r.Verdict = VerdictRendered
	case r.HasLoading:
		r.Verdict = VerdictStuckLoading
	default:
		r.Verdict = VerdictUndetermined
	}
	return r
}

func containsAny(html string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(html, m) {
			return true
		}
	}
	return false
}
