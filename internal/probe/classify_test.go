package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_RenderedLoginForm(t *testing.T) {
	html := `<html><body><form><input type="email"/><input type="password"/>
	<button>Sign in</button></form></body></html>`

	r := Classify(html)
	assert.Equal(t, VerdictRendered, r.Verdict)
	assert.True(t, r.HasLoginForm)
	assert.False(t, r.HasLoading)
}

func TestClassify_RenderedDemoLogin(t *testing.T) {
	html := `<html><body><button id="demo-login">Try Demo Login</button></body></html>`

	r := Classify(html)
	assert.Equal(t, VerdictRendered, r.Verdict)
	assert.True(t, r.HasDemoLogin)
}

func TestClassify_StuckLoading(t *testing.T) {
	html := `<html><body><div class="animate-spin"></div><p>Loading...</p></body></html>`

	r := Classify(html)
	assert.Equal(t, VerdictStuckLoading, r.Verdict)
	assert.True(t, r.HasLoading)
	assert.False(t, r.HasLoginForm)
}

func TestClassify_LoadingPlusFormIsRendered(t *testing.T) {
	// A spinner inside an otherwise hydrated page is not a stuck page.
	html := `<html><body><div class="animate-spin"></div>
	<form><input type="email"/></form></body></html>`

	r := Classify(html)
	assert.Equal(t, VerdictRendered, r.Verdict)
}

func TestClassify_Undetermined(t *testing.T) {
	r := Classify(`<html><body><h1>502 Bad Gateway</h1></body></html>`)
	assert.Equal(t, VerdictUndetermined, r.Verdict)
	assert.False(t, r.HasDemoLogin)
	assert.False(t, r.HasLoading)
	assert.False(t, r.HasLoginForm)
}

func TestClassify_EmptyBody(t *testing.T) {
	r := Classify("")
	assert.Equal(t, VerdictUndetermined, r.Verdict)
}
