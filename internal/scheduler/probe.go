package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/incomeclarity/prices-backend/internal/notifications"
	"github.com/incomeclarity/prices-backend/internal/probe"
)

type ProbeSchedulerConfig struct {
	URL      string
	Interval time.Duration // e.g. 5*time.Minute
}

// ProbeScheduler runs the dashboard render probe on a fixed interval and
// raises a webhook alert when the page transitions into a bad state.
// Alerts fire on transitions only, so a page that stays stuck does not
// spam the channel every cycle.
type ProbeScheduler struct {
	prober *probe.Prober
	notify *notifications.Sender
	cfg    ProbeSchedulerConfig

	mu          sync.Mutex
	running     bool
	stopCh      chan struct{}
	lastVerdict probe.Verdict
}

func NewProbeScheduler(prober *probe.Prober, notify *notifications.Sender, cfg ProbeSchedulerConfig) *ProbeScheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Minute
	}
	return &ProbeScheduler{
		prober: prober,
		notify: notify,
		cfg:    cfg,
	}
}

func (s *ProbeScheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		fmt.Println("[PROBE-SCHEDULER] Already running")
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.mu.Unlock()

	// Initial check on startup (fire-and-forget)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		s.checkAndReport(ctx)
	}()

	// Recurring ticker
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.stopCh:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
				s.checkAndReport(ctx)
				cancel()
			}
		}
	}()

	fmt.Printf("[PROBE-SCHEDULER] Started (checking %s every %s)\n", s.cfg.URL, s.cfg.Interval)
}

func (s *ProbeScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	close(s.stopCh)
	s.running = false
	fmt.Println("[PROBE-SCHEDULER] Stopped")
}

func (s *ProbeScheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// CheckNow manually triggers a probe outside the normal schedule.
func (s *ProbeScheduler) CheckNow(ctx context.Context) probe.Verdict {
	fmt.Println("[PROBE-SCHEDULER] Manual probe triggered")
	return s.checkAndReport(ctx)
}

func (s *ProbeScheduler) checkAndReport(ctx context.Context) probe.Verdict {
	result, err := s.prober.Check(ctx, s.cfg.URL)
	if err != nil {
		fmt.Printf("[PROBE-SCHEDULER] Probe failed: %v\n", err)
	}
	verdict := result.Verdict

	s.mu.Lock()
	previous := s.lastVerdict
	s.lastVerdict = verdict
	s.mu.Unlock()

	fmt.Printf("[PROBE-SCHEDULER] %s -> %s\n", s.cfg.URL, verdict)

	if verdict == previous {
		return verdict
	}

	switch verdict {
	case probe.VerdictStuckLoading:
		s.notify.Send(fmt.Sprintf("Dashboard at %s is stuck on the loading screen", s.cfg.URL))
	case probe.VerdictUndetermined:
		if err != nil {
			s.notify.Send(fmt.Sprintf("Dashboard at %s is unreachable: %v", s.cfg.URL, err))
		} else {
			s.notify.Send(fmt.Sprintf("Dashboard at %s returned an unrecognized page", s.cfg.URL))
		}
	case probe.VerdictRendered:
		if previous != "" {
			s.notify.Send(fmt.Sprintf("Dashboard at %s is rendering again", s.cfg.URL))
		}
	}

	return verdict
}
