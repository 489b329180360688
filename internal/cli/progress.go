package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/briandowns/spinner"
)

// progress is a stderr spinner; disabled in verbose mode so it does not
// fight with log output
type progress struct {
	s *spinner.Spinner
}

func newProgress(enabled bool, suffix string) *progress {
	if !enabled {
		return &progress{}
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + suffix
	s.Start()
	return &progress{s: s}
}

func (p *progress) Update(format string, args ...any) {
	if p.s == nil {
		return
	}
	p.s.Lock()
	p.s.Suffix = " " + fmt.Sprintf(format, args...)
	p.s.Unlock()
}

func (p *progress) Stop() {
	if p.s != nil {
		p.s.Stop()
	}
}

// runContext is cancelled on interrupt and, when timeout is positive, after timeout
func runContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	if timeout <= 0 {
		return ctx, stop
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	return ctx, func() {
		cancel()
		stop()
	}
}
