package cmd

import (
	"fmt"
	"os"

	"db-compare/internal/introspect"

	"github.com/gosuri/uiprogress"
	"github.com/mattn/go-isatty"
)

// progress draws one bar per target on stderr while introspection runs.
// A disabled progress ignores every call.
type progress struct {
	p    *uiprogress.Progress
	bars map[string]*uiprogress.Bar
}

func newProgress(enabled bool, targets ...introspect.Target) *progress {
	if !enabled || noProgress || !isatty.IsTerminal(os.Stderr.Fd()) {
		return &progress{}
	}

	p := uiprogress.New()
	p.SetOut(os.Stderr)
	bars := make(map[string]*uiprogress.Bar, len(targets))
	for _, t := range targets {
		name := t.String()
		if _, dup := bars[name]; dup {
			continue
		}
		bar := p.AddBar(introspect.Steps).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-20.20s", name)
		})
		bars[name] = bar
	}
	p.Start()
	return &progress{p: p, bars: bars}
}

func (pr *progress) step(t introspect.Target) {
	if bar, ok := pr.bars[t.String()]; ok {
		bar.Incr()
	}
}

func (pr *progress) stop() {
	if pr.p != nil {
		pr.p.Stop()
	}
}
