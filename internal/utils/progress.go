package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress is a per-entry progress bar over archive payload work. It stays
// inert when disabled or when stderr is not a terminal, so log output and
// piped runs are unaffected.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar
	enabled   bool
	current   string
}

const entryNameWidth = 24

// NewProgress creates a progress bar tracking total entries.
func NewProgress(total int, enabled bool) *Progress {
	p := &Progress{enabled: enabled && isTerminal()}
	if !p.enabled {
		return p
	}

	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(decor.Statistics) string {
				if len(p.current) > entryNameWidth {
					return p.current[:entryNameWidth-2] + ".."
				}
				return p.current
			}, decor.WC{W: entryNameWidth, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(decor.Percentage()),
	)

	return p
}

// Update advances the bar and shows the entry currently being processed.
func (p *Progress) Update(done int, entryName string) {
	if !p.enabled || p.bar == nil {
		return
	}
	p.current = entryName
	p.bar.SetCurrent(int64(done))
}

// Finish waits for the bar to drain and restores the terminal line.
func (p *Progress) Finish() {
	if !p.enabled || p.container == nil {
		return
	}
	p.container.Wait()
	fmt.Fprintln(os.Stderr)
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stderr.Fd()))
}
