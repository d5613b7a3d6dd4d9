package engine

import (
	"fmt"
	"slices"
	"strings"

	"go.uber.org/zap/zapcore"

	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/platform"
)

// flyout is a log line shown at the bottom of the overlay until it expires.
type flyout struct {
	level zapcore.Level
	text  string
	left  float64 // seconds
}

// Flyout is a visible log line.
type Flyout struct {
	Level zapcore.Level
	Text  string
}

// Flyouts returns the visible log lines, newest first.
func (e *Engine) Flyouts() []Flyout {
	out := make([]Flyout, len(e.flyouts))
	for i, f := range e.flyouts {
		out[i] = Flyout{Level: f.level, Text: f.text}
	}
	return out
}

func (e *Engine) pushFlyout(m events.LogMessage) {
	text := strings.TrimRight(m.Text, "\n")
	e.flyouts = slices.Insert(e.flyouts, 0, flyout{
		level: m.Level,
		text:  text,
		left:  e.flyoutDuration.Seconds(),
	})
	if len(e.flyouts) > e.maxFlyouts {
		e.flyouts = e.flyouts[:e.maxFlyouts]
	}
}

func (e *Engine) ageFlyouts(dt float64) {
	for i := range e.flyouts {
		e.flyouts[i].left -= dt
	}
	for len(e.flyouts) > 0 && e.flyouts[len(e.flyouts)-1].left <= 0 {
		e.flyouts = e.flyouts[:len(e.flyouts)-1]
	}
}

var (
	overlayStyle = platform.Style{}.Fg(platform.RGB(0xff, 0xff, 0xff)).Bg(platform.RGB(0, 0, 0))
	plotStyle    = platform.Style{}.Fg(platform.RGB(0x00, 0xff, 0x00))

	levelStyles = map[zapcore.Level]platform.Style{
		zapcore.DebugLevel: platform.Style{}.Fg(platform.RGB(0x5c, 0x5c, 0xff)),
		zapcore.InfoLevel:  platform.Style{}.Fg(platform.RGB(0x00, 0xff, 0x00)),
		zapcore.WarnLevel:  platform.Style{}.Fg(platform.RGB(0xff, 0xff, 0x00)),
		zapcore.ErrorLevel: platform.Style{}.Fg(platform.RGB(0xff, 0x00, 0x00)),
	}
	criticalStyle = platform.Style{}.Fg(platform.RGB(0xff, 0xff, 0xff)).Bg(platform.RGB(0xcd, 0, 0))
)

func levelStyle(l zapcore.Level) platform.Style {
	if l > zapcore.ErrorLevel {
		return criticalStyle
	}
	if s, ok := levelStyles[l]; ok {
		return s.Bg(platform.RGB(0, 0, 0))
	}
	return overlayStyle
}

// sparkRunes plot fps history from low to high.
var sparkRunes = []rune("▁▂▃▄▅▆▇█")

// drawOverlay draws fps stats in the top left corner, an fps plot next to
// them and the log flyouts stacked up from the bottom row.
func (e *Engine) drawOverlay() {
	surface := e.backend
	width, height := surface.Size()
	history := e.frames.History()

	maxText, minText := "MAX: -", "MIN: -"
	if len(history) > 0 {
		maxText = fmt.Sprintf("MAX: %.0f", slices.Max(history))
		minText = fmt.Sprintf("MIN: %.0f", slices.Min(history))
	}
	lines := []string{maxText, fmt.Sprintf("AVG: %.0f", e.frames.FPS()), minText}

	textW := 0
	for y, line := range lines {
		surface.Print(0, y, line, overlayStyle)
		textW = max(textW, len(line))
	}

	if plotW := min(width-textW-1, len(history)); plotW > 0 {
		surface.Print(textW+1, 0, sparkline(history[len(history)-plotW:]), plotStyle)
	}

	for i, f := range e.flyouts {
		y := height - 1 - i
		if y < len(lines) {
			break
		}
		style := levelStyle(f.level)
		if f.left < 1 {
			style = style.With(platform.AttrDim)
		}
		surface.Print(0, y, f.text, style)
	}
}

// sparkline renders samples scaled between their minimum and maximum.
func sparkline(samples []float64) string {
	if len(samples) == 0 {
		return ""
	}
	lo, hi := slices.Min(samples), slices.Max(samples)
	var sb strings.Builder
	for _, s := range samples {
		i := 0
		if hi > lo {
			i = int((s - lo) / (hi - lo) * float64(len(sparkRunes)-1))
		}
		sb.WriteRune(sparkRunes[i])
	}
	return sb.String()
}
