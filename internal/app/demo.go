package app

import (
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/platform"
)

var (
	textStyle  = platform.Style{}
	hintStyle  = platform.Style{}.With(platform.AttrDim)
	pulseStyle = platform.Style{}.Fg(platform.RGB(0xff, 0x5f, 0x87)).With(platform.AttrBold)
)

// heartbeatInterval is the period of the demo's heartbeat timer.
const heartbeatInterval = time.Second

// pulseDuration is how long the heartbeat marker stays lit.
const pulseDuration = 250 * time.Millisecond

// demo is the scene the engine runs: a status screen with a heartbeat.
type demo struct {
	app     *Application
	title   platform.Style
	elapsed float64
	beats   int
	pulse   bool
}

func newDemo(app *Application) *demo {
	d := &demo{app: app}
	d.setAccent(app.config.Engine.AccentColor)
	app.timers.Every(heartbeatInterval, d.beat)
	return d
}

// setAccent changes the title color. Invalid colors keep the current one.
func (d *demo) setAccent(hex string) {
	c, err := platform.ParseColor(hex)
	if err != nil {
		d.app.logger.Warn("invalid accent color", zap.Error(err))
		return
	}
	d.title = platform.Style{}.Fg(c).With(platform.AttrBold)
}

func (d *demo) beat() {
	d.beats++
	d.pulse = true
	d.app.timers.After(pulseDuration, func() { d.pulse = false })
	if d.beats%60 == 0 {
		d.app.logger.Debug("heartbeat", zap.Int("beats", d.beats))
	}
}

// Update implements engine.Application.
func (d *demo) Update(dt float64) {
	d.elapsed += dt
}

// Draw implements engine.Application.
func (d *demo) Draw(s platform.Backend) {
	width, height := s.Size()
	if width == 0 || height == 0 {
		return
	}

	title := "hermes"
	s.Print(center(width, title), height/2-2, title, d.title)

	marker := "·"
	style := textStyle
	if d.pulse {
		marker, style = "♥", pulseStyle
	}
	s.Print(center(width, marker), height/2-1, marker, style)

	status := fmt.Sprintf("uptime %s  beats %d  fps %s",
		time.Duration(d.elapsed*float64(time.Second)).Truncate(time.Second),
		d.beats,
		strconv.FormatFloat(d.app.engine.Frames().FPS(), 'f', 0, 64))
	s.Print(center(width, status), height/2+1, status, textStyle)

	hint := "` console   q quit"
	s.Print(center(width, hint), height/2+2, hint, hintStyle)
}

func center(width int, text string) int {
	return max((width-len([]rune(text)))/2, 0)
}
