package app

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/dshills/hermes/internal/config"
	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/input"
	"github.com/dshills/hermes/internal/logging"
	"github.com/dshills/hermes/internal/ui"
)

// subscribe wires the application's own handlers under its ID.
func (app *Application) subscribe() {
	event.Subscribe(app.bus, app.id, func(a *input.Action) {
		app.ExecuteCommand(a.Command)
	})
	event.Subscribe(app.bus, app.id, func(c *ui.CommandSubmitted) {
		app.ExecuteCommand(c.Line)
	})
	event.Subscribe(app.bus, app.id, func(r *config.Reloaded) {
		app.applyConfig(r.Config)
	})
	event.Subscribe(app.bus, app.id, func(r *config.ReloadFailed) {
		app.logger.Error("config reload failed, keeping previous settings", zap.Error(r.Err))
	})
}

// HandlerInfo describes a console command.
type HandlerInfo struct {
	Name  string
	Usage string
}

// Commands lists the console commands.
func Commands() []HandlerInfo {
	return []HandlerInfo{
		{Name: "quit", Usage: "quit"},
		{Name: "overlay", Usage: "overlay [on|off]"},
		{Name: "fps", Usage: "fps <target>"},
		{Name: "level", Usage: "level <debug|info|warn|error>"},
		{Name: "echo", Usage: "echo <text>"},
		{Name: "stats", Usage: "stats"},
		{Name: "bind", Usage: "bind <key> <command>"},
		{Name: "unbind", Usage: "unbind <key>"},
		{Name: "keys", Usage: "keys"},
		{Name: "help", Usage: "help"},
	}
}

// ExecuteCommand runs one console line. Results are reported through the
// logger, which the overlay shows as flyouts.
func (app *Application) ExecuteCommand(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "quit", "exit":
		event.Publish(app.bus, events.Quit{Reason: "console"})

	case "overlay":
		on := !app.engine.Overlay()
		if len(args) > 0 {
			on = args[0] == "on"
		}
		app.engine.SetOverlay(on)

	case "fps":
		fps, ok := parseFPS(args)
		if !ok {
			app.logger.Warn("usage: fps <target>")
			return
		}
		app.engine.SetTargetFPS(fps)
		app.logger.Info("target fps changed", zap.Int("fps", fps))

	case "level":
		if len(args) == 0 {
			app.logger.Info("log level", zap.Stringer("level", app.level.Level()))
			return
		}
		app.setLevel(args[0])

	case "echo":
		app.logger.Info(strings.Join(args, " "))

	case "stats":
		s := app.bus.Stats()
		snap := app.engine.Snapshot()
		app.logger.Info("stats",
			zap.Uint64("published", s.Published),
			zap.Uint64("deliveries", s.Deliveries),
			zap.Int("live_ids", s.LiveIDs),
			zap.Int("timers", app.timers.Len()),
			zap.Uint64("frames", snap.FrameCount),
			zap.Float64("fps", snap.FPS))

	case "bind":
		if len(args) < 2 {
			app.logger.Warn("usage: bind <key> <command>")
			return
		}
		if err := app.router.Keymap().Bind(args[0], strings.Join(args[1:], " ")); err != nil {
			app.logger.Warn("bind failed", zap.Error(err))
			return
		}
		app.logger.Info("key bound", zap.String("key", args[0]))

	case "unbind":
		if len(args) != 1 {
			app.logger.Warn("usage: unbind <key>")
			return
		}
		if !app.router.Keymap().Unbind(args[0]) {
			app.logger.Warn("key not bound", zap.String("key", args[0]))
			return
		}
		app.logger.Info("key unbound", zap.String("key", args[0]))

	case "keys":
		bindings := app.router.Keymap().Bindings()
		parts := make([]string, 0, len(bindings))
		for _, kb := range bindings {
			parts = append(parts, kb.Keys+"="+kb.Command)
		}
		app.logger.Info(strings.Join(parts, " | "))

	case "help":
		usages := make([]string, 0, len(Commands()))
		for _, c := range Commands() {
			usages = append(usages, c.Usage)
		}
		app.logger.Info(strings.Join(usages, " | "))

	default:
		app.logger.Warn("unknown command", zap.String("command", name))
	}
}

// applyConfig applies the settings that can change while running.
func (app *Application) applyConfig(cfg config.Config) {
	app.engine.SetOverlay(cfg.Engine.Overlay)
	app.engine.SetTargetFPS(cfg.Engine.TargetFPS)
	app.demo.setAccent(cfg.Engine.AccentColor)

	// Command line levels win over the file.
	if app.opts.LogLevel == "" && !app.opts.Debug {
		app.setLevel(cfg.Log.Level)
		app.config.Log.Level = cfg.Log.Level
	}
	app.config.Engine = cfg.Engine

	km, err := input.KeymapFromMap(cfg.Keys)
	if err != nil {
		app.logger.Error("invalid key bindings, keeping previous keymap", zap.Error(err))
	} else {
		app.router.SetKeymap(km)
		app.config.Keys = cfg.Keys
	}
	app.logger.Info("config applied",
		zap.Bool("overlay", cfg.Engine.Overlay),
		zap.Int("target_fps", cfg.Engine.TargetFPS))
}

func (app *Application) setLevel(name string) {
	level, err := logging.ParseLevel(name)
	if err != nil {
		app.logger.Warn("invalid log level", zap.Error(err))
		return
	}
	app.level.SetLevel(level)
}

func parseFPS(args []string) (int, bool) {
	if len(args) != 1 {
		return 0, false
	}
	fps, err := strconv.Atoi(args[0])
	if err != nil || fps < 0 {
		return 0, false
	}
	return fps, true
}
