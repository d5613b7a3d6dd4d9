package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/dshills/hermes/internal/config"
	"github.com/dshills/hermes/internal/event"
	"github.com/dshills/hermes/internal/event/events"
	"github.com/dshills/hermes/internal/platform"
)

func newTestApp(t *testing.T, opts Options) (*Application, *platform.Null) {
	t.Helper()
	null := platform.NewNull(60, 12)
	opts.Backend = null
	opts.Logger = zap.NewNop()
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown(context.Background()) })
	return app, null
}

func runApp(t *testing.T, app *Application) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := app.Run(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("Run did not stop")
	}
	return err
}

func typeText(null *platform.Null, text string) {
	for _, r := range text {
		if r == '\n' {
			platform.Inject(null, events.Key{Code: events.KeyEnter})
			continue
		}
		platform.Inject(null, events.Key{Code: events.KeyRune, Rune: r})
	}
}

func TestQuitKey(t *testing.T) {
	app, null := newTestApp(t, Options{Debug: true})

	typeText(null, "q")
	if err := runApp(t, app); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if null.Initialized() {
		t.Error("backend still initialized after Run returned")
	}
}

func TestConsoleQuit(t *testing.T) {
	app, null := newTestApp(t, Options{})

	// q typed inside the console is text, not the quit key.
	typeText(null, "`quit\n")
	if err := runApp(t, app); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := app.Console().History(); len(got) != 1 || got[0] != "quit" {
		t.Errorf("console history = %q", got)
	}
}

func TestRunTwice(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	app.running.Store(true)
	if err := app.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("Run() error = %v, want ErrAlreadyRunning", err)
	}
	app.running.Store(false)
}

func TestRunCanceled(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := app.Run(ctx); err != nil {
		t.Errorf("Run() error = %v, want nil after cancel", err)
	}
}

func TestExecuteCommand(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.ExecuteCommand("overlay on")
	if !app.Engine().Overlay() {
		t.Error("overlay on did not enable the overlay")
	}
	app.ExecuteCommand("overlay")
	if app.Engine().Overlay() {
		t.Error("overlay did not toggle")
	}

	app.ExecuteCommand("fps 30")
	if got := app.Engine().TargetFPS(); got != 30 {
		t.Errorf("TargetFPS = %d, want 30", got)
	}
	app.ExecuteCommand("fps fast")
	if got := app.Engine().TargetFPS(); got != 30 {
		t.Errorf("TargetFPS = %d after bad fps command", got)
	}

	app.ExecuteCommand("level error")
	if got := app.level.Level(); got != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error", got)
	}

	var quits int
	id := app.Bus().AcquireID()
	event.Subscribe(app.Bus(), id, func(*events.Quit) { quits++ })
	app.ExecuteCommand("  QUIT  ")
	if quits != 1 {
		t.Errorf("quits = %d, want 1", quits)
	}
	app.Bus().ReleaseID(id)
}

func TestEchoBecomesFlyout(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	app.ExecuteCommand("echo hello there")
	app.ExecuteCommand("bogus")
	app.Bus().Drain()

	flyouts := app.Engine().Flyouts()
	if len(flyouts) != 2 {
		t.Fatalf("Flyouts() = %+v, want 2", flyouts)
	}
	if !strings.Contains(flyouts[0].Text, "unknown command") || flyouts[0].Level != zapcore.WarnLevel {
		t.Errorf("newest flyout = %+v", flyouts[0])
	}
	if !strings.Contains(flyouts[1].Text, "hello there") {
		t.Errorf("echo flyout = %+v", flyouts[1])
	}
}

func TestDebugLogsStayOutOfFlyouts(t *testing.T) {
	app, _ := newTestApp(t, Options{Debug: true})

	app.Logger().Debug("noise")
	app.Bus().Drain()
	if n := len(app.Engine().Flyouts()); n != 0 {
		t.Errorf("debug entry produced %d flyouts", n)
	}
}

func TestConfigReloadApplied(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	cfg := config.Default()
	cfg.Engine.Overlay = true
	cfg.Engine.TargetFPS = 24
	cfg.Log.Level = "warn"
	cfg.Engine.AccentColor = "#ff0000"
	event.Publish(app.Bus(), config.Reloaded{Config: cfg, Path: "hermes.toml"})

	if !app.Engine().Overlay() {
		t.Error("overlay not applied")
	}
	if app.Engine().TargetFPS() != 24 {
		t.Errorf("TargetFPS = %d, want 24", app.Engine().TargetFPS())
	}
	if app.level.Level() != zapcore.WarnLevel {
		t.Errorf("level = %v, want warn", app.level.Level())
	}
	if app.Config().Log.Level != "warn" {
		t.Errorf("Config().Log.Level = %q", app.Config().Log.Level)
	}
	if r, g, b := app.demo.title.Foreground.Components(); r != 0xff || g != 0 || b != 0 {
		t.Errorf("accent = %02x%02x%02x, want ff0000", r, g, b)
	}
}

func TestConfigReloadKeepsFlagLevel(t *testing.T) {
	app, _ := newTestApp(t, Options{LogLevel: "error"})

	cfg := config.Default()
	cfg.Log.Level = "debug"
	event.Publish(app.Bus(), config.Reloaded{Config: cfg})

	if app.level.Level() != zapcore.ErrorLevel {
		t.Errorf("level = %v, flag level should win", app.level.Level())
	}
}

func TestNewWithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hermes.yaml")
	content := "engine:\n  overlay: true\n  target_fps: 0\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	app, _ := newTestApp(t, Options{ConfigPath: path})
	if !app.Engine().Overlay() {
		t.Error("overlay from file not applied")
	}
	if app.watcher == nil {
		t.Error("config watcher not started")
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		component string
	}{
		{"missing config", Options{ConfigPath: filepath.Join(t.TempDir(), "none.toml")}, "config"},
		{"bad level", Options{LogLevel: "chatty"}, "config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.Backend = platform.NewNull(10, 10)
			tt.opts.Logger = zap.NewNop()
			_, err := New(tt.opts)
			var ie *InitError
			if !errors.As(err, &ie) {
				t.Fatalf("New() error = %v, want *InitError", err)
			}
			if ie.Component != tt.component {
				t.Errorf("Component = %q, want %q", ie.Component, tt.component)
			}
		})
	}
}

func TestShutdownReleasesEverything(t *testing.T) {
	app, _ := newTestApp(t, Options{Debug: true})
	bus := app.Bus()

	if err := app.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if got := bus.Stats().LiveIDs; got != 0 {
		t.Errorf("LiveIDs = %d after Shutdown, want 0", got)
	}
	if err := app.Shutdown(context.Background()); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
	if err := app.Run(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Run() after Shutdown error = %v, want ErrClosed", err)
	}
}

func TestDemoDraws(t *testing.T) {
	app, null := newTestApp(t, Options{})

	typeText(null, "q")
	if err := runApp(t, app); err != nil {
		t.Fatal(err)
	}
	if !null.Contains("hermes") {
		t.Error("title not drawn")
	}
	if !null.Contains("beats 1") {
		t.Error("first heartbeat not shown")
	}
	if null.Presented() == 0 {
		t.Error("nothing presented")
	}
}

func TestKeyBindings(t *testing.T) {
	app, _ := newTestApp(t, Options{})
	press := func(k events.Key) {
		event.Publish(app.Bus(), events.Raw{Native: k})
		event.Publish(app.Bus(), k)
	}

	press(events.Key{Code: events.KeyRune, Rune: 'o', Mod: events.ModCtrl})
	if !app.Engine().Overlay() {
		t.Fatal("ctrl+o did not toggle the overlay")
	}

	app.ExecuteCommand("bind F5 fps 15")
	press(events.Key{Code: events.KeyF5})
	if got := app.Engine().TargetFPS(); got != 15 {
		t.Errorf("TargetFPS = %d after F5, want 15", got)
	}

	app.ExecuteCommand("unbind ctrl+o")
	press(events.Key{Code: events.KeyRune, Rune: 'o', Mod: events.ModCtrl})
	if !app.Engine().Overlay() {
		t.Error("unbound key still toggles the overlay")
	}

	app.ExecuteCommand("bind hyper+x quit")
	if _, ok := app.Router().Keymap().Lookup(events.Key{Code: events.KeyRune, Rune: 'x'}); ok {
		t.Error("invalid bind was applied")
	}
}

func TestConfigReloadKeys(t *testing.T) {
	app, _ := newTestApp(t, Options{})

	cfg := config.Default()
	cfg.Keys = map[string]string{"F2": "overlay on"}
	event.Publish(app.Bus(), config.Reloaded{Config: cfg})

	km := app.Router().Keymap()
	if km.Len() != 1 {
		t.Fatalf("keymap has %d bindings, want 1", km.Len())
	}
	if cmd, _ := km.Lookup(events.Key{Code: events.KeyF2}); cmd != "overlay on" {
		t.Errorf("F2 = %q", cmd)
	}

	cfg.Keys = map[string]string{"hyper+x": "quit"}
	event.Publish(app.Bus(), config.Reloaded{Config: cfg})
	if app.Router().Keymap().Len() != 1 {
		t.Error("invalid keys replaced the keymap")
	}
}
