// Package config loads runtime settings for hermes.
//
// Settings are resolved in three layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment (HERMES_*)  │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Config file (TOML/YAML) │
//	├─────────────────────────────┤
//	│  1. Built-in defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied by the caller after Load returns.
//
// # Basic Usage
//
//	cfg, err := config.Load("hermes.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(cfg.Engine.TargetFPS)
//
// # Live Reload
//
// A Watcher follows the config file with fsnotify. After a change settles
// it reloads the file and posts Reloaded, or ReloadFailed, to the bus
// inbox so the bus owner applies the new settings on its own goroutine:
//
//	w, err := config.NewWatcher(path, bus.Inbox(), config.WithWatchLogger(logger))
//	...
//	event.Subscribe(bus, id, func(r *config.Reloaded) { apply(r.Config) })
package config
