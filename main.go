package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"fyne.io/fyne/v2"
	"github.com/gogpu/gg"

	"LocalSketch/internal/config"
	"LocalSketch/internal/logging"
	"LocalSketch/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", config.DefaultPath(), "Path to config.toml")
	logLevel := flag.String("log-level", "", "Override log.level from the config file")
	initConfig := flag.Bool("init", false, "Write the default config to -config and exit")
	noWatch := flag.Bool("no-watch", false, "Do not reload the config file when it changes")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	logging.SetLogger(logger)
	gg.SetLogger(logger.With("component", "gg"))

	if *initConfig {
		if err := config.Write(*configPath, config.Default()); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write config: %v\n", err)
			return 1
		}
		fmt.Printf("Wrote default config to %s\n", *configPath)
		return 0
	}

	cfg := loadConfig(*configPath)
	setLevel(level, cfg.Log.Level, *logLevel)

	var watcher *config.Watcher
	ui.RunApp(cfg, func(ws *ui.Workspace) {
		if *noWatch {
			return
		}
		w, err := config.Watch(*configPath, config.DefaultDebounce, func(c config.Config) {
			setLevel(level, c.Log.Level, *logLevel)
			fyne.Do(func() { ws.ApplyConfig(c) })
		})
		if err != nil {
			logger.Warn("config reload disabled", "err", err)
			return
		}
		watcher = w
	})
	if watcher != nil {
		watcher.Stop()
	}
	return 0
}

// loadConfig never fails: a broken file falls back to the defaults.
func loadConfig(path string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logging.L().Warn("using default config", "err", err)
		return config.Default()
	}
	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrInvalid) {
			logging.L().Warn("using default config", "path", path, "err", err)
		}
		return config.Default()
	}
	return cfg
}

// setLevel applies override if set, else the configured level.
func setLevel(v *slog.LevelVar, configured, override string) {
	name := configured
	if override != "" {
		name = override
	}
	l, err := logging.ParseLevel(name)
	if err != nil {
		logging.L().Warn("bad log level, keeping current", "level", name)
		return
	}
	v.Set(l)
}
