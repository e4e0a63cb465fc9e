// Package config loads the application's TOML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"LocalSketch/internal/logging"
	"LocalSketch/internal/tools"
)

const (
	appDir   = "localsketch"
	fileName = "config.toml"
)

// ErrInvalid wraps every validation failure returned by Validate.
var ErrInvalid = errors.New("invalid configuration")

type Window struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

type Canvas struct {
	Background string  `toml:"background"`
	Grid       float32 `toml:"grid"`
	GridColor  string  `toml:"grid_color"`
	Tension    float64 `toml:"tension"`
}

type Tool struct {
	Kind  string  `toml:"kind"`
	Color string  `toml:"color"`
	Width float32 `toml:"width"`
}

type Log struct {
	Level string `toml:"level"`
}

// Config mirrors config.toml.
type Config struct {
	Window Window `toml:"window"`
	Canvas Canvas `toml:"canvas"`
	Tool   Tool   `toml:"tool"`
	Log    Log    `toml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Window: Window{Title: "LocalSketch", Width: 1024, Height: 768},
		Canvas: Canvas{Background: "#FFFFFF", GridColor: "#E0E0E0", Tension: 0.5},
		Tool: Tool{
			Kind:  string(tools.Defaults.Kind),
			Color: tools.Defaults.Color,
			Width: tools.Defaults.Width,
		},
		Log: Log{Level: "info"},
	}
}

// DefaultPath is $XDG_CONFIG_HOME/localsketch/config.toml or its platform
// equivalent.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(dir, appDir, fileName)
}

// Load reads path over the defaults. A missing file is not an error.
// Keys absent from the file keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		logging.L().Info("no config file, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return Default(), fmt.Errorf("reading config %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		logging.L().Warn("unknown config key", "key", k.String(), "path", path)
	}
	return cfg, nil
}

// Validate checks every field. It returns an error wrapping ErrInvalid that
// lists all problems found.
func (c Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		add("window size %gx%g must be positive", c.Window.Width, c.Window.Height)
	}
	if !tools.ValidColor(c.Canvas.Background) {
		add("canvas.background %q is not a hex color", c.Canvas.Background)
	}
	if c.Canvas.Grid < 0 {
		add("canvas.grid %g must not be negative", c.Canvas.Grid)
	}
	if c.Canvas.Grid > 0 && !tools.ValidColor(c.Canvas.GridColor) {
		add("canvas.grid_color %q is not a hex color", c.Canvas.GridColor)
	}
	if c.Canvas.Tension < 0 || c.Canvas.Tension > 1 {
		add("canvas.tension %g must be within [0, 1]", c.Canvas.Tension)
	}
	if _, err := tools.ParseKind(c.Tool.Kind); err != nil {
		add("tool.kind: %v", err)
	}
	if !tools.ValidColor(c.Tool.Color) {
		add("tool.color %q is not a hex color", c.Tool.Color)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		add("log.level: %v", err)
	}

	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}

// ToolSettings converts the [tool] table. An unknown kind becomes pen.
func (c Config) ToolSettings() tools.Settings {
	k, _ := tools.ParseKind(c.Tool.Kind)
	return tools.Settings{Kind: k, Color: c.Tool.Color, Width: c.Tool.Width}
}

// Write stores c at path, creating the directory if needed.
func Write(path string, c Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
