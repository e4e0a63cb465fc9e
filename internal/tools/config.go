// Package tools holds the current drawing tool: which tool is selected,
// its color and its stroke width. The toolbar writes it, the stroke
// capture session reads it at the start of every gesture.
package tools

import (
	"fmt"
	"math"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/data/binding"

	"LocalSketch/internal/logging"
)

// Kind names a drawing tool.
type Kind string

const (
	Pen    Kind = "pen"
	Eraser Kind = "eraser"
)

// ParseKind accepts "pen" and "eraser" in any case.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Pen, Eraser:
		return k, nil
	}
	return Pen, fmt.Errorf("unknown tool %q", s)
}

// Settings is a point-in-time copy of the tool configuration.
type Settings struct {
	Kind  Kind
	Color string
	Width float32
}

// Defaults match the toolbar's initial state.
var Defaults = Settings{Kind: Pen, Color: "#222222", Width: 3}

const (
	prefKind  = "tool.kind"
	prefColor = "tool.color"
	prefWidth = "tool.width"
)

// Config is the mutable tool store. Values live in Fyne data bindings so
// widgets can bind to them directly and listeners see every change.
type Config struct {
	kind  binding.String
	color binding.String
	width binding.Float
}

// New returns an in-memory configuration seeded with initial.
func New(initial Settings) *Config {
	c := &Config{
		kind:  binding.NewString(),
		color: binding.NewString(),
		width: binding.NewFloat(),
	}
	c.Apply(initial)
	return c
}

// NewWithPreferences binds the configuration to p so the last tool choice
// survives a restart. Keys that are not stored yet take their value from
// initial.
func NewWithPreferences(p fyne.Preferences, initial Settings) *Config {
	c := &Config{
		kind:  binding.BindPreferenceString(prefKind, p),
		color: binding.BindPreferenceString(prefColor, p),
		width: binding.BindPreferenceFloat(prefWidth, p),
	}
	if p.String(prefKind) == "" {
		c.SetKind(initial.Kind)
	}
	if p.String(prefColor) == "" {
		c.SetColor(initial.Color)
	}
	if p.Float(prefWidth) <= 0 {
		c.SetWidth(initial.Width)
	}
	return c
}

// Snapshot reads all three values at once. Unreadable or invalid stored
// values fall back to Defaults.
func (c *Config) Snapshot() Settings {
	s := Defaults
	if v, err := c.kind.Get(); err == nil {
		if k, err := ParseKind(v); err == nil {
			s.Kind = k
		}
	}
	if v, err := c.color.Get(); err == nil && ValidColor(v) {
		s.Color = v
	}
	if v, err := c.width.Get(); err == nil {
		s.Width = float32(v)
	}
	return s
}

// Apply sets every field of s. Invalid fields are skipped.
func (c *Config) Apply(s Settings) {
	c.SetKind(s.Kind)
	c.SetColor(s.Color)
	c.SetWidth(s.Width)
}

func (c *Config) SetKind(k Kind) {
	if _, err := ParseKind(string(k)); err != nil {
		logging.L().Warn("ignoring tool kind", "kind", k)
		return
	}
	_ = c.kind.Set(string(k))
}

func (c *Config) SetColor(hex string) {
	if !ValidColor(hex) {
		logging.L().Warn("ignoring tool color", "color", hex)
		return
	}
	_ = c.color.Set(NormalizeColor(hex))
}

// SetWidth stores w as given. Clamping happens where a stroke is created,
// not here, so the store always reflects what the user asked for.
func (c *Config) SetWidth(w float32) {
	if math.IsNaN(float64(w)) {
		return
	}
	_ = c.width.Set(float64(w))
}

// AddListener calls fn with a fresh snapshot whenever any value changes.
func (c *Config) AddListener(fn func(Settings)) {
	l := binding.NewDataListener(func() { fn(c.Snapshot()) })
	c.kind.AddListener(l)
	c.color.AddListener(l)
	c.width.AddListener(l)
}

// Bindings expose the raw values for widgets that bind directly.
func (c *Config) ColorBinding() binding.String { return c.color }
func (c *Config) WidthBinding() binding.Float  { return c.width }

// ValidColor reports whether s is a #RRGGBB or #RRGGBBAA hex color.
func ValidColor(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return false
	}
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

// NormalizeColor returns s upper-cased with a leading '#'.
func NormalizeColor(s string) string {
	return "#" + strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
}
