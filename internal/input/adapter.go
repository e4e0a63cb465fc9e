// Package input turns raw mouse and touch events into the three signals
// the stroke capture session understands: Begin, Move and End.
package input

import (
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"LocalSketch/internal/logging"
	"LocalSketch/internal/state"
)

// Kind is the raw event type.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Leave
	Cancel
)

// Device is the kind of pointer that produced an event.
type Device int

const (
	Mouse Device = iota
	Touch
)

func (d Device) String() string {
	if d == Touch {
		return "touch"
	}
	return "mouse"
}

// Event is one raw pointer event in widget coordinates. Button is only
// meaningful for mouse Down and Up events.
type Event struct {
	Kind     Kind
	Device   Device
	Button   desktop.MouseButton
	Position fyne.Position
}

// Sink receives the normalized signals.
type Sink interface {
	Begin(p state.Point)
	Move(p state.Point)
	End()
}

// Resolver maps a widget position to a canvas point. It reports false when
// the position cannot be resolved.
type Resolver func(fyne.Position) (state.Point, bool)

// SizeResolver resolves positions against a surface whose current size is
// returned by size. Nothing resolves until the surface has been laid out.
func SizeResolver(size func() fyne.Size) Resolver {
	return func(pos fyne.Position) (state.Point, bool) {
		s := size()
		if s.Width <= 0 || s.Height <= 0 {
			return state.Point{}, false
		}
		if !finite(pos.X) || !finite(pos.Y) {
			return state.Point{}, false
		}
		return state.Point{X: pos.X, Y: pos.Y}, true
	}
}

func finite(f float32) bool {
	return !math.IsNaN(float64(f)) && !math.IsInf(float64(f), 0)
}

// Adapter feeds a Sink from raw events.
type Adapter struct {
	sink    Sink
	resolve Resolver

	// Capture, if set, runs for every touch event before it is translated.
	// Hosts use it to stop native scrolling and zooming.
	Capture func(Event)
}

func NewAdapter(sink Sink, resolve Resolver) *Adapter {
	return &Adapter{sink: sink, resolve: resolve}
}

// Handle translates ev. Events that cannot be resolved are dropped.
func (a *Adapter) Handle(ev Event) {
	if ev.Device == Touch && a.Capture != nil {
		a.Capture(ev)
	}

	switch ev.Kind {
	case Down:
		if ev.Device == Mouse && ev.Button != desktop.MouseButtonPrimary {
			return
		}
		if p, ok := a.point(ev); ok {
			a.sink.Begin(p)
		}
	case Move:
		if p, ok := a.point(ev); ok {
			a.sink.Move(p)
		}
	case Up:
		if ev.Device == Mouse && ev.Button != desktop.MouseButtonPrimary {
			return
		}
		a.sink.End()
	case Leave, Cancel:
		a.sink.End()
	}
}

func (a *Adapter) point(ev Event) (state.Point, bool) {
	p, ok := a.resolve(ev.Position)
	if !ok {
		logging.L().Debug("dropping unresolved pointer event", "device", ev.Device, "kind", ev.Kind, "pos", ev.Position)
	}
	return p, ok
}
