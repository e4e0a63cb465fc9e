package state

import (
	"sync"
	"time"

	"LocalSketch/internal/logging"
)

// Point is a position in canvas-local logical units.
type Point struct{ X, Y float32 }

// Mode decides how a stroke combines with what is already on the canvas.
type Mode int

const (
	// ModeDraw paints the stroke's color over existing pixels.
	ModeDraw Mode = iota
	// ModeErase removes existing pixels wherever the stroke passes.
	ModeErase
)

func (m Mode) String() string {
	switch m {
	case ModeDraw:
		return "draw"
	case ModeErase:
		return "erase"
	}
	return "unknown"
}

// Stroke is one pen-down to pen-up gesture. Color, Width and Mode are
// fixed when the stroke is created; Points only grows, and only while the
// stroke is active.
type Stroke struct {
	ID     string
	Seq    uint64
	Time   time.Time
	Points []Point
	Color  string
	Width  float32
	Mode   Mode

	active bool
}

// Active reports whether the stroke was still receiving points when this
// copy was taken.
func (s Stroke) Active() bool { return s.active }

// ChangeKind tells subscribers what happened to the canvas.
type ChangeKind int

const (
	ChangeAppend ChangeKind = iota
	ChangePoint
	ChangeComplete
	ChangeClear
)

// Change is delivered to OnChange subscribers after every mutation.
type Change struct {
	Kind  ChangeKind
	Epoch uint64
	Len   int
}

// Snapshot is a read view of the canvas. Stroke headers are copies; each
// Points slice aliases the canvas buffer up to the length it had when the
// snapshot was taken, and those elements are never rewritten.
type Snapshot struct {
	Epoch   uint64
	Strokes []Stroke
}

// Canvas is the ordered stroke list. Later strokes paint on top of earlier
// ones. At most one stroke is active and it is always the last.
type Canvas struct {
	mu        sync.RWMutex
	strokes   []*Stroke
	epoch     uint64
	listeners []func(Change)
}

func NewCanvas() *Canvas {
	return &Canvas{strokes: make([]*Stroke, 0, 64)}
}

// OnChange registers fn to run after every mutation, on the goroutine
// that made it. fn must not mutate the canvas.
func (c *Canvas) OnChange(fn func(Change)) {
	c.mu.Lock()
	c.listeners = append(c.listeners, fn)
	c.mu.Unlock()
}

func (c *Canvas) notify(kind ChangeKind) {
	c.mu.RLock()
	ch := Change{Kind: kind, Epoch: c.epoch, Len: len(c.strokes)}
	listeners := c.listeners
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(ch)
	}
}

// Append adds s as the new active stroke and returns its ID. A stroke that
// is still active is completed first, so the single-active invariant holds
// whatever the caller does.
func (c *Canvas) Append(s Stroke) string {
	c.mu.Lock()
	if n := len(c.strokes); n > 0 && c.strokes[n-1].active {
		c.strokes[n-1].active = false
		logging.L().Warn("completing dangling active stroke", "id", c.strokes[n-1].ID)
	}
	s.active = true
	c.strokes = append(c.strokes, &s)
	c.mu.Unlock()

	c.notify(ChangeAppend)
	return s.ID
}

// MutateActive appends p to the active stroke. It reports false and
// changes nothing when there is no active stroke.
func (c *Canvas) MutateActive(p Point) bool {
	c.mu.Lock()
	last := c.activeLocked()
	if last == nil {
		c.mu.Unlock()
		return false
	}
	last.Points = append(last.Points, p)
	c.mu.Unlock()

	c.notify(ChangePoint)
	return true
}

// CompleteActive freezes the active stroke. It reports false when there
// is none.
func (c *Canvas) CompleteActive() bool {
	c.mu.Lock()
	last := c.activeLocked()
	if last == nil {
		c.mu.Unlock()
		return false
	}
	last.active = false
	c.mu.Unlock()

	c.notify(ChangeComplete)
	return true
}

// ActiveID returns the ID of the active stroke, or "" if there is none.
func (c *Canvas) ActiveID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if last := c.activeLocked(); last != nil {
		return last.ID
	}
	return ""
}

func (c *Canvas) activeLocked() *Stroke {
	n := len(c.strokes)
	if n == 0 || !c.strokes[n-1].active {
		return nil
	}
	return c.strokes[n-1]
}

// Clear drops every stroke, including an active one, and starts a new
// epoch.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.strokes = make([]*Stroke, 0, 64)
	c.epoch++
	c.mu.Unlock()

	c.notify(ChangeClear)
}

func (c *Canvas) IsEmpty() bool {
	return c.Len() == 0
}

func (c *Canvas) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.strokes)
}

func (c *Canvas) Epoch() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.epoch
}

// Snapshot returns a read view in O(number of strokes).
func (c *Canvas) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{Epoch: c.epoch, Strokes: make([]Stroke, len(c.strokes))}
	for i, s := range c.strokes {
		snap.Strokes[i] = *s
		snap.Strokes[i].Points = s.Points[:len(s.Points):len(s.Points)]
	}
	return snap
}

// Strokes returns deep copies of all strokes.
func (c *Canvas) Strokes() []Stroke {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Stroke, len(c.strokes))
	for i, s := range c.strokes {
		out[i] = *s
		out[i].Points = append([]Point(nil), s.Points...)
	}
	return out
}
