package state

import (
	"LocalSketch/internal/logging"
	"LocalSketch/internal/tools"
)

// Stroke widths are clamped to [MinStrokeWidth, MaxStrokeWidth] when a
// stroke is created. Non-positive and NaN widths become MinStrokeWidth.
const (
	MinStrokeWidth float32 = 1
	MaxStrokeWidth float32 = 50
)

// Phase is the state of the capture machine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDrawing
)

func (p Phase) String() string {
	if p == PhaseDrawing {
		return "drawing"
	}
	return "idle"
}

// ToolReader is the read side of the tool configuration.
type ToolReader interface {
	Snapshot() tools.Settings
}

// Session turns begin/move/end signals into strokes on a Canvas.
//
//	Idle    --Begin(p)--> Drawing   new active stroke [p]
//	Drawing --Move(p)---> Drawing   append p
//	Drawing --End()-----> Idle      complete the stroke
//
// Move and End are ignored while Idle. Tool settings are read once per
// gesture, at Begin. A Session must only be used from one goroutine.
type Session struct {
	canvas *Canvas
	tools  ToolReader
	clock  *Clock

	phase    Phase
	activeID string
}

func NewSession(canvas *Canvas, tr ToolReader) *Session {
	return &Session{canvas: canvas, tools: tr, clock: NewClock()}
}

func (s *Session) Phase() Phase     { return s.phase }
func (s *Session) Canvas() *Canvas  { return s.canvas }
func (s *Session) Clock() *Clock    { return s.clock }
func (s *Session) ActiveID() string { return s.activeID }

// Begin starts a gesture at p. A gesture that never saw its End is
// completed first.
func (s *Session) Begin(p Point) {
	if s.phase == PhaseDrawing {
		logging.L().Debug("begin while drawing, ending previous gesture", "id", s.activeID)
		s.End()
	}

	st := newStroke(s.tools.Snapshot(), p)
	s.clock.Stamp(&st)
	s.activeID = s.canvas.Append(st)
	s.phase = PhaseDrawing

	logging.L().Debug("stroke begun", "id", st.ID, "seq", st.Seq, "mode", st.Mode, "color", st.Color, "width", st.Width)
}

// Move extends the active stroke with p.
func (s *Session) Move(p Point) {
	if s.phase != PhaseDrawing {
		return
	}
	if s.canvas.ActiveID() != s.activeID {
		// The canvas was cleared under us; the rest of the gesture is void.
		return
	}
	s.canvas.MutateActive(p)
}

// End completes the active stroke and returns to Idle.
func (s *Session) End() {
	if s.phase != PhaseDrawing {
		return
	}
	if s.canvas.ActiveID() == s.activeID {
		s.canvas.CompleteActive()
		logging.L().Debug("stroke completed", "id", s.activeID)
	}
	s.phase = PhaseIdle
	s.activeID = ""
}

// Clear empties the canvas and abandons any gesture in progress.
func (s *Session) Clear() {
	s.canvas.Clear()
	s.phase = PhaseIdle
	s.activeID = ""
	logging.L().Info("canvas cleared", "epoch", s.canvas.Epoch())
}

func newStroke(t tools.Settings, p Point) Stroke {
	w := t.Width
	switch {
	case !(w >= MinStrokeWidth):
		w = MinStrokeWidth
	case w > MaxStrokeWidth:
		w = MaxStrokeWidth
	}
	mode := ModeDraw
	if t.Kind == tools.Eraser {
		mode = ModeErase
	}
	return Stroke{
		Points: []Point{p},
		Color:  t.Color,
		Width:  w,
		Mode:   mode,
	}
}
