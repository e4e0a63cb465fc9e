package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/tools"
)

// fakeTools is a ToolReader whose settings tests change directly.
type fakeTools struct{ s tools.Settings }

func (f *fakeTools) Snapshot() tools.Settings { return f.s }

func newTestSession(s tools.Settings) (*Session, *fakeTools) {
	ft := &fakeTools{s: s}
	return NewSession(NewCanvas(), ft), ft
}

var redPen = tools.Settings{Kind: tools.Pen, Color: "#FF0000", Width: 5}

func TestPenScenario(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{10, 10})
	s.Move(Point{20, 20})
	s.Move(Point{30, 10})
	s.End()

	strokes := s.Canvas().Strokes()
	require.Len(t, strokes, 1)
	st := strokes[0]
	assert.Equal(t, []Point{{10, 10}, {20, 20}, {30, 10}}, st.Points)
	assert.Equal(t, "#FF0000", st.Color)
	assert.Equal(t, float32(5), st.Width)
	assert.Equal(t, ModeDraw, st.Mode)
	assert.False(t, st.Active())
	assert.NotEmpty(t, st.ID)
	assert.Equal(t, uint64(1), st.Seq)
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestEraserScenario(t *testing.T) {
	s, _ := newTestSession(tools.Settings{Kind: tools.Eraser, Color: "#FF0000", Width: 5})

	s.Begin(Point{10, 10})
	s.Move(Point{20, 20})
	s.Move(Point{30, 10})
	s.End()

	strokes := s.Canvas().Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, ModeErase, strokes[0].Mode)
}

func TestSinglePointStroke(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{5, 5})
	s.End()

	strokes := s.Canvas().Strokes()
	require.Len(t, strokes, 1)
	assert.Equal(t, []Point{{5, 5}}, strokes[0].Points)
}

func TestPointCountIsMovesPlusTwo(t *testing.T) {
	for n := 0; n < 50; n += 7 {
		s, _ := newTestSession(redPen)

		s.Begin(Point{0, 0})
		want := []Point{{0, 0}}
		for i := 1; i <= n+1; i++ {
			p := Point{float32(i), float32(i * 2)}
			s.Move(p)
			want = append(want, p)
		}
		s.End()

		strokes := s.Canvas().Strokes()
		require.Len(t, strokes, 1)
		assert.Len(t, strokes[0].Points, n+2)
		assert.Equal(t, want, strokes[0].Points)
	}
}

func TestDuplicatePointsAreKept(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{1, 1})
	s.Move(Point{1, 1})
	s.Move(Point{1, 1})
	s.End()

	assert.Len(t, s.Canvas().Strokes()[0].Points, 3)
}

func TestClearMidGesture(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{1, 1})
	s.Move(Point{2, 2})
	s.Clear()
	assert.True(t, s.Canvas().IsEmpty())

	s.Move(Point{3, 3})
	s.End()

	assert.True(t, s.Canvas().IsEmpty())
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestClearOnCanvasMidGesture(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{1, 1})
	s.Canvas().Clear()

	s.Move(Point{3, 3})
	s.End()

	assert.True(t, s.Canvas().IsEmpty())
	assert.Equal(t, PhaseIdle, s.Phase())
}

func TestClearAfterBeginWithoutEnd(t *testing.T) {
	s, _ := newTestSession(redPen)
	s.Begin(Point{1, 1})
	s.Clear()
	assert.True(t, s.Canvas().IsEmpty())
}

func TestIdleSignalsAreNoOps(t *testing.T) {
	s, _ := newTestSession(redPen)
	var changes int
	s.Canvas().OnChange(func(Change) { changes++ })

	assert.NotPanics(t, func() {
		s.Move(Point{1, 1})
		s.End()
		s.End()
	})
	assert.True(t, s.Canvas().IsEmpty())
	assert.Zero(t, changes)

	s.Begin(Point{1, 1})
	s.End()
	before := s.Canvas().Strokes()
	s.Move(Point{9, 9})
	s.End()
	assert.Equal(t, before, s.Canvas().Strokes())
}

func TestToolSnapshotAtBegin(t *testing.T) {
	s, ft := newTestSession(redPen)

	s.Begin(Point{0, 0})
	ft.s = tools.Settings{Kind: tools.Eraser, Color: "#0000FF", Width: 20}
	s.Move(Point{1, 1})

	active := s.Canvas().Snapshot().Strokes[0]
	assert.True(t, active.Active())
	assert.Equal(t, ModeDraw, active.Mode)
	assert.Equal(t, "#FF0000", active.Color)
	assert.Equal(t, float32(5), active.Width)

	s.End()
	s.Begin(Point{5, 5})
	s.End()

	strokes := s.Canvas().Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, ModeDraw, strokes[0].Mode)
	assert.Equal(t, ModeErase, strokes[1].Mode)
	assert.Equal(t, "#0000FF", strokes[1].Color)
}

func TestWidthIsClamped(t *testing.T) {
	for _, w := range []float32{0, -3, float32(math.NaN())} {
		s, _ := newTestSession(tools.Settings{Kind: tools.Pen, Color: "#000000", Width: w})
		s.Begin(Point{0, 0})
		s.End()
		assert.Equal(t, MinStrokeWidth, s.Canvas().Strokes()[0].Width)
	}
}

func TestHugeWidthIsCapped(t *testing.T) {
	for _, w := range []float32{80, float32(math.Inf(1))} {
		s, _ := newTestSession(tools.Settings{Kind: tools.Pen, Color: "#000000", Width: w})
		s.Begin(Point{0, 0})
		s.End()
		assert.Equal(t, MaxStrokeWidth, s.Canvas().Strokes()[0].Width)
	}
}

func TestBeginWhileDrawingCompletesPrevious(t *testing.T) {
	s, _ := newTestSession(redPen)

	s.Begin(Point{0, 0})
	s.Move(Point{1, 1})
	s.Begin(Point{5, 5})
	s.Move(Point{6, 6})
	s.End()

	strokes := s.Canvas().Strokes()
	require.Len(t, strokes, 2)
	assert.Equal(t, []Point{{0, 0}, {1, 1}}, strokes[0].Points)
	assert.Equal(t, []Point{{5, 5}, {6, 6}}, strokes[1].Points)
	assert.False(t, strokes[0].Active())
	assert.False(t, strokes[1].Active())
	assert.Less(t, strokes[0].Seq, strokes[1].Seq)
}
