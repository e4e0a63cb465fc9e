package render

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"
)

type settings struct{ s tools.Settings }

func (f *settings) Snapshot() tools.Settings { return f.s }

// gesture replays one gesture through a real session.
func gesture(s *state.Session, pts ...state.Point) {
	s.Begin(pts[0])
	for _, p := range pts[1:] {
		s.Move(p)
	}
	s.End()
}

func alphaAt(img *image.RGBA, x, y int) uint8 {
	return img.RGBAAt(x, y).A
}

func TestDrawStrokeUsesColor(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#FF0000", Width: 5}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 10, Y: 10}, state.Point{X: 20, Y: 10}, state.Point{X: 30, Y: 10})

	img := NewSurface(DefaultOptions()).Render(s.Canvas().Snapshot(), 40, 20, 1)

	c := img.RGBAAt(20, 10)
	assert.Greater(t, c.A, uint8(200))
	assert.Greater(t, c.R, uint8(200))
	assert.Less(t, c.G, uint8(50))
	assert.Zero(t, alphaAt(img, 20, 2), "outside the stroke stays transparent")
}

func TestEraseRemovesPixels(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 10}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 5, Y: 10}, state.Point{X: 35, Y: 10})

	tr.s = tools.Settings{Kind: tools.Eraser, Color: "#FFFFFF", Width: 6}
	gesture(s, state.Point{X: 20, Y: 0}, state.Point{X: 20, Y: 20})

	img := NewSurface(DefaultOptions()).Render(s.Canvas().Snapshot(), 40, 20, 1)

	assert.Less(t, alphaAt(img, 20, 10), uint8(10), "erased pixels become transparent")
	assert.Greater(t, alphaAt(img, 10, 10), uint8(200), "pixels outside the eraser survive")
	assert.Zero(t, alphaAt(img, 20, 1), "eraser paints nothing where there was nothing")
}

func TestEraseOnEmptyCanvasPaintsNothing(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Eraser, Color: "#FFFFFF", Width: 8}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 2, Y: 2}, state.Point{X: 18, Y: 18})

	img := NewSurface(DefaultOptions()).Render(s.Canvas().Snapshot(), 20, 20, 1)
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestSinglePointRendersDot(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#0000FF", Width: 6}}
	s := state.NewSession(state.NewCanvas(), tr)
	s.Begin(state.Point{X: 5, Y: 5})
	s.End()

	var img *image.RGBA
	require.NotPanics(t, func() {
		img = NewSurface(DefaultOptions()).Render(s.Canvas().Snapshot(), 12, 12, 1)
	})
	assert.Greater(t, alphaAt(img, 5, 5), uint8(0))
}

func TestActiveStrokeIsRendered(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 4}}
	s := state.NewSession(state.NewCanvas(), tr)
	surf := NewSurface(DefaultOptions())

	s.Begin(state.Point{X: 2, Y: 10})
	s.Move(state.Point{X: 10, Y: 10})
	img := surf.Render(s.Canvas().Snapshot(), 40, 20, 1)
	assert.Greater(t, alphaAt(img, 6, 10), uint8(200))
	assert.Zero(t, alphaAt(img, 30, 10))

	s.Move(state.Point{X: 35, Y: 10})
	img = surf.Render(s.Canvas().Snapshot(), 40, 20, 1)
	assert.Greater(t, alphaAt(img, 30, 10), uint8(200))

	s.End()
	img = surf.Render(s.Canvas().Snapshot(), 40, 20, 1)
	assert.Greater(t, alphaAt(img, 30, 10), uint8(200))
	assert.Equal(t, 1, surf.baked)
}

func TestClearResetsCache(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 4}}
	s := state.NewSession(state.NewCanvas(), tr)
	surf := NewSurface(DefaultOptions())

	gesture(s, state.Point{X: 2, Y: 10}, state.Point{X: 30, Y: 10})
	img := surf.Render(s.Canvas().Snapshot(), 40, 20, 1)
	require.Greater(t, alphaAt(img, 10, 10), uint8(200))

	s.Clear()
	img = surf.Render(s.Canvas().Snapshot(), 40, 20, 1)
	assert.Zero(t, alphaAt(img, 10, 10))
	assert.Zero(t, surf.baked)
}

func TestScaleMapsToPixels(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 2}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 5, Y: 10}, state.Point{X: 15, Y: 10})

	img := NewSurface(DefaultOptions()).Render(s.Canvas().Snapshot(), 40, 40, 2)
	assert.Greater(t, alphaAt(img, 20, 20), uint8(200))
	assert.Zero(t, alphaAt(img, 20, 10))
}

func TestImageMatchesSurface(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#336699", Width: 3}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 1, Y: 1}, state.Point{X: 15, Y: 9}, state.Point{X: 3, Y: 18})
	snap := s.Canvas().Snapshot()

	want := NewSurface(DefaultOptions()).Render(snap, 20, 20, 1)
	got := Image(snap, 20, 20, 1, DefaultOptions())
	assert.Equal(t, want.Pix, got.Pix)
}

func TestZeroSize(t *testing.T) {
	img := NewSurface(DefaultOptions()).Render(state.Snapshot{}, 0, 10, 1)
	assert.True(t, img.Bounds().Empty())
}

func TestStrokeBeyondRasterIsClipped(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 4}}
	s := state.NewSession(state.NewCanvas(), tr)
	s.Begin(state.Point{X: 10, Y: 10})
	s.Move(state.Point{X: 3000, Y: 3000})

	snap := s.Canvas().Snapshot()
	clip := image.Rect(0, 0, 200, 200)
	cov, origin := rasterize(snap.Strokes[0], 2, DefaultOptions(), clip)
	require.NotNil(t, cov)
	assert.True(t, cov.Bounds().Sub(cov.Bounds().Min).Add(origin).In(clip))

	img := NewSurface(DefaultOptions()).Render(snap, 200, 200, 2)
	assert.Greater(t, alphaAt(img, 100, 100), uint8(200))
	assert.Greater(t, alphaAt(img, 198, 198), uint8(200))
}

func TestStrokeOutsideRasterPaintsNothing(t *testing.T) {
	tr := &settings{tools.Settings{Kind: tools.Pen, Color: "#000000", Width: 4}}
	s := state.NewSession(state.NewCanvas(), tr)
	gesture(s, state.Point{X: 500, Y: 500}, state.Point{X: 900, Y: 900})

	cov, _ := rasterize(s.Canvas().Snapshot().Strokes[0], 1, DefaultOptions(), image.Rect(0, 0, 50, 50))
	assert.Nil(t, cov)
}
