// Package render rasterizes the stroke list.
//
// Draw strokes are composited source-over. Erase strokes are composited
// destination-out: their coverage removes pixels already on the raster and
// paints nothing, so whatever lies beneath the raster shows through.
package render

import (
	"image"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"LocalSketch/internal/logging"
	"LocalSketch/internal/state"
)

// DefaultTension gives strokes a gently rounded look.
const DefaultTension = 0.5

// Options control how strokes are drawn.
type Options struct {
	// Tension of the cardinal spline through stroke points. 0 draws
	// straight segments.
	Tension float64
}

// DefaultOptions returns the options the UI starts with.
func DefaultOptions() Options {
	return Options{Tension: DefaultTension}
}

// Surface renders snapshots into an RGBA raster. Completed strokes are
// baked once into a cached base layer; each call re-rasterizes only the
// active stroke on top of it. The cache resets when the canvas is cleared
// or the pixel size, scale or options change.
type Surface struct {
	mu   sync.Mutex
	opts Options

	base  *image.RGBA
	frame *image.RGBA
	epoch uint64
	scale float64
	baked int
	valid bool
}

func NewSurface(opts Options) *Surface {
	return &Surface{opts: opts}
}

// SetOptions replaces the options and invalidates the cache.
func (s *Surface) SetOptions(opts Options) {
	s.mu.Lock()
	s.opts = opts
	s.valid = false
	s.mu.Unlock()
}

func (s *Surface) Options() Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts
}

// Render draws snap into a w×h pixel raster. scale converts logical
// canvas units to pixels. The returned image is reused by the next call.
func (s *Surface) Render(snap state.Snapshot, w, h int, scale float64) *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()

	if w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	}
	if !(scale > 0) {
		scale = 1
	}

	rect := image.Rect(0, 0, w, h)
	if !s.valid || s.base.Rect != rect || s.epoch != snap.Epoch || s.scale != scale || s.baked > len(snap.Strokes) {
		s.base = image.NewRGBA(rect)
		s.frame = image.NewRGBA(rect)
		s.epoch = snap.Epoch
		s.scale = scale
		s.baked = 0
		s.valid = true
	}

	for s.baked < len(snap.Strokes) && !snap.Strokes[s.baked].Active() {
		Paint(s.base, snap.Strokes[s.baked], scale, s.opts)
		s.baked++
	}

	copy(s.frame.Pix, s.base.Pix)
	for _, st := range snap.Strokes[s.baked:] {
		Paint(s.frame, st, scale, s.opts)
	}
	return s.frame
}

// Image renders snap once into a fresh raster.
func Image(snap state.Snapshot, w, h int, scale float64, opts Options) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, max(w, 0), max(h, 0)))
	for _, st := range snap.Strokes {
		Paint(out, st, scale, opts)
	}
	return out
}

// Paint composites one stroke onto dst.
func Paint(dst *image.RGBA, st state.Stroke, scale float64, opts Options) {
	if len(st.Points) == 0 {
		return
	}
	cov, origin := rasterize(st, scale, opts, dst.Bounds())
	if cov == nil {
		return
	}
	r := cov.Bounds().Sub(cov.Bounds().Min).Add(origin)

	switch st.Mode {
	case state.ModeErase:
		// Src with a transparent source and the stroke as mask leaves
		// dst × (1 − coverage).
		draw.DrawMask(dst, r, image.Transparent, image.Point{}, cov, cov.Bounds().Min, draw.Src)
	default:
		draw.Draw(dst, r, cov, cov.Bounds().Min, draw.Over)
	}
}

// rasterize draws st into a scratch image covering its padded bounding
// box clipped to clip. It returns the image and where its top-left corner
// lies in the destination, or nil if nothing of the stroke is inside clip.
func rasterize(st state.Stroke, scale float64, opts Options, clip image.Rectangle) (*image.RGBA, image.Point) {
	width := float64(st.Width) * scale
	pts := make([]Vec, len(st.Points))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, p := range st.Points {
		v := Vec{float64(p.X) * scale, float64(p.Y) * scale}
		pts[i] = v
		minX, minY = math.Min(minX, v.X), math.Min(minY, v.Y)
		maxX, maxY = math.Max(maxX, v.X), math.Max(maxY, v.Y)
	}

	pad := width/2 + 2
	box := image.Rect(
		clampInt(math.Floor(minX-pad)), clampInt(math.Floor(minY-pad)),
		clampInt(math.Ceil(maxX+pad)), clampInt(math.Ceil(maxY+pad)),
	).Intersect(clip)
	if box.Empty() {
		return nil, image.Point{}
	}
	x0, y0 := box.Min.X, box.Min.Y
	w, h := box.Dx(), box.Dy()

	dc := gg.NewContext(w, h)
	defer dc.Close()

	c := gg.Hex(st.Color)
	if st.Mode == state.ModeErase {
		c = gg.Black
	}
	dc.SetRGBA(c.R, c.G, c.B, c.A)

	ox, oy := float64(x0), float64(y0)
	if len(pts) == 1 {
		dc.DrawCircle(pts[0].X-ox, pts[0].Y-oy, width/2)
		if err := dc.Fill(); err != nil {
			logging.L().Warn("dot fill failed", "id", st.ID, "err", err)
		}
	} else {
		dc.SetLineWidth(width)
		dc.SetLineCap(gg.LineCapRound)
		dc.SetLineJoin(gg.LineJoinRound)
		dc.MoveTo(pts[0].X-ox, pts[0].Y-oy)
		for _, seg := range Smooth(pts, opts.Tension) {
			switch seg.Kind {
			case Line:
				dc.LineTo(seg.To.X-ox, seg.To.Y-oy)
			case Quad:
				dc.QuadraticTo(seg.C1.X-ox, seg.C1.Y-oy, seg.To.X-ox, seg.To.Y-oy)
			case Cubic:
				dc.CubicTo(seg.C1.X-ox, seg.C1.Y-oy, seg.C2.X-ox, seg.C2.Y-oy, seg.To.X-ox, seg.To.Y-oy)
			}
		}
		if err := dc.Stroke(); err != nil {
			logging.L().Warn("stroke failed", "id", st.ID, "err", err)
		}
	}

	return toRGBA(dc.Image()), image.Pt(x0, y0)
}

// clampInt keeps huge coordinates from overflowing int before clipping.
func clampInt(f float64) int {
	const limit = 1 << 30
	return int(math.Max(-limit, math.Min(limit, f)))
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba
}
