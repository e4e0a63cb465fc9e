package render

import "math"

// Vec is a point in pixel space.
type Vec struct{ X, Y float64 }

// SegmentKind is the curve type of one path segment.
type SegmentKind int

const (
	Line SegmentKind = iota
	Quad
	Cubic
)

// Segment continues a path from the previous segment's end point. Quad
// uses C1, Cubic uses C1 and C2.
type Segment struct {
	Kind   SegmentKind
	C1, C2 Vec
	To     Vec
}

// Smooth converts a polyline into curve segments through every point,
// using a cardinal spline with the given tension. Tension 0 reproduces the
// polyline. The returned segments start at pts[0]; with fewer than two
// points there are none.
//
// The first and last segments are quadratic, every segment in between is
// cubic, so the curve leaves and enters the end points along the polyline.
func Smooth(pts []Vec, tension float64) []Segment {
	n := len(pts)
	switch {
	case n < 2:
		return nil
	case n == 2 || tension == 0:
		segs := make([]Segment, 0, n-1)
		for _, p := range pts[1:] {
			segs = append(segs, Segment{Kind: Line, To: p})
		}
		return segs
	}

	// in[i] and out[i] are the control points entering and leaving pts[i],
	// defined for interior points only.
	in := make([]Vec, n)
	out := make([]Vec, n)
	for i := 1; i < n-1; i++ {
		in[i], out[i] = controlPoints(pts[i-1], pts[i], pts[i+1], tension)
	}

	segs := make([]Segment, 0, n-1)
	segs = append(segs, Segment{Kind: Quad, C1: in[1], To: pts[1]})
	for i := 1; i < n-2; i++ {
		segs = append(segs, Segment{Kind: Cubic, C1: out[i], C2: in[i+1], To: pts[i+1]})
	}
	segs = append(segs, Segment{Kind: Quad, C1: out[n-2], To: pts[n-1]})
	return segs
}

func controlPoints(p0, p1, p2 Vec, t float64) (in, out Vec) {
	d01 := math.Hypot(p1.X-p0.X, p1.Y-p0.Y)
	d12 := math.Hypot(p2.X-p1.X, p2.Y-p1.Y)
	if d01+d12 == 0 {
		return p1, p1
	}
	fa := t * d01 / (d01 + d12)
	fb := t * d12 / (d01 + d12)
	dx, dy := p2.X-p0.X, p2.Y-p0.Y
	in = Vec{p1.X - fa*dx, p1.Y - fa*dy}
	out = Vec{p1.X + fb*dx, p1.Y + fb*dy}
	return in, out
}
