// Package export writes the current drawing to PNG or PDF. Export is
// one-way: nothing written here is ever read back.
package export

import (
	"fmt"
	"image"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/gogpu/gg"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Options describe the page the drawing is exported onto.
type Options struct {
	// Width and Height of the drawing area in logical units.
	Width, Height float32
	// Scale is pixels per logical unit in the raster. 0 means 2.
	Scale float64
	// Background fills the page beneath the strokes, so erased areas show
	// it. Empty means white.
	Background string
	Render     render.Options
}

func (o Options) pixels() (w, h int, scale float64) {
	scale = o.Scale
	if !(scale > 0) {
		scale = 2
	}
	w = int(math.Ceil(float64(o.Width) * scale))
	h = int(math.Ceil(float64(o.Height) * scale))
	return w, h, scale
}

// Flatten renders snap over the background into one opaque image.
func Flatten(snap state.Snapshot, opts Options) (image.Image, error) {
	dc, err := flatten(snap, opts)
	if err != nil {
		return nil, err
	}
	defer dc.Close()
	return dc.Image(), nil
}

func flatten(snap state.Snapshot, opts Options) (*gg.Context, error) {
	w, h, scale := opts.pixels()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("export size %gx%g is empty", opts.Width, opts.Height)
	}
	bg := opts.Background
	if bg == "" {
		bg = "#FFFFFF"
	}

	strokes := render.Image(snap, w, h, scale, opts.Render)

	dc := gg.NewContext(w, h)
	dc.ClearWithColor(gg.Hex(bg))
	dc.DrawImage(gg.ImageBufFromImage(strokes), 0, 0)
	return dc, nil
}

// WritePNG encodes the flattened drawing as PNG.
func WritePNG(w io.Writer, snap state.Snapshot, opts Options) error {
	dc, err := flatten(snap, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// Format picks the export format from a file name.
type Format int

const (
	PNG Format = iota
	PDF
)

// FormatFor returns PDF for ".pdf" names and PNG for everything else.
func FormatFor(name string) Format {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		return PDF
	}
	return PNG
}

// Write exports snap in format f.
func Write(w io.Writer, f Format, snap state.Snapshot, opts Options) error {
	if f == PDF {
		return WritePDF(w, snap, opts)
	}
	return WritePNG(w, snap, opts)
}
