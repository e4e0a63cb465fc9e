package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"LocalSketch/internal/state"
)

// WritePDF writes a one-page PDF the size of the drawing area, in points,
// with the flattened drawing as its only content. The raster keeps erase
// strokes exact, which PDF blend modes cannot express.
func WritePDF(w io.Writer, snap state.Snapshot, opts Options) error {
	dc, err := flatten(snap, opts)
	if err != nil {
		return err
	}
	defer dc.Close()
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return fmt.Errorf("encoding page image: %w", err)
	}

	pw, ph := float64(opts.Width), float64(opts.Height)
	p := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	p.SetTitle("LocalSketch drawing", true)
	p.SetCreator("LocalSketch", true)
	p.SetMargins(0, 0, 0)
	p.SetAutoPageBreak(false, 0)
	p.AddPage()

	imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	p.RegisterImageOptionsReader("drawing", imgOpts, &buf)
	p.ImageOptions("drawing", 0, 0, pw, ph, false, imgOpts, 0, "")

	if err := p.Output(w); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}
