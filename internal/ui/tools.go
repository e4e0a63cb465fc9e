package ui

import (
	"fmt"
	"image/color"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"
)

// Swatches are the preset colors offered next to the tool buttons.
var Swatches = []string{"#222222", "#FF0000", "#00A000", "#0000FF", "#FFCC00"}

type colorSwatch struct {
	widget.BaseWidget
	Hex      string
	OnTapped func(hex string)

	selected bool
}

func newColorSwatch(hex string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Hex: hex, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

// SetSelected outlines the swatch of the current pen color.
func (s *colorSwatch) SetSelected(on bool) {
	if s.selected == on {
		return
	}
	s.selected = on
	s.Refresh()
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(hexColor(s.Hex))
	rect.SetMinSize(fyne.NewSize(28, 28))

	border := canvas.NewRectangle(color.Transparent)
	r := &swatchRenderer{swatch: s, border: border, objects: []fyne.CanvasObject{container.NewStack(rect, border)}}
	r.Refresh()
	return r
}

func (s *colorSwatch) Tapped(*fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Hex)
	}
}

type swatchRenderer struct {
	swatch  *colorSwatch
	border  *canvas.Rectangle
	objects []fyne.CanvasObject
}

func (r *swatchRenderer) Layout(size fyne.Size)        { r.objects[0].Resize(size) }
func (r *swatchRenderer) MinSize() fyne.Size           { return r.objects[0].MinSize() }
func (r *swatchRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *swatchRenderer) Destroy()                     {}

func (r *swatchRenderer) Refresh() {
	if r.swatch.selected {
		r.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
		r.border.StrokeWidth = 3
	} else {
		r.border.StrokeColor = color.Gray{Y: 150}
		r.border.StrokeWidth = 1
	}
	r.border.Refresh()
}

type toolPanel struct {
	swatches []*colorSwatch
	summary  *widget.Label
	content  fyne.CanvasObject
}

// NewToolbar builds the tool row: pen and eraser, color swatches, the
// width slider and a label summing up the current tool. Everything writes
// to cfg; nothing here touches the canvas.
func NewToolbar(cfg *tools.Config) fyne.CanvasObject {
	return newToolPanel(cfg).content
}

func newToolPanel(cfg *tools.Config) *toolPanel {
	p := &toolPanel{summary: widget.NewLabel(toolSummary(cfg.Snapshot()))}

	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.DocumentCreateIcon(), func() { cfg.SetKind(tools.Pen) }),
		widget.NewToolbarAction(theme.ContentClearIcon(), func() { cfg.SetKind(tools.Eraser) }),
	)

	swatchBox := container.NewHBox()
	for _, hex := range Swatches {
		sw := newColorSwatch(hex, func(c string) {
			cfg.SetColor(c)
			cfg.SetKind(tools.Pen)
		})
		p.swatches = append(p.swatches, sw)
		swatchBox.Add(sw)
	}
	colors := cfg.ColorBinding()
	colors.AddListener(binding.NewDataListener(func() {
		current, _ := colors.Get()
		for _, sw := range p.swatches {
			sw.SetSelected(strings.EqualFold(sw.Hex, current))
		}
	}))

	slider := widget.NewSliderWithData(float64(state.MinStrokeWidth), float64(state.MaxStrokeWidth), cfg.WidthBinding())
	slider.Step = 1
	sliderBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), slider)

	cfg.AddListener(func(s tools.Settings) { p.summary.SetText(toolSummary(s)) })

	p.content = container.NewHBox(
		widget.NewLabel("Tool:"),
		tb,
		p.summary,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		swatchBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderBox,
		layout.NewSpacer(),
	)
	return p
}

func toolSummary(s tools.Settings) string {
	if s.Kind == tools.Eraser {
		return fmt.Sprintf("eraser %g px", s.Width)
	}
	return fmt.Sprintf("pen %s %g px", s.Color, s.Width)
}
