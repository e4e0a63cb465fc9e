package ui

import (
	"image"
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/widget"
	"github.com/gogpu/gg"

	"LocalSketch/internal/input"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// BoardWidget is the drawing surface. It feeds mouse and touch input to a
// stroke capture session and shows the session's canvas as a raster laid
// over a paper background. Erase strokes cut through the raster, so the
// paper shows where they pass.
type BoardWidget struct {
	widget.BaseWidget

	session *state.Session
	input   *input.Adapter
	surface *render.Surface

	mu         sync.RWMutex
	paper      color.Color
	grid       float32
	gridColor  color.Color
	lastDevice input.Device
}

var (
	_ fyne.Widget       = (*BoardWidget)(nil)
	_ fyne.Draggable    = (*BoardWidget)(nil)
	_ desktop.Mouseable = (*BoardWidget)(nil)
	_ desktop.Hoverable = (*BoardWidget)(nil)
	_ mobile.Touchable  = (*BoardWidget)(nil)
)

func NewBoardWidget(session *state.Session, opts render.Options) *BoardWidget {
	b := &BoardWidget{
		session:   session,
		surface:   render.NewSurface(opts),
		paper:     color.White,
		gridColor: color.NRGBA{R: 224, G: 224, B: 224, A: 255},
	}
	b.input = input.NewAdapter(session, input.SizeResolver(b.Size))
	b.ExtendBaseWidget(b)

	session.Canvas().OnChange(func(state.Change) { b.Refresh() })
	return b
}

func (b *BoardWidget) Session() *state.Session { return b.session }

// SetPaper sets the background color and grid. spacing 0 hides the grid.
func (b *BoardWidget) SetPaper(background string, spacing float32, gridColor string) {
	b.mu.Lock()
	b.paper = hexColor(background)
	b.grid = spacing
	b.gridColor = hexColor(gridColor)
	b.mu.Unlock()
	b.Refresh()
}

// SetRenderOptions changes how strokes are drawn and repaints everything.
func (b *BoardWidget) SetRenderOptions(opts render.Options) {
	b.surface.SetOptions(opts)
	b.Refresh()
}

func (b *BoardWidget) handle(kind input.Kind, dev input.Device, btn desktop.MouseButton, pos fyne.Position) {
	b.mu.Lock()
	if kind == input.Down {
		b.lastDevice = dev
	}
	b.mu.Unlock()
	b.input.Handle(input.Event{Kind: kind, Device: dev, Button: btn, Position: pos})
}

func (b *BoardWidget) device() input.Device {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastDevice
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	b.handle(input.Down, input.Mouse, e.Button, e.Position)
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	b.handle(input.Up, input.Mouse, e.Button, e.Position)
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

func (b *BoardWidget) MouseOut() {
	b.handle(input.Leave, input.Mouse, 0, fyne.Position{})
}

// Dragged carries the moves of both mouse and touch gestures. Claiming
// the drag here also keeps the platform from scrolling or zooming while a
// finger draws.
func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	b.handle(input.Move, b.device(), 0, e.Position)
}

// DragEnd only fires for primary-button drags.
func (b *BoardWidget) DragEnd() {
	b.handle(input.Up, b.device(), desktop.MouseButtonPrimary, fyne.Position{})
}

func (b *BoardWidget) TouchDown(e *mobile.TouchEvent) {
	b.handle(input.Down, input.Touch, 0, e.Position)
}

func (b *BoardWidget) TouchUp(e *mobile.TouchEvent) {
	b.handle(input.Up, input.Touch, 0, e.Position)
}

func (b *BoardWidget) TouchCancel(e *mobile.TouchEvent) {
	b.handle(input.Cancel, input.Touch, 0, e.Position)
}

// draw is the raster generator. w and h are in device pixels.
func (b *BoardWidget) draw(w, h int) image.Image {
	scale := 1.0
	if sw := b.Size().Width; sw > 0 {
		scale = float64(w) / float64(sw)
	}
	return b.surface.Render(b.session.Canvas().Snapshot(), w, h, scale)
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.strokes = canvas.NewRaster(b.draw)
	r.sync()
	return r
}

type boardRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	grid       []fyne.CanvasObject
	strokes    *canvas.Raster
	size       fyne.Size
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objects := make([]fyne.CanvasObject, 0, len(r.grid)+2)
	objects = append(objects, r.background)
	objects = append(objects, r.grid...)
	return append(objects, r.strokes)
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.size = size
	r.background.Resize(size)
	r.strokes.Resize(size)
	r.sync()
}

func (r *boardRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardRenderer) Refresh() {
	r.sync()
	r.background.Refresh()
	r.strokes.Refresh()
}

func (r *boardRenderer) Destroy() {}

// sync copies the paper settings into the background objects.
func (r *boardRenderer) sync() {
	r.board.mu.RLock()
	paper, spacing, gridColor := r.board.paper, r.board.grid, r.board.gridColor
	r.board.mu.RUnlock()

	r.background.FillColor = paper
	r.grid = gridLines(r.size, spacing, gridColor)
}

func gridLines(size fyne.Size, spacing float32, c color.Color) []fyne.CanvasObject {
	if spacing <= 0 || size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	var lines []fyne.CanvasObject
	for x := spacing; x < size.Width; x += spacing {
		line := canvas.NewLine(c)
		line.Position1 = fyne.NewPos(x, 0)
		line.Position2 = fyne.NewPos(x, size.Height)
		line.StrokeWidth = 0.5
		lines = append(lines, line)
	}
	for y := spacing; y < size.Height; y += spacing {
		line := canvas.NewLine(c)
		line.Position1 = fyne.NewPos(0, y)
		line.Position2 = fyne.NewPos(size.Width, y)
		line.StrokeWidth = 0.5
		lines = append(lines, line)
	}
	return lines
}

func hexColor(s string) color.Color {
	c := gg.Hex(s)
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(c.A*255 + 0.5),
	}
}
