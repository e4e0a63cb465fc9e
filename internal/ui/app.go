package ui

import (
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/config"
	"LocalSketch/internal/export"
	"LocalSketch/internal/logging"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
	"LocalSketch/internal/tools"
)

// AppID keys the Fyne preferences store.
const AppID = "io.localsketch.app"

// Workspace is everything inside the main window: toolbar, board and
// status line.
type Workspace struct {
	Board  *BoardWidget
	Tools  *tools.Config
	Status *widget.Label

	clearBtn  *widget.Button
	exportBtn *widget.Button
	toolbar   *toolPanel
	cfg       config.Config
	content   fyne.CanvasObject
	window    fyne.Window
}

// NewWorkspace wires a fresh canvas and capture session to toolCfg and
// lays out the window content. win is used for dialogs and may be nil in
// tests.
func NewWorkspace(toolCfg *tools.Config, cfg config.Config, win fyne.Window) *Workspace {
	session := state.NewSession(state.NewCanvas(), toolCfg)
	ws := &Workspace{
		Board:  NewBoardWidget(session, render.Options{Tension: cfg.Canvas.Tension}),
		Tools:  toolCfg,
		Status: widget.NewLabel("Ready"),
		cfg:    cfg,
		window: win,
	}
	ws.clearBtn = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), ws.Clear)
	ws.exportBtn = widget.NewButtonWithIcon("Export", theme.DocumentSaveIcon(), ws.showExport)
	ws.applyAppearance(cfg)

	session.Canvas().OnChange(func(ch state.Change) {
		if ch.Kind == state.ChangeAppend || ch.Kind == state.ChangeClear {
			ws.syncButtons()
		}
	})
	ws.syncButtons()

	ws.toolbar = newToolPanel(toolCfg)
	top := container.NewBorder(nil, nil, nil,
		container.NewHBox(ws.clearBtn, ws.exportBtn),
		ws.toolbar.content)
	ws.content = container.NewBorder(top, ws.Status, nil, nil, ws.Board)

	logging.L().Info("workspace ready", "site", session.Clock().Site())
	return ws
}

func (ws *Workspace) Content() fyne.CanvasObject { return ws.content }

// ApplyConfig pushes appearance from a reloaded cfg. The [tool] table is
// re-applied only when it changed since the last config, so saving the
// file for other reasons keeps the user's current tool. A gesture in
// progress keeps the tool settings it started with.
func (ws *Workspace) ApplyConfig(cfg config.Config) {
	ws.applyAppearance(cfg)
	if cfg.Tool != ws.cfg.Tool {
		ws.Tools.Apply(cfg.ToolSettings())
	}
	ws.cfg = cfg
}

func (ws *Workspace) applyAppearance(cfg config.Config) {
	ws.Board.SetPaper(cfg.Canvas.Background, cfg.Canvas.Grid, cfg.Canvas.GridColor)
	ws.Board.SetRenderOptions(render.Options{Tension: cfg.Canvas.Tension})
}

// Clear is the host's clear command.
func (ws *Workspace) Clear() {
	ws.Board.Session().Clear()
	ws.SetStatus("Cleared")
}

func (ws *Workspace) SetStatus(text string) {
	ws.Status.SetText(text)
}

func (ws *Workspace) syncButtons() {
	if ws.Board.Session().Canvas().IsEmpty() {
		ws.clearBtn.Disable()
		ws.exportBtn.Disable()
	} else {
		ws.clearBtn.Enable()
		ws.exportBtn.Enable()
	}
}

// Export writes the current drawing to a file chosen in the save dialog
// and reports the outcome on the status line.
func (ws *Workspace) Export(w fyne.URIWriteCloser) {
	defer func() {
		if err := w.Close(); err != nil {
			logging.L().Warn("closing export file", "err", err)
		}
	}()

	name := w.URI().Name()
	n, err := ws.ExportTo(w, name)
	if err != nil {
		logging.L().Error("export failed", "file", name, "err", err)
		ws.SetStatus("Export failed: " + err.Error())
		return
	}
	logging.L().Info("exported drawing", "file", name, "strokes", n)
	ws.SetStatus(fmt.Sprintf("Exported %d strokes to %s", n, name))
}

// ExportTo writes the drawing to w as PDF if name ends in .pdf, PNG
// otherwise, and returns the number of strokes written.
func (ws *Workspace) ExportTo(w io.Writer, name string) (int, error) {
	size := ws.Board.Size()
	snap := ws.Board.Session().Canvas().Snapshot()
	opts := export.Options{
		Width:      size.Width,
		Height:     size.Height,
		Background: ws.cfg.Canvas.Background,
		Render:     ws.Board.surface.Options(),
	}
	if err := export.Write(w, export.FormatFor(name), snap, opts); err != nil {
		return 0, err
	}
	return len(snap.Strokes), nil
}

func (ws *Workspace) showExport() {
	if ws.window == nil {
		return
	}
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			ws.SetStatus("Export failed: " + err.Error())
			return
		}
		if w == nil {
			return
		}
		ws.Export(w)
	}, ws.window)
	d.SetFileName("sketch.png")
	d.Show()
}

// RunApp opens the main window and blocks until it is closed. onReady
// runs once the workspace exists, before the event loop starts.
func RunApp(cfg config.Config, onReady func(*Workspace)) {
	a := app.NewWithID(AppID)
	w := a.NewWindow(cfg.Window.Title)
	w.Resize(fyne.NewSize(cfg.Window.Width, cfg.Window.Height))

	ws := NewWorkspace(tools.NewWithPreferences(a.Preferences(), cfg.ToolSettings()), cfg, w)
	w.SetContent(ws.Content())
	if onReady != nil {
		onReady(ws)
	}
	w.ShowAndRun()
}
