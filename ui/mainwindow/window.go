// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	goimage "image"
	"path/filepath"
	"strconv"

	"gel-labeler/internal/app"
	"gel-labeler/internal/image"
	"gel-labeler/internal/labeler"
	"gel-labeler/internal/samples"
	"gel-labeler/internal/version"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const (
	prefKeyLastDir  = "lastDirectory"
	prefKeyLastSeed = "lastSeed"
	prefKeyLastRows = "lastRows"
)

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app   fyne.App
	state *app.State

	preview   *fynecanvas.Image
	table     *widget.Table
	seedEntry *widget.Entry
	rowSelect *widget.Select
	generate  *widget.Button
	save      *widget.Button
	copyTable *widget.Button
	statusBar *widget.Label
}

// New creates a new main window.
func New(fyneApp fyne.App, state *app.State) *MainWindow {
	win := fyneApp.NewWindow("Gel Lane Labeler")

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		state:  state,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.preview = fynecanvas.NewImageFromImage(nil)
	mw.preview.FillMode = fynecanvas.ImageFillContain
	mw.preview.SetMinSize(fyne.NewSize(640, 360))

	mw.seedEntry = widget.NewEntry()
	mw.seedEntry.SetPlaceHolder("First sample name, e.g. XM1")
	mw.seedEntry.SetText(mw.app.Preferences().String(prefKeyLastSeed))
	mw.seedEntry.OnSubmitted = func(string) { mw.onGenerate() }

	options := make([]string, mw.state.MaxRows())
	for i := range options {
		options[i] = strconv.Itoa(i + 1)
	}
	mw.rowSelect = widget.NewSelect(options, nil)
	rows := mw.app.Preferences().IntWithFallback(prefKeyLastRows, 1)
	if rows < 1 || rows > len(options) {
		rows = 1
	}
	mw.rowSelect.SetSelectedIndex(rows - 1)

	mw.generate = widget.NewButton("Generate Labels", mw.onGenerate)
	mw.generate.Importance = widget.HighImportance

	mw.save = widget.NewButton("Save Labeled Image...", mw.onSave)
	mw.save.Disable()
	mw.copyTable = widget.NewButton("Copy Table", mw.onCopyTable)
	mw.copyTable.Disable()

	mw.table = mw.createTable()
	mw.statusBar = widget.NewLabel("Open a gel image to begin")

	form := widget.NewForm(
		widget.NewFormItem("First sample", mw.seedEntry),
		widget.NewFormItem("Rows", mw.rowSelect),
	)
	controls := container.NewVBox(
		widget.NewButton("Open Gel Image...", mw.onOpenImage),
		form,
		mw.generate,
		widget.NewSeparator(),
		mw.save,
		mw.copyTable,
	)

	split := container.NewVSplit(
		container.NewScroll(mw.preview),
		mw.table,
	)
	split.SetOffset(0.7)

	body := container.NewHSplit(controls, split)
	body.SetOffset(0.2)

	content := container.NewBorder(
		nil,                               // top
		container.NewPadded(mw.statusBar), // bottom
		nil,                               // left
		nil,                               // right
		body,                              // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(1200, 800))
}

// createTable builds the lookup table of generated names.
func (mw *MainWindow) createTable() *widget.Table {
	header := samples.Header()
	t := widget.NewTable(
		func() (int, int) {
			if res := mw.state.Result(); res != nil {
				return res.Grid.Rows(), samples.LanesPerRow
			}
			return 0, samples.LanesPerRow
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("XXXX0000")
		},
		func(id widget.TableCellID, obj fyne.CanvasObject) {
			lbl := obj.(*widget.Label)
			res := mw.state.Result()
			if res == nil || id.Row >= len(res.Grid) || id.Col >= len(res.Grid[id.Row]) {
				lbl.SetText("")
				return
			}
			lbl.TextStyle.Bold = id.Col == samples.MarkerColumn
			lbl.SetText(res.Grid[id.Row][id.Col])
		},
	)
	t.ShowHeaderRow = true
	t.CreateHeader = func() fyne.CanvasObject {
		return widget.NewLabel("Lane 00")
	}
	t.UpdateHeader = func(id widget.TableCellID, obj fyne.CanvasObject) {
		lbl := obj.(*widget.Label)
		if id.Row < 0 && id.Col >= 0 && id.Col < len(header) {
			lbl.SetText(header[id.Col])
			return
		}
		lbl.SetText("")
	}
	return t
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Gel Image...", mw.onOpenImage),
		fyne.NewMenuItem("Save Labeled Image...", mw.onSave),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Copy Table as Markdown", mw.onCopyTable),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, helpMenu))
}

// setupEventHandlers registers for application events.
func (mw *MainWindow) setupEventHandlers() {
	mw.state.On(app.EventImageLoaded, func(data interface{}) {
		gel, ok := data.(*image.Gel)
		if !ok {
			return
		}
		mw.showImage(gel.Image)
		mw.save.Disable()
		mw.copyTable.Disable()
		mw.table.Refresh()
		if gel.Path != "" {
			mw.SetTitle("Gel Lane Labeler - " + filepath.Base(gel.Path))
		}
		mw.updateStatus(fmt.Sprintf("Loaded %dx%d %s image", gel.Width(), gel.Height(), gel.Format))
	})

	mw.state.On(app.EventLabelsGenerated, func(data interface{}) {
		res, ok := data.(*labeler.Result)
		if !ok {
			return
		}
		mw.showImage(res.Image)
		mw.table.Refresh()
		mw.save.Enable()
		mw.copyTable.Enable()
		mw.updateStatus(fmt.Sprintf("Labeled %d rows (%d samples)", res.Grid.Rows(), len(res.Grid.Labels())))
	})

	mw.state.On(app.EventResultSaved, func(data interface{}) {
		if path, ok := data.(string); ok {
			mw.updateStatus("Saved " + path)
		}
	})

	mw.state.On(app.EventError, func(data interface{}) {
		if err, ok := data.(error); ok {
			mw.updateStatus("Error: " + err.Error())
		}
	})
}

func (mw *MainWindow) showImage(img goimage.Image) {
	mw.preview.Image = img
	mw.preview.Refresh()
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.app.Preferences().String(prefKeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.app.Preferences().SetString(prefKeyLastDir, filepath.Dir(filePath))
}

// selectedRows returns the row count chosen in the select widget.
func (mw *MainWindow) selectedRows() int {
	n, err := strconv.Atoi(mw.rowSelect.Selected)
	if err != nil {
		return 1
	}
	return n
}

// Action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		path := reader.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.LoadImage(path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)

	fd.SetFilter(storage.NewExtensionFileFilter(image.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onGenerate() {
	seed := mw.seedEntry.Text
	rows := mw.selectedRows()

	if _, err := mw.state.Generate(seed, rows); err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	mw.app.Preferences().SetString(prefKeyLastSeed, seed)
	mw.app.Preferences().SetInt(prefKeyLastRows, rows)
}

func (mw *MainWindow) onSave() {
	if mw.state.Result() == nil {
		mw.updateStatus("Generate labels before saving")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		path := writer.URI().Path()
		mw.saveLastDir(path)
		if err := mw.state.WriteResult(writer, path); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFileName(labeler.Filename)
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onCopyTable() {
	res := mw.state.Result()
	if res == nil {
		return
	}
	mw.Clipboard().SetContent(res.Grid.Markdown())
	mw.updateStatus("Sample table copied as Markdown")
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About Gel Lane Labeler",
		fmt.Sprintf("Gel Lane Labeler v%s\n\n"+
			"Prints sample names over electrophoresis gel lanes.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
