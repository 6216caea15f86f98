// Package functorapp wires configuration, the preset bank, the editor widgets
// and the optional remote server into the Functor window.
package functorapp

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/edward-ap/functor/internal/adapter"
	"github.com/edward-ap/functor/internal/bank"
	"github.com/edward-ap/functor/internal/config"
	"github.com/edward-ap/functor/internal/curve"
	"github.com/edward-ap/functor/internal/platform/windowpos"
	"github.com/edward-ap/functor/internal/remote"
	"github.com/edward-ap/functor/internal/ui"
)

const (
	// defaultSteps is the initial number of path samples drawn by the curve view.
	defaultSteps = 64
	minSteps     = 2
	maxSteps     = 256

	noticeDuration = 3 * time.Second
)

// Options override persisted settings for one run.
type Options struct {
	// RemoteAddr starts the remote server on this address. Empty keeps the
	// configured address; the server stays off when both are empty.
	RemoteAddr string
}

// App owns the fyne application, the main window, the bank and the widgets
// bound to it.
type App struct {
	fa     fyne.App
	w      fyne.Window
	config *config.Config
	bank   *bank.Bank

	view      *ui.CurveView
	beatList  *ui.PresetList
	volList   *ui.PresetList
	status    *ui.StatusLine
	indicator *ui.RemoteIndicator
	interp    *widget.Select
	steps     *ui.ResolutionSlider

	unsubscribe func()

	stopRemote context.CancelFunc
	remoteDone chan struct{}
}

// NewApp loads config and presets and builds the window. Load failures fall
// back to defaults and are reported once the window is up.
func NewApp(opts Options) *App {
	cfg, err := config.Load()
	if err != nil {
		log.Println("config load error:", err)
		cfg = config.NewDefaultConfig()
	}
	if opts.RemoteAddr != "" {
		cfg.RemoteAddr = opts.RemoteAddr
	}

	fa := app.NewWithID(config.AppID)
	fa.Settings().SetTheme(theme.DarkTheme())
	ui.UseEditorTheme()
	if AppIcon != nil {
		fa.SetIcon(AppIcon)
	}
	w := fa.NewWindow("Functor")
	w.SetMaster()
	if AppIcon != nil {
		w.SetIcon(AppIcon)
	}
	w.Resize(fyne.NewSize(float32(cfg.WindowW), float32(cfg.WindowH)))

	b, loadErr := openBank(cfg, bank.WithLogger(stdLogger{}))

	a := &App{fa: fa, w: w, config: cfg, bank: b}
	a.buildUI()
	a.restorePlacement()
	a.unsubscribe = b.Subscribe(a.onChange)

	if loadErr != nil {
		log.Println(loadErr)
		dialog.ShowError(loadErr, w)
	}
	if cfg.RemoteAddr != "" {
		a.startRemote(cfg.RemoteAddr)
	}

	w.SetCloseIntercept(a.shutdown)
	w.Canvas().SetOnTypedKey(a.handleKey)
	return a
}

// Run enters the fyne event loop.
func (a *App) Run() {
	a.w.ShowAndRun()
}

func (a *App) buildUI() {
	// The status line exists first: the view reports render errors as soon
	// as it is refreshed.
	statusLbl := widget.NewLabel("")
	statusLbl.Truncation = fyne.TextTruncateEllipsis
	a.status = ui.NewStatusLine(statusLbl, statusText(a.bank))
	a.indicator = ui.NewRemoteIndicator(10)

	a.view = ui.NewCurveView(a.bank, adapter.RenderOptions{
		Interpolation: a.config.Interpolation,
		Steps:         defaultSteps,
	})
	a.view.OnError = func(err error) { a.status.Flash(err.Error(), noticeDuration) }

	a.beatList = ui.NewPresetList(a.bank, curve.Beat)
	a.volList = ui.NewPresetList(a.bank, curve.Vol)

	beat := container.NewBorder(nil, nil, ui.NewRotatedCaption("BEAT").CanvasObject(), nil, a.beatList)
	gate := container.NewBorder(nil, nil, ui.NewRotatedCaption("GATE").CanvasObject(), nil, a.volList)
	lists := container.NewGridWithRows(2, beat, gate)

	names := make([]string, 0, len(curve.Interpolations()))
	for _, in := range curve.Interpolations() {
		names = append(names, in.String())
	}
	a.interp = widget.NewSelect(names, func(s string) {
		in, err := curve.ParseInterpolation(s)
		if err != nil {
			return
		}
		a.config.Interpolation = in
		a.view.SetInterpolation(in)
	})
	a.interp.SetSelected(a.config.Interpolation.String())

	a.steps = ui.NewResolutionSlider(minSteps, maxSteps, defaultSteps)
	a.steps.OnChanged = a.view.SetSteps

	saveBtn := widget.NewButtonWithIcon("Save presets", theme.DocumentSaveIcon(), a.savePresets)

	toolbar := container.NewBorder(nil, nil,
		container.NewHBox(a.interp, widget.NewLabel("Resolution"), container.NewGridWrap(fyne.NewSize(120, a.steps.MinSize().Height), a.steps), saveBtn),
		a.indicator.CanvasObject(),
		statusLbl,
	)
	right := container.NewBorder(nil, toolbar, nil, nil, a.view)

	split := container.NewHSplit(lists, right)
	split.Offset = 0.4
	a.w.SetContent(split)
}

// onChange keeps the status line on the current cursor. It runs on whatever
// goroutine mutated the bank.
func (a *App) onChange(ch bank.Change) {
	if verbose.Load() {
		log.Printf("bank: %s %s[%d] seq %d", ch.Kind, ch.Mode, ch.Index, ch.Seq)
	}
	a.status.SetBase(statusText(a.bank))
}

func (a *App) handleKey(ke *fyne.KeyEvent) {
	if ke == nil {
		return
	}
	if mode, ok := keyToMode(ke.Name); ok {
		_, idx := a.bank.Cursor()
		a.bank.Select(mode, clampIndex(idx, a.bank.CollectionLength(mode)))
		return
	}
	if delta, ok := keyToCursorStep(ke.Name); ok {
		mode, idx := a.bank.Cursor()
		a.bank.Select(mode, clampIndex(idx+delta, a.bank.CollectionLength(mode)))
	}
}

// keyToCursorStep maps arrow keys onto moves across the preset grid.
func keyToCursorStep(key fyne.KeyName) (int, bool) {
	switch key {
	case fyne.KeyLeft:
		return -1, true
	case fyne.KeyRight:
		return 1, true
	case fyne.KeyUp:
		return -adapter.RowWidth, true
	case fyne.KeyDown:
		return adapter.RowWidth, true
	}
	return 0, false
}

// keyToMode maps B and G onto the beat and gate lists.
func keyToMode(key fyne.KeyName) (curve.Mode, bool) {
	switch key {
	case fyne.KeyB:
		return curve.Beat, true
	case fyne.KeyG:
		return curve.Vol, true
	}
	return 0, false
}

// clampIndex keeps keyboard navigation inside a collection of n slots.
func clampIndex(idx, n int) int {
	if n <= 0 || idx < 0 {
		return 0
	}
	if idx >= n {
		return n - 1
	}
	return idx
}

func (a *App) savePresets() {
	if err := saveSession(a.config, a.bank); err != nil {
		dialog.ShowError(err, a.w)
		return
	}
	a.status.Flash("Presets saved to "+a.config.PresetFile, noticeDuration)
}

func (a *App) startRemote(addr string) {
	srv := remote.NewServer(a.bank, stdLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	a.stopRemote = cancel
	a.remoteDone = make(chan struct{})
	a.indicator.SetActive(true)

	go func() {
		defer close(a.remoteDone)
		if err := srv.Serve(ctx, addr); err != nil {
			log.Println("remote server error:", err)
			a.indicator.SetActive(false)
			ui.CallOnMain(func() { dialog.ShowError(err, a.w) })
		}
	}()
}

func (a *App) restorePlacement() {
	if !a.config.WindowPosValid {
		return
	}
	pos := windowpos.Position{X: a.config.WindowX, Y: a.config.WindowY}
	windowpos.Restore(a.w, pos, func() bool { return a.config.WindowPosValid })
}

func (a *App) capturePlacement() {
	if pos, ok := windowpos.Current(a.w); ok {
		a.config.WindowX, a.config.WindowY = pos.X, pos.Y
		a.config.WindowPosValid = true
	}
}

// shutdown saves size, cursor and presets, then releases everything.
func (a *App) shutdown() {
	if a.stopRemote != nil {
		a.stopRemote()
		select {
		case <-a.remoteDone:
		case <-time.After(3 * time.Second):
			log.Println("remote server did not stop in time")
		}
		a.indicator.SetActive(false)
	}

	a.capturePlacement()
	sz := a.w.Canvas().Size()
	a.config.WindowW = int(sz.Width)
	a.config.WindowH = int(sz.Height)
	if err := saveSession(a.config, a.bank); err != nil {
		log.Println("save error:", err)
	}

	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	a.view.Detach()
	a.beatList.Detach()
	a.volList.Detach()
	a.status.Close()
	a.w.Close()
	a.fa.Quit()
}
