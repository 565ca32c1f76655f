// Package gui is the optional desktop picker: a small always-available
// window listing the history, plus a tray menu.
package gui

import (
	"context"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/gui/theme"
	"github.com/berrythewa/clipstack/internal/gui/views"
	"github.com/berrythewa/clipstack/internal/types"
)

const appID = "com.berrythewa.clipstack"

// Controller receives the picker's user actions
type Controller interface {
	SelectID(ctx context.Context, id string) error
	Clear(ctx context.Context) error
	Show(ctx context.Context) error
	Hide(ctx context.Context) error
	NotifyFocusLost(ctx context.Context) error
}

// Picker is a fyne presenter. PushSnapshot, Show and Hide may be called from
// any goroutine; Run must be called from the main goroutine.
type Picker struct {
	app    fyne.App
	window fyne.Window
	view   *views.HistoryView
	logger *zap.Logger

	ctx  context.Context
	ctrl Controller

	visible atomic.Bool
}

// NewPicker creates the picker on a new fyne application
func NewPicker(thumbSize int, logger *zap.Logger) *Picker {
	return NewPickerWithApp(app.NewWithID(appID), thumbSize, logger)
}

// NewPickerWithApp creates the picker on an existing fyne application
func NewPickerWithApp(a fyne.App, thumbSize int, logger *zap.Logger) *Picker {
	if logger == nil {
		logger = zap.NewNop()
	}
	a.Settings().SetTheme(theme.NewCompactTheme())

	p := &Picker{
		app:    a,
		window: a.NewWindow("Clipboard History"),
		view:   views.NewHistoryView(float32(thumbSize)),
		logger: logger,
		ctx:    context.Background(),
	}
	p.setupWindow()
	return p
}

// Bind connects the picker to the engine and must be called before Run.
// Actions are dropped until then; ctx bounds every action.
func (p *Picker) Bind(ctx context.Context, ctrl Controller) {
	p.ctx = ctx
	p.ctrl = ctrl
}

func (p *Picker) setupWindow() {
	p.window.Resize(fyne.NewSize(420, 360))
	p.window.SetFixedSize(true)
	p.window.CenterOnScreen()
	p.window.SetContent(p.view.Content())

	// closing hides, the daemon keeps running
	p.window.SetCloseIntercept(func() {
		p.dispatch("hide", func(c Controller) error { return c.Hide(p.ctx) })
	})

	p.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyEscape {
			p.dispatch("hide", func(c Controller) error { return c.Hide(p.ctx) })
		}
	})

	p.view.OnSelect = func(id string) {
		p.dispatch("select", func(c Controller) error { return c.SelectID(p.ctx, id) })
	}
	p.view.OnClear = func() {
		p.dispatch("clear", func(c Controller) error { return c.Clear(p.ctx) })
	}

	p.app.Lifecycle().SetOnExitedForeground(func() {
		if p.visible.Load() {
			p.dispatch("focus-lost", func(c Controller) error { return c.NotifyFocusLost(p.ctx) })
		}
	})

	if desk, ok := p.app.(desktop.App); ok {
		desk.SetSystemTrayMenu(fyne.NewMenu("Clipstack",
			fyne.NewMenuItem("Show history", func() {
				p.dispatch("show", func(c Controller) error { return c.Show(p.ctx) })
			}),
			fyne.NewMenuItem("Clear history", func() {
				p.dispatch("clear", func(c Controller) error { return c.Clear(p.ctx) })
			}),
		))
	}
}

// dispatch runs an engine call off the fyne goroutine; the engine calls
// back into the picker while handling it.
func (p *Picker) dispatch(action string, fn func(Controller) error) {
	ctrl := p.ctrl
	if ctrl == nil {
		return
	}
	go func() {
		if err := fn(ctrl); err != nil {
			p.logger.Warn("Picker action failed",
				zap.String("action", action),
				zap.Error(err))
		}
	}()
}

// PushSnapshot replaces the listed history
func (p *Picker) PushSnapshot(entries []types.ClipEntry) {
	summaries := types.Summaries(entries)
	fyne.Do(func() {
		p.view.Update(summaries)
	})
}

// Show opens the window
func (p *Picker) Show() {
	p.visible.Store(true)
	fyne.Do(func() {
		p.window.Show()
		p.window.RequestFocus()
	})
}

// Hide closes the window
func (p *Picker) Hide() {
	p.visible.Store(false)
	fyne.Do(p.window.Hide)
}

// Visible reports whether the window is open
func (p *Picker) Visible() bool {
	return p.visible.Load()
}

// Run blocks in the fyne event loop until Quit is called
func (p *Picker) Run() {
	p.logger.Debug("Starting picker event loop")
	p.app.Run()
}

// Quit stops the fyne event loop
func (p *Picker) Quit() {
	fyne.Do(p.app.Quit)
}
