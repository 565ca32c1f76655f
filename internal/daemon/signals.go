package daemon

import (
	"context"

	"github.com/berrythewa/clipstack/internal/types"
)

// Status describes the running engine
type Status struct {
	Source         string `json:"source"`
	Entries        int    `json:"entries"`
	Capacity       int    `json:"capacity"`
	Visible        bool   `json:"visible"`
	DragInProgress bool   `json:"drag_in_progress"`
}

// Clear empties the history
func (e *Engine) Clear(ctx context.Context) error {
	return e.do(ctx, "clear", func() {
		e.store.Clear()
		e.logger.Info("History cleared")
		e.persist()
		e.pushIfVisible()
	})
}

// Snapshot returns a copy of the history, most recent first
func (e *Engine) Snapshot(ctx context.Context) ([]types.ClipEntry, error) {
	var entries []types.ClipEntry
	err := e.do(ctx, "snapshot", func() { entries = e.store.Snapshot() })
	return entries, err
}

// Status reports the engine state
func (e *Engine) Status(ctx context.Context) (Status, error) {
	var st Status
	err := e.do(ctx, "status", func() {
		st = Status{
			Source:         e.source.Name(),
			Entries:        e.store.Len(),
			Capacity:       e.store.Capacity(),
			Visible:        e.presenter.Visible(),
			DragInProgress: e.dragInProgress,
		}
	})
	return st, err
}

// Show sends the current history to the display and opens it
func (e *Engine) Show(ctx context.Context) error {
	return e.do(ctx, "show", func() {
		e.presenter.PushSnapshot(e.store.Snapshot())
		e.presenter.Show()
	})
}

// Hide closes the display
func (e *Engine) Hide(ctx context.Context) error {
	return e.do(ctx, "hide", e.presenter.Hide)
}

// NotifyDragStart records that an entry is being dragged out of the display
func (e *Engine) NotifyDragStart(ctx context.Context) error {
	return e.do(ctx, "drag-start", func() {
		e.dragInProgress = true
	})
}

// NotifyDragEnd ends a drag. The display is closed only when the drop
// succeeded.
func (e *Engine) NotifyDragEnd(ctx context.Context, dropSuccessful bool) error {
	return e.do(ctx, "drag-end", func() {
		e.dragInProgress = false
		if dropSuccessful {
			e.presenter.Hide()
		}
	})
}

// NotifyFocusLost closes the display unless a drag is in progress
func (e *Engine) NotifyFocusLost(ctx context.Context) error {
	return e.do(ctx, "focus-lost", func() {
		if e.dragInProgress {
			e.logger.Debug("Ignoring focus loss during drag")
			return
		}
		e.presenter.Hide()
	})
}
