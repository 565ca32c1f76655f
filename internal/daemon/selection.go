package daemon

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/clipboard"
	"github.com/berrythewa/clipstack/internal/types"
)

// Select restores entry to the clipboard and promotes it to the front of the
// history. The entry is promoted, the history saved and the display hidden
// even when the restore fails; the restore error is returned.
func (e *Engine) Select(ctx context.Context, entry types.ClipEntry) error {
	var err error
	if derr := e.do(ctx, "select", func() { err = e.selectEntry(entry) }); derr != nil {
		return derr
	}
	return err
}

// SelectID selects the entry with the given ID
func (e *Engine) SelectID(ctx context.Context, id string) error {
	var err error
	derr := e.do(ctx, "select", func() {
		entry, ok := e.store.Find(id)
		if !ok {
			err = fmt.Errorf("%w: id %q", ErrNotFound, id)
			return
		}
		err = e.selectEntry(entry)
	})
	if derr != nil {
		return derr
	}
	return err
}

// SelectIndex selects the entry at position i, 0 being the most recent
func (e *Engine) SelectIndex(ctx context.Context, i int) error {
	var err error
	derr := e.do(ctx, "select", func() {
		entry, ok := e.store.At(i)
		if !ok {
			err = fmt.Errorf("%w: index %d", ErrNotFound, i)
			return
		}
		err = e.selectEntry(entry)
	})
	if derr != nil {
		return derr
	}
	return err
}

func (e *Engine) selectEntry(entry types.ClipEntry) error {
	err := e.restore(entry.Payload)
	if err != nil {
		e.logger.Error("Failed to restore entry to clipboard",
			zap.String("id", entry.ID),
			zap.String("type", string(entry.Payload.Type)),
			zap.Error(err))
	} else {
		// keep the next tick from capturing what we just wrote
		e.detector.Remember(entry.Payload)
	}

	if e.store.Promote(entry) {
		e.logger.Debug("Promoted entry", zap.String("id", entry.ID))
	}
	e.persist()
	e.pushIfVisible()
	e.presenter.Hide()
	return err
}

func (e *Engine) restore(p types.ClipPayload) error {
	var err error
	switch p.Type {
	case types.TypeText:
		err = e.source.WriteText(p.Text)

	case types.TypeImage:
		if p.Image == nil {
			return fmt.Errorf("%w: %w: entry has no image data", types.ErrWrite, types.ErrDecode)
		}
		if cerr := clipboard.CheckImage(p.Image.Full); cerr != nil {
			return fmt.Errorf("%w: %w", types.ErrWrite, cerr)
		}
		err = e.source.WriteImage(p.Image.Full)

	default:
		return fmt.Errorf("%w: unknown payload type %q", types.ErrWrite, p.Type)
	}

	if err != nil && !errors.Is(err, types.ErrWrite) {
		err = fmt.Errorf("%w: %v", types.ErrWrite, err)
	}
	return err
}
