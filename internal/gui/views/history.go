// Package views builds the picker's widgets.
package views

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/berrythewa/clipstack/internal/types"
	"github.com/berrythewa/clipstack/pkg/format"
)

const (
	// EmptyText is shown when the history has no entries
	EmptyText = "No clipboard history"

	previewWidth = 60
)

// HistoryView lists entry summaries, most recent first. It must only be
// touched from the fyne goroutine.
type HistoryView struct {
	OnSelect func(id string)
	OnClear  func()

	entries   []types.EntrySummary
	thumbSize float32

	list    *widget.List
	empty   *widget.Label
	clear   *widget.Button
	content fyne.CanvasObject
}

// NewHistoryView creates the list. thumbSize is the displayed edge of image
// thumbnails.
func NewHistoryView(thumbSize float32) *HistoryView {
	v := &HistoryView{thumbSize: thumbSize}
	v.createUI()
	return v
}

func (v *HistoryView) createUI() {
	v.list = widget.NewList(
		func() int { return len(v.entries) },
		func() fyne.CanvasObject {
			thumb := canvas.NewImageFromResource(theme.FileImageIcon())
			thumb.FillMode = canvas.ImageFillContain
			thumb.SetMinSize(fyne.NewSize(v.thumbSize, v.thumbSize))
			label := widget.NewLabel("Template")
			label.Truncation = fyne.TextTruncateEllipsis
			return container.NewBorder(nil, nil, thumb, nil, label)
		},
		func(id widget.ListItemID, item fyne.CanvasObject) {
			if id < 0 || id >= len(v.entries) {
				return
			}
			v.updateRow(v.entries[id], item.(*fyne.Container))
		},
	)

	v.list.OnSelected = func(id widget.ListItemID) {
		v.list.UnselectAll()
		if id < 0 || id >= len(v.entries) || v.OnSelect == nil {
			return
		}
		v.OnSelect(v.entries[id].ID)
	}

	v.empty = widget.NewLabelWithStyle(EmptyText, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	v.clear = widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), func() {
		if v.OnClear != nil {
			v.OnClear()
		}
	})

	// list and empty label share the center; only one is visible
	v.content = container.NewBorder(nil, container.NewHBox(layout.NewSpacer(), v.clear), nil, nil,
		container.NewStack(v.list, v.empty))
	v.refreshEmpty()
}

func (v *HistoryView) updateRow(s types.EntrySummary, row *fyne.Container) {
	var label *widget.Label
	var thumb *canvas.Image
	for _, obj := range row.Objects {
		switch o := obj.(type) {
		case *widget.Label:
			label = o
		case *canvas.Image:
			thumb = o
		}
	}
	if label == nil || thumb == nil {
		return
	}

	switch s.Type {
	case types.TypeImage:
		if len(s.Thumbnail) > 0 {
			thumb.Resource = fyne.NewStaticResource(fmt.Sprintf("thumb-%s.png", s.ID), s.Thumbnail)
		} else {
			thumb.Resource = theme.FileImageIcon()
		}
		thumb.Show()
		label.SetText(format.FormatImagePreview(s, previewWidth))
	default:
		thumb.Hide()
		label.SetText(format.FormatTextPreview(s, previewWidth))
	}
	thumb.Refresh()
}

// Update replaces the listed entries
func (v *HistoryView) Update(entries []types.EntrySummary) {
	v.entries = entries
	v.list.Refresh()
	v.list.ScrollToTop()
	v.refreshEmpty()
}

// Len returns the number of listed entries
func (v *HistoryView) Len() int {
	return len(v.entries)
}

// EmptyVisible reports whether the empty indicator is showing
func (v *HistoryView) EmptyVisible() bool {
	return v.empty.Visible()
}

// Content returns the root canvas object
func (v *HistoryView) Content() fyne.CanvasObject {
	return v.content
}

// List exposes the underlying list widget
func (v *HistoryView) List() *widget.List {
	return v.list
}

func (v *HistoryView) refreshEmpty() {
	if len(v.entries) == 0 {
		v.empty.Show()
		v.clear.Disable()
	} else {
		v.empty.Hide()
		v.clear.Enable()
	}
}
