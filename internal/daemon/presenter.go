package daemon

import "github.com/berrythewa/clipstack/internal/types"

// Presenter is a display surface for the history.
// Methods are called from the engine loop and must not block for long.
type Presenter interface {
	PushSnapshot(entries []types.ClipEntry)
	Show()
	Hide()
	Visible() bool
}

// Presenters fans out to several display surfaces
type Presenters []Presenter

func (ps Presenters) PushSnapshot(entries []types.ClipEntry) {
	for _, p := range ps {
		p.PushSnapshot(entries)
	}
}

func (ps Presenters) Show() {
	for _, p := range ps {
		p.Show()
	}
}

func (ps Presenters) Hide() {
	for _, p := range ps {
		p.Hide()
	}
}

// Visible reports whether any surface is showing
func (ps Presenters) Visible() bool {
	for _, p := range ps {
		if p.Visible() {
			return true
		}
	}
	return false
}

// NopPresenter discards everything
type NopPresenter struct{}

func (NopPresenter) PushSnapshot([]types.ClipEntry) {}
func (NopPresenter) Show()                          {}
func (NopPresenter) Hide()                          {}
func (NopPresenter) Visible() bool                  { return false }
