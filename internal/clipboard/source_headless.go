package clipboard

import (
	"fmt"

	"github.com/berrythewa/clipstack/internal/types"
)

// headlessSource is used when no display server is reachable (containers,
// CI, ssh sessions). It never reports content and refuses writes.
type headlessSource struct{}

func (headlessSource) Name() string                   { return "headless (no-op)" }
func (headlessSource) AvailableKinds() (Kinds, error) { return Kinds{}, nil }
func (headlessSource) ReadText() (string, error)      { return "", nil }
func (headlessSource) ReadImage() ([]byte, error)     { return nil, nil }

func (headlessSource) WriteText(string) error {
	return fmt.Errorf("%w: no clipboard available", types.ErrWrite)
}

func (headlessSource) WriteImage([]byte) error {
	return fmt.Errorf("%w: no clipboard available", types.ErrWrite)
}
