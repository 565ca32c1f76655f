// Package clipboard reads and writes the system clipboard and turns raw reads
// into typed payloads.
//
// Backends, in order of preference:
//
//	source_design.go    text + image via golang.design/x/clipboard
//	source_text.go      text only via github.com/atotto/clipboard
//	source_headless.go  no display available; nothing to read
package clipboard

import (
	atotto "github.com/atotto/clipboard"
	xclip "golang.design/x/clipboard"
	"go.uber.org/zap"
)

// Kinds lists the content kinds a clipboard currently advertises
type Kinds struct {
	Text  bool
	Image bool
}

// Source is read/write access to the system clipboard.
// Implementations are used from a single goroutine.
type Source interface {
	// Name returns a human-readable name for the backend
	Name() string

	// AvailableKinds reports which kinds of content the clipboard holds
	AvailableKinds() (Kinds, error)

	// ReadText returns the clipboard text
	ReadText() (string, error)

	// ReadImage returns the clipboard image in its encoded form (PNG for
	// the default backend)
	ReadImage() ([]byte, error)

	// WriteText replaces the clipboard content with text
	WriteText(text string) error

	// WriteImage replaces the clipboard content with an encoded image
	WriteImage(data []byte) error
}

// NewSource returns the best clipboard backend available on this machine
func NewSource(logger *zap.Logger) Source {
	if logger == nil {
		logger = zap.NewNop()
	}

	err := xclip.Init()
	if err == nil {
		logger.Debug("Using image-capable clipboard backend")
		return &designSource{}
	}
	logger.Warn("Image clipboard backend unavailable, falling back", zap.Error(err))

	if !atotto.Unsupported {
		return &textSource{}
	}

	logger.Warn("No clipboard utility found, running headless")
	return headlessSource{}
}
