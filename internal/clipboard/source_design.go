package clipboard

import (
	"fmt"

	xclip "golang.design/x/clipboard"

	"github.com/berrythewa/clipstack/internal/types"
)

// designSource talks to the clipboard through golang.design/x/clipboard.
// The library has no format listing, so AvailableKinds reads both formats
// and keeps the bytes for the Read calls that follow in the same tick.
type designSource struct {
	pendingText  []byte
	pendingImage []byte
	probed       bool
}

func (s *designSource) Name() string { return "golang.design/x/clipboard" }

func (s *designSource) AvailableKinds() (Kinds, error) {
	s.pendingImage = xclip.Read(xclip.FmtImage)
	s.pendingText = xclip.Read(xclip.FmtText)
	s.probed = true
	return Kinds{
		Text:  len(s.pendingText) > 0,
		Image: len(s.pendingImage) > 0,
	}, nil
}

func (s *designSource) ReadText() (string, error) {
	if s.probed {
		text := s.pendingText
		s.pendingText = nil
		return string(text), nil
	}
	return string(xclip.Read(xclip.FmtText)), nil
}

func (s *designSource) ReadImage() ([]byte, error) {
	if s.probed {
		img := s.pendingImage
		s.pendingImage = nil
		return img, nil
	}
	return xclip.Read(xclip.FmtImage), nil
}

func (s *designSource) WriteText(text string) error {
	s.reset()
	if ch := xclip.Write(xclip.FmtText, []byte(text)); ch == nil {
		return fmt.Errorf("%w: text rejected by backend", types.ErrWrite)
	}
	return nil
}

func (s *designSource) WriteImage(data []byte) error {
	s.reset()
	if ch := xclip.Write(xclip.FmtImage, data); ch == nil {
		return fmt.Errorf("%w: image rejected by backend", types.ErrWrite)
	}
	return nil
}

func (s *designSource) reset() {
	s.pendingText = nil
	s.pendingImage = nil
	s.probed = false
}
