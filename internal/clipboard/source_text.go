package clipboard

import (
	"errors"
	"fmt"

	atotto "github.com/atotto/clipboard"

	"github.com/berrythewa/clipstack/internal/types"
)

var errImageUnsupported = errors.New("images are not supported by this backend")

// textSource is a fallback backend using github.com/atotto/clipboard.
// It only supports text content.
type textSource struct{}

func (textSource) Name() string { return "atotto/clipboard (text only)" }

func (textSource) AvailableKinds() (Kinds, error) {
	return Kinds{Text: true}, nil
}

func (textSource) ReadText() (string, error) {
	text, err := atotto.ReadAll()
	if err != nil {
		return "", fmt.Errorf("%w: %v", types.ErrRead, err)
	}
	return text, nil
}

func (textSource) ReadImage() ([]byte, error) {
	return nil, fmt.Errorf("%w: %w", types.ErrRead, errImageUnsupported)
}

func (textSource) WriteText(text string) error {
	if err := atotto.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", types.ErrWrite, err)
	}
	return nil
}

func (textSource) WriteImage([]byte) error {
	return fmt.Errorf("%w: %w", types.ErrWrite, errImageUnsupported)
}
