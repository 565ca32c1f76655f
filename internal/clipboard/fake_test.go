package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

var errFakeRead = errors.New("fake read failure")

// fakeSource is a scripted Source for tests
type fakeSource struct {
	kinds    Kinds
	kindsErr error
	text     string
	textErr  error
	image    []byte
	imageErr error

	imageReads int
	written    []any
}

func (f *fakeSource) Name() string                   { return "fake" }
func (f *fakeSource) AvailableKinds() (Kinds, error) { return f.kinds, f.kindsErr }
func (f *fakeSource) ReadText() (string, error)      { return f.text, f.textErr }

func (f *fakeSource) ReadImage() ([]byte, error) {
	f.imageReads++
	return f.image, f.imageErr
}

func (f *fakeSource) WriteText(text string) error {
	f.written = append(f.written, text)
	return nil
}

func (f *fakeSource) WriteImage(data []byte) error {
	f.written = append(f.written, data)
	return nil
}

func (f *fakeSource) setText(text string) {
	f.kinds = Kinds{Text: text != ""}
	f.text = text
	f.image = nil
}

func (f *fakeSource) setImage(data []byte) {
	f.kinds = Kinds{Image: true}
	f.image = data
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
