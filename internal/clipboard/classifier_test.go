package clipboard

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/berrythewa/clipstack/internal/types"
)

func TestClassifyText(t *testing.T) {
	src := &fakeSource{}
	src.setText("hello")

	p, err := NewClassifier().Classify(src)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, types.TypeText, p.Type)
	assert.Equal(t, "hello", p.Text)
}

func TestClassifyEmpty(t *testing.T) {
	tests := []struct {
		name string
		src  *fakeSource
	}{
		{"nothing advertised", &fakeSource{}},
		{"empty text", &fakeSource{kinds: Kinds{Text: true}}},
		{"empty image and no text", &fakeSource{kinds: Kinds{Image: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewClassifier().Classify(tt.src)
			require.NoError(t, err)
			assert.Nil(t, p)
		})
	}
}

func TestClassifyImageWinsOverText(t *testing.T) {
	raw := pngBytes(t, 40, 30, color.RGBA{R: 255, A: 255})
	src := &fakeSource{
		kinds: Kinds{Text: true, Image: true},
		text:  "a description of the image",
		image: raw,
	}

	p, err := NewClassifier().Classify(src)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Equal(t, types.TypeImage, p.Type)

	assert.Equal(t, raw, p.Image.Full)
	assert.Equal(t, Digest(raw), p.Image.Digest)
	assert.Equal(t, 40, p.Image.Width)
	assert.Equal(t, 30, p.Image.Height)

	thumb, _, err := image.Decode(bytes.NewReader(p.Image.Thumbnail))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, DefaultThumbnailSize, DefaultThumbnailSize), thumb.Bounds())
}

func TestClassifyImageFallsBackToText(t *testing.T) {
	tests := []struct {
		name     string
		image    []byte
		imageErr error
	}{
		{"empty image read", nil, nil},
		{"undecodable image", []byte("definitely not an image"), nil},
		{"image read error", nil, errFakeRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{
				kinds:    Kinds{Text: true, Image: true},
				text:     "fallback",
				image:    tt.image,
				imageErr: tt.imageErr,
			}
			p, err := NewClassifier().Classify(src)
			require.NoError(t, err)
			require.NotNil(t, p)
			assert.Equal(t, types.NewTextPayload("fallback"), *p)
		})
	}
}

func TestClassifyReadErrors(t *testing.T) {
	t.Run("formats", func(t *testing.T) {
		src := &fakeSource{kindsErr: errFakeRead}
		_, err := NewClassifier().Classify(src)
		assert.True(t, errors.Is(err, types.ErrRead))
	})

	t.Run("text", func(t *testing.T) {
		src := &fakeSource{kinds: Kinds{Text: true}, textErr: errFakeRead}
		_, err := NewClassifier().Classify(src)
		assert.True(t, errors.Is(err, types.ErrRead))
	})
}

func TestClassifyMaxSize(t *testing.T) {
	c := NewClassifier()
	c.MaxSizeBytes = 4

	src := &fakeSource{}
	src.setText("too long")
	p, err := c.Classify(src)
	require.NoError(t, err)
	assert.Nil(t, p)

	src.setText("ok")
	p, err = c.Classify(src)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "ok", p.Text)
}

func TestClassifyMemoizesDecodedImage(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewClassifier()
	c.SetLogger(zap.New(core))

	bad := []byte("garbage")
	src := &fakeSource{kinds: Kinds{Image: true}, image: bad}

	for i := 0; i < 3; i++ {
		p, err := c.Classify(src)
		require.NoError(t, err)
		assert.Nil(t, p)
	}
	assert.Equal(t, 1, logs.FilterMessage("Failed to decode clipboard image").Len())

	good := pngBytes(t, 2, 2, color.White)
	src.image = good
	first, err := c.Classify(src)
	require.NoError(t, err)
	second, err := c.Classify(src)
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Same(t, first.Image, second.Image)
}
