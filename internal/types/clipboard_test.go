package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameContent(t *testing.T) {
	img := func(digest string, thumb byte) ClipPayload {
		return NewImagePayload(ImageData{Full: []byte{thumb, thumb}, Thumbnail: []byte{thumb}, Digest: digest})
	}

	tests := []struct {
		name string
		a, b ClipPayload
		want bool
	}{
		{"equal text", NewTextPayload("x"), NewTextPayload("x"), true},
		{"different text", NewTextPayload("x"), NewTextPayload("y"), false},
		{"same digest, different thumbnail", img("d1", 1), img("d1", 2), true},
		{"same thumbnail, different digest", img("d1", 1), img("d2", 1), false},
		{"missing digest never matches", img("", 1), img("", 1), false},
		{"text vs image", NewTextPayload("d1"), img("d1", 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SameContent(tt.b))
			assert.Equal(t, tt.want, tt.b.SameContent(tt.a))
		})
	}
}

func TestSummary(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	text := ClipEntry{ID: "t", Payload: NewTextPayload("hello"), Captured: now}
	assert.Equal(t, EntrySummary{ID: "t", Type: TypeText, Text: "hello", Size: 5, Captured: now}, text.Summary())

	image := ClipEntry{ID: "i", Payload: NewImagePayload(ImageData{
		Full:      make([]byte, 300),
		Thumbnail: []byte{1, 2, 3},
		Digest:    "abc",
		Width:     20,
		Height:    10,
	})}
	s := image.Summary()
	assert.Equal(t, TypeImage, s.Type)
	assert.Equal(t, 300, s.Size)
	assert.Equal(t, []byte{1, 2, 3}, s.Thumbnail)
	assert.Equal(t, "abc", s.Digest)
	assert.Equal(t, 20, s.Width)
	assert.Empty(t, s.Text)

	assert.Len(t, Summaries([]ClipEntry{text, image}), 2)
}
