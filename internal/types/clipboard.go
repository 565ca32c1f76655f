package types

import (
	"time"
)

// ContentType represents the kind of payload held by a clipboard entry
type ContentType string

const (
	TypeText  ContentType = "text"
	TypeImage ContentType = "image"
)

// ImageData is a raster image captured from the clipboard.
// Full is the value restored to the clipboard; Thumbnail is a small PNG used
// only for display. Digest is a hash of Full and identifies the image.
type ImageData struct {
	Full      []byte `json:"full"`
	Thumbnail []byte `json:"thumbnail"`
	Digest    string `json:"digest"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// ClipPayload is either a text or an image payload, selected by Type
type ClipPayload struct {
	Type  ContentType `json:"type"`
	Text  string      `json:"text,omitempty"`
	Image *ImageData  `json:"image,omitempty"`
}

// NewTextPayload returns a text payload
func NewTextPayload(text string) ClipPayload {
	return ClipPayload{Type: TypeText, Text: text}
}

// NewImagePayload returns an image payload
func NewImagePayload(img ImageData) ClipPayload {
	return ClipPayload{Type: TypeImage, Image: &img}
}

// SameContent reports whether two payloads are content-equal: texts compare
// by string, images by digest.
func (p ClipPayload) SameContent(o ClipPayload) bool {
	if p.Type != o.Type {
		return false
	}
	switch p.Type {
	case TypeText:
		return p.Text == o.Text
	case TypeImage:
		if p.Image == nil || o.Image == nil {
			return p.Image == o.Image
		}
		return p.Image.Digest != "" && p.Image.Digest == o.Image.Digest
	default:
		return false
	}
}

// Size returns the number of bytes the restorable value occupies
func (p ClipPayload) Size() int {
	if p.Type == TypeImage && p.Image != nil {
		return len(p.Image.Full)
	}
	return len(p.Text)
}

// ClipEntry is one record of the clipboard history. ID and Captured are
// informational; identity is the payload content.
type ClipEntry struct {
	ID       string      `json:"id"`
	Payload  ClipPayload `json:"payload"`
	Captured time.Time   `json:"captured"`
}

// Equal compares two entries by payload content
func (e ClipEntry) Equal(o ClipEntry) bool {
	return e.Payload.SameContent(o.Payload)
}

// EntrySummary is the display form of an entry, without the full image bytes
type EntrySummary struct {
	ID        string      `json:"id"`
	Type      ContentType `json:"type"`
	Text      string      `json:"text,omitempty"`
	Thumbnail []byte      `json:"thumbnail,omitempty"`
	Width     int         `json:"width,omitempty"`
	Height    int         `json:"height,omitempty"`
	Size      int         `json:"size"`
	Digest    string      `json:"digest,omitempty"`
	Captured  time.Time   `json:"captured"`
}

// Summary returns the display form of the entry
func (e ClipEntry) Summary() EntrySummary {
	s := EntrySummary{
		ID:       e.ID,
		Type:     e.Payload.Type,
		Size:     e.Payload.Size(),
		Captured: e.Captured,
	}
	switch e.Payload.Type {
	case TypeText:
		s.Text = e.Payload.Text
	case TypeImage:
		if img := e.Payload.Image; img != nil {
			s.Thumbnail = img.Thumbnail
			s.Width = img.Width
			s.Height = img.Height
			s.Digest = img.Digest
		}
	}
	return s
}

// Summaries converts a history snapshot to its display form
func Summaries(entries []ClipEntry) []EntrySummary {
	out := make([]EntrySummary, len(entries))
	for i, e := range entries {
		out[i] = e.Summary()
	}
	return out
}
