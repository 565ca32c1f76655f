package clipboard

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	// Decoders for formats clipboards commonly carry.
	_ "image/gif"
	_ "image/jpeg"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/berrythewa/clipstack/internal/types"
)

// DefaultThumbnailSize is the edge length of generated thumbnails in pixels
const DefaultThumbnailSize = 18

// Digest returns a fast non-cryptographic hash of raw image bytes.
// It is the change fingerprint and the deduplication key for images.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// DecodeImage decodes an encoded image
func DecodeImage(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty image data", types.ErrDecode)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}
	return img, nil
}

// CheckImage verifies that data holds a decodable image header without
// decoding the pixels.
func CheckImage(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty image data", types.ErrDecode)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("%w: %v", types.ErrDecode, err)
	}
	return nil
}

// MakeThumbnail scales img to a size×size square and encodes it as PNG
func MakeThumbnail(img image.Image, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultThumbnailSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildImagePayload decodes raw image bytes and returns an image payload with
// its thumbnail and digest.
func BuildImagePayload(raw []byte, thumbSize int) (types.ClipPayload, error) {
	img, err := DecodeImage(raw)
	if err != nil {
		return types.ClipPayload{}, err
	}
	thumb, err := MakeThumbnail(img, thumbSize)
	if err != nil {
		return types.ClipPayload{}, err
	}
	b := img.Bounds()
	return types.NewImagePayload(types.ImageData{
		Full:      raw,
		Thumbnail: thumb,
		Digest:    Digest(raw),
		Width:     b.Dx(),
		Height:    b.Dy(),
	}), nil
}
