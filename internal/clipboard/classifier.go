package clipboard

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/types"
)

// DefaultMaxSizeBytes caps a single clipboard item
const DefaultMaxSizeBytes int64 = 32 * 1024 * 1024

// Classifier turns the current clipboard content into at most one payload.
// Images win over text; an image that cannot be read or decoded falls back
// to the text representation.
type Classifier struct {
	logger        *zap.Logger
	MaxSizeBytes  int64
	ThumbnailSize int

	// last decoded image, keyed by digest, so an unchanged image is not
	// decoded again on every poll
	memoDigest  string
	memoPayload types.ClipPayload
	memoErr     error
}

// NewClassifier creates a classifier with default limits
func NewClassifier() *Classifier {
	return &Classifier{
		logger:        zap.NewNop(),
		MaxSizeBytes:  DefaultMaxSizeBytes,
		ThumbnailSize: DefaultThumbnailSize,
	}
}

// SetLogger sets the logger for the classifier
func (c *Classifier) SetLogger(logger *zap.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Classify reads the clipboard through src. It returns nil when the
// clipboard holds nothing usable and an ErrRead-wrapped error when the
// clipboard could not be read at all.
func (c *Classifier) Classify(src Source) (*types.ClipPayload, error) {
	kinds, err := src.AvailableKinds()
	if err != nil {
		return nil, fmt.Errorf("%w: listing formats: %v", types.ErrRead, err)
	}

	if kinds.Image {
		p, err := c.classifyImage(src)
		switch {
		case err != nil:
			c.logger.Debug("Image unusable, trying text", zap.Error(err))
		case p != nil:
			return p, nil
		}
	}

	if !kinds.Text {
		return nil, nil
	}

	text, err := src.ReadText()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrRead, err)
	}
	if text == "" {
		return nil, nil
	}
	if c.tooLarge(int64(len(text)), types.TypeText) {
		return nil, nil
	}

	p := types.NewTextPayload(text)
	return &p, nil
}

func (c *Classifier) classifyImage(src Source) (*types.ClipPayload, error) {
	raw, err := src.ReadImage()
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	if c.tooLarge(int64(len(raw)), types.TypeImage) {
		return nil, nil
	}

	digest := Digest(raw)
	if digest != c.memoDigest {
		c.memoDigest = digest
		c.memoPayload, c.memoErr = BuildImagePayload(raw, c.ThumbnailSize)
		if c.memoErr != nil {
			c.logger.Warn("Failed to decode clipboard image",
				zap.String("digest", digest),
				zap.Int("size", len(raw)),
				zap.Error(c.memoErr))
		}
	}
	if c.memoErr != nil {
		return nil, c.memoErr
	}

	p := c.memoPayload
	return &p, nil
}

func (c *Classifier) tooLarge(size int64, kind types.ContentType) bool {
	if c.MaxSizeBytes <= 0 || size <= c.MaxSizeBytes {
		return false
	}
	c.logger.Debug("Content exceeds maximum size",
		zap.Int64("max_size_bytes", c.MaxSizeBytes),
		zap.Int64("content_size_bytes", size),
		zap.String("content_type", string(kind)))
	return true
}
