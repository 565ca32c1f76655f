package clipboard

import (
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/types"
)

// ChangeDetector remembers the last committed clipboard content and reports
// only payloads that differ from it. Text is compared by value, images by
// the digest of their raw bytes.
type ChangeDetector struct {
	classifier *Classifier
	logger     *zap.Logger

	lastText   string
	hasText    bool
	lastDigest string
}

// NewChangeDetector creates a detector that classifies through c
func NewChangeDetector(c *Classifier, logger *zap.Logger) *ChangeDetector {
	if c == nil {
		c = NewClassifier()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeDetector{classifier: c, logger: logger}
}

// Detect reads the clipboard and returns the payload if it is new.
// Read failures leave the detector state untouched.
func (d *ChangeDetector) Detect(src Source) (*types.ClipPayload, error) {
	p, err := d.classifier.Classify(src)
	if err != nil {
		return nil, err
	}
	return d.Observe(p), nil
}

// Observe feeds a classified payload (nil for an empty clipboard) into the
// detector and returns it when it counts as a change.
func (d *ChangeDetector) Observe(p *types.ClipPayload) *types.ClipPayload {
	if p == nil {
		d.lastDigest = ""
		return nil
	}

	switch p.Type {
	case types.TypeImage:
		if p.Image == nil || p.Image.Digest == "" || p.Image.Digest == d.lastDigest {
			return nil
		}
		d.lastDigest = p.Image.Digest
		d.lastText, d.hasText = "", false
		d.logger.Debug("Clipboard image changed", zap.String("digest", p.Image.Digest))
		return p

	case types.TypeText:
		d.lastDigest = ""
		if p.Text == "" || (d.hasText && p.Text == d.lastText) {
			return nil
		}
		d.lastText, d.hasText = p.Text, true
		d.logger.Debug("Clipboard text changed", zap.Int("length", len(p.Text)))
		return p
	}
	return nil
}

// Remember records p as the current clipboard content without reporting it.
// Used after writing an entry back to the clipboard.
func (d *ChangeDetector) Remember(p types.ClipPayload) {
	switch p.Type {
	case types.TypeImage:
		if p.Image != nil {
			d.lastDigest = p.Image.Digest
		}
		d.lastText, d.hasText = "", false
	case types.TypeText:
		d.lastText, d.hasText = p.Text, true
		d.lastDigest = ""
	}
}

// Prime records whatever the clipboard holds right now so that content
// present before startup is not captured as new.
func (d *ChangeDetector) Prime(src Source) error {
	p, err := d.classifier.Classify(src)
	if err != nil {
		return err
	}
	if p != nil {
		d.Remember(*p)
	}
	return nil
}
