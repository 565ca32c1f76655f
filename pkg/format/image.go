package format

import (
	"fmt"

	"github.com/berrythewa/clipstack/internal/types"
)

// FormatImage formats image content for display
func FormatImage(s types.EntrySummary, opts Options) string {
	line := fmt.Sprintf("[Image %dx%d - %s]", s.Width, s.Height, FormatSize(int64(s.Size)))
	if opts.ShowMetadata && s.Digest != "" {
		line += "\n" + DimIf("digest "+s.Digest, opts.UseColors)
	}
	return line
}

// FormatImagePreview creates a short preview of image content
func FormatImagePreview(s types.EntrySummary, maxWidth int) string {
	return TruncateText(fmt.Sprintf("[Image %dx%d %s]", s.Width, s.Height, FormatSize(int64(s.Size))), maxWidth)
}
