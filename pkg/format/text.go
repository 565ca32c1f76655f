package format

import (
	"strings"

	"github.com/berrythewa/clipstack/internal/types"
)

// FormatText formats text content for display
func FormatText(s types.EntrySummary, opts Options) string {
	if s.Text == "" {
		return ""
	}

	text := s.Text
	if opts.MaxLines > 0 {
		text = TruncateLines(text, opts.MaxLines)
	}
	if opts.MaxWidth > 0 {
		lines := strings.Split(text, "\n")
		for i, line := range lines {
			lines[i] = TruncateText(line, opts.MaxWidth)
		}
		text = strings.Join(lines, "\n")
	}
	return text
}

// FormatTextPreview creates a one-line preview of text content
func FormatTextPreview(s types.EntrySummary, maxWidth int) string {
	if s.Text == "" {
		return "(empty)"
	}
	return TruncateText(SingleLine(s.Text), maxWidth)
}
