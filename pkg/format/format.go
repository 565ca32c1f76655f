// Package format renders clipboard history for the terminal.
package format

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/berrythewa/clipstack/internal/types"
)

// Formatter renders entry summaries according to its options
type Formatter struct {
	options Options
}

// New creates a new formatter with the given options
func New(opts Options) *Formatter {
	return &Formatter{
		options: opts,
	}
}

// NewDefault creates a new formatter with default options
func NewDefault() *Formatter {
	return New(DefaultOptions())
}

// FormatEntry formats a single history entry
func (f *Formatter) FormatEntry(s types.EntrySummary) string {
	header := f.formatHeader(s)

	if f.options.Compact {
		width := f.options.MaxWidth - runewidth.StringWidth(header) - 1
		if f.options.MaxWidth <= 0 {
			width = 0
		} else if width < 10 {
			width = 10
		}
		return header + " " + f.formatPreview(s, width)
	}

	parts := []string{header}
	if f.options.ShowMetadata {
		parts = append(parts, f.formatMetadata(s))
	}
	if body := f.formatBody(s); body != "" {
		parts = append(parts, CreateBox("Content", body, f.options))
	}
	return strings.Join(parts, "\n")
}

// FormatList formats a history snapshot, most recent first, with 1-based
// indexes matching `history select <index>`
func (f *Formatter) FormatList(entries []types.EntrySummary) string {
	if len(entries) == 0 {
		return ColorizeIf("No clipboard history", Gray, f.options.UseColors)
	}

	parts := []string{f.formatListHeader(len(entries)), ""}
	indexWidth := len(fmt.Sprintf("[%d]", len(entries)))

	for i, s := range entries {
		index := PadRight(fmt.Sprintf("[%d]", i+1), indexWidth)
		index = DimIf(index, f.options.UseColors)

		if f.options.Compact {
			parts = append(parts, index+" "+f.FormatEntry(s))
			continue
		}
		parts = append(parts, index, f.FormatEntry(s))
		if i < len(entries)-1 {
			parts = append(parts, CreateSeparator(f.options))
		}
	}

	return strings.Join(parts, "\n")
}

func (f *Formatter) formatHeader(s types.EntrySummary) string {
	var parts []string
	if f.options.UseIcons {
		if icon, ok := ContentIcons[s.Type]; ok {
			parts = append(parts, icon)
		}
	}

	typeStr := string(s.Type)
	if color, ok := ContentColors[s.Type]; ok {
		typeStr = ColorizeIf(PadRight(typeStr, 5), color, f.options.UseColors)
	}
	parts = append(parts, typeStr)
	return strings.Join(parts, " ")
}

func (f *Formatter) formatMetadata(s types.EntrySummary) string {
	parts := []string{
		"ID: " + shortID(s.ID),
		"Captured: " + FormatRelativeTime(s.Captured),
		"Size: " + FormatSize(int64(s.Size)),
	}
	return DimIf(strings.Join(parts, " • "), f.options.UseColors)
}

func (f *Formatter) formatBody(s types.EntrySummary) string {
	switch s.Type {
	case types.TypeImage:
		return FormatImage(s, f.options)
	default:
		return FormatText(s, f.options)
	}
}

func (f *Formatter) formatPreview(s types.EntrySummary, maxWidth int) string {
	switch s.Type {
	case types.TypeImage:
		return FormatImagePreview(s, maxWidth)
	default:
		return FormatTextPreview(s, maxWidth)
	}
}

func (f *Formatter) formatListHeader(count int) string {
	title := fmt.Sprintf("Clipboard History (%d entries)", count)
	if f.options.UseIcons {
		title = "📋 " + title
	}
	return ColorizeIf(title, BrightBlue, f.options.UseColors)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// FormatList formats a history snapshot with given options
func FormatList(entries []types.EntrySummary, opts Options) string {
	return New(opts).FormatList(entries)
}
