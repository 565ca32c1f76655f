package format

import (
	"fmt"
	"strings"
	"time"
)

// Status is what `clipstack status` reports
type Status struct {
	Running  bool   `json:"running"`
	PID      int    `json:"pid,omitempty"`
	Socket   string `json:"socket"`
	Source   string `json:"source,omitempty"`
	Entries  int    `json:"entries"`
	Capacity int    `json:"capacity,omitempty"`
	Visible  bool   `json:"visible"`

	DBPath    string    `json:"db_path"`
	DBSize    int64     `json:"db_size_bytes,omitempty"`
	DBEntries int       `json:"db_entries,omitempty"`
	SavedAt   time.Time `json:"saved_at,omitempty"`
}

// FormatStatus formats daemon and storage status for display
func FormatStatus(st Status, opts Options) string {
	title := "Clipstack Status"
	if opts.UseIcons {
		title = "📊 " + title
	}
	parts := []string{ColorizeIf(title, BrightBlue, opts.UseColors), ""}

	if st.Running {
		parts = append(parts, formatStatLine("Daemon", ColorizeIf(fmt.Sprintf("running (pid %d)", st.PID), Green, opts.UseColors), opts))
	} else {
		parts = append(parts, formatStatLine("Daemon", ColorizeIf("not running", Yellow, opts.UseColors), opts))
	}
	if st.Socket != "" {
		parts = append(parts, formatStatLine("Socket", st.Socket, opts))
	}
	if st.Source != "" {
		parts = append(parts, formatStatLine("Clipboard", st.Source, opts))
		parts = append(parts, formatStatLine("Entries", fmt.Sprintf("%d / %d", st.Entries, st.Capacity), opts))
		parts = append(parts, formatStatLine("Picker visible", fmt.Sprintf("%t", st.Visible), opts))
	}

	if st.DBPath != "" {
		parts = append(parts, "", ColorizeIf("Storage", BrightBlue, opts.UseColors))
		parts = append(parts, formatStatLine("Database", st.DBPath, opts))
		// a running daemon holds the database lock
		if !st.Running {
			parts = append(parts, formatStatLine("Size", FormatSize(st.DBSize), opts))
			parts = append(parts, formatStatLine("Stored entries", fmt.Sprintf("%d", st.DBEntries), opts))
			parts = append(parts, formatStatLine("Last saved", FormatRelativeTime(st.SavedAt), opts))
		}
	}

	return strings.Join(parts, "\n")
}

// formatStatLine formats a statistics line with label and value
func formatStatLine(label, value string, opts Options) string {
	if opts.UseColors {
		return fmt.Sprintf("  %s%s:%s %s", BrightCyan, label, Reset, value)
	}
	return fmt.Sprintf("  %s: %s", label, value)
}
