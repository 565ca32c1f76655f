package ipc

import (
	"fmt"
	"math"

	"github.com/berrythewa/clipstack/internal/types"
)

// Commands understood by the daemon
const (
	CmdPing      = "ping"
	CmdStatus    = "status"
	CmdHistory   = "history"
	CmdSelect    = "select"
	CmdClear     = "clear"
	CmdShow      = "show"
	CmdHide      = "hide"
	CmdDragStart = "drag-start"
	CmdDragEnd   = "drag-end"
	CmdFocusLost = "focus-lost"
	CmdWatch     = "watch"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Notification events sent to watch subscribers
const (
	EventSnapshot = "snapshot"
	EventShow     = "show"
	EventHide     = "hide"
)

// Request represents a command sent from a client to the daemon.
type Request struct {
	Command string                 `json:"command"`        // e.g. "history", "select", "watch"
	Args    map[string]interface{} `json:"args,omitempty"` // Command-specific arguments
}

// Response represents a reply from the daemon to the client.
type Response struct {
	Status  string      `json:"status"`            // "ok" or "error"
	Message string      `json:"message,omitempty"` // Human-readable message or error
	Data    interface{} `json:"data,omitempty"`    // Command-specific data (history, etc.)
}

// Notification is pushed to watch subscribers, one JSON object per line.
type Notification struct {
	Event   string               `json:"event"`
	Entries []types.EntrySummary `json:"entries,omitempty"`
}

// OK returns a successful response
func OK(data interface{}) *Response {
	return &Response{Status: StatusOK, Data: data}
}

// Errorf returns an error response
func Errorf(format string, args ...interface{}) *Response {
	return &Response{Status: StatusError, Message: fmt.Sprintf(format, args...)}
}

// Err returns the response's error, if any
func (r *Response) Err() error {
	if r.Status == StatusOK {
		return nil
	}
	if r.Message == "" {
		return fmt.Errorf("daemon returned status %q", r.Status)
	}
	return fmt.Errorf("daemon: %s", r.Message)
}

// StringArg returns a string argument
func (r *Request) StringArg(name string) (string, bool) {
	v, ok := r.Args[name].(string)
	return v, ok
}

// IntArg returns an integral argument. JSON numbers arrive as float64.
func (r *Request) IntArg(name string) (int, bool) {
	switch v := r.Args[name].(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	}
	return 0, false
}

// BoolArg returns a boolean argument
func (r *Request) BoolArg(name string) (bool, bool) {
	v, ok := r.Args[name].(bool)
	return v, ok
}
