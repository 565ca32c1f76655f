package daemon

import (
	"context"
	"errors"

	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/types"
)

// HandleRequest answers an IPC request by running it on the engine
func (e *Engine) HandleRequest(ctx context.Context, req *ipc.Request) *ipc.Response {
	switch req.Command {
	case ipc.CmdPing:
		return &ipc.Response{Status: ipc.StatusOK, Message: "pong"}

	case ipc.CmdStatus:
		st, err := e.Status(ctx)
		if err != nil {
			return ipc.Errorf("%v", err)
		}
		return ipc.OK(st)

	case ipc.CmdHistory, ipc.CmdWatch:
		entries, err := e.Snapshot(ctx)
		if err != nil {
			return ipc.Errorf("%v", err)
		}
		return ipc.OK(types.Summaries(entries))

	case ipc.CmdSelect:
		return e.handleSelect(ctx, req)

	case ipc.CmdClear:
		return result(e.Clear(ctx), "History cleared")

	case ipc.CmdShow:
		return result(e.Show(ctx), "")

	case ipc.CmdHide:
		return result(e.Hide(ctx), "")

	case ipc.CmdDragStart:
		return result(e.NotifyDragStart(ctx), "")

	case ipc.CmdDragEnd:
		dropped, _ := req.BoolArg("dropped")
		return result(e.NotifyDragEnd(ctx, dropped), "")

	case ipc.CmdFocusLost:
		return result(e.NotifyFocusLost(ctx), "")

	default:
		return ipc.Errorf("unknown command %q", req.Command)
	}
}

func (e *Engine) handleSelect(ctx context.Context, req *ipc.Request) *ipc.Response {
	var err error
	if id, ok := req.StringArg("id"); ok && id != "" {
		err = e.SelectID(ctx, id)
	} else if i, ok := req.IntArg("index"); ok {
		err = e.SelectIndex(ctx, i)
	} else {
		return ipc.Errorf("select needs an id or an index")
	}

	// a failed restore still promoted the entry
	if errors.Is(err, types.ErrWrite) {
		return ipc.Errorf("entry promoted but not restored: %v", err)
	}
	return result(err, "Entry restored to clipboard")
}

func result(err error, msg string) *ipc.Response {
	if err != nil {
		return ipc.Errorf("%v", err)
	}
	return &ipc.Response{Status: ipc.StatusOK, Message: msg}
}
