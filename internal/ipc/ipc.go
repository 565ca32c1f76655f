package ipc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	dialTimeout    = 2 * time.Second
	requestTimeout = 5 * time.Second
)

// ErrNoDaemon means nothing is listening on the socket
var ErrNoDaemon = errors.New("daemon not reachable")

// Handler answers a single request
type Handler func(ctx context.Context, req *Request) *Response

// Server accepts requests on a unix socket. A "watch" request is answered
// like any other and the connection is then handed to the Hub.
type Server struct {
	socketPath string
	handler    Handler
	hub        *Hub
	logger     *zap.Logger

	wg sync.WaitGroup
}

// NewServer creates a server. hub may be nil, in which case watch requests
// get a single response and the connection is closed.
func NewServer(socketPath string, handler Handler, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{socketPath: socketPath, handler: handler, hub: hub, logger: logger}
}

// ListenAndServe serves until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0700); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	// Remove any stale socket
	os.Remove(s.socketPath)

	ln, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to listen on socket: %w", err)
	}
	defer os.Remove(s.socketPath)

	s.logger.Info("IPC server listening", zap.String("socket", s.socketPath))

	go func() {
		<-ctx.Done()
		ln.Close()
		if s.hub != nil {
			s.hub.Close()
		}
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.wg.Wait()
				return nil
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}
			s.logger.Debug("Accept failed", zap.Error(err))
			continue
		}
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, conn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	dec := json.NewDecoder(conn)
	enc := json.NewEncoder(conn)

	conn.SetReadDeadline(time.Now().Add(requestTimeout))
	var req Request
	if err := dec.Decode(&req); err != nil {
		enc.Encode(Errorf("invalid request: %v", err))
		return
	}
	conn.SetReadDeadline(time.Time{})
	s.logger.Debug("IPC request", zap.String("command", req.Command))

	resp := s.handler(ctx, &req)
	if resp == nil {
		resp = Errorf("no response for command %q", req.Command)
	}
	if err := enc.Encode(resp); err != nil {
		s.logger.Debug("Failed to write response", zap.Error(err))
		return
	}

	if req.Command == CmdWatch && resp.Status == StatusOK && s.hub != nil {
		s.hub.Serve(conn)
	}
}

// SendRequest connects to the daemon, sends a request, and returns the response.
func SendRequest(ctx context.Context, socketPath string, req *Request) (*Response, error) {
	conn, err := dial(ctx, socketPath)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	if err := json.NewEncoder(conn).Encode(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &resp, nil
}

// Watch subscribes to history notifications. The initial response is
// returned through first; fn is then called for every notification until
// ctx is cancelled, the daemon goes away, or fn returns an error.
func Watch(ctx context.Context, socketPath string, first func(*Response) error, fn func(Notification) error) error {
	conn, err := dial(ctx, socketPath)
	if err != nil {
		return err
	}
	defer conn.Close()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-stop:
		}
	}()

	if err := json.NewEncoder(conn).Encode(&Request{Command: CmdWatch}); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}

	dec := json.NewDecoder(conn)

	var resp Response
	if err := dec.Decode(&resp); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := resp.Err(); err != nil {
		return err
	}
	if first != nil {
		if err := first(&resp); err != nil {
			return err
		}
	}

	for {
		var n Notification
		if err := dec.Decode(&n); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("watch ended: %w", err)
		}
		if err := fn(n); err != nil {
			return err
		}
	}
}

func dial(ctx context.Context, socketPath string) (net.Conn, error) {
	d := net.Dialer{Timeout: dialTimeout}
	conn, err := d.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w at %s: %v", ErrNoDaemon, socketPath, err)
	}
	return conn, nil
}
