package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/berrythewa/clipstack/internal/ipc"
	"github.com/berrythewa/clipstack/internal/storage"
	"github.com/berrythewa/clipstack/internal/types"
	"github.com/berrythewa/clipstack/pkg/format"
)

type env struct {
	dir    string
	socket string
	db     string
}

func setupEnv(t *testing.T) env {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CLIPSTACK_CONFIG_DIR", filepath.Join(dir, "config"))
	t.Setenv("CLIPSTACK_DATA_DIR", filepath.Join(dir, "data"))

	// unix socket paths are length limited
	sockDir, err := os.MkdirTemp("", "cs")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(sockDir) })
	socket := filepath.Join(sockDir, "s.sock")
	t.Setenv("CLIPSTACK_SOCKET", socket)

	return env{dir: dir, socket: socket, db: filepath.Join(dir, "data", "clipstack.db")}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	out := new(bytes.Buffer)
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func seedDB(t *testing.T, path string, entries []types.ClipEntry) {
	t.Helper()
	store, err := storage.NewBoltStorage(storage.StorageConfig{DBPath: path})
	require.NoError(t, err)
	require.NoError(t, store.Save(entries))
	require.NoError(t, store.Close())
}

// fakeDaemon answers requests on the socket and records them
type fakeDaemon struct {
	mu       sync.Mutex
	requests []*ipc.Request
}

func (f *fakeDaemon) handle(_ context.Context, req *ipc.Request) *ipc.Response {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	switch req.Command {
	case ipc.CmdHistory, ipc.CmdWatch:
		return ipc.OK([]types.EntrySummary{
			{ID: "live-1", Type: types.TypeText, Text: "from daemon", Size: 11},
		})
	case ipc.CmdSelect:
		if _, ok := req.IntArg("index"); ok {
			return ipc.OK(nil)
		}
		return ipc.Errorf("not found: %v", req.Args["id"])
	case ipc.CmdClear:
		return ipc.OK(nil)
	case ipc.CmdStatus:
		return ipc.OK(map[string]interface{}{"source": "fake", "entries": 1, "capacity": 10})
	}
	return ipc.Errorf("unknown command %q", req.Command)
}

func (f *fakeDaemon) last() *ipc.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func startFakeDaemon(t *testing.T, socket string) *fakeDaemon {
	t.Helper()
	fd := &fakeDaemon{}
	srv := ipc.NewServer(socket, fd.handle, ipc.NewHub(zaptest.NewLogger(t)), zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	require.Eventually(t, func() bool {
		_, err := os.Stat(socket)
		return err == nil
	}, 2*time.Second, 5*time.Millisecond)
	return fd
}

func TestVersion(t *testing.T) {
	setupEnv(t)
	SetVersionInfo("1.2.3", "today", "abc")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Version:    1.2.3")
	assert.Contains(t, out, "Commit:     abc")
}

func TestConfigPath(t *testing.T) {
	e := setupEnv(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(e.dir, "config", "config.yaml"))
	assert.Contains(t, out, e.socket)
	assert.Contains(t, out, filepath.Join(e.dir, "data", "logs", LogFileName))
}

func TestConfigShowAppliesFlags(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "config", "show", "--format", "json", "--capacity", "5", "--log-level", "debug")
	require.NoError(t, err)

	var shown map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.EqualValues(t, 5, shown["capacity"])
	assert.Equal(t, "debug", shown["log"].(map[string]interface{})["level"])
}

func TestInvalidCapacityFlag(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "config", "show", "--capacity", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capacity must be positive")
}

func TestHistoryListFromDatabase(t *testing.T) {
	e := setupEnv(t)
	seedDB(t, e.db, []types.ClipEntry{
		{ID: "1", Payload: types.NewTextPayload("hello")},
		{ID: "2", Payload: types.NewTextPayload("older")},
	})

	out, err := execute(t, "history", "list", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] text  hello")
	assert.Contains(t, out, "[2] text  older")

	out, err = execute(t, "history", "list", "--json")
	require.NoError(t, err)
	var entries []types.EntrySummary
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "hello", entries[0].Text)
}

func TestHistoryListWithoutDaemonOrDatabase(t *testing.T) {
	setupEnv(t)

	_, err := execute(t, "history", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history unavailable")
}

func TestHistoryListFromDaemon(t *testing.T) {
	e := setupEnv(t)
	startFakeDaemon(t, e.socket)

	out, err := execute(t, "history", "list", "--compact")
	require.NoError(t, err)
	assert.Contains(t, out, "[1] text  from daemon")
}

func TestHistorySelect(t *testing.T) {
	e := setupEnv(t)
	fd := startFakeDaemon(t, e.socket)

	out, err := execute(t, "history", "select", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Entry restored")

	i, ok := fd.last().IntArg("index")
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, err = execute(t, "history", "select", "some-id")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found: some-id")
}

func TestHistoryClearOffline(t *testing.T) {
	e := setupEnv(t)
	seedDB(t, e.db, []types.ClipEntry{{ID: "1", Payload: types.NewTextPayload("hello")}})

	out, err := execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "History cleared")

	store, err := storage.NewBoltStorage(storage.StorageConfig{DBPath: e.db, ReadOnly: true})
	require.NoError(t, err)
	defer store.Close()
	entries, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryClearViaDaemon(t *testing.T) {
	e := setupEnv(t)
	fd := startFakeDaemon(t, e.socket)

	_, err := execute(t, "history", "clear")
	require.NoError(t, err)
	assert.Equal(t, ipc.CmdClear, fd.last().Command)
}

func TestStatusNotRunning(t *testing.T) {
	e := setupEnv(t)
	seedDB(t, e.db, []types.ClipEntry{{ID: "1", Payload: types.NewTextPayload("hello")}})

	out, err := execute(t, "status", "--json")
	require.NoError(t, err)

	var st format.Status
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.False(t, st.Running)
	assert.Equal(t, 1, st.DBEntries)
	assert.Equal(t, e.db, st.DBPath)
}

func TestStatusFromDaemon(t *testing.T) {
	e := setupEnv(t)
	startFakeDaemon(t, e.socket)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Clipboard: fake")
	assert.Contains(t, out, "Entries: 1 / 10")
}

func TestStopNotRunning(t *testing.T) {
	setupEnv(t)

	out, err := execute(t, "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Daemon is not running")
}

func TestWatchPrintsInitialSnapshot(t *testing.T) {
	e := setupEnv(t)
	startFakeDaemon(t, e.socket)

	ctx, cancel := context.WithCancel(context.Background())
	root := newRootCmd()
	out := &syncBuffer{}
	root.SetOut(out)
	root.SetArgs([]string{"watch", "--json"})

	done := make(chan error, 1)
	go func() { done <- root.ExecuteContext(ctx) }()

	require.Eventually(t, func() bool {
		return bytes.Contains(out.Bytes(), []byte("from daemon"))
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop")
	}
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) Bytes() []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]byte(nil), b.buf.Bytes()...)
}
