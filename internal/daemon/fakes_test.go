package daemon

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/berrythewa/clipstack/internal/clipboard"
	"github.com/berrythewa/clipstack/internal/types"
)

type fakeSource struct {
	mu       sync.Mutex
	text     string
	kindsErr error
	writeErr error
	written  []types.ClipPayload
	reads    int
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) AvailableKinds() (clipboard.Kinds, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	if f.kindsErr != nil {
		return clipboard.Kinds{}, f.kindsErr
	}
	return clipboard.Kinds{Text: f.text != ""}, nil
}

func (f *fakeSource) ReadText() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.text, nil
}

func (f *fakeSource) ReadImage() ([]byte, error) { return nil, nil }

func (f *fakeSource) WriteText(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.text = text
	f.written = append(f.written, types.NewTextPayload(text))
	return nil
}

func (f *fakeSource) WriteImage(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written = append(f.written, types.NewImagePayload(types.ImageData{Full: data}))
	return nil
}

func (f *fakeSource) set(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
}

func (f *fakeSource) setKindsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.kindsErr = err
}

func (f *fakeSource) readCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

func (f *fakeSource) writes() []types.ClipPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]types.ClipPayload(nil), f.written...)
}

type fakePersister struct {
	mu      sync.Mutex
	initial []types.ClipEntry
	loadErr error
	saveErr error
	saves   [][]types.ClipEntry
}

func (f *fakePersister) Load() ([]types.ClipEntry, error) {
	return f.initial, f.loadErr
}

func (f *fakePersister) Save(entries []types.ClipEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves = append(f.saves, entries)
	return f.saveErr
}

func (f *fakePersister) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.saves)
}

func (f *fakePersister) lastSave() []types.ClipEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.saves) == 0 {
		return nil
	}
	return f.saves[len(f.saves)-1]
}

type fakePresenter struct {
	mu      sync.Mutex
	visible bool
	calls   []string
	pushed  [][]types.ClipEntry
}

func (f *fakePresenter) PushSnapshot(entries []types.ClipEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "push")
	f.pushed = append(f.pushed, entries)
}

func (f *fakePresenter) Show() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "show")
	f.visible = true
}

func (f *fakePresenter) Hide() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "hide")
	f.visible = false
}

func (f *fakePresenter) Visible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible
}

func (f *fakePresenter) setVisible(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = v
}

func (f *fakePresenter) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakePresenter) lastPush() []types.ClipEntry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.pushed) == 0 {
		return nil
	}
	return f.pushed[len(f.pushed)-1]
}

func (f *fakePresenter) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

var errFake = errors.New("fake failure")

type harness struct {
	engine    *Engine
	source    *fakeSource
	persister *fakePersister
	presenter *fakePresenter
	ctx       context.Context
}

// startEngine runs an engine with a short poll interval until the test ends
func startEngine(t *testing.T, src *fakeSource, p *fakePersister, pres *fakePresenter) *harness {
	t.Helper()
	if src == nil {
		src = &fakeSource{}
	}
	if p == nil {
		p = &fakePersister{}
	}
	if pres == nil {
		pres = &fakePresenter{}
	}

	e := NewEngine(src, p, pres, Options{
		PollInterval: 5 * time.Millisecond,
		Logger:       zaptest.NewLogger(t),
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	return &harness{engine: e, source: src, persister: p, presenter: pres, ctx: ctx}
}

func (h *harness) texts(t *testing.T) []string {
	t.Helper()
	entries, err := h.engine.Snapshot(h.ctx)
	assert.NoError(t, err)
	return texts(entries)
}

func texts(entries []types.ClipEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		if e.Payload.Type == types.TypeImage {
			out[i] = "img:" + e.ID
			continue
		}
		out[i] = e.Payload.Text
	}
	return out
}

func textEntry(id, text string) types.ClipEntry {
	return types.ClipEntry{ID: id, Payload: types.NewTextPayload(text)}
}
