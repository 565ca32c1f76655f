// Package daemon runs the clipboard history engine.
//
// All history mutations happen on the goroutine running Engine.Run. The poll
// timer and user requests (select, clear, drag and focus signals) are both
// delivered to that goroutine as tasks, so the history store needs no locks.
package daemon

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/clipboard"
	"github.com/berrythewa/clipstack/internal/history"
	"github.com/berrythewa/clipstack/internal/types"
)

const (
	DefaultCapacity     = history.DefaultCapacity
	DefaultPollInterval = time.Second
)

var (
	// ErrStopped is returned for requests made after the engine stopped
	ErrStopped = errors.New("engine stopped")

	// ErrNotFound is returned when a selection names no history entry
	ErrNotFound = errors.New("entry not found")
)

// Persister loads and saves the ordered history
type Persister interface {
	Load() ([]types.ClipEntry, error)
	Save(entries []types.ClipEntry) error
}

// Options configures an Engine
type Options struct {
	Capacity      int
	PollInterval  time.Duration
	ThumbnailSize int
	MaxItemBytes  int64
	Logger        *zap.Logger
}

type task struct {
	name string
	fn   func()
	done chan struct{}
}

// Engine owns the clipboard history and everything that mutates it
type Engine struct {
	source    clipboard.Source
	persister Persister
	presenter Presenter
	detector  *clipboard.ChangeDetector
	store     *history.Store
	logger    *zap.Logger

	capacity int
	interval time.Duration

	tasks   chan task
	stopped chan struct{}
	started atomic.Bool

	// loop-owned state
	dragInProgress bool
}

// NewEngine creates an engine reading from src. A nil persister disables
// persistence and a nil presenter disables display updates.
func NewEngine(src clipboard.Source, persister Persister, presenter Presenter, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if persister == nil {
		persister = nopPersister{}
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}

	classifier := clipboard.NewClassifier()
	classifier.SetLogger(logger.Named("classifier"))
	if opts.ThumbnailSize > 0 {
		classifier.ThumbnailSize = opts.ThumbnailSize
	}
	if opts.MaxItemBytes > 0 {
		classifier.MaxSizeBytes = opts.MaxItemBytes
	}

	return &Engine{
		source:    src,
		persister: persister,
		presenter: presenter,
		detector:  clipboard.NewChangeDetector(classifier, logger.Named("detector")),
		store:     history.New(opts.Capacity, nil),
		logger:    logger,
		capacity:  opts.Capacity,
		interval:  opts.PollInterval,
		tasks:     make(chan task),
		stopped:   make(chan struct{}),
	}
}

// Run hydrates the history, then polls the clipboard and executes queued
// requests until ctx is cancelled. It may be called once.
func (e *Engine) Run(ctx context.Context) error {
	if !e.started.CompareAndSwap(false, true) {
		return errors.New("engine already running")
	}
	defer close(e.stopped)

	e.hydrate()
	if err := e.detector.Prime(e.source); err != nil {
		e.logger.Debug("Could not read initial clipboard content", zap.Error(err))
	}

	e.logger.Info("Clipboard engine started",
		zap.String("source", e.source.Name()),
		zap.Int("capacity", e.capacity),
		zap.Duration("interval", e.interval),
		zap.Int("entries", e.store.Len()))

	// one-shot timer, re-armed only after the tick has finished
	timer := time.NewTimer(e.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			e.logger.Info("Clipboard engine stopped")
			return nil

		case <-timer.C:
			e.runTask("tick", e.tick)
			timer.Reset(e.interval)

		case t := <-e.tasks:
			e.runTask(t.name, t.fn)
			close(t.done)
		}
	}
}

// do runs fn on the loop goroutine and waits for it to finish
func (e *Engine) do(ctx context.Context, name string, fn func()) error {
	t := task{name: name, fn: fn, done: make(chan struct{})}

	select {
	case e.tasks <- t:
	case <-e.stopped:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) runTask(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Task panicked",
				zap.String("task", name),
				zap.Any("panic", r),
				zap.Stack("stack"))
		}
	}()
	fn()
}

func (e *Engine) hydrate() {
	entries, err := e.persister.Load()
	if err != nil {
		e.logger.Warn("Failed to load history, starting empty", zap.Error(err))
		return
	}
	e.store = history.New(e.capacity, entries)
	e.logger.Debug("Loaded history", zap.Int("entries", e.store.Len()))
}

func (e *Engine) tick() {
	p, err := e.detector.Detect(e.source)
	if err != nil {
		e.logger.Debug("Clipboard read failed", zap.Error(err))
		return
	}
	if p == nil {
		return
	}

	entry := e.store.Insert(*p)
	e.logger.Info("Captured clipboard entry",
		zap.String("id", entry.ID),
		zap.String("type", string(entry.Payload.Type)),
		zap.Int("size", entry.Payload.Size()))

	e.persist()
	e.pushIfVisible()
}

// persist saves the full current history. Failures are logged and the next
// successful save catches up.
func (e *Engine) persist() {
	if err := e.persister.Save(e.store.Snapshot()); err != nil {
		e.logger.Warn("Failed to save history", zap.Error(err))
	}
}

func (e *Engine) pushIfVisible() {
	if e.presenter.Visible() {
		e.presenter.PushSnapshot(e.store.Snapshot())
	}
}

type nopPersister struct{}

func (nopPersister) Load() ([]types.ClipEntry, error) { return nil, nil }
func (nopPersister) Save([]types.ClipEntry) error     { return nil }
