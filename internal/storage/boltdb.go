// Package storage persists the clipboard history in a bbolt database.
package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/berrythewa/clipstack/internal/clipboard"
	"github.com/berrythewa/clipstack/internal/types"
	"github.com/berrythewa/clipstack/pkg/compression"
)

const (
	historyBucket = "history"
	metaBucket    = "meta"

	metaSavedAt = "saved_at"
	metaCount   = "count"

	openTimeout = 1 * time.Second
)

// BoltStorage keeps the ordered history in one bucket, keyed by position
type BoltStorage struct {
	db       *bbolt.DB
	path     string
	logger   *zap.Logger
	readOnly bool
}

// StorageConfig holds configuration for BoltStorage initialization
type StorageConfig struct {
	DBPath   string
	Logger   *zap.Logger
	ReadOnly bool
}

// Stats describes the stored history
type Stats struct {
	Path      string    `json:"path"`
	Entries   int       `json:"entries"`
	SavedAt   time.Time `json:"saved_at"`
	SizeBytes int64     `json:"size_bytes"`
}

// record is the stored form of one entry
type record struct {
	ID         string            `json:"id"`
	Type       types.ContentType `json:"type"`
	Text       string            `json:"text,omitempty"`
	Data       []byte            `json:"data,omitempty"`
	Thumbnail  []byte            `json:"thumbnail,omitempty"`
	Digest     string            `json:"digest,omitempty"`
	Width      int               `json:"width,omitempty"`
	Height     int               `json:"height,omitempty"`
	Captured   time.Time         `json:"captured"`
	Compressed bool              `json:"compressed,omitempty"`
}

// NewBoltStorage opens (and in read-write mode creates) the database.
// Errors wrap types.ErrPersistenceUnavailable.
func NewBoltStorage(config StorageConfig) (*BoltStorage, error) {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	if !config.ReadOnly {
		if err := os.MkdirAll(filepath.Dir(config.DBPath), 0755); err != nil {
			return nil, fmt.Errorf("%w: failed to create database directory: %v", types.ErrPersistenceUnavailable, err)
		}
	}

	db, err := bbolt.Open(config.DBPath, 0600, &bbolt.Options{
		Timeout:  openTimeout,
		ReadOnly: config.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt database: %v", types.ErrPersistenceUnavailable, err)
	}

	if !config.ReadOnly {
		err = db.Update(func(tx *bbolt.Tx) error {
			for _, name := range []string{historyBucket, metaBucket} {
				if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
					return fmt.Errorf("failed to create bucket %s: %w", name, err)
				}
			}
			return nil
		})
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", types.ErrPersistenceUnavailable, err)
		}
	}

	logger.Debug("BoltStorage initialized",
		zap.String("db_path", config.DBPath),
		zap.Bool("read_only", config.ReadOnly))

	return &BoltStorage{db: db, path: config.DBPath, logger: logger, readOnly: config.ReadOnly}, nil
}

// Load returns the stored history in order. Records that cannot be decoded
// are skipped.
func (s *BoltStorage) Load() ([]types.ClipEntry, error) {
	var entries []types.ClipEntry
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(historyBucket))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			entry, err := decodeRecord(v)
			if err != nil {
				s.logger.Warn("Skipping unreadable history record",
					zap.Binary("key", k),
					zap.Error(err))
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrPersistenceUnavailable, err)
	}
	return entries, nil
}

// Save replaces the stored history with entries in a single transaction
func (s *BoltStorage) Save(entries []types.ClipEntry) error {
	if s.readOnly {
		return fmt.Errorf("%w: database opened read-only", types.ErrPersistenceUnavailable)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket([]byte(historyBucket)); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
			return err
		}
		b, err := tx.CreateBucket([]byte(historyBucket))
		if err != nil {
			return err
		}

		for i, e := range entries {
			v, err := encodeRecord(e)
			if err != nil {
				return fmt.Errorf("failed to encode entry %s: %w", e.ID, err)
			}
			if err := b.Put(positionKey(i), v); err != nil {
				return err
			}
		}

		meta, err := tx.CreateBucketIfNotExists([]byte(metaBucket))
		if err != nil {
			return err
		}
		if err := meta.Put([]byte(metaSavedAt), []byte(time.Now().UTC().Format(time.RFC3339Nano))); err != nil {
			return err
		}
		return meta.Put([]byte(metaCount), positionKey(len(entries)))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", types.ErrPersistenceUnavailable, err)
	}

	s.logger.Debug("History saved", zap.Int("entries", len(entries)))
	return nil
}

// Stats reports what the database holds
func (s *BoltStorage) Stats() (Stats, error) {
	st := Stats{Path: s.path}
	err := s.db.View(func(tx *bbolt.Tx) error {
		st.SizeBytes = tx.Size()
		if b := tx.Bucket([]byte(historyBucket)); b != nil {
			st.Entries = b.Stats().KeyN
		}
		if meta := tx.Bucket([]byte(metaBucket)); meta != nil {
			if v := meta.Get([]byte(metaSavedAt)); v != nil {
				st.SavedAt, _ = time.Parse(time.RFC3339Nano, string(v))
			}
		}
		return nil
	})
	if err != nil {
		return st, fmt.Errorf("%w: %v", types.ErrPersistenceUnavailable, err)
	}
	return st, nil
}

// Path returns the database file path
func (s *BoltStorage) Path() string {
	return s.path
}

// Close closes the database
func (s *BoltStorage) Close() error {
	return s.db.Close()
}

func positionKey(i int) []byte {
	k := make([]byte, 4)
	binary.BigEndian.PutUint32(k, uint32(i))
	return k
}

func encodeRecord(e types.ClipEntry) ([]byte, error) {
	r := record{
		ID:       e.ID,
		Type:     e.Payload.Type,
		Captured: e.Captured,
	}

	var raw []byte
	switch e.Payload.Type {
	case types.TypeText:
		raw = []byte(e.Payload.Text)
	case types.TypeImage:
		if e.Payload.Image == nil {
			return nil, errors.New("image entry without image data")
		}
		img := e.Payload.Image
		raw = img.Full
		r.Thumbnail = img.Thumbnail
		r.Digest = img.Digest
		r.Width = img.Width
		r.Height = img.Height
	default:
		return nil, fmt.Errorf("unknown content type %q", e.Payload.Type)
	}

	data, compressed, err := compression.Compress(raw)
	if err != nil {
		return nil, err
	}
	switch {
	case compressed:
		r.Data, r.Compressed = data, true
	case e.Payload.Type == types.TypeText:
		r.Text = e.Payload.Text
	default:
		r.Data = raw
	}

	return json.Marshal(r)
}

func decodeRecord(v []byte) (types.ClipEntry, error) {
	var r record
	if err := json.Unmarshal(v, &r); err != nil {
		return types.ClipEntry{}, fmt.Errorf("%w: %v", types.ErrDecode, err)
	}

	data := r.Data
	if r.Compressed {
		var err error
		data, err = compression.Decompress(r.Data)
		if err != nil {
			return types.ClipEntry{}, fmt.Errorf("%w: decompressing: %v", types.ErrDecode, err)
		}
	}

	entry := types.ClipEntry{ID: r.ID, Captured: r.Captured}
	switch r.Type {
	case types.TypeText:
		text := r.Text
		if r.Compressed {
			text = string(data)
		}
		if text == "" {
			return types.ClipEntry{}, fmt.Errorf("%w: empty text record", types.ErrDecode)
		}
		entry.Payload = types.NewTextPayload(text)

	case types.TypeImage:
		if len(data) == 0 {
			return types.ClipEntry{}, fmt.Errorf("%w: image record without data", types.ErrDecode)
		}
		digest := r.Digest
		if digest == "" {
			digest = clipboard.Digest(data)
		}
		entry.Payload = types.NewImagePayload(types.ImageData{
			Full:      data,
			Thumbnail: r.Thumbnail,
			Digest:    digest,
			Width:     r.Width,
			Height:    r.Height,
		})

	default:
		return types.ClipEntry{}, fmt.Errorf("%w: unknown content type %q", types.ErrDecode, r.Type)
	}
	return entry, nil
}
