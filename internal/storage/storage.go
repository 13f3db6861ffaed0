package storage

import (
	"fmt"
	"strings"
	"time"
)

// Package storage keeps a local ledger of comment exports.

// ExportRecord describes one comments file written to disk.
type ExportRecord struct {
	UserID    int       `json:"user_id"`
	PostID    int       `json:"post_id"`
	Path      string    `json:"path"`
	Bytes     int       `json:"bytes"`
	SavedAt   time.Time `json:"saved_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Key identifies the export slot a record occupies; later exports of the
// same user/post replace earlier ones.
func (r ExportRecord) Key() string {
	return ExportKey(r.UserID, r.PostID)
}

// ExportKey builds the ledger key for a user/post pair.
func ExportKey(userID, postID int) string {
	return fmt.Sprintf("user-%d-post-%d", userID, postID)
}

// Store tracks comment exports.
type Store interface {
	Close() error
	RecordExport(rec ExportRecord) error
	LastExport(key string) (ExportRecord, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RecordTTL       time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRecordTTL       = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RecordTTL <= 0 {
		opts.RecordTTL = defaultRecordTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                  { return nil }
func (noopStore) RecordExport(ExportRecord) error               { return nil }
func (noopStore) LastExport(string) (ExportRecord, bool, error) { return ExportRecord{}, false, nil }
