package storage

import (
	"path/filepath"
	"testing"
	"time"

	bolt "go.etcd.io/bbolt"
)

func TestBoltStoreRecordsAndExpiresExports(t *testing.T) {
	dir := t.TempDir()
	opts := Options{
		RecordTTL:       time.Hour,
		CleanupInterval: time.Minute,
	}

	storeRaw, err := openBolt(filepath.Join(dir, "nested", "exports.db"), opts)
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return now }

	key := ExportKey(1, 10)
	if _, found, err := store.LastExport(key); err != nil || found {
		t.Fatalf("expected no record, found=%v err=%v", found, err)
	}

	rec := ExportRecord{UserID: 1, PostID: 10, Path: "user-1-post-10-comments.json", Bytes: 42}
	if err := store.RecordExport(rec); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}

	got, found, err := store.LastExport(key)
	if err != nil || !found {
		t.Fatalf("expected record, found=%v err=%v", found, err)
	}
	if got.Path != rec.Path || got.Bytes != 42 || !got.SavedAt.Equal(now) || !got.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("unexpected record %+v", got)
	}

	now = now.Add(2 * time.Hour)
	if _, found, err := store.LastExport(key); err != nil || found {
		t.Fatalf("expected record to expire, found=%v err=%v", found, err)
	}
}

func TestBoltStoreCleanupSweepsExpiredRecords(t *testing.T) {
	storeRaw, err := openBolt(filepath.Join(t.TempDir(), "exports.db"), Options{
		RecordTTL:       time.Minute,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		t.Fatalf("openBolt: %v", err)
	}
	store := storeRaw.(*boltStore)
	defer store.Close()

	start := time.Now()
	store.now = func() time.Time { return start }
	for post := 1; post <= 3; post++ {
		if err := store.RecordExport(ExportRecord{UserID: 1, PostID: post}); err != nil {
			t.Fatalf("RecordExport: %v", err)
		}
	}

	if err := store.maybeCleanupExpired(start.Add(10 * time.Minute)); err != nil {
		t.Fatalf("maybeCleanupExpired: %v", err)
	}

	err = store.db.View(func(tx *bolt.Tx) error {
		if n := tx.Bucket([]byte(exportBucket)).Stats().KeyN; n != 0 {
			t.Fatalf("expected empty bucket after sweep, got %d keys", n)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("view: %v", err)
	}
}

func TestRecordExportReplacesPreviousRecord(t *testing.T) {
	store, err := NewStore("bbolt", filepath.Join(t.TempDir(), "exports.db"), Options{})
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	defer store.Close()

	if err := store.RecordExport(ExportRecord{UserID: 2, PostID: 20, Bytes: 1}); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}
	if err := store.RecordExport(ExportRecord{UserID: 2, PostID: 20, Bytes: 2}); err != nil {
		t.Fatalf("RecordExport: %v", err)
	}
	got, found, err := store.LastExport(ExportKey(2, 20))
	if err != nil || !found || got.Bytes != 2 {
		t.Fatalf("expected replaced record, got %+v found=%v err=%v", got, found, err)
	}
}

func TestNewStoreSupportsNoop(t *testing.T) {
	store, err := NewStore("none", "", Options{})
	if err != nil {
		t.Fatalf("NewStore none: %v", err)
	}
	if err := store.RecordExport(ExportRecord{UserID: 1}); err != nil {
		t.Fatalf("noop store RecordExport: %v", err)
	}
	if _, found, _ := store.LastExport("x"); found {
		t.Fatalf("noop store should never find records")
	}
}

func TestNewStoreRejectsUnknownAndMissingPath(t *testing.T) {
	if _, err := NewStore("redis", "", Options{}); err == nil {
		t.Fatalf("expected error for unsupported type")
	}
	if _, err := NewStore("bbolt", " ", Options{}); err == nil {
		t.Fatalf("expected error for missing path")
	}
}
