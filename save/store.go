package save

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/kawasemi/dungeon-crawler/server/blob"
	"github.com/kawasemi/dungeon-crawler/server/config"
	"github.com/kawasemi/dungeon-crawler/server/db"
	"github.com/kawasemi/dungeon-crawler/server/model"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SnapshotKey is the fixed blob key holding the encoded database image.
const SnapshotKey = "dungeon-crawler-db"

// ErrValidation marks mutations rejected for violating a column constraint
// or the slot range. Callers can map it to a client error.
var ErrValidation = errors.New("validation failed")

// snapshotChunk bounds how many raw bytes are fed to the encoder per call.
const snapshotChunk = 8192

// Store owns the save-game schema and is the only component that issues
// reads and writes against the embedded engine. All mutating operations
// persist a full database snapshot to the blob store before returning;
// snapshot failures are logged and swallowed, the in-memory state stays
// authoritative.
//
// Exactly one Store may mutate a given snapshot key at a time; a second
// instance would clobber the first on its next write.
type Store struct {
	mu       sync.Mutex
	db       *gorm.DB
	blobs    blob.Store
	logger   *zap.Logger
	workPath string // sqlite file path; empty disables snapshot persistence
}

// Open restores a previously persisted snapshot (if any) and returns a ready
// store. With database mode "sqlite" the blob under SnapshotKey is decoded
// into the working file before the engine opens it; an absent key starts
// fresh, and a corrupt snapshot is logged and discarded rather than failing
// startup. Other modes skip snapshot persistence entirely.
func Open(ctx context.Context, dbCfg config.DatabaseConfig, blobs blob.Store, logger *zap.Logger) (*Store, error) {
	workPath := ""
	if dbCfg.Mode == db.ModeSQLite {
		workPath = dbCfg.SQLitePath
		if err := restoreWorkFile(ctx, blobs, workPath, logger); err != nil {
			return nil, err
		}
	}

	gdb, err := openEngine(dbCfg)
	if err != nil && workPath != "" {
		// The snapshot decoded but the engine cannot use it (truncated
		// image, wrong format under the key). Same policy as an
		// undecodable blob: warn and start fresh.
		logger.Warn("restored snapshot is not a usable database, starting fresh", zap.Error(err))
		if rmErr := os.Remove(workPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return nil, err
		}
		gdb, err = openEngine(dbCfg)
	}
	if err != nil {
		return nil, err
	}

	s := &Store{db: gdb, blobs: blobs, logger: logger, workPath: workPath}
	s.persist()
	return s, nil
}

// openEngine opens the configured engine and applies the schema. On a
// migration failure the connection is released so the caller may retry
// against a recreated working file.
func openEngine(dbCfg config.DatabaseConfig) (*gorm.DB, error) {
	gdb, err := db.Open(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("save: open engine: %w", err)
	}
	if err := model.AutoMigrate(gdb); err != nil {
		if sqlDB, dbErr := gdb.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("save: migrate: %w", err)
	}
	return gdb, nil
}

// OpenWith applies the schema to a caller-supplied engine and returns a
// store with snapshot persistence disabled. This is the test entry point.
func OpenWith(gdb *gorm.DB, logger *zap.Logger) (*Store, error) {
	if err := model.AutoMigrate(gdb); err != nil {
		return nil, fmt.Errorf("save: migrate: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{db: gdb, logger: logger}, nil
}

// Close releases the underlying engine resources. No operation is valid on
// the store afterwards.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		// Engines without a database/sql backend have nothing to release.
		return nil
	}
	return sqlDB.Close()
}

// DB exposes the underlying handle for auxiliary writers (audit log).
func (s *Store) DB() *gorm.DB {
	return s.db
}

// restoreWorkFile materializes the blob snapshot as the sqlite working file.
func restoreWorkFile(ctx context.Context, blobs blob.Store, workPath string, logger *zap.Logger) error {
	if err := os.MkdirAll(filepath.Dir(workPath), 0755); err != nil {
		return fmt.Errorf("save: create work dir: %w", err)
	}
	if blobs == nil {
		return nil
	}

	encoded, err := blobs.Read(ctx, SnapshotKey)
	if errors.Is(err, blob.ErrNotFound) {
		// No snapshot yet: drop any stale working file and start fresh.
		os.Remove(workPath)
		return nil
	}
	if err != nil {
		return fmt.Errorf("save: read snapshot: %w", err)
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		logger.Warn("snapshot is undecodable, starting fresh", zap.Error(err))
		os.Remove(workPath)
		return nil
	}
	if err := os.WriteFile(workPath, raw, 0644); err != nil {
		return fmt.Errorf("save: restore work file: %w", err)
	}
	return nil
}

// persist serializes the whole database and writes it to the blob store.
// Failures must not surface to the caller of a mutating operation: the
// working state is correct even if the durable snapshot falls behind.
func (s *Store) persist() {
	if err := s.Flush(); err != nil {
		s.logger.Warn("snapshot persist failed", zap.Error(err))
	}
}

// Flush writes the current snapshot to the blob store and reports the
// outcome. The periodic scheduler task uses it to heal a snapshot that fell
// behind after a swallowed write failure.
func (s *Store) Flush() error {
	if s.workPath == "" || s.blobs == nil {
		return nil
	}
	raw, err := os.ReadFile(s.workPath)
	if err != nil {
		return fmt.Errorf("save: export: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.blobs.Write(ctx, SnapshotKey, encodeSnapshot(raw)); err != nil {
		return fmt.Errorf("save: write snapshot: %w", err)
	}
	return nil
}

// encodeSnapshot base64-encodes the database image, feeding the encoder in
// bounded chunks so no single call sees the whole buffer.
func encodeSnapshot(raw []byte) string {
	var b strings.Builder
	enc := base64.NewEncoder(base64.StdEncoding, &b)
	for off := 0; off < len(raw); off += snapshotChunk {
		end := off + snapshotChunk
		if end > len(raw) {
			end = len(raw)
		}
		enc.Write(raw[off:end])
	}
	enc.Close()
	return b.String()
}

// saveID resolves a slot number to its internal id. Returns (0, false) when
// the slot has never been created; only the store itself ever sees this id.
func (s *Store) saveID(ctx context.Context, slot int) (int64, bool, error) {
	var sv model.Save
	err := s.db.WithContext(ctx).Where("slot = ?", slot).First(&sv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return sv.ID, true, nil
}

// touchSave refreshes the slot's updated_at timestamp.
func touchSave(tx *gorm.DB, saveID int64) error {
	return tx.Model(&model.Save{}).
		Where("id = ?", saveID).
		Update("updated_at", time.Now()).Error
}
