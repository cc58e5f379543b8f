// Package store keeps saved boards and cached phoneme documents in a local
// SQLite database.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"DecodingDen/internal/state"
)

var ErrNotFound = errors.New("store: not found")

// PhonemeRecord is the last successfully fetched copy of a phoneme document.
type PhonemeRecord struct {
	ID        uint           `gorm:"primarykey"`
	Phoneme   string         `gorm:"uniqueIndex;size:32"`
	Payload   datatypes.JSON `gorm:"not null"`
	FetchedAt time.Time
}

// SavedBoard is a named whiteboard, stored as its stroke list.
type SavedBoard struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"size:128;index" json:"name"`
	Strokes   datatypes.JSON `gorm:"not null" json:"-"`
	Count     int            `json:"count"`
	CreatedAt time.Time      `json:"createdAt"`
}

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
	now func() time.Time
}

// Open opens or creates the database at path. An empty path opens a
// private in-memory database.
func Open(path string, log zerolog.Logger) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		dsn = path
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA temp_store = MEMORY;",
	}
	if path == "" {
		// every pooled connection would otherwise get its own empty database
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql interface: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
		pragmas = pragmas[:1]
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}

	if err := db.AutoMigrate(&PhonemeRecord{}, &SavedBoard{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	l := log.With().Str("component", "store").Logger()
	l.Info().Str("path", path).Msg("store ready")
	return &Store{db: db, log: l, now: time.Now}, nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// PutPhoneme inserts or replaces the cached copy of a document.
func (s *Store) PutPhoneme(ctx context.Context, phoneme string, raw []byte) error {
	rec := PhonemeRecord{Phoneme: phoneme, Payload: datatypes.JSON(raw), FetchedAt: s.now()}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "phoneme"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "fetched_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to cache phoneme %q: %w", phoneme, err)
	}
	return nil
}

func (s *Store) GetPhoneme(ctx context.Context, phoneme string) ([]byte, error) {
	var rec PhonemeRecord
	err := s.db.WithContext(ctx).Where("phoneme = ?", phoneme).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: phoneme %q", ErrNotFound, phoneme)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read phoneme %q: %w", phoneme, err)
	}
	return []byte(rec.Payload), nil
}

// SaveBoard stores strokes under name and returns the new board.
func (s *Store) SaveBoard(ctx context.Context, name string, strokes []state.Stroke) (SavedBoard, error) {
	raw, err := state.EncodeStrokes(strokes)
	if err != nil {
		return SavedBoard{}, err
	}
	b := SavedBoard{Name: name, Strokes: datatypes.JSON(raw), Count: len(strokes), CreatedAt: s.now()}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		return SavedBoard{}, fmt.Errorf("failed to save board: %w", err)
	}
	s.log.Debug().Uint("id", b.ID).Str("name", name).Int("strokes", b.Count).Msg("board saved")
	return b, nil
}

func (s *Store) LoadBoard(ctx context.Context, id uint) (SavedBoard, []state.Stroke, error) {
	var b SavedBoard
	err := s.db.WithContext(ctx).First(&b, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return SavedBoard{}, nil, fmt.Errorf("%w: board %d", ErrNotFound, id)
	}
	if err != nil {
		return SavedBoard{}, nil, fmt.Errorf("failed to load board %d: %w", id, err)
	}
	strokes, err := state.DecodeStrokes(b.Strokes)
	if err != nil {
		return SavedBoard{}, nil, fmt.Errorf("board %d: %w", id, err)
	}
	return b, strokes, nil
}

// ListBoards returns the most recent boards first, without stroke data.
func (s *Store) ListBoards(ctx context.Context, limit int) ([]SavedBoard, error) {
	if limit <= 0 {
		limit = 20
	}
	var boards []SavedBoard
	err := s.db.WithContext(ctx).
		Select("id", "name", "count", "created_at").
		Order("created_at desc, id desc").
		Limit(limit).
		Find(&boards).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

func (s *Store) DeleteBoard(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&SavedBoard{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete board %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: board %d", ErrNotFound, id)
	}
	return nil
}
