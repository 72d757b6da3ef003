// Package cache persists similarity scores between runs so unchanged
// license files are not aligned again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/dsablic/licbundle/internal/textmatch"
)

// ScoreRecord is one cached score, keyed by a hash of text and template.
type ScoreRecord struct {
	Key       string `gorm:"primaryKey;size:64"`
	Offset    int
	Distance  int
	Length    int
	CreatedAt time.Time
}

// DB wraps the GORM handle of the score cache.
type DB struct {
	gorm *gorm.DB
}

// Open initializes the SQLite-backed cache at the provided path.
func Open(path string) (*DB, error) {
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}
	db, err := gorm.Open(sqlite.Open(path), cfg)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	if err := db.AutoMigrate(&ScoreRecord{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		logrus.WithError(err).Warn("enable WAL mode")
	}
	return &DB{gorm: db}, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	if d == nil {
		return nil
	}
	sqlDB, err := d.gorm.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Lookup returns the cached score of text against template. Errors are
// logged and reported as a miss.
func (d *DB) Lookup(text, template string) (textmatch.Score, bool) {
	var rec ScoreRecord
	err := d.gorm.Where(&ScoreRecord{Key: Key(text, template)}).Take(&rec).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).Debug("score cache lookup")
		}
		return textmatch.Score{}, false
	}
	logrus.WithField("key", rec.Key).Debug("score cache hit")
	return textmatch.Score{Offset: rec.Offset, Distance: rec.Distance, Length: rec.Length}, true
}

// Store saves the score of text against template, replacing any previous
// entry.
func (d *DB) Store(text, template string, s textmatch.Score) {
	rec := &ScoreRecord{
		Key:      Key(text, template),
		Offset:   s.Offset,
		Distance: s.Distance,
		Length:   s.Length,
	}
	err := d.gorm.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"offset", "distance", "length", "created_at"}),
	}).Create(rec).Error
	if err != nil {
		logrus.WithError(err).Debug("score cache store")
	}
}

// Key identifies a (text, template) pair.
func Key(text, template string) string {
	h := sha256.New()
	h.Write([]byte(template))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return hex.EncodeToString(h.Sum(nil))
}
