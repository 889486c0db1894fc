package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

type sleepRecordModel struct {
	ID             int64     `gorm:"primaryKey;autoIncrement"`
	UserID         string    `gorm:"not null"`
	SleepStartTime time.Time `gorm:"not null"`
	SleepEndTime   time.Time `gorm:"not null"`
	Notes          *string
	Satisfaction   int `gorm:"not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (sleepRecordModel) TableName() string { return "sleep_records" }

func (m sleepRecordModel) toDomain() internal.SleepRecord {
	return internal.SleepRecord{
		ID:             m.ID,
		UserID:         m.UserID,
		SleepStartTime: m.SleepStartTime.UTC(),
		SleepEndTime:   m.SleepEndTime.UTC(),
		Notes:          m.Notes,
		Satisfaction:   m.Satisfaction,
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

// SQLiteStorage keeps records in a single SQLite file through gorm and the
// pure-Go modernc driver.
type SQLiteStorage struct {
	db     *gorm.DB
	logger internal.Logger
}

// OpenSQLite opens the database file at path, creating its directory when
// needed. Times are written in SQLite's text format so range filters compare
// correctly.
func OpenSQLite(path string) (*gorm.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path + "?_time_format=sqlite&_pragma=busy_timeout(5000)",
	}, &gorm.Config{
		Logger:  gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
}

func NewSQLiteStorage(path string, logger internal.Logger) (*SQLiteStorage, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		logger.Errorf("failed to open sqlite %s: %v", path, err)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// SQLite allows a single writer.
	sqlDB.SetMaxOpenConns(1)
	return &SQLiteStorage{db: db, logger: logger}, nil
}

func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return runMigrations(ctx, sqlDB, "sqlite3", "migrations/sqlite", s.logger)
}

func (s *SQLiteStorage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *SQLiteStorage) CreateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	m := sleepRecordModel{
		UserID:         rec.UserID,
		SleepStartTime: rec.SleepStartTime.UTC(),
		SleepEndTime:   rec.SleepEndTime.UTC(),
		Notes:          rec.Notes,
		Satisfaction:   rec.Satisfaction,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		s.logger.Errorf("failed to insert sleep record: %v", err)
		return err
	}
	*rec = m.toDomain()
	return nil
}

func (s *SQLiteStorage) GetSleepRecord(ctx context.Context, userID string, id int64) (*internal.SleepRecord, error) {
	var m sleepRecordModel
	err := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.logger.Errorf("failed to load sleep record %d: %v", id, err)
		return nil, err
	}
	rec := m.toDomain()
	return &rec, nil
}

func (s *SQLiteStorage) ListSleepRecords(ctx context.Context, userID string, tr internal.TimeRange) ([]internal.SleepRecord, error) {
	q := s.db.WithContext(ctx).Model(&sleepRecordModel{}).Where("user_id = ?", userID)
	if tr.From != nil {
		q = q.Where("sleep_start_time >= ?", tr.From.UTC())
	}
	if tr.To != nil {
		q = q.Where("sleep_start_time <= ?", tr.To.UTC())
	}

	rows := make([]sleepRecordModel, 0)
	if err := q.Order("created_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		s.logger.Errorf("failed to query sleep records: %v", err)
		return nil, err
	}

	result := make([]internal.SleepRecord, 0, len(rows))
	for _, m := range rows {
		result = append(result, m.toDomain())
	}
	return result, nil
}

func (s *SQLiteStorage) UpdateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	now := time.Now().UTC()
	res := s.db.WithContext(ctx).Model(&sleepRecordModel{}).
		Where("id = ? AND user_id = ?", rec.ID, rec.UserID).
		Updates(map[string]interface{}{
			"sleep_start_time": rec.SleepStartTime.UTC(),
			"sleep_end_time":   rec.SleepEndTime.UTC(),
			"notes":            rec.Notes,
			"satisfaction":     rec.Satisfaction,
			"updated_at":       now,
		})
	if res.Error != nil {
		s.logger.Errorf("failed to update sleep record %d: %v", rec.ID, res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	rec.UpdatedAt = now
	return nil
}

func (s *SQLiteStorage) DeleteSleepRecord(ctx context.Context, userID string, id int64) (bool, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&sleepRecordModel{})
	if res.Error != nil {
		s.logger.Errorf("failed to delete sleep record %d: %v", id, res.Error)
		return false, fmt.Errorf("delete sleep record: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

var _ SleepRecordRepository = (*SQLiteStorage)(nil)
var _ Migrator = (*SQLiteStorage)(nil)
