package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

const sleepRecordColumns = `id, user_id, sleep_start_time, sleep_end_time, notes, satisfaction, created_at, updated_at`

type PostgresStorage struct {
	pool   *pgxpool.Pool
	logger internal.Logger
}

func NewPostgresStorage(ctx context.Context, dsn string, logger internal.Logger) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		logger.Errorf("failed to connect to postgres: %v", err)
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.Errorf("failed to ping postgres: %v", err)
		return nil, err
	}
	return &PostgresStorage{pool: pool, logger: logger}, nil
}

func (p *PostgresStorage) Migrate(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(p.pool)
	defer db.Close()
	return runMigrations(ctx, db, "postgres", "migrations/postgres", p.logger)
}

func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}

func scanSleepRecord(row pgx.Row) (internal.SleepRecord, error) {
	var r internal.SleepRecord
	if err := row.Scan(&r.ID, &r.UserID, &r.SleepStartTime, &r.SleepEndTime, &r.Notes, &r.Satisfaction, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}
	r.SleepStartTime = r.SleepStartTime.UTC()
	r.SleepEndTime = r.SleepEndTime.UTC()
	r.CreatedAt = r.CreatedAt.UTC()
	r.UpdatedAt = r.UpdatedAt.UTC()
	return r, nil
}

func (p *PostgresStorage) CreateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	now := time.Now().UTC()
	row := p.pool.QueryRow(ctx,
		`INSERT INTO sleep_records (user_id, sleep_start_time, sleep_end_time, notes, satisfaction, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6) RETURNING `+sleepRecordColumns,
		rec.UserID, rec.SleepStartTime.UTC(), rec.SleepEndTime.UTC(), rec.Notes, rec.Satisfaction, now)
	created, err := scanSleepRecord(row)
	if err != nil {
		p.logger.Errorf("failed to insert sleep record: %v", err)
		return err
	}
	*rec = created
	return nil
}

func (p *PostgresStorage) GetSleepRecord(ctx context.Context, userID string, id int64) (*internal.SleepRecord, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+sleepRecordColumns+` FROM sleep_records WHERE id = $1 AND user_id = $2`, id, userID)
	rec, err := scanSleepRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		p.logger.Errorf("failed to load sleep record %d: %v", id, err)
		return nil, err
	}
	return &rec, nil
}

func (p *PostgresStorage) ListSleepRecords(ctx context.Context, userID string, tr internal.TimeRange) ([]internal.SleepRecord, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + sleepRecordColumns + ` FROM sleep_records WHERE user_id = $1`)
	args := []interface{}{userID}
	if tr.From != nil {
		args = append(args, tr.From.UTC())
		fmt.Fprintf(&sb, " AND sleep_start_time >= $%d", len(args))
	}
	if tr.To != nil {
		args = append(args, tr.To.UTC())
		fmt.Fprintf(&sb, " AND sleep_start_time <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY created_at ASC, id ASC")

	rows, err := p.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		p.logger.Errorf("failed to query sleep records: %v", err)
		return nil, err
	}
	defer rows.Close()

	records := make([]internal.SleepRecord, 0)
	for rows.Next() {
		r, err := scanSleepRecord(rows)
		if err != nil {
			p.logger.Errorf("failed to scan sleep record: %v", err)
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func (p *PostgresStorage) UpdateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	now := time.Now().UTC()
	tag, err := p.pool.Exec(ctx,
		`UPDATE sleep_records SET sleep_start_time = $1, sleep_end_time = $2, notes = $3, satisfaction = $4, updated_at = $5
		 WHERE id = $6 AND user_id = $7`,
		rec.SleepStartTime.UTC(), rec.SleepEndTime.UTC(), rec.Notes, rec.Satisfaction, now, rec.ID, rec.UserID)
	if err != nil {
		p.logger.Errorf("failed to update sleep record %d: %v", rec.ID, err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	rec.UpdatedAt = now
	return nil
}

func (p *PostgresStorage) DeleteSleepRecord(ctx context.Context, userID string, id int64) (bool, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM sleep_records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		p.logger.Errorf("failed to delete sleep record %d: %v", id, err)
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

var _ SleepRecordRepository = (*PostgresStorage)(nil)
var _ Migrator = (*PostgresStorage)(nil)
