package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// SleepRecordRepository is a testify mock of storage.SleepRecordRepository.
type SleepRecordRepository struct {
	mock.Mock
}

func (m *SleepRecordRepository) CreateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *SleepRecordRepository) GetSleepRecord(ctx context.Context, userID string, id int64) (*internal.SleepRecord, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*internal.SleepRecord), args.Error(1)
}

func (m *SleepRecordRepository) ListSleepRecords(ctx context.Context, userID string, tr internal.TimeRange) ([]internal.SleepRecord, error) {
	args := m.Called(ctx, userID, tr)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]internal.SleepRecord), args.Error(1)
}

func (m *SleepRecordRepository) UpdateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *SleepRecordRepository) DeleteSleepRecord(ctx context.Context, userID string, id int64) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *SleepRecordRepository) Close() error {
	args := m.Called()
	return args.Error(0)
}
