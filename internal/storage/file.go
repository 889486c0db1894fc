package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/SEOKJUN-KO/SEOKJUN-KO-Solvr-Q6/internal"
)

// FileStorage keeps every record in memory and flushes them to a JSON file
// shortly after each change.
type FileStorage struct {
	records    map[int64]*internal.SleepRecord    // id -> record
	userIndex  map[string][]*internal.SleepRecord // userID -> records, creation order
	nextID     int64
	mu         sync.RWMutex
	path       string
	saveChan   chan struct{}
	shutdown   chan struct{}
	workerDone chan struct{}
	saveDelay  time.Duration
	closeOnce  sync.Once
	logger     internal.Logger
}

func NewFileStorage(path string, logger internal.Logger) (*FileStorage, error) {
	s := &FileStorage{
		records:    make(map[int64]*internal.SleepRecord),
		userIndex:  make(map[string][]*internal.SleepRecord),
		nextID:     1,
		path:       path,
		saveChan:   make(chan struct{}, 1),
		shutdown:   make(chan struct{}),
		workerDone: make(chan struct{}),
		saveDelay:  500 * time.Millisecond,
		logger:     logger,
	}

	if err := s.load(); err != nil {
		logger.Errorf("storage: failed to load sleep records: %v", err)
		return nil, err
	}

	go s.saveWorker()

	return s, nil
}

func (s *FileStorage) load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()

	var records []*internal.SleepRecord
	if err := json.NewDecoder(file).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.ID] = r
		s.userIndex[r.UserID] = append(s.userIndex[r.UserID], r)
		if r.ID >= s.nextID {
			s.nextID = r.ID + 1
		}
	}
	for userID := range s.userIndex {
		sortByCreation(s.userIndex[userID])
	}
	return nil
}

func sortByCreation(records []*internal.SleepRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}

func atomicWriteFileJSON(filePath string, data interface{}) error {
	if dir := filepath.Dir(filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tempFile := filePath + ".tmp"
	f, err := os.Create(tempFile)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tempFile)
		return err
	}

	if err := f.Close(); err != nil {
		os.Remove(tempFile)
		return err
	}

	return os.Rename(tempFile, filePath)
}

func (s *FileStorage) save() error {
	s.mu.RLock()
	records := make([]*internal.SleepRecord, 0, len(s.records))
	for _, r := range s.records {
		cp := *r
		records = append(records, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return atomicWriteFileJSON(s.path, records)
}

func (s *FileStorage) saveWorker() {
	defer close(s.workerDone)
	timer := time.NewTimer(s.saveDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-s.saveChan:
			timer.Reset(s.saveDelay)
		case <-timer.C:
			if err := s.save(); err != nil {
				s.logger.Errorf("storage: error saving sleep records: %v", err)
			}
		case <-s.shutdown:
			return
		}
	}
}

func (s *FileStorage) scheduleSave() {
	select {
	case s.saveChan <- struct{}{}:
	default:
	}
}

// Close stops the background writer and flushes pending changes.
func (s *FileStorage) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.shutdown)
		<-s.workerDone
		err = s.save()
	})
	return err
}

func (s *FileStorage) CreateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := *rec
	stored.ID = s.nextID
	stored.SleepStartTime = rec.SleepStartTime.UTC()
	stored.SleepEndTime = rec.SleepEndTime.UTC()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.nextID++

	s.records[stored.ID] = &stored
	s.userIndex[stored.UserID] = append(s.userIndex[stored.UserID], &stored)
	*rec = stored
	s.scheduleSave()
	return nil
}

func (s *FileStorage) GetSleepRecord(ctx context.Context, userID string, id int64) (*internal.SleepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok || r.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *FileStorage) ListSleepRecords(ctx context.Context, userID string, tr internal.TimeRange) ([]internal.SleepRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]internal.SleepRecord, 0, len(s.userIndex[userID]))
	for _, r := range s.userIndex[userID] {
		if tr.Contains(r.SleepStartTime) {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (s *FileStorage) UpdateSleepRecord(ctx context.Context, rec *internal.SleepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.records[rec.ID]
	if !ok || existing.UserID != rec.UserID {
		return ErrNotFound
	}
	existing.SleepStartTime = rec.SleepStartTime.UTC()
	existing.SleepEndTime = rec.SleepEndTime.UTC()
	existing.Notes = rec.Notes
	existing.Satisfaction = rec.Satisfaction
	existing.UpdatedAt = time.Now().UTC()
	*rec = *existing
	s.scheduleSave()
	return nil
}

func (s *FileStorage) DeleteSleepRecord(ctx context.Context, userID string, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[id]
	if !ok || r.UserID != userID {
		return false, nil
	}
	delete(s.records, id)
	list := s.userIndex[userID]
	for i, candidate := range list {
		if candidate.ID == id {
			s.userIndex[userID] = append(list[:i], list[i+1:]...)
			break
		}
	}
	s.scheduleSave()
	return true, nil
}

var _ SleepRecordRepository = (*FileStorage)(nil)
