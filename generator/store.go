package generator

import (
    "errors"
    "sync"

    "github.com/alovak/cardforge/generator/models"
)

var ErrNoBatch = errors.New("no batch generated")

// BatchStore holds the current batch in memory. Nothing is persisted; a
// new batch or a reset drops the previous one.
type BatchStore struct {
    mu      sync.RWMutex
    current *models.Batch
}

func NewBatchStore() *BatchStore {
    return &BatchStore{}
}

// Replace stores b as the current batch and returns the one it replaced.
func (s *BatchStore) Replace(b *models.Batch) *models.Batch {
    s.mu.Lock()
    defer s.mu.Unlock()
    prev := s.current
    s.current = b
    return prev
}

func (s *BatchStore) Current() (*models.Batch, error) {
    s.mu.RLock()
    defer s.mu.RUnlock()
    if s.current == nil {
        return nil, ErrNoBatch
    }
    return s.current, nil
}

// Reset drops the current batch and reports whether there was one.
func (s *BatchStore) Reset() bool {
    s.mu.Lock()
    defer s.mu.Unlock()
    had := s.current != nil
    s.current = nil
    return had
}
