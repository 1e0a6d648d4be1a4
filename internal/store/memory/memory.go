package memory

import (
	"sync"

	"go.uber.org/zap"
	"markread_demo/internal/model"
	"markread_demo/internal/repository"
)

// Store keeps records in process memory. A single mutex guards every
// operation, so UpdateNotification is atomic per key.
type Store struct {
	mu      sync.Mutex
	records map[string]model.Notification
	log     *zap.Logger
}

// New returns a store loaded with repository.Seed.
func New(logger *zap.Logger) *Store {
	s := NewEmpty(logger)
	for _, n := range repository.Seed() {
		s.records[n.ID] = n
	}
	logger.Debug("memory store seeded", zap.Int("records", len(s.records)))
	return s
}

func NewEmpty(logger *zap.Logger) *Store {
	return &Store{records: make(map[string]model.Notification), log: logger}
}
