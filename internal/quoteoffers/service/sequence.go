package service

import (
	"context"
	"sync"

	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/platform/logger"
)

// SequenceService owns the process-wide quote offer number counter.
// A single mutex serializes increment-and-fetch across concurrent creators;
// this is the only mutual-exclusion point in the module.
type SequenceService struct {
	mu      sync.Mutex
	current int
	store   repository.Store
	log     *logger.Logger
}

// NewSequenceService creates an uninitialized sequence service.
// Init must be called once at startup before Next is used.
func NewSequenceService(store repository.Store, log *logger.Logger) *SequenceService {
	return &SequenceService{store: store, log: log}
}

// Init seeds the counter from the store's current maximum offer number.
// On query failure the counter resets to zero (so the first Next returns 1)
// with a warning. Reseeding over stale data risks number collisions; making
// this fatal instead is a deliberate behavior change that has not been made.
func (s *SequenceService) Init(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	max, found, err := s.store.MaxQuoteOfferNumber(ctx)
	if err != nil {
		if s.log != nil {
			s.log.Warn("quote number sequence init failed, resetting to 1", "error", err.Error())
		}
		s.current = 0
		return
	}
	if !found {
		s.current = 0
		return
	}
	s.current = max
}

// Next returns the next quote offer number. Numbers are strictly monotonic
// within the process lifetime.
func (s *SequenceService) Next() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current++
	return s.current
}
