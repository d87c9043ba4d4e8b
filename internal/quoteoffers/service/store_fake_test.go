package service

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/platform/apperr"
)

// fakeStore is an in-memory Store used by the service tests. Documents are
// copied through JSON on read and write so tests see the same
// whole-aggregate replace semantics as the real document store.
type fakeStore struct {
	mu        sync.Mutex
	docs      map[string]string
	maxNumber int
	maxErr    error
	updateErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: make(map[string]string)}
}

func (f *fakeStore) Create(_ context.Context, offer *repository.QuoteOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[offer.ID] = encodeDoc(offer)
	return nil
}

func (f *fakeStore) GetByID(_ context.Context, id string) (*repository.QuoteOffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, ok := f.docs[id]
	if !ok {
		return nil, apperr.NotFound("quote offer not found")
	}
	return decodeDoc(raw), nil
}

func (f *fakeStore) Update(_ context.Context, offer *repository.QuoteOffer) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.docs[offer.ID]; !ok {
		return apperr.NotFound("quote offer not found")
	}
	f.docs[offer.ID] = encodeDoc(offer)
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.docs[id]; !ok {
		return apperr.NotFound("quote offer not found")
	}
	delete(f.docs, id)
	return nil
}

func (f *fakeStore) Search(_ context.Context, params repository.ListParams) (*repository.ListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]repository.QuoteOffer, 0)
	for _, raw := range f.docs {
		offer := decodeDoc(raw)
		if !f.matches(offer, params) {
			continue
		}
		matched = append(matched, *offer)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedDate.After(matched[j].CreatedDate)
	})

	return &repository.ListResult{
		Items:    matched,
		Total:    len(matched),
		Page:     1,
		PageSize: len(matched),
	}, nil
}

func (f *fakeStore) matches(offer *repository.QuoteOffer, params repository.ListParams) bool {
	if params.Status != nil && offer.Status != *params.Status {
		return false
	}
	if len(params.Statuses) > 0 {
		ok := false
		for _, status := range params.Statuses {
			if offer.Status == status {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if params.ClientNumber != "" && offer.ClientNumber != params.ClientNumber {
		return false
	}
	if params.ExpiresBefore != nil {
		if offer.ExpirationDate == nil || !offer.ExpirationDate.Before(*params.ExpiresBefore) {
			return false
		}
	}
	if params.Search != "" && !strings.Contains(strings.ToLower(offer.ClientNumber+" "+offer.EmailUser+" "+offer.Comment), strings.ToLower(params.Search)) {
		return false
	}
	return true
}

func (f *fakeStore) MaxQuoteOfferNumber(context.Context) (int, bool, error) {
	if f.maxErr != nil {
		return 0, false, f.maxErr
	}
	if f.maxNumber == 0 {
		return 0, false, nil
	}
	return f.maxNumber, true, nil
}

func encodeDoc(offer *repository.QuoteOffer) string {
	data, err := json.Marshal(offer)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func decodeDoc(raw string) *repository.QuoteOffer {
	var offer repository.QuoteOffer
	if err := json.Unmarshal([]byte(raw), &offer); err != nil {
		panic(err)
	}
	return &offer
}
