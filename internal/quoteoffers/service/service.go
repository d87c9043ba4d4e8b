// Package service implements the quote offer business logic: the draft
// wizard, pricing aggregation, the validation checklist, and the lifecycle
// from DRAFT to the finalized client-facing states.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/internal/storage"
	"quoteoffer_backend/platform/apperr"
	"quoteoffer_backend/platform/logger"
)

const (
	msgNotDraft      = "cannot modify a quote offer that has left draft status"
	msgStillDraft    = "cannot access a draft through quote endpoints"
	msgOptionMissing = "option not found"
)

// DraftSeeder supplies the enriched wizard seed for a request-quote id.
// A nil result with nil error means the request was not found; the draft is
// then created without seed data.
type DraftSeeder interface {
	Seed(ctx context.Context, requestQuoteID string) (*repository.EnrichedWizardData, error)
}

// Service implements the quote offer use cases over the document store.
type Service struct {
	store        repository.Store
	seq          *SequenceService
	bus          events.Bus
	log          *logger.Logger
	seeder       DraftSeeder
	storage      storage.StorageService
	bucket       string
	validityDays int
}

// New creates the quote offer service.
func New(store repository.Store, seq *SequenceService, log *logger.Logger, validityDays int) *Service {
	if validityDays < 1 {
		validityDays = 30
	}
	return &Service{
		store:        store,
		seq:          seq,
		log:          log,
		validityDays: validityDays,
	}
}

// SetEventBus injects the domain event bus.
func (s *Service) SetEventBus(bus events.Bus) {
	s.bus = bus
}

// SetDraftSeeder injects the request-quote integration used to seed new drafts.
func (s *Service) SetDraftSeeder(seeder DraftSeeder) {
	s.seeder = seeder
}

// CreateDraft creates a new draft offer with the next sequential offer number.
// When a request-quote id is supplied and the integration is wired, the draft
// is seeded with enriched wizard data mapped from the external request;
// seeding failures degrade to an empty draft rather than failing the create.
func (s *Service) CreateDraft(ctx context.Context, req transport.CreateDraftRequest) (*repository.QuoteOffer, error) {
	now := time.Now().UTC()

	var enriched *repository.EnrichedWizardData
	if req.RequestQuoteID != "" && s.seeder != nil {
		seed, err := s.seeder.Seed(ctx, req.RequestQuoteID)
		if err != nil {
			s.log.Error("request quote seed failed", "requestQuoteId", req.RequestQuoteID, "error", err.Error())
		} else {
			enriched = seed
		}
	}

	offer := &repository.QuoteOffer{
		ID:               newDraftID(now),
		RequestQuoteID:   req.RequestQuoteID,
		ClientNumber:     req.ClientNumber,
		EmailUser:        req.EmailUser,
		Comment:          req.Comment,
		Status:           repository.StatusDraft,
		QuoteOfferNumber: s.seq.Next(),
		CreatedDate:      now,
		UpdatedAt:        now,
		OptimizedDraftData: &repository.OptimizedDraftData{
			ResumeToken: newResumeToken(),
			Wizard: repository.WizardMetadata{
				CurrentStep:  1,
				Status:       "in_progress",
				LastModified: now,
			},
			EnrichedData: enriched,
		},
	}

	if err := s.store.Create(ctx, offer); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to create draft", err).WithOp("CreateDraft")
	}

	s.publish(ctx, events.DraftCreated{
		BaseEvent:      events.NewBaseEvent(),
		DraftID:        offer.ID,
		RequestQuoteID: offer.RequestQuoteID,
		ClientNumber:   offer.ClientNumber,
		EmailUser:      offer.EmailUser,
	})

	return offer, nil
}

// GetDraft loads a draft by id. Non-draft offers are rejected.
func (s *Service) GetDraft(ctx context.Context, id string) (*repository.QuoteOffer, error) {
	return s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
}

// UpdateDraft applies a partial-merge patch: only non-nil fields overwrite
// the stored values, and UpdatedAt is always refreshed.
func (s *Service) UpdateDraft(ctx context.Context, id string, patch transport.UpdateDraftRequest) (*repository.QuoteOffer, error) {
	offer, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
	if err != nil {
		return nil, err
	}

	applyPatch(offer, patch)
	offer.UpdatedAt = time.Now().UTC()
	if offer.OptimizedDraftData != nil {
		offer.OptimizedDraftData.Wizard.LastModified = offer.UpdatedAt
	}

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// UpsertDraftOption creates or replaces one draft option. Totals are
// recomputed from the draft's enriched line items.
func (s *Service) UpsertDraftOption(ctx context.Context, id string, payload transport.DraftOptionPayload) (*repository.QuoteOffer, error) {
	offer, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
	if err != nil {
		return nil, err
	}

	draft := ensureDraftData(offer)
	option := repository.DraftOption{
		OptionID:    payload.OptionID,
		Name:        payload.Name,
		Description: payload.Description,
		MarginType:  payload.MarginType,
		Totals:      ComputeTotals(draft.EnrichedData),
	}
	if payload.MarginValue != nil {
		option.MarginValue = *payload.MarginValue
	}

	replaced := false
	for i := range draft.DraftOptions {
		if draft.DraftOptions[i].OptionID == option.OptionID {
			draft.DraftOptions[i] = option
			replaced = true
			break
		}
	}
	if !replaced {
		draft.DraftOptions = append(draft.DraftOptions, option)
	}

	offer.UpdatedAt = time.Now().UTC()
	draft.Wizard.LastModified = offer.UpdatedAt

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// DeleteDraftOption removes one draft option by id.
func (s *Service) DeleteDraftOption(ctx context.Context, id, optionID string) (*repository.QuoteOffer, error) {
	offer, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
	if err != nil {
		return nil, err
	}

	draft := ensureDraftData(offer)
	kept := draft.DraftOptions[:0]
	found := false
	for _, option := range draft.DraftOptions {
		if option.OptionID == optionID {
			found = true
			continue
		}
		kept = append(kept, option)
	}
	if !found {
		return nil, apperr.NotFound(msgOptionMissing)
	}
	draft.DraftOptions = kept

	if draft.PreferredOptionID == optionID {
		draft.PreferredOptionID = ""
	}

	offer.UpdatedAt = time.Now().UTC()
	draft.Wizard.LastModified = offer.UpdatedAt

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}
	return offer, nil
}

// ValidateDraftByID runs the advisory validation checklist on a draft.
func (s *Service) ValidateDraftByID(ctx context.Context, id string) (*transport.ValidationReport, error) {
	offer, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
	if err != nil {
		return nil, err
	}
	report := ValidateDraft(offer)
	return &report, nil
}

// PreviewPricing returns the per-line pricing breakdown and derived totals
// for a draft's enriched data.
func (s *Service) PreviewPricing(ctx context.Context, id string) (*transport.PricingPreviewResponse, error) {
	offer, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft)
	if err != nil {
		return nil, err
	}

	var enriched *repository.EnrichedWizardData
	if offer.OptimizedDraftData != nil {
		enriched = offer.OptimizedDraftData.EnrichedData
	}

	return &transport.PricingPreviewResponse{
		Lines:  PricingPreview(enriched),
		Totals: ComputeTotals(enriched),
	}, nil
}

// SearchDrafts lists drafts matching the filter.
func (s *Service) SearchDrafts(ctx context.Context, req transport.SearchRequest) (*transport.SearchResult, error) {
	status := repository.StatusDraft
	params := toListParams(req)
	params.Status = &status
	params.Statuses = nil
	return s.search(ctx, params)
}

// DeleteDraft removes a draft permanently. Finalized offers must go through
// the quote delete operation.
func (s *Service) DeleteDraft(ctx context.Context, id string) error {
	if _, err := s.loadGuarded(ctx, id, OpDraftMutation, msgNotDraft); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ── internal helpers ──────────────────────────────────────────────────────────

func (s *Service) loadGuarded(ctx context.Context, id string, op OperationClass, guardMsg string) (*repository.QuoteOffer, error) {
	offer, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !Allowed(offer.Status, op) {
		return nil, apperr.Validation(guardMsg)
	}
	return offer, nil
}

func (s *Service) search(ctx context.Context, params repository.ListParams) (*transport.SearchResult, error) {
	result, err := s.store.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	summaries := make([]transport.OfferSummary, 0, len(result.Items))
	for i := range result.Items {
		summaries = append(summaries, transport.ToSummary(&result.Items[i]))
	}

	return &transport.SearchResult{
		Items:      summaries,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus != nil {
		s.bus.Publish(ctx, event)
	}
}

func applyPatch(offer *repository.QuoteOffer, patch transport.UpdateDraftRequest) {
	if patch.ClientNumber != nil {
		offer.ClientNumber = *patch.ClientNumber
	}
	if patch.EmailUser != nil {
		offer.EmailUser = *patch.EmailUser
	}
	if patch.Comment != nil {
		offer.Comment = *patch.Comment
	}
	if patch.SelectedOption != nil {
		offer.SelectedOption = *patch.SelectedOption
	}
	if patch.ExpirationDate != nil {
		offer.ExpirationDate = patch.ExpirationDate
	}
	if patch.OptimizedDraftData != nil {
		offer.OptimizedDraftData = patch.OptimizedDraftData
	}
}

func ensureDraftData(offer *repository.QuoteOffer) *repository.OptimizedDraftData {
	if offer.OptimizedDraftData == nil {
		offer.OptimizedDraftData = &repository.OptimizedDraftData{
			Wizard: repository.WizardMetadata{CurrentStep: 1},
		}
	}
	return offer.OptimizedDraftData
}

func toListParams(req transport.SearchRequest) repository.ListParams {
	return repository.ListParams{
		ClientNumber:   req.ClientNumber,
		RequestQuoteID: req.RequestQuoteID,
		CreatedFrom:    req.CreatedFrom,
		CreatedTo:      req.CreatedTo,
		Search:         req.Search,
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
}

// newDraftID builds the human-readable draft identifier, e.g.
// DQ-2026-0830-142530.
func newDraftID(now time.Time) string {
	return fmt.Sprintf("DQ-%d-%s", now.Year(), now.Format("0102-150405"))
}

// newResumeToken returns 12 hex characters used by the wizard to resume a
// draft without the full id.
func newResumeToken() string {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
