package service

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/platform/apperr"

	"golang.org/x/sync/errgroup"
)

const (
	minFinalizeOptions = 1
	maxFinalizeOptions = 3
)

// GetQuote loads a finalized offer by id. Drafts are rejected.
func (s *Service) GetQuote(ctx context.Context, id string) (*repository.QuoteOffer, error) {
	return s.loadGuarded(ctx, id, OpQuoteAccess, msgStillDraft)
}

// SearchQuotes lists finalized offers. A specific non-draft status filter
// narrows the result; otherwise all non-draft statuses are included.
func (s *Service) SearchQuotes(ctx context.Context, req transport.SearchRequest) (*transport.SearchResult, error) {
	params := toListParams(req)

	if req.Status != "" {
		status := repository.Status(strings.ToUpper(req.Status))
		if !ValidTarget(status) {
			return nil, apperr.BadRequest("invalid status filter")
		}
		params.Status = &status
	} else {
		params.Statuses = []repository.Status{
			repository.StatusSentToClient,
			repository.StatusPendingApproval,
			repository.StatusAccepted,
			repository.StatusRejected,
			repository.StatusExpired,
		}
	}

	return s.search(ctx, params)
}

// FinalizeDraft promotes a draft to SENT_TO_CLIENT. Between 1 and 3 options
// must be submitted (or present on the draft), the preferred option must be
// one of them, and the options are snapshotted immutably with recomputed
// totals.
func (s *Service) FinalizeDraft(ctx context.Context, id string, req transport.FinalizeDraftRequest) (*repository.QuoteOffer, error) {
	offer, err := s.loadGuarded(ctx, id, OpFinalize, msgNotDraft)
	if err != nil {
		return nil, err
	}

	draft := ensureDraftData(offer)
	candidates := finalizeCandidates(draft, req)
	if len(candidates) < minFinalizeOptions || len(candidates) > maxFinalizeOptions {
		return nil, apperr.Validation("finalization requires between 1 and 3 options")
	}

	preferredIndex := -1
	for i, option := range candidates {
		if option.OptionID == req.PreferredOptionID {
			preferredIndex = i
			break
		}
	}
	if preferredIndex < 0 {
		return nil, apperr.Validation("preferred option is not among the submitted options")
	}

	now := time.Now().UTC()
	totals := ComputeTotals(draft.EnrichedData)
	options := make([]repository.QuoteOption, 0, len(candidates))
	for _, candidate := range candidates {
		options = append(options, repository.QuoteOption{
			OptionID:    candidate.OptionID,
			Description: candidate.Description,
			Totals:      totals,
		})
	}

	offer.Options = options
	offer.SelectedOption = preferredIndex
	offer.Status = repository.StatusSentToClient
	offer.UpdatedAt = now
	if req.ExpirationDate != nil {
		offer.ExpirationDate = req.ExpirationDate
	} else if offer.ExpirationDate == nil {
		expiry := now.AddDate(0, 0, s.validityDays)
		offer.ExpirationDate = &expiry
	}
	draft.PreferredOptionID = req.PreferredOptionID
	draft.Wizard.Status = "finalized"
	draft.Wizard.LastModified = now

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OfferFinalized{
		BaseEvent:        events.NewBaseEvent(),
		OfferID:          offer.ID,
		QuoteOfferNumber: offer.QuoteOfferNumber,
		ClientNumber:     offer.ClientNumber,
		EmailUser:        offer.EmailUser,
		OptionCount:      len(options),
		PreferredOption:  req.PreferredOptionID,
	})

	return offer, nil
}

// ChangeStatus applies the generic status change. The offer must have left
// draft and the target cannot be DRAFT; no other ordering is enforced.
func (s *Service) ChangeStatus(ctx context.Context, id string, target string) (*repository.QuoteOffer, error) {
	status := repository.Status(strings.ToUpper(strings.TrimSpace(target)))
	if !ValidTarget(status) {
		return nil, apperr.Validation("invalid target status")
	}

	offer, err := s.loadGuarded(ctx, id, OpStatusChange, msgStillDraft)
	if err != nil {
		return nil, err
	}

	oldStatus := offer.Status
	offer.Status = status
	offer.UpdatedAt = time.Now().UTC()

	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.publish(ctx, events.OfferStatusChanged{
		BaseEvent:    events.NewBaseEvent(),
		OfferID:      offer.ID,
		ClientNumber: offer.ClientNumber,
		EmailUser:    offer.EmailUser,
		OldStatus:    string(oldStatus),
		NewStatus:    string(status),
	})

	return offer, nil
}

// ProcessClientApproval records the client's decision. The approval value
// must be "accepted" or "rejected" (case-insensitive) and moves the offer to
// the matching terminal status.
func (s *Service) ProcessClientApproval(ctx context.Context, id string, req transport.ClientApprovalRequest) (*repository.QuoteOffer, error) {
	approval := strings.ToLower(strings.TrimSpace(req.Approval))
	if approval != "accepted" && approval != "rejected" {
		return nil, apperr.Validation(`approval must be "accepted" or "rejected"`)
	}

	offer, err := s.loadGuarded(ctx, id, OpClientApproval, msgStillDraft)
	if err != nil {
		return nil, err
	}

	offer.ClientApproval = approval
	if approval == "accepted" {
		offer.Status = repository.StatusAccepted
	} else {
		offer.Status = repository.StatusRejected
	}

	if req.SelectedOption != "" {
		for i, option := range offer.Options {
			if option.OptionID == req.SelectedOption {
				offer.SelectedOption = i
				break
			}
		}
	}

	offer.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, offer); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ClientApprovalRecorded{
		BaseEvent:      events.NewBaseEvent(),
		OfferID:        offer.ID,
		ClientNumber:   offer.ClientNumber,
		EmailUser:      offer.EmailUser,
		Approval:       approval,
		SelectedOption: req.SelectedOption,
	})

	return offer, nil
}

// DeleteQuote removes a finalized offer permanently.
func (s *Service) DeleteQuote(ctx context.Context, id string) error {
	if _, err := s.loadGuarded(ctx, id, OpQuoteAccess, msgStillDraft); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// ExpireOverdue marks every sent or pending offer whose expiration date has
// passed as EXPIRED. It returns the number of offers transitioned. Individual
// failures are logged and skipped so one bad document cannot stall the sweep.
func (s *Service) ExpireOverdue(ctx context.Context, now time.Time) (int, error) {
	params := repository.ListParams{
		Statuses: []repository.Status{
			repository.StatusSentToClient,
			repository.StatusPendingApproval,
		},
		ExpiresBefore: &now,
		PageSize:      200,
	}

	result, err := s.store.Search(ctx, params)
	if err != nil {
		return 0, err
	}

	var expired atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(5)

	for i := range result.Items {
		offer := result.Items[i]
		g.Go(func() error {
			offer.Status = repository.StatusExpired
			offer.UpdatedAt = now.UTC()

			if err := s.store.Update(gctx, &offer); err != nil {
				s.log.Error("expiry sweep update failed", "offerId", offer.ID, "error", err.Error())
				return nil
			}
			expired.Add(1)

			s.publish(gctx, events.OfferExpired{
				BaseEvent:    events.NewBaseEvent(),
				OfferID:      offer.ID,
				ClientNumber: offer.ClientNumber,
				EmailUser:    offer.EmailUser,
			})
			return nil
		})
	}

	_ = g.Wait()

	return int(expired.Load()), nil
}

// finalizeCandidates resolves the options being finalized: the explicit
// payload wins, otherwise the draft's stored options are used.
func finalizeCandidates(draft *repository.OptimizedDraftData, req transport.FinalizeDraftRequest) []repository.DraftOption {
	if len(req.Options) > 0 {
		options := make([]repository.DraftOption, 0, len(req.Options))
		for _, payload := range req.Options {
			option := repository.DraftOption{
				OptionID:    payload.OptionID,
				Name:        payload.Name,
				Description: payload.Description,
				MarginType:  payload.MarginType,
			}
			if payload.MarginValue != nil {
				option.MarginValue = *payload.MarginValue
			}
			options = append(options, option)
		}
		return options
	}
	return draft.DraftOptions
}
