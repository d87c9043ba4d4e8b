package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/internal/quoteoffers/repository"
	"quoteoffer_backend/internal/quoteoffers/transport"
	"quoteoffer_backend/platform/apperr"
	"quoteoffer_backend/platform/logger"
)

// recordingBus collects published events synchronously so tests can assert
// on them without racing the async dispatch of the real bus.
type recordingBus struct {
	mu     sync.Mutex
	events []events.Event
}

func (b *recordingBus) Publish(_ context.Context, event events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
}

func (b *recordingBus) PublishSync(ctx context.Context, event events.Event) error {
	b.Publish(ctx, event)
	return nil
}

func (b *recordingBus) Subscribe(string, events.Handler) {}

func (b *recordingBus) names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.events))
	for _, e := range b.events {
		names = append(names, e.EventName())
	}
	return names
}

type fixedSeeder struct {
	data *repository.EnrichedWizardData
	err  error
}

func (s fixedSeeder) Seed(context.Context, string) (*repository.EnrichedWizardData, error) {
	return s.data, s.err
}

func newTestService(t *testing.T) (*Service, *fakeStore, *recordingBus) {
	t.Helper()
	store := newFakeStore()
	seq := NewSequenceService(store, logger.New("test"))
	seq.Init(context.Background())

	svc := New(store, seq, logger.New("test"), 30)
	bus := &recordingBus{}
	svc.SetEventBus(bus)
	return svc, store, bus
}

func mustCreateDraft(t *testing.T, svc *Service) *repository.QuoteOffer {
	t.Helper()
	offer, err := svc.CreateDraft(context.Background(), transport.CreateDraftRequest{
		ClientNumber: "CL-1001",
		EmailUser:    "agent@example.com",
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	return offer
}

func mustFinalize(t *testing.T, svc *Service, id string) *repository.QuoteOffer {
	t.Helper()
	if _, err := svc.UpsertDraftOption(context.Background(), id, transport.DraftOptionPayload{OptionID: "opt-1"}); err != nil {
		t.Fatalf("UpsertDraftOption: %v", err)
	}
	offer, err := svc.FinalizeDraft(context.Background(), id, transport.FinalizeDraftRequest{PreferredOptionID: "opt-1"})
	if err != nil {
		t.Fatalf("FinalizeDraft: %v", err)
	}
	return offer
}

func TestCreateDraftInitializesAggregate(t *testing.T) {
	svc, _, bus := newTestService(t)

	offer := mustCreateDraft(t, svc)

	if offer.Status != repository.StatusDraft {
		t.Errorf("status = %s, want DRAFT", offer.Status)
	}
	if !strings.HasPrefix(offer.ID, "DQ-") {
		t.Errorf("id = %q, want DQ- prefix", offer.ID)
	}
	if offer.QuoteOfferNumber != 1 {
		t.Errorf("quote number = %d, want 1", offer.QuoteOfferNumber)
	}
	if offer.OptimizedDraftData == nil {
		t.Fatal("draft data missing")
	}
	if len(offer.OptimizedDraftData.ResumeToken) != 12 {
		t.Errorf("resume token %q, want 12 hex chars", offer.OptimizedDraftData.ResumeToken)
	}
	if offer.OptimizedDraftData.Wizard.CurrentStep != 1 {
		t.Errorf("wizard step = %d, want 1", offer.OptimizedDraftData.Wizard.CurrentStep)
	}

	second := mustCreateDraft(t, svc)
	if second.QuoteOfferNumber != 2 {
		t.Errorf("second quote number = %d, want 2", second.QuoteOfferNumber)
	}

	names := bus.names()
	if len(names) != 2 || names[0] != "quoteoffers.draft.created" {
		t.Errorf("published events = %v", names)
	}
}

func TestCreateDraftSeedsFromRequestQuote(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.SetDraftSeeder(fixedSeeder{data: &repository.EnrichedWizardData{
		RoutingAndCargo: repository.RoutingAndCargo{PortOfLoading: "Le Havre"},
	}})

	offer, err := svc.CreateDraft(context.Background(), transport.CreateDraftRequest{
		RequestQuoteID: "rq-77",
		ClientNumber:   "CL-1001",
	})
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}

	enriched := offer.OptimizedDraftData.EnrichedData
	if enriched == nil || enriched.RoutingAndCargo.PortOfLoading != "Le Havre" {
		t.Fatalf("seed not applied: %+v", enriched)
	}
}

func TestCreateDraftSeedFailureDegradesToEmptyDraft(t *testing.T) {
	svc, _, _ := newTestService(t)
	svc.SetDraftSeeder(fixedSeeder{err: errors.New("upstream down")})

	offer, err := svc.CreateDraft(context.Background(), transport.CreateDraftRequest{
		RequestQuoteID: "rq-77",
		ClientNumber:   "CL-1001",
	})
	if err != nil {
		t.Fatalf("CreateDraft should not fail on seed error: %v", err)
	}
	if offer.OptimizedDraftData.EnrichedData != nil {
		t.Error("expected empty enriched data after seed failure")
	}
}

func TestUpdateDraftPartialMerge(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)

	comment := "nouvelle remarque"
	updated, err := svc.UpdateDraft(context.Background(), offer.ID, transport.UpdateDraftRequest{
		Comment: &comment,
	})
	if err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	if updated.Comment != comment {
		t.Errorf("comment = %q, want %q", updated.Comment, comment)
	}
	if updated.ClientNumber != "CL-1001" {
		t.Errorf("clientNumber = %q, nil patch field must not clear it", updated.ClientNumber)
	}
	if updated.EmailUser != "agent@example.com" {
		t.Errorf("emailUser = %q, nil patch field must not clear it", updated.EmailUser)
	}
	if !updated.UpdatedAt.After(offer.UpdatedAt) && !updated.UpdatedAt.Equal(offer.UpdatedAt) {
		t.Error("UpdatedAt must be refreshed")
	}
}

func TestRepeatedReadsReturnEqualAggregates(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	ctx := context.Background()

	first, err := svc.GetDraft(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	second, err := svc.GetDraft(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("consecutive draft reads differ:\n%+v\n%+v", first, second)
	}

	// Mutating one copy must not leak into later reads.
	first.Comment = "scribble"
	third, err := svc.GetDraft(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetDraft: %v", err)
	}
	if !reflect.DeepEqual(second, third) {
		t.Error("read after mutating a returned copy no longer matches")
	}

	mustFinalize(t, svc, offer.ID)
	q1, err := svc.GetQuote(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	q2, err := svc.GetQuote(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetQuote: %v", err)
	}
	if !reflect.DeepEqual(q1, q2) {
		t.Errorf("consecutive quote reads differ:\n%+v\n%+v", q1, q2)
	}
}

func TestStaleWriteSilentlyWins(t *testing.T) {
	svc, store, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	ctx := context.Background()

	// Two writers load the same aggregate before either saves.
	copyA, err := store.GetByID(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	copyB, err := store.GetByID(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	copyA.Comment = "first writer"
	if err := store.Update(ctx, copyA); err != nil {
		t.Fatalf("Update: %v", err)
	}

	copyB.EmailUser = "second@example.com"
	if err := store.Update(ctx, copyB); err != nil {
		t.Fatalf("Update: %v", err)
	}

	// Whole-document replace: the stale second write overwrites the
	// first without error, losing its change.
	final, err := store.GetByID(ctx, offer.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if final.EmailUser != "second@example.com" {
		t.Errorf("emailUser = %q, want the second writer's value", final.EmailUser)
	}
	if final.Comment != "" {
		t.Errorf("comment = %q, the first writer's change should be lost", final.Comment)
	}
}

func TestDraftOperationsRejectFinalizedOffers(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	mustFinalize(t, svc, offer.ID)

	ctx := context.Background()
	comment := "x"

	if _, err := svc.GetDraft(ctx, offer.ID); err == nil {
		t.Error("GetDraft should reject a finalized offer")
	}
	if _, err := svc.UpdateDraft(ctx, offer.ID, transport.UpdateDraftRequest{Comment: &comment}); err == nil {
		t.Error("UpdateDraft should reject a finalized offer")
	}
	if _, err := svc.FinalizeDraft(ctx, offer.ID, transport.FinalizeDraftRequest{PreferredOptionID: "opt-1"}); err == nil {
		t.Error("FinalizeDraft should reject a finalized offer")
	}
	if err := svc.DeleteDraft(ctx, offer.ID); err == nil {
		t.Error("DeleteDraft should reject a finalized offer")
	}
}

func TestQuoteOperationsRejectDrafts(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	ctx := context.Background()

	if _, err := svc.GetQuote(ctx, offer.ID); err == nil {
		t.Error("GetQuote should reject a draft")
	}
	if _, err := svc.ChangeStatus(ctx, offer.ID, "ACCEPTED"); err == nil {
		t.Error("ChangeStatus should reject a draft")
	}
	if _, err := svc.ProcessClientApproval(ctx, offer.ID, transport.ClientApprovalRequest{Approval: "accepted"}); err == nil {
		t.Error("ProcessClientApproval should reject a draft")
	}
	if err := svc.DeleteQuote(ctx, offer.ID); err == nil {
		t.Error("DeleteQuote should reject a draft")
	}
}

func TestUpsertDraftOptionAddAndReplace(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	ctx := context.Background()

	if _, err := svc.UpsertDraftOption(ctx, offer.ID, transport.DraftOptionPayload{OptionID: "opt-1", Name: "Standard"}); err != nil {
		t.Fatalf("UpsertDraftOption: %v", err)
	}
	updated, err := svc.UpsertDraftOption(ctx, offer.ID, transport.DraftOptionPayload{OptionID: "opt-1", Name: "Express"})
	if err != nil {
		t.Fatalf("UpsertDraftOption replace: %v", err)
	}

	options := updated.OptimizedDraftData.DraftOptions
	if len(options) != 1 {
		t.Fatalf("expected 1 option after replace, got %d", len(options))
	}
	if options[0].Name != "Express" {
		t.Errorf("option name = %q, want Express", options[0].Name)
	}
}

func TestDeleteDraftOptionClearsPreferred(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	ctx := context.Background()

	if _, err := svc.UpsertDraftOption(ctx, offer.ID, transport.DraftOptionPayload{OptionID: "opt-1"}); err != nil {
		t.Fatalf("UpsertDraftOption: %v", err)
	}
	if _, err := svc.UpdateDraft(ctx, offer.ID, transport.UpdateDraftRequest{}); err != nil {
		t.Fatalf("UpdateDraft: %v", err)
	}

	// Mark opt-1 preferred directly through a patch of the draft data.
	loaded, _ := svc.GetDraft(ctx, offer.ID)
	loaded.OptimizedDraftData.PreferredOptionID = "opt-1"
	patch := transport.UpdateDraftRequest{OptimizedDraftData: loaded.OptimizedDraftData}
	if _, err := svc.UpdateDraft(ctx, offer.ID, patch); err != nil {
		t.Fatalf("UpdateDraft preferred: %v", err)
	}

	updated, err := svc.DeleteDraftOption(ctx, offer.ID, "opt-1")
	if err != nil {
		t.Fatalf("DeleteDraftOption: %v", err)
	}
	if len(updated.OptimizedDraftData.DraftOptions) != 0 {
		t.Error("option should be removed")
	}
	if updated.OptimizedDraftData.PreferredOptionID != "" {
		t.Error("preferred option id should be cleared when its option is deleted")
	}

	if _, err := svc.DeleteDraftOption(ctx, offer.ID, "opt-404"); apperr.GetKind(err) != apperr.KindNotFound {
		t.Errorf("deleting a missing option: kind = %v, want not-found", apperr.GetKind(err))
	}
}

func TestFinalizeDraftOptionCountBounds(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	empty := mustCreateDraft(t, svc)
	if _, err := svc.FinalizeDraft(ctx, empty.ID, transport.FinalizeDraftRequest{PreferredOptionID: "opt-1"}); err == nil {
		t.Error("finalize with zero options should fail")
	}

	tooMany := mustCreateDraft(t, svc)
	req := transport.FinalizeDraftRequest{PreferredOptionID: "opt-1"}
	for _, id := range []string{"opt-1", "opt-2", "opt-3", "opt-4"} {
		req.Options = append(req.Options, transport.DraftOptionPayload{OptionID: id})
	}
	if _, err := svc.FinalizeDraft(ctx, tooMany.ID, req); err == nil {
		t.Error("finalize with four options should fail")
	}
}

func TestFinalizeDraftPreferredMustBeSubmitted(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)

	req := transport.FinalizeDraftRequest{
		PreferredOptionID: "opt-9",
		Options: []transport.DraftOptionPayload{
			{OptionID: "opt-1"},
			{OptionID: "opt-2"},
		},
	}
	if _, err := svc.FinalizeDraft(context.Background(), offer.ID, req); err == nil {
		t.Fatal("preferred option outside the submitted set should fail")
	}
}

func TestFinalizeDraftPromotesToSentToClient(t *testing.T) {
	svc, _, bus := newTestService(t)
	offer := mustCreateDraft(t, svc)

	req := transport.FinalizeDraftRequest{
		PreferredOptionID: "opt-2",
		Options: []transport.DraftOptionPayload{
			{OptionID: "opt-1", Description: "Standard"},
			{OptionID: "opt-2", Description: "Express"},
		},
	}
	finalized, err := svc.FinalizeDraft(context.Background(), offer.ID, req)
	if err != nil {
		t.Fatalf("FinalizeDraft: %v", err)
	}

	if finalized.Status != repository.StatusSentToClient {
		t.Errorf("status = %s, want SENT_TO_CLIENT", finalized.Status)
	}
	if len(finalized.Options) != 2 {
		t.Fatalf("options = %d, want 2", len(finalized.Options))
	}
	if finalized.SelectedOption != 1 {
		t.Errorf("selected option = %d, want index 1 (opt-2)", finalized.SelectedOption)
	}
	if finalized.ExpirationDate == nil {
		t.Fatal("expiration date should default from validity days")
	}
	wantExpiry := time.Now().UTC().AddDate(0, 0, 30)
	if diff := finalized.ExpirationDate.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Errorf("expiration = %s, want about %s", finalized.ExpirationDate, wantExpiry)
	}
	if finalized.OptimizedDraftData.Wizard.Status != "finalized" {
		t.Errorf("wizard status = %q, want finalized", finalized.OptimizedDraftData.Wizard.Status)
	}

	names := bus.names()
	if names[len(names)-1] != "quoteoffers.offer.finalized" {
		t.Errorf("last event = %q, want quoteoffers.offer.finalized", names[len(names)-1])
	}
}

func TestChangeStatusValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	mustFinalize(t, svc, offer.ID)
	ctx := context.Background()

	if _, err := svc.ChangeStatus(ctx, offer.ID, "DRAFT"); err == nil {
		t.Error("re-entering DRAFT must be rejected")
	}
	if _, err := svc.ChangeStatus(ctx, offer.ID, "BOGUS"); err == nil {
		t.Error("unknown status must be rejected")
	}

	updated, err := svc.ChangeStatus(ctx, offer.ID, "pending_approval")
	if err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}
	if updated.Status != repository.StatusPendingApproval {
		t.Errorf("status = %s, want PENDING_APPROVAL (input is uppercased)", updated.Status)
	}
}

func TestProcessClientApprovalCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		input      string
		wantStatus repository.Status
	}{
		{" ACCEPTED ", repository.StatusAccepted},
		{"Rejected", repository.StatusRejected},
	}

	for _, tt := range tests {
		offer := mustCreateDraft(t, svc)
		mustFinalize(t, svc, offer.ID)

		updated, err := svc.ProcessClientApproval(ctx, offer.ID, transport.ClientApprovalRequest{Approval: tt.input})
		if err != nil {
			t.Fatalf("ProcessClientApproval(%q): %v", tt.input, err)
		}
		if updated.Status != tt.wantStatus {
			t.Errorf("approval %q: status = %s, want %s", tt.input, updated.Status, tt.wantStatus)
		}
		if updated.ClientApproval != strings.ToLower(strings.TrimSpace(tt.input)) {
			t.Errorf("clientApproval = %q, want normalized lowercase", updated.ClientApproval)
		}
	}
}

func TestProcessClientApprovalRejectsOtherValues(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)
	mustFinalize(t, svc, offer.ID)

	if _, err := svc.ProcessClientApproval(context.Background(), offer.ID, transport.ClientApprovalRequest{Approval: "maybe"}); err == nil {
		t.Fatal(`approval other than "accepted"/"rejected" must fail`)
	}
}

func TestProcessClientApprovalSelectsOption(t *testing.T) {
	svc, _, _ := newTestService(t)
	offer := mustCreateDraft(t, svc)

	req := transport.FinalizeDraftRequest{
		PreferredOptionID: "opt-1",
		Options: []transport.DraftOptionPayload{
			{OptionID: "opt-1"},
			{OptionID: "opt-2"},
		},
	}
	if _, err := svc.FinalizeDraft(context.Background(), offer.ID, req); err != nil {
		t.Fatalf("FinalizeDraft: %v", err)
	}

	updated, err := svc.ProcessClientApproval(context.Background(), offer.ID, transport.ClientApprovalRequest{
		Approval:       "accepted",
		SelectedOption: "opt-2",
	})
	if err != nil {
		t.Fatalf("ProcessClientApproval: %v", err)
	}
	if updated.SelectedOption != 1 {
		t.Errorf("selected option = %d, want index 1", updated.SelectedOption)
	}
}

func TestExpireOverdueSweepsSentAndPendingOnly(t *testing.T) {
	svc, store, bus := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	seed := func(id string, status repository.Status, expiry *time.Time) {
		_ = store.Create(ctx, &repository.QuoteOffer{
			ID:             id,
			ClientNumber:   "CL-1",
			Status:         status,
			CreatedDate:    past,
			UpdatedAt:      past,
			ExpirationDate: expiry,
		})
	}

	seed("q-overdue-sent", repository.StatusSentToClient, &past)
	seed("q-overdue-pending", repository.StatusPendingApproval, &past)
	seed("q-future", repository.StatusSentToClient, &future)
	seed("q-accepted", repository.StatusAccepted, &past)
	seed("q-no-expiry", repository.StatusSentToClient, nil)

	count, err := svc.ExpireOverdue(ctx, now)
	if err != nil {
		t.Fatalf("ExpireOverdue: %v", err)
	}
	if count != 2 {
		t.Fatalf("expired count = %d, want 2", count)
	}

	for _, id := range []string{"q-overdue-sent", "q-overdue-pending"} {
		offer, _ := store.GetByID(ctx, id)
		if offer.Status != repository.StatusExpired {
			t.Errorf("%s status = %s, want EXPIRED", id, offer.Status)
		}
	}
	for _, id := range []string{"q-future", "q-accepted"} {
		offer, _ := store.GetByID(ctx, id)
		if offer.Status == repository.StatusExpired {
			t.Errorf("%s should not be expired", id)
		}
	}

	expiredEvents := 0
	for _, name := range bus.names() {
		if name == "quoteoffers.offer.expired" {
			expiredEvents++
		}
	}
	if expiredEvents != 2 {
		t.Errorf("expired events = %d, want 2", expiredEvents)
	}
}

func TestSearchDraftsForcesDraftStatus(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()
	now := time.Now().UTC()

	draft := mustCreateDraft(t, svc)
	// Seeded directly: the second-granular draft id would collide if two
	// drafts were created back to back within the same test.
	_ = store.Create(ctx, &repository.QuoteOffer{
		ID:           "Q-SENT-1",
		ClientNumber: "CL-2",
		Status:       repository.StatusSentToClient,
		CreatedDate:  now,
		UpdatedAt:    now,
	})

	result, err := svc.SearchDrafts(ctx, transport.SearchRequest{Status: "ACCEPTED"})
	if err != nil {
		t.Fatalf("SearchDrafts: %v", err)
	}
	if len(result.Items) != 1 || result.Items[0].ID != draft.ID {
		t.Fatalf("drafts search returned %+v, want only the draft", result.Items)
	}

	quotes, err := svc.SearchQuotes(ctx, transport.SearchRequest{})
	if err != nil {
		t.Fatalf("SearchQuotes: %v", err)
	}
	if len(quotes.Items) != 1 || quotes.Items[0].ID != "Q-SENT-1" {
		t.Fatalf("quotes search returned %+v, want only the finalized offer", quotes.Items)
	}

	if _, err := svc.SearchQuotes(ctx, transport.SearchRequest{Status: "DRAFT"}); err == nil {
		t.Error("quotes search with DRAFT filter must fail")
	}
}
