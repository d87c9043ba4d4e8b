package transport

import (
	"testing"
	"time"

	"quoteoffer_backend/internal/quoteoffers/repository"

	"github.com/shopspring/decimal"
)

func totals(grand string) repository.OptionTotals {
	return repository.OptionTotals{
		GrandTotal: decimal.RequireFromString(grand),
		Currency:   "EUR",
	}
}

func TestToDraftDetailProgressStates(t *testing.T) {
	offer := &repository.QuoteOffer{
		ID:     "DQ-1",
		Status: repository.StatusDraft,
		OptimizedDraftData: &repository.OptimizedDraftData{
			Wizard: repository.WizardMetadata{CurrentStep: 3},
			Steps: repository.WizardSteps{
				Step1: &repository.StepRouteCustomer{CityFrom: "Lyon"},
				Step2: &repository.StepSelectedServices{},
			},
		},
	}

	detail := ToDraftDetail(offer)
	if len(detail.Progress) != 7 {
		t.Fatalf("progress entries = %d, want 7", len(detail.Progress))
	}

	wantStates := []string{
		StepDone, StepDone, StepInProgress,
		StepNotStarted, StepNotStarted, StepNotStarted, StepNotStarted,
	}
	for i, want := range wantStates {
		if detail.Progress[i].State != want {
			t.Errorf("step %d state = %q, want %q", i+1, detail.Progress[i].State, want)
		}
	}
	if detail.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", detail.Currency)
	}
}

func TestToDraftDetailBestPrice(t *testing.T) {
	offer := &repository.QuoteOffer{
		ID:     "DQ-1",
		Status: repository.StatusDraft,
		OptimizedDraftData: &repository.OptimizedDraftData{
			DraftOptions: []repository.DraftOption{
				{OptionID: "opt-1", Totals: totals("4200.00")},
				{OptionID: "opt-2", Totals: totals("3330.00")},
				{OptionID: "opt-3", Totals: totals("5100.00")},
			},
		},
	}

	detail := ToDraftDetail(offer)
	if detail.TotalOptions != 3 {
		t.Fatalf("totalOptions = %d, want 3", detail.TotalOptions)
	}
	if detail.BestPrice == nil || !detail.BestPrice.Equal(decimal.RequireFromString("3330.00")) {
		t.Errorf("bestPrice = %v, want 3330.00", detail.BestPrice)
	}
}

func TestToDraftDetailWithoutDraftData(t *testing.T) {
	detail := ToDraftDetail(&repository.QuoteOffer{ID: "DQ-1", Status: repository.StatusDraft})

	if len(detail.Progress) != 7 {
		t.Fatalf("progress entries = %d, want 7", len(detail.Progress))
	}
	for _, p := range detail.Progress {
		if p.State != StepNotStarted {
			t.Errorf("step %d state = %q, want %q", p.Step, p.State, StepNotStarted)
		}
	}
	if detail.BestPrice != nil {
		t.Errorf("bestPrice = %v, want nil", detail.BestPrice)
	}
}

func TestToQuoteDetailSummary(t *testing.T) {
	offer := &repository.QuoteOffer{
		ID:             "DQ-1",
		Status:         repository.StatusSentToClient,
		SelectedOption: 1,
		Options: []repository.QuoteOption{
			{OptionID: "opt-1", Description: "Standard", Totals: totals("4200.00")},
			{OptionID: "opt-2", Description: "Express", Totals: totals("5100.00")},
		},
	}

	detail := ToQuoteDetail(offer)
	if detail.Summary.TotalOptions != 2 {
		t.Fatalf("totalOptions = %d, want 2", detail.Summary.TotalOptions)
	}
	if detail.Summary.BestPrice == nil || !detail.Summary.BestPrice.Equal(decimal.RequireFromString("4200.00")) {
		t.Errorf("bestPrice = %v, want 4200.00", detail.Summary.BestPrice)
	}
	if detail.Summary.HighestPrice == nil || !detail.Summary.HighestPrice.Equal(decimal.RequireFromString("5100.00")) {
		t.Errorf("highestPrice = %v, want 5100.00", detail.Summary.HighestPrice)
	}
	if detail.Summary.PreferredDescription != "Express" {
		t.Errorf("preferredDescription = %q, want Express", detail.Summary.PreferredDescription)
	}
}

func TestToSummaryCountsDraftOptions(t *testing.T) {
	now := time.Now().UTC()
	offer := &repository.QuoteOffer{
		ID:           "DQ-1",
		ClientNumber: "CL-1001",
		Status:       repository.StatusDraft,
		CreatedDate:  now,
		UpdatedAt:    now,
		OptimizedDraftData: &repository.OptimizedDraftData{
			DraftOptions: []repository.DraftOption{{OptionID: "opt-1"}, {OptionID: "opt-2"}},
		},
	}

	summary := ToSummary(offer)
	if summary.OptionCount != 2 {
		t.Errorf("optionCount = %d, want 2", summary.OptionCount)
	}
	if summary.Status != "DRAFT" {
		t.Errorf("status = %q, want DRAFT", summary.Status)
	}
}
