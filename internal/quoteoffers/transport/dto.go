// Package transport defines the request/response DTOs for the quote offer API.
package transport

import (
	"time"

	"quoteoffer_backend/internal/quoteoffers/repository"

	"github.com/shopspring/decimal"
)

// CreateDraftRequest starts a new draft quote. RequestQuoteID is optional;
// when present the draft is seeded from the external request-quote record.
type CreateDraftRequest struct {
	RequestQuoteID string `json:"requestQuoteId"`
	ClientNumber   string `json:"clientNumber" binding:"required"`
	EmailUser      string `json:"emailUser" binding:"omitempty,email"`
	Comment        string `json:"comment"`
}

// UpdateDraftRequest is a partial-merge patch: nil fields leave the stored
// value unchanged. A caller cannot clear a field by sending null.
type UpdateDraftRequest struct {
	ClientNumber       *string                        `json:"clientNumber"`
	EmailUser          *string                        `json:"emailUser" binding:"omitempty,email"`
	Comment            *string                        `json:"comment"`
	SelectedOption     *int                           `json:"selectedOption"`
	ExpirationDate     *time.Time                     `json:"expirationDate"`
	OptimizedDraftData *repository.OptimizedDraftData `json:"optimizedDraftData"`
}

// DraftOptionPayload creates or replaces one draft option.
// Totals are recomputed server-side from the draft's enriched data when the
// payload carries none.
type DraftOptionPayload struct {
	OptionID    string           `json:"optionId" binding:"required"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	MarginType  string           `json:"marginType" binding:"omitempty,oneof=percent flat"`
	MarginValue *decimal.Decimal `json:"marginValue"`
}

// FinalizeDraftRequest promotes a draft to a client-facing quote.
// When Options is empty the draft's stored options are finalized instead.
type FinalizeDraftRequest struct {
	PreferredOptionID string               `json:"preferredOptionId" binding:"required"`
	Options           []DraftOptionPayload `json:"options"`
	ExpirationDate    *time.Time           `json:"expirationDate"`
}

// ChangeStatusRequest moves a finalized quote to a new lifecycle status.
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ClientApprovalRequest records the client's decision on a sent quote.
type ClientApprovalRequest struct {
	Approval       string `json:"approval" binding:"required"`
	SelectedOption string `json:"selectedOption"`
}

// SearchRequest filters and paginates quote offer searches.
type SearchRequest struct {
	ClientNumber   string     `form:"clientNumber"`
	RequestQuoteID string     `form:"requestQuoteId"`
	Status         string     `form:"status"`
	CreatedFrom    *time.Time `form:"createdFrom" time_format:"2006-01-02"`
	CreatedTo      *time.Time `form:"createdTo" time_format:"2006-01-02"`
	Search         string     `form:"search"`
	SortBy         string     `form:"sortBy"`
	SortOrder      string     `form:"sortOrder"`
	Page           int        `form:"page"`
	PageSize       int        `form:"pageSize"`
}

// OfferSummary is the light projection returned by searches; nested wizard
// and option detail is omitted.
type OfferSummary struct {
	ID               string     `json:"id"`
	RequestQuoteID   string     `json:"requestQuoteId,omitempty"`
	ClientNumber     string     `json:"clientNumber"`
	EmailUser        string     `json:"emailUser,omitempty"`
	Comment          string     `json:"comment,omitempty"`
	Status           string     `json:"status"`
	QuoteOfferNumber int        `json:"quoteOfferNumber"`
	OptionCount      int        `json:"optionCount"`
	ClientApproval   string     `json:"clientApproval,omitempty"`
	CreatedDate      time.Time  `json:"createdDate"`
	UpdatedAt        time.Time  `json:"updatedAt"`
	ExpirationDate   *time.Time `json:"expirationDate,omitempty"`
}

// SearchResult is the paginated search response.
type SearchResult struct {
	Items      []OfferSummary `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}

// ValidationCheck is one named pass/fail rule in the validation report.
type ValidationCheck struct {
	Name    string `json:"name"`
	Ok      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ValidationWarning is a freeform advisory attached to the report.
type ValidationWarning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationReport is the advisory checklist result for a draft.
type ValidationReport struct {
	Checks   []ValidationCheck   `json:"checks"`
	Warnings []ValidationWarning `json:"warnings"`
}

// PricingLine is one entry in the wizard's pricing preview.
type PricingLine struct {
	Kind        string           `json:"kind"`
	Description string           `json:"description"`
	UnitPrice   decimal.Decimal  `json:"unitPrice"`
	Quantity    int              `json:"quantity"`
	Taxable     bool             `json:"taxable,omitempty"`
	TaxRate     *decimal.Decimal `json:"taxRate,omitempty"`
	Currency    string           `json:"currency"`
}

// PricingPreviewResponse pairs the preview lines with the derived totals.
type PricingPreviewResponse struct {
	Lines  []PricingLine           `json:"lines"`
	Totals repository.OptionTotals `json:"totals"`
}

// PresignUploadRequest asks for a presigned PUT URL for a new attachment.
type PresignUploadRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

// PresignUploadResponse carries the upload URL and the object key the client
// must echo back when confirming the attachment.
type PresignUploadResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
	ExpiresIn int    `json:"expiresInSeconds"`
}

// ConfirmAttachmentRequest registers an uploaded object on the offer.
type ConfirmAttachmentRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ObjectKey   string `json:"objectKey" binding:"required"`
	ContentType string `json:"contentType"`
	SizeBytes   int64  `json:"sizeBytes" binding:"required,gt=0"`
}

// DownloadURLResponse carries a presigned download link.
type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
	ExpiresIn   int    `json:"expiresInSeconds"`
}

// Wizard step progress states.
const (
	StepDone       = "done"
	StepInProgress = "in_progress"
	StepNotStarted = "not_started"
)

// StepProgress reports the wizard state of one step.
type StepProgress struct {
	Step  int    `json:"step"`
	Name  string `json:"name"`
	State string `json:"state"`
}

// DraftDetail is the full draft response: the aggregate plus the wizard
// progress projection and option highlights.
type DraftDetail struct {
	*repository.QuoteOffer
	Progress     []StepProgress   `json:"progress"`
	TotalOptions int              `json:"totalOptions"`
	BestPrice    *decimal.Decimal `json:"bestPrice,omitempty"`
	Currency     string           `json:"currency"`
}

// QuoteSummary highlights the finalized option set.
type QuoteSummary struct {
	TotalOptions         int              `json:"totalOptions"`
	BestPrice            *decimal.Decimal `json:"bestPrice,omitempty"`
	HighestPrice         *decimal.Decimal `json:"highestPrice,omitempty"`
	PreferredDescription string           `json:"preferredDescription,omitempty"`
}

// QuoteDetail is the full quote response with its summary block.
type QuoteDetail struct {
	*repository.QuoteOffer
	Summary QuoteSummary `json:"summary"`
}

var stepNames = [7]string{
	"route_customer",
	"services",
	"containers",
	"haulage",
	"seafreight",
	"miscellaneous",
	"finalization",
}

// ToDraftDetail projects a draft aggregate onto its detail response.
func ToDraftDetail(offer *repository.QuoteOffer) DraftDetail {
	detail := DraftDetail{
		QuoteOffer: offer,
		Progress:   make([]StepProgress, 0, len(stepNames)),
		Currency:   "EUR",
	}

	draft := offer.OptimizedDraftData
	if draft == nil {
		for i, name := range stepNames {
			detail.Progress = append(detail.Progress, StepProgress{Step: i + 1, Name: name, State: StepNotStarted})
		}
		return detail
	}

	filled := [7]bool{
		draft.Steps.Step1 != nil,
		draft.Steps.Step2 != nil,
		draft.Steps.Step3 != nil,
		draft.Steps.Step4 != nil,
		draft.Steps.Step5 != nil,
		draft.Steps.Step6 != nil,
		draft.Steps.Step7 != nil,
	}
	for i, name := range stepNames {
		state := StepNotStarted
		switch {
		case filled[i]:
			state = StepDone
		case i+1 == draft.Wizard.CurrentStep:
			state = StepInProgress
		}
		detail.Progress = append(detail.Progress, StepProgress{Step: i + 1, Name: name, State: state})
	}

	detail.TotalOptions = len(draft.DraftOptions)
	for i := range draft.DraftOptions {
		total := draft.DraftOptions[i].Totals.GrandTotal
		if detail.BestPrice == nil || total.LessThan(*detail.BestPrice) {
			price := total
			detail.BestPrice = &price
		}
	}

	return detail
}

// ToQuoteDetail projects a finalized aggregate onto its detail response.
func ToQuoteDetail(offer *repository.QuoteOffer) QuoteDetail {
	summary := QuoteSummary{TotalOptions: len(offer.Options)}
	for i := range offer.Options {
		total := offer.Options[i].Totals.GrandTotal
		if summary.BestPrice == nil || total.LessThan(*summary.BestPrice) {
			price := total
			summary.BestPrice = &price
		}
		if summary.HighestPrice == nil || total.GreaterThan(*summary.HighestPrice) {
			price := total
			summary.HighestPrice = &price
		}
	}
	if offer.SelectedOption >= 0 && offer.SelectedOption < len(offer.Options) {
		summary.PreferredDescription = offer.Options[offer.SelectedOption].Description
	}

	return QuoteDetail{QuoteOffer: offer, Summary: summary}
}

// ToSummary projects the aggregate onto its search summary.
func ToSummary(offer *repository.QuoteOffer) OfferSummary {
	optionCount := len(offer.Options)
	if offer.Status == repository.StatusDraft && offer.OptimizedDraftData != nil {
		optionCount = len(offer.OptimizedDraftData.DraftOptions)
	}

	return OfferSummary{
		ID:               offer.ID,
		RequestQuoteID:   offer.RequestQuoteID,
		ClientNumber:     offer.ClientNumber,
		EmailUser:        offer.EmailUser,
		Comment:          offer.Comment,
		Status:           string(offer.Status),
		QuoteOfferNumber: offer.QuoteOfferNumber,
		OptionCount:      optionCount,
		ClientApproval:   offer.ClientApproval,
		CreatedDate:      offer.CreatedDate,
		UpdatedAt:        offer.UpdatedAt,
		ExpirationDate:   offer.ExpirationDate,
	}
}
