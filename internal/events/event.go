// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"quoteoffer_backend/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Quote Offer Domain Events
// =============================================================================

// DraftCreated is published when a new draft quote is created.
type DraftCreated struct {
	BaseEvent
	DraftID        string `json:"draftId"`
	RequestQuoteID string `json:"requestQuoteId"`
	ClientNumber   string `json:"clientNumber"`
	EmailUser      string `json:"emailUser"`
}

func (e DraftCreated) EventName() string { return "quoteoffers.draft.created" }

// OfferFinalized is published when a draft is finalized into a client-facing offer.
type OfferFinalized struct {
	BaseEvent
	OfferID          string `json:"offerId"`
	QuoteOfferNumber int    `json:"quoteOfferNumber"`
	ClientNumber     string `json:"clientNumber"`
	EmailUser        string `json:"emailUser"`
	OptionCount      int    `json:"optionCount"`
	PreferredOption  string `json:"preferredOption"`
}

func (e OfferFinalized) EventName() string { return "quoteoffers.offer.finalized" }

// OfferStatusChanged is published when an offer's lifecycle status is updated.
type OfferStatusChanged struct {
	BaseEvent
	OfferID      string `json:"offerId"`
	ClientNumber string `json:"clientNumber"`
	EmailUser    string `json:"emailUser"`
	OldStatus    string `json:"oldStatus"`
	NewStatus    string `json:"newStatus"`
}

func (e OfferStatusChanged) EventName() string { return "quoteoffers.offer.status_changed" }

// ClientApprovalRecorded is published when the client accepts or rejects an offer.
type ClientApprovalRecorded struct {
	BaseEvent
	OfferID        string `json:"offerId"`
	ClientNumber   string `json:"clientNumber"`
	EmailUser      string `json:"emailUser"`
	Approval       string `json:"approval"`
	SelectedOption string `json:"selectedOption,omitempty"`
}

func (e ClientApprovalRecorded) EventName() string { return "quoteoffers.offer.client_approval" }

// OfferExpired is published when the expiry sweep marks an offer as expired.
type OfferExpired struct {
	BaseEvent
	OfferID      string `json:"offerId"`
	ClientNumber string `json:"clientNumber"`
	EmailUser    string `json:"emailUser"`
}

func (e OfferExpired) EventName() string { return "quoteoffers.offer.expired" }

// FileAttached is published when a file is attached to an offer.
type FileAttached struct {
	BaseEvent
	OfferID   string `json:"offerId"`
	FileID    string `json:"fileId"`
	FileName  string `json:"fileName"`
	SizeBytes int64  `json:"sizeBytes"`
}

func (e FileAttached) EventName() string { return "quoteoffers.offer.file_attached" }
