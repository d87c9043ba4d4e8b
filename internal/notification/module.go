// Package notification provides event handlers for sending notifications
// in response to domain events. Domain modules publish events and never
// know about email providers or templates.
package notification

import (
	"context"
	"fmt"

	"quoteoffer_backend/internal/email"
	"quoteoffer_backend/internal/events"
	"quoteoffer_backend/platform/logger"
)

// Module subscribes to quote offer events and sends the matching emails.
type Module struct {
	sender     email.Sender
	log        *logger.Logger
	appBaseURL string
}

// NewModule creates the notification module. sender may be nil when email
// delivery is disabled; events are then logged and dropped.
func NewModule(sender email.Sender, appBaseURL string, log *logger.Logger) *Module {
	return &Module{
		sender:     sender,
		log:        log,
		appBaseURL: appBaseURL,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes this module to the events it reacts to.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.OfferFinalized{}.EventName(), m)
	bus.Subscribe(events.ClientApprovalRecorded{}.EventName(), m)
	bus.Subscribe(events.OfferExpired{}.EventName(), m)
}

// Handle dispatches a single domain event to the matching email.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	if m.sender == nil {
		m.log.Debug("email disabled, dropping notification", "event", event.EventName())
		return nil
	}

	switch e := event.(type) {
	case events.OfferFinalized:
		return m.handleOfferFinalized(ctx, e)
	case events.ClientApprovalRecorded:
		return m.handleApprovalRecorded(ctx, e)
	case events.OfferExpired:
		return m.handleOfferExpired(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleOfferFinalized(ctx context.Context, e events.OfferFinalized) error {
	if e.EmailUser == "" {
		m.log.Warn("offer finalized without recipient email", "offerId", e.OfferID)
		return nil
	}

	offerURL := fmt.Sprintf("%s/quotes/%s", m.appBaseURL, e.OfferID)
	offerNumber := fmt.Sprintf("%d", e.QuoteOfferNumber)

	if err := m.sender.SendOfferFinalizedEmail(ctx, e.EmailUser, e.ClientNumber, offerNumber, offerURL, e.OptionCount); err != nil {
		return fmt.Errorf("send offer finalized email: %w", err)
	}

	m.log.Info("offer finalized email sent", "offerId", e.OfferID, "to", e.EmailUser)
	return nil
}

func (m *Module) handleApprovalRecorded(ctx context.Context, e events.ClientApprovalRecorded) error {
	if e.EmailUser == "" {
		m.log.Warn("client approval without recipient email", "offerId", e.OfferID)
		return nil
	}

	if err := m.sender.SendApprovalRecordedEmail(ctx, e.EmailUser, e.ClientNumber, e.OfferID, e.Approval); err != nil {
		return fmt.Errorf("send approval email: %w", err)
	}

	m.log.Info("client approval email sent", "offerId", e.OfferID, "approval", e.Approval)
	return nil
}

func (m *Module) handleOfferExpired(ctx context.Context, e events.OfferExpired) error {
	if e.EmailUser == "" {
		return nil
	}

	if err := m.sender.SendOfferExpiredEmail(ctx, e.EmailUser, e.ClientNumber, e.OfferID); err != nil {
		return fmt.Errorf("send offer expired email: %w", err)
	}

	m.log.Info("offer expired email sent", "offerId", e.OfferID)
	return nil
}

var _ events.Handler = (*Module)(nil)
