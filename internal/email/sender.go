// Package email provides outbound email delivery for quote offer notifications.
package email

import "context"

// Attachment is a file attached to an outgoing email.
type Attachment struct {
	FileName string
	Content  []byte
}

// Sender delivers quote offer notification emails.
type Sender interface {
	SendOfferFinalizedEmail(ctx context.Context, toEmail, clientNumber, offerNumber, offerURL string, optionCount int) error
	SendApprovalRecordedEmail(ctx context.Context, toEmail, clientNumber, offerNumber, approval string) error
	SendOfferExpiredEmail(ctx context.Context, toEmail, clientNumber, offerNumber string) error
}
