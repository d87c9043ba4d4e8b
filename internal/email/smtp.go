package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	"quoteoffer_backend/platform/config"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender from the email configuration.
func NewSMTPSender(cfg config.EmailConfig) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUsername(),
		password:  cfg.GetSMTPPassword(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendOfferFinalizedEmail(ctx context.Context, toEmail, clientNumber, offerNumber, offerURL string, optionCount int) error {
	subject := fmt.Sprintf(subjectOfferFinalizedFmt, offerNumber)
	content, err := renderEmailTemplate("offer_finalized.html", offerFinalizedEmailData{
		baseEmailData: baseEmailData{
			Title:    "Votre offre est prête",
			Heading:  "Votre offre est prête",
			CTALabel: "Consulter l'offre",
			CTAURL:   offerURL,
		},
		ClientNumber: clientNumber,
		OfferNumber:  offerNumber,
		OptionCount:  optionCount,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendApprovalRecordedEmail(ctx context.Context, toEmail, clientNumber, offerNumber, approval string) error {
	accepted := approval == "accepted"

	subjectFmt := subjectApprovalRejectedFmt
	heading := "Refus du client"
	if accepted {
		subjectFmt = subjectApprovalAcceptedFmt
		heading = "Accord du client"
	}

	content, err := renderEmailTemplate("approval_recorded.html", approvalRecordedEmailData{
		baseEmailData: baseEmailData{
			Title:   heading,
			Heading: heading,
		},
		ClientNumber: clientNumber,
		OfferNumber:  offerNumber,
		Accepted:     accepted,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectFmt, offerNumber), content)
}

func (s *SMTPSender) SendOfferExpiredEmail(ctx context.Context, toEmail, clientNumber, offerNumber string) error {
	content, err := renderEmailTemplate("offer_expired.html", offerExpiredEmailData{
		baseEmailData: baseEmailData{
			Title:   "Offre expirée",
			Heading: "Offre expirée",
		},
		ClientNumber: clientNumber,
		OfferNumber:  offerNumber,
	})
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, fmt.Sprintf(subjectOfferExpiredFmt, offerNumber), content)
}

var _ Sender = (*SMTPSender)(nil)
