package notify

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/dealsync/dealsync"
	"github.com/dealsync/dealsync/pkg/constants"
	"github.com/dealsync/dealsync/pkg/errors"
	"github.com/dealsync/dealsync/pkg/logging"
)

var _ Service = (*emailService)(nil)

// Status colors for the HTML report.
const (
	colorSuccess = "#22c55e"
	colorPartial = "#f59e0b"
	colorFailed  = "#ef4444"
)

// emailService sends run reports over SMTP with STARTTLS and plain auth.
type emailService struct {
	cfg Config
}

func newEmailService(cfg Config) *emailService {
	if cfg.Host == "" {
		cfg.Host = constants.DefaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = constants.DefaultSMTPPort
	}
	return &emailService{cfg: cfg}
}

// Notify sends the run report as a multipart message: plain text with an
// HTML alternative.
func (s *emailService) Notify(ctx context.Context, result *dealsync.Result) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Username); err != nil {
		return errors.NewNotifyError(s.cfg.To, err)
	}
	if err := msg.To(s.cfg.To); err != nil {
		return errors.NewNotifyError(s.cfg.To, err)
	}
	msg.Subject(subject(result))
	msg.SetBodyString(mail.TypeTextPlain, textBody(result))
	msg.AddAlternativeString(mail.TypeTextHTML, htmlBody(result))

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTimeout(constants.NotifyTimeout),
	)
	if err != nil {
		return errors.NewNotifyError(s.cfg.To, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.NewNotifyError(s.cfg.To, err)
	}

	logging.Ctx(ctx).Info().
		Str("to", s.cfg.To).
		Str("status", result.Status.String()).
		Msg("Sent sync report email")
	return nil
}

// subject renders the message subject, e.g. "DealSync: SUCCESS".
func subject(result *dealsync.Result) string {
	return fmt.Sprintf("DealSync: %s", strings.ToUpper(result.Status.String()))
}

// textBody renders the plain-text report.
func textBody(result *dealsync.Result) string {
	var b strings.Builder
	b.WriteString("DealSync Report\n")
	b.WriteString("===============\n\n")
	fmt.Fprintf(&b, "Status:             %s\n", strings.ToUpper(result.Status.String()))
	fmt.Fprintf(&b, "Started:            %s\n", result.StartedAt.Format(constants.TimeFormatEmail))
	if result.CompletedAt != nil {
		fmt.Fprintf(&b, "Duration:           %.2fs\n", result.DurationSeconds)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "CRM records:        %d\n", result.CRMRecords)
	fmt.Fprintf(&b, "Tracker issues:     %d\n", result.TrackerIssues)
	fmt.Fprintf(&b, "Rows written:       %d\n", result.RowsWritten)
	fmt.Fprintf(&b, "Conflicts resolved: %d\n", result.ConflictsResolved)
	b.WriteString("\n")
	if len(result.Errors) == 0 {
		b.WriteString("Errors: none\n")
	} else {
		fmt.Fprintf(&b, "Errors (%d):\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "  - %s\n", e)
		}
	}
	return b.String()
}

// htmlBody renders the HTML alternative with a status-colored headline.
func htmlBody(result *dealsync.Result) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; color: #111827;">`)
	b.WriteString(`<h2 style="margin-bottom: 4px;">DealSync Report</h2>`)
	fmt.Fprintf(&b, `<p>Status: <strong style="color: %s;">%s</strong></p>`,
		statusColor(result.Status), strings.ToUpper(result.Status.String()))

	b.WriteString(`<table style="border-collapse: collapse;">`)
	writeRow := func(label string, value int) {
		fmt.Fprintf(&b, `<tr><td style="padding: 2px 12px 2px 0;">%s</td><td style="text-align: right;">%d</td></tr>`,
			label, value)
	}
	writeRow("CRM records", result.CRMRecords)
	writeRow("Tracker issues", result.TrackerIssues)
	writeRow("Rows written", result.RowsWritten)
	writeRow("Conflicts resolved", result.ConflictsResolved)
	b.WriteString(`</table>`)

	if result.CompletedAt != nil {
		fmt.Fprintf(&b, `<p>Completed in %.2fs</p>`, result.DurationSeconds)
	}

	if len(result.Errors) > 0 {
		fmt.Fprintf(&b, `<h3 style="color: %s;">Errors (%d)</h3><ul>`, colorFailed, len(result.Errors))
		for _, e := range result.Errors {
			fmt.Fprintf(&b, `<li>%s</li>`, html.EscapeString(e))
		}
		b.WriteString(`</ul>`)
	}

	b.WriteString(`</body></html>`)
	return b.String()
}

func statusColor(status dealsync.Status) string {
	switch status {
	case dealsync.StatusSuccess:
		return colorSuccess
	case dealsync.StatusPartial:
		return colorPartial
	default:
		return colorFailed
	}
}
