package notify

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/config"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// EmailNotifier sends review-outcome mails over SMTP.
type EmailNotifier struct {
	cfg    *config.EmailConfig
	logger *slog.Logger
}

// NewEmailNotifier creates a new mail notifier.
func NewEmailNotifier(cfg *config.EmailConfig, logger *slog.Logger) *EmailNotifier {
	return &EmailNotifier{
		cfg:    cfg,
		logger: logger,
	}
}

// SendReviewOutcome emails the trainee after an instructor approved their
// report or requested changes. When SMTP is not configured the mail is
// skipped silently so the API works without a mail server.
func (n *EmailNotifier) SendReviewOutcome(ctx context.Context, toEmail string, r *model.Report, outcome model.ReportStatus, comment string) error {
	if n.cfg.SMTPHost == "" || n.cfg.SMTPUser == "" || n.cfg.FromEmail == "" {
		n.logger.Warn("email config missing, skip notification")
		return nil
	}
	if strings.TrimSpace(toEmail) == "" {
		n.logger.Warn("email recipient empty, skip notification")
		return nil
	}

	subject := "[Berichtsheft] Bericht freigegeben"
	if outcome == model.StatusAenderungsbedarf {
		subject = "[Berichtsheft] Änderungen angefordert"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.FromEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", n.buildHTMLBody(r, outcome, comment))

	d := gomail.NewDialer(n.cfg.SMTPHost, n.cfg.SMTPPort, n.cfg.SMTPUser, n.cfg.SMTPPass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send email: %w", err)
	}

	n.logger.Info("review notification sent",
		slog.String("to", toEmail),
		slog.Uint64("report_id", uint64(r.ID)),
		slog.String("outcome", string(outcome)),
	)
	return nil
}

func (n *EmailNotifier) buildHTMLBody(r *model.Report, outcome model.ReportStatus, comment string) string {
	headline := "Dein Bericht wurde freigegeben ✅"
	if outcome == model.StatusAenderungsbedarf {
		headline = "Dein Ausbilder hat Änderungen angefordert ✏️"
	}

	commentBlock := ""
	if strings.TrimSpace(comment) != "" {
		commentBlock = fmt.Sprintf(`<div class="comment">%s</div>`, html.EscapeString(comment))
	}

	template := `
<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8" />
<style>
  body { font-family: Arial, sans-serif; background: #f6f7fb; color: #1f2937; }
  .card { max-width: 560px; margin: 24px auto; background: #ffffff; border-radius: 12px; overflow: hidden; border: 1px solid #e5e7eb; }
  .header { background: #0f172a; color: #ffffff; padding: 16px 20px; font-size: 16px; font-weight: bold; }
  .content { padding: 20px; }
  .meta { font-size: 14px; color: #6b7280; margin-bottom: 12px; }
  .comment { background: #f3f4f6; border-left: 4px solid #ef4444; padding: 12px; margin: 12px 0; border-radius: 4px; }
  .footer { margin-top: 20px; font-size: 12px; color: #6b7280; }
</style>
</head>
<body>
  <div class="card">
    <div class="header">Berichtsheft</div>
    <div class="content">
      <h2>%s</h2>
      <div class="meta">Bericht vom %s (%s)</div>
      %s
      <div class="footer">Diese Nachricht wurde automatisch versendet.</div>
    </div>
  </div>
</body>
</html>`

	return fmt.Sprintf(template, headline, r.Date.Format("02.01.2006"), r.Type, commentBlock)
}
