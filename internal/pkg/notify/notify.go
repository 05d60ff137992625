package notify

import (
	"context"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// Notifier informs a trainee about a review outcome on one of their reports.
type Notifier interface {
	// SendReviewOutcome sends a notification to toEmail.
	//
	// outcome is the resulting report status (GEPRUEFT or AENDERUNGSBEDARF);
	// comment carries the instructor's remark and may be empty for approvals.
	SendReviewOutcome(ctx context.Context, toEmail string, r *model.Report, outcome model.ReportStatus, comment string) error
}
