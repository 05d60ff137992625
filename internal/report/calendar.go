package report

import (
	"time"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// Severity ranks report statuses for the calendar view. When several reports
// share a date the highest severity wins.
type Severity int

const (
	SeverityNone   Severity = iota // no report / unknown status
	SeverityGreen                  // draft or approved
	SeverityYellow                 // submitted, awaiting review
	SeverityRed                    // changes requested
)

// Indicator returns the wire name of the severity.
func (s Severity) Indicator() string {
	switch s {
	case SeverityRed:
		return "RED"
	case SeverityYellow:
		return "YELLOW"
	case SeverityGreen:
		return "GREEN"
	default:
		return "NONE"
	}
}

// StatusSeverity maps a report status to its calendar severity.
func StatusSeverity(s model.ReportStatus) Severity {
	switch s {
	case model.StatusAenderungsbedarf:
		return SeverityRed
	case model.StatusEingereicht:
		return SeverityYellow
	case model.StatusGeprueft, model.StatusEntwurf:
		return SeverityGreen
	default:
		return SeverityNone
	}
}

// DateKey is the calendar's wire format for dates.
const DateKey = "2006-01-02"

// DayStatus is the minimal projection the aggregation needs.
type DayStatus struct {
	Date   time.Time
	Status model.ReportStatus
}

// Aggregate reduces per-report statuses to one severity per date. The
// reduction is a pure max and therefore order-independent; dates without
// any report are absent from the result.
func Aggregate(rows []DayStatus) map[string]Severity {
	out := make(map[string]Severity, len(rows))
	for _, row := range rows {
		key := row.Date.Format(DateKey)
		sev := StatusSeverity(row.Status)
		if cur, ok := out[key]; !ok || sev > cur {
			out[key] = sev
		}
	}
	return out
}
