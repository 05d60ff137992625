package model

import (
	"time"
)

// ReportStatus is the lifecycle state of a report.
type ReportStatus string

const (
	StatusEntwurf          ReportStatus = "ENTWURF"          // draft, initial state
	StatusEingereicht      ReportStatus = "EINGEREICHT"      // submitted, awaiting review
	StatusGeprueft         ReportStatus = "GEPRUEFT"         // approved, terminal
	StatusAenderungsbedarf ReportStatus = "AENDERUNGSBEDARF" // changes requested
)

// Valid reports whether the status is a known lifecycle state.
func (s ReportStatus) Valid() bool {
	switch s {
	case StatusEntwurf, StatusEingereicht, StatusGeprueft, StatusAenderungsbedarf:
		return true
	}
	return false
}

// ReportType distinguishes daily from weekly reports.
type ReportType string

const (
	TypeTag   ReportType = "TAG"   // daily report
	TypeWoche ReportType = "WOCHE" // weekly report, stored on its anchor date
)

// Valid reports whether the type is TAG or WOCHE.
func (t ReportType) Valid() bool {
	return t == TypeTag || t == TypeWoche
}

// Report is a single training-report entry.
//
// A report is owned by the trainee that created it and moves through the
// lifecycle ENTWURF -> EINGEREICHT -> GEPRUEFT, with AENDERUNGSBEDARF as the
// instructor's rejection branch. Reports are never deleted.
type Report struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time

	TraineeID uint         `gorm:"not null;index"`            // owning trainee
	Trainee   User         `gorm:"foreignKey:TraineeID"`      // owning trainee record
	Date      time.Time    `gorm:"not null;index"`            // calendar date the report covers
	Type      ReportType   `gorm:"type:varchar(8);not null"`  // TAG / WOCHE
	Content   string       `gorm:"type:text;not null"`        // free-text activity description
	Status    ReportStatus `gorm:"type:varchar(24);not null"` // lifecycle state

	Comments []Comment `gorm:"foreignKey:ReportID"`
}

// Comment is a remark attached to a report. Comments are append-only and
// ordered by creation time ascending.
type Comment struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time

	ReportID uint   `gorm:"not null;index"`     // owning report
	AuthorID uint   `gorm:"not null"`           // comment author (trainee or instructor)
	Author   User   `gorm:"foreignKey:AuthorID"`
	Text     string `gorm:"type:text;not null"`
}
