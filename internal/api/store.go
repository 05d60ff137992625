package api

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

// ReportStore is the persistence surface the handlers depend on. Backed by
// gorm in production, mocked in handler tests.
type ReportStore interface {
	CreateReport(ctx context.Context, r *model.Report) error
	// GetReport loads a report with its trainee; report.ErrNotFound when absent.
	GetReport(ctx context.Context, id uint) (*model.Report, error)
	// GetReportWithComments additionally loads the comment thread (ascending,
	// with author metadata).
	GetReportWithComments(ctx context.Context, id uint) (*model.Report, error)
	// ListReports returns summaries; traineeID restricts to one trainee (nil
	// for all), date restricts to one calendar day (nil for all).
	ListReports(ctx context.Context, traineeID *uint, date *time.Time) ([]model.Report, error)
	UpdateReportFields(ctx context.Context, id uint, updates map[string]interface{}) (*model.Report, error)
	SetReportStatus(ctx context.Context, id uint, status model.ReportStatus) (*model.Report, error)
	// RequestChanges updates the status and inserts the instructor comment in
	// one transaction; on any failure neither write is applied.
	RequestChanges(ctx context.Context, id uint, status model.ReportStatus, comment *model.Comment) error
	ListComments(ctx context.Context, reportID uint) ([]model.Comment, error)
	AddComment(ctx context.Context, comment *model.Comment) error
	// CalendarRows returns the date/status projection feeding the calendar
	// aggregation, restricted to one trainee when traineeID is non-nil.
	CalendarRows(ctx context.Context, traineeID *uint) ([]report.DayStatus, error)
}

type dbReportStore struct {
	db *gorm.DB
}

// NewReportStore wraps a gorm handle in the ReportStore interface.
func NewReportStore(db *gorm.DB) ReportStore {
	return dbReportStore{db: db}
}

func (s dbReportStore) CreateReport(ctx context.Context, r *model.Report) error {
	return s.db.WithContext(ctx).Create(r).Error
}

func (s dbReportStore) GetReport(ctx context.Context, id uint) (*model.Report, error) {
	var r model.Report
	err := s.db.WithContext(ctx).Preload("Trainee").First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s dbReportStore) GetReportWithComments(ctx context.Context, id uint) (*model.Report, error) {
	var r model.Report
	err := s.db.WithContext(ctx).
		Preload("Trainee").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("comments.created_at ASC, comments.id ASC")
		}).
		Preload("Comments.Author").
		First(&r, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, report.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s dbReportStore) ListReports(ctx context.Context, traineeID *uint, date *time.Time) ([]model.Report, error) {
	query := s.db.WithContext(ctx).Model(&model.Report{}).Order("date ASC, id ASC")
	if traineeID != nil {
		query = query.Where("trainee_id = ?", *traineeID)
	}
	if date != nil {
		start := date.Truncate(24 * time.Hour)
		query = query.Where("date >= ? AND date < ?", start, start.Add(24*time.Hour))
	}

	reports := []model.Report{}
	if err := query.Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}

func (s dbReportStore) UpdateReportFields(ctx context.Context, id uint, updates map[string]interface{}) (*model.Report, error) {
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&model.Report{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetReport(ctx, id)
}

func (s dbReportStore) SetReportStatus(ctx context.Context, id uint, status model.ReportStatus) (*model.Report, error) {
	if err := s.db.WithContext(ctx).Model(&model.Report{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, err
	}
	return s.GetReport(ctx, id)
}

func (s dbReportStore) RequestChanges(ctx context.Context, id uint, status model.ReportStatus, comment *model.Comment) error {
	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := tx.Model(&model.Report{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Create(comment).Error; err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit().Error
}

func (s dbReportStore) ListComments(ctx context.Context, reportID uint) ([]model.Comment, error) {
	comments := []model.Comment{}
	err := s.db.WithContext(ctx).
		Preload("Author").
		Where("report_id = ?", reportID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s dbReportStore) AddComment(ctx context.Context, comment *model.Comment) error {
	if err := s.db.WithContext(ctx).Create(comment).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error
}

func (s dbReportStore) CalendarRows(ctx context.Context, traineeID *uint) ([]report.DayStatus, error) {
	query := s.db.WithContext(ctx).Model(&model.Report{}).Select("date", "status")
	if traineeID != nil {
		query = query.Where("trainee_id = ?", *traineeID)
	}

	rows := []report.DayStatus{}
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
