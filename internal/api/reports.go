package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/api/middleware"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/pkg/metrics"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

// createReportRequest is the payload for creating a report.
type createReportRequest struct {
	Date    string `json:"date"`
	Type    string `json:"type"` // TAG / WOCHE, defaults to TAG
	Content string `json:"content"`
}

type updateReportRequest struct {
	Content *string `json:"content"`
	Date    *string `json:"date"`
	Type    *string `json:"type"`
}

// reportSummary is the wire form of a report without content and comments.
type reportSummary struct {
	ID     uint               `json:"id"`
	Date   string             `json:"date"`
	Type   model.ReportType   `json:"type"`
	Status model.ReportStatus `json:"status"`
}

func toSummary(r *model.Report) reportSummary {
	return reportSummary{
		ID:     r.ID,
		Date:   r.Date.Format(report.DateKey),
		Type:   r.Type,
		Status: r.Status,
	}
}

type commentResponse struct {
	ID        uint         `json:"id"`
	Text      string       `json:"text"`
	Author    authorDetail `json:"author"`
	CreatedAt time.Time    `json:"createdAt"`
}

type authorDetail struct {
	ID    uint       `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	Name  string     `json:"name,omitempty"`
}

func toCommentResponse(c *model.Comment) commentResponse {
	return commentResponse{
		ID:   c.ID,
		Text: c.Text,
		Author: authorDetail{
			ID:    c.Author.ID,
			Email: c.Author.Email,
			Role:  c.Author.Role,
			Name:  c.Author.Name,
		},
		CreatedAt: c.CreatedAt,
	}
}

// identity returns the caller stored by the auth middleware. The middleware
// guarantees it is present on every authed route.
func identity(c *gin.Context) report.Identity {
	id, _ := middleware.Identity(c)
	return id
}

func parseReportID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseDate(s string) (time.Time, error) {
	return time.Parse(report.DateKey, strings.TrimSpace(s))
}

// handleCreateReport creates a new draft report for the calling trainee.
//
// POST /reports
func (s *Server) handleCreateReport(c *gin.Context) {
	actor := identity(c)
	if actor.Role != model.RoleAzubi {
		c.JSON(http.StatusForbidden, gin.H{"error": "Nur Auszubildende können Berichte erstellen"})
		return
	}

	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}
	if req.Date == "" || strings.TrimSpace(req.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Datum und Inhalt erforderlich"})
		return
	}
	date, err := parseDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum"})
		return
	}
	reportType := model.ReportType(strings.ToUpper(strings.TrimSpace(req.Type)))
	if reportType == "" {
		reportType = model.TypeTag
	}
	if !reportType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiger Typ"})
		return
	}

	r := model.Report{
		TraineeID: actor.UserID,
		Date:      date,
		Type:      reportType,
		Content:   req.Content,
		Status:    model.StatusEntwurf,
	}
	if err := s.store.CreateReport(c.Request.Context(), &r); err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"report": toSummary(&r)})
}

// handleListReports returns report summaries, optionally filtered to one day.
// Trainees only see their own reports; instructors see all of them.
//
// GET /reports?date=YYYY-MM-DD
func (s *Server) handleListReports(c *gin.Context) {
	actor := identity(c)

	var traineeID *uint
	if !actor.Role.Instructor() {
		traineeID = &actor.UserID
	}

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum"})
			return
		}
		date = &parsed
	}

	reports, err := s.store.ListReports(c.Request.Context(), traineeID, date)
	if err != nil {
		s.writeError(c, err)
		return
	}

	summaries := make([]reportSummary, 0, len(reports))
	for i := range reports {
		summaries = append(summaries, toSummary(&reports[i]))
	}
	c.JSON(http.StatusOK, gin.H{"reports": summaries})
}

// handleGetReport returns the full report including its comment thread.
//
// GET /reports/:id
func (s *Server) handleGetReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bericht nicht gefunden"})
		return
	}

	r, err := s.store.GetReportWithComments(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	actor := identity(c)
	if !actor.CanAccess(r) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Zugriff verweigert"})
		return
	}

	comments := make([]commentResponse, 0, len(r.Comments))
	for i := range r.Comments {
		comments = append(comments, toCommentResponse(&r.Comments[i]))
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       r.ID,
		"date":     r.Date.Format(report.DateKey),
		"type":     r.Type,
		"content":  r.Content,
		"status":   r.Status,
		"comments": comments,
	})
}

// handleUpdateReport edits content, date or type of an editable report.
//
// PUT /reports/:id
func (s *Server) handleUpdateReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bericht nicht gefunden"})
		return
	}
	var req updateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültige Daten"})
		return
	}

	r, err := s.store.GetReport(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := report.CheckEdit(identity(c), r); err != nil {
		s.writeError(c, err)
		return
	}

	updates := map[string]interface{}{}
	if req.Content != nil && strings.TrimSpace(*req.Content) != "" {
		updates["content"] = *req.Content
	}
	if req.Date != nil && *req.Date != "" {
		date, err := parseDate(*req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiges Datum"})
			return
		}
		updates["date"] = date
	}
	if req.Type != nil && *req.Type != "" {
		reportType := model.ReportType(strings.ToUpper(strings.TrimSpace(*req.Type)))
		if !reportType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Ungültiger Typ"})
			return
		}
		updates["type"] = reportType
	}

	updated, err := s.store.UpdateReportFields(c.Request.Context(), id, updates)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSummary(updated))
}

// handleSubmitReport moves a report into EINGEREICHT.
//
// POST /reports/:id/submit
func (s *Server) handleSubmitReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bericht nicht gefunden"})
		return
	}

	r, err := s.store.GetReport(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	next, err := report.Submit(identity(c), r)
	if err != nil {
		s.writeError(c, err)
		return
	}

	updated, err := s.store.SetReportStatus(c.Request.Context(), id, next)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.countTransition("submit")
	c.JSON(http.StatusOK, toSummary(updated))
}

// handleApproveReport moves a submitted report into GEPRUEFT and notifies
// the trainee.
//
// POST /reports/:id/approve
func (s *Server) handleApproveReport(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bericht nicht gefunden"})
		return
	}

	r, err := s.store.GetReport(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	next, err := report.Approve(identity(c), r)
	if err != nil {
		s.writeError(c, err)
		return
	}

	updated, err := s.store.SetReportStatus(c.Request.Context(), id, next)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.countTransition("approve")
	s.notifyReview(c.Request.Context(), r, next, "")
	c.JSON(http.StatusOK, toSummary(updated))
}

// handleRequestChanges moves a report into AENDERUNGSBEDARF and appends the
// instructor's comment. Both writes happen in one transaction.
//
// POST /reports/:id/request-changes
func (s *Server) handleRequestChanges(c *gin.Context) {
	id, ok := parseReportID(c)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bericht nicht gefunden"})
		return
	}
	var req struct {
		Text string `json:"text"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Kommentar erforderlich"})
		return
	}

	actor := identity(c)
	r, err := s.store.GetReport(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}
	next, err := report.RequestChanges(actor, r)
	if err != nil {
		s.writeError(c, err)
		return
	}

	comment := model.Comment{
		ReportID: id,
		AuthorID: actor.UserID,
		Text:     req.Text,
	}
	if err := s.store.RequestChanges(c.Request.Context(), id, next, &comment); err != nil {
		s.writeError(c, err)
		return
	}
	s.countTransition("request_changes")
	s.notifyReview(c.Request.Context(), r, next, req.Text)
	c.JSON(http.StatusOK, gin.H{"id": id, "status": next})
}

func (s *Server) countTransition(action string) {
	if metrics.ReportTransitionsTotal != nil {
		metrics.ReportTransitionsTotal.WithLabelValues(action).Inc()
	}
}

// notifyReview mails the trainee about a review outcome. Failures are logged
// and never surface to the caller.
func (s *Server) notifyReview(ctx context.Context, r *model.Report, outcome model.ReportStatus, comment string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendReviewOutcome(ctx, r.Trainee.Email, r, outcome, comment); err != nil {
		s.logger.Warn("review notification failed",
			slog.Uint64("report_id", uint64(r.ID)),
			slog.String("error", err.Error()),
		)
	}
}
