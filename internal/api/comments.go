package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// handleListComments returns the report's comment thread, oldest first.
// Access follows the parent report: owner or any instructor.
//
// GET /reports/:id/comments
func (s *Server) handleListComments(c *gin.Context) {
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
	if !identity(c).CanAccess(r) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Zugriff verweigert"})
		return
	}

	comments, err := s.store.ListComments(c.Request.Context(), id)
	if err != nil {
		s.writeError(c, err)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for i := range comments {
		out = append(out, toCommentResponse(&comments[i]))
	}
	c.JSON(http.StatusOK, gin.H{"comments": out})
}

// handleAddComment appends a comment to the report.
//
// POST /reports/:id/comments
func (s *Server) handleAddComment(c *gin.Context) {
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
	if !actor.CanAccess(r) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Zugriff verweigert"})
		return
	}

	comment := model.Comment{
		ReportID: id,
		AuthorID: actor.UserID,
		Text:     req.Text,
	}
	if err := s.store.AddComment(c.Request.Context(), &comment); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": toCommentResponse(&comment)})
}
