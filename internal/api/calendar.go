package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

type calendarEntry struct {
	Status string `json:"status"`
}

// handleCalendar reduces all visible reports to one severity indicator per
// date. Trainees see their own reports, instructors see everyone's.
//
// GET /calendar
func (s *Server) handleCalendar(c *gin.Context) {
	actor := identity(c)

	var traineeID *uint
	if !actor.Role.Instructor() {
		traineeID = &actor.UserID
	}

	rows, err := s.store.CalendarRows(c.Request.Context(), traineeID)
	if err != nil {
		s.writeError(c, err)
		return
	}

	aggregated := report.Aggregate(rows)
	statuses := make(map[string]calendarEntry, len(aggregated))
	for date, severity := range aggregated {
		statuses[date] = calendarEntry{Status: severity.Indicator()}
	}
	c.JSON(http.StatusOK, gin.H{"statuses": statuses})
}
