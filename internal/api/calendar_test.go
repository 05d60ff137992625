package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
	"github.com/wiwebitazubi1/BerichtheftApp/internal/report"
)

func TestCalendar_SeverityExample(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	store := &mockReportStore{
		calendarRowsFunc: func(ctx context.Context, traineeID *uint) ([]report.DayStatus, error) {
			return []report.DayStatus{
				{Date: date, Status: model.StatusEingereicht},
				{Date: date, Status: model.StatusAenderungsbedarf},
			}, nil
		},
	}
	s := newTestServer(store)
	r := routerAs(azubi, func(g *gin.RouterGroup) { g.GET("/calendar", s.handleCalendar) })

	w := doJSON(t, r, http.MethodGet, "/calendar", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Statuses map[string]struct {
			Status string `json:"status"`
		} `json:"statuses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Statuses) != 1 {
		t.Fatalf("expected one date, got %v", resp.Statuses)
	}
	if resp.Statuses["2024-03-01"].Status != "RED" {
		t.Fatalf("expected RED for 2024-03-01, got %v", resp.Statuses)
	}
}

func TestCalendar_ScopedByRole(t *testing.T) {
	var gotTrainee *uint
	store := &mockReportStore{
		calendarRowsFunc: func(ctx context.Context, traineeID *uint) ([]report.DayStatus, error) {
			gotTrainee = traineeID
			return nil, nil
		},
	}
	s := newTestServer(store)

	r := routerAs(azubi, func(g *gin.RouterGroup) { g.GET("/calendar", s.handleCalendar) })
	doJSON(t, r, http.MethodGet, "/calendar", nil)
	if gotTrainee == nil || *gotTrainee != azubi.UserID {
		t.Fatal("trainee calendar must be scoped to the caller")
	}

	r = routerAs(instructor, func(g *gin.RouterGroup) { g.GET("/calendar", s.handleCalendar) })
	doJSON(t, r, http.MethodGet, "/calendar", nil)
	if gotTrainee != nil {
		t.Fatal("instructor calendar must not be scoped")
	}
}
