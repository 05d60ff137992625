package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

func TestListComments_AccessFollowsReport(t *testing.T) {
	store := &mockReportStore{
		getFunc: func(ctx context.Context, id uint) (*model.Report, error) {
			return storedReport(model.StatusEingereicht), nil
		},
		listCommentsFunc: func(ctx context.Context, reportID uint) ([]model.Comment, error) {
			return []model.Comment{
				{
					ID:        1,
					ReportID:  reportID,
					AuthorID:  9,
					Text:      "Bitte mehr Details",
					CreatedAt: time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
					Author:    model.User{ID: 9, Email: "ausbilder@example.com", Role: model.RoleAusbilder},
				},
			}, nil
		},
	}
	s := newTestServer(store)

	r := routerAs(otherAzubi, func(g *gin.RouterGroup) { g.GET("/reports/:id/comments", s.handleListComments) })
	if w := doJSON(t, r, http.MethodGet, "/reports/7/comments", nil); w.Code != http.StatusForbidden {
		t.Fatalf("foreign trainee: expected 403, got %d", w.Code)
	}

	r = routerAs(azubi, func(g *gin.RouterGroup) { g.GET("/reports/:id/comments", s.handleListComments) })
	w := doJSON(t, r, http.MethodGet, "/reports/7/comments", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner: expected 200, got %d", w.Code)
	}

	var resp struct {
		Comments []commentResponse `json:"comments"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Comments) != 1 || resp.Comments[0].Author.Email != "ausbilder@example.com" {
		t.Fatalf("unexpected comments: %+v", resp.Comments)
	}
}

func TestAddComment_OwnerAndInstructor(t *testing.T) {
	store := &mockReportStore{
		getFunc: func(ctx context.Context, id uint) (*model.Report, error) {
			return storedReport(model.StatusEingereicht), nil
		},
		addCommentFunc: func(ctx context.Context, comment *model.Comment) error {
			comment.ID = 5
			comment.Author = model.User{ID: comment.AuthorID}
			return nil
		},
	}
	s := newTestServer(store)

	r := routerAs(azubi, func(g *gin.RouterGroup) { g.POST("/reports/:id/comments", s.handleAddComment) })
	if w := doJSON(t, r, http.MethodPost, "/reports/7/comments", map[string]string{"text": "Erledigt"}); w.Code != http.StatusCreated {
		t.Fatalf("owner comment: expected 201, got %d", w.Code)
	}

	r = routerAs(instructor, func(g *gin.RouterGroup) { g.POST("/reports/:id/comments", s.handleAddComment) })
	if w := doJSON(t, r, http.MethodPost, "/reports/7/comments", map[string]string{"text": "Danke"}); w.Code != http.StatusCreated {
		t.Fatalf("instructor comment: expected 201, got %d", w.Code)
	}

	r = routerAs(otherAzubi, func(g *gin.RouterGroup) { g.POST("/reports/:id/comments", s.handleAddComment) })
	if w := doJSON(t, r, http.MethodPost, "/reports/7/comments", map[string]string{"text": "Hallo"}); w.Code != http.StatusForbidden {
		t.Fatalf("foreign trainee comment: expected 403, got %d", w.Code)
	}
}

func TestAddComment_EmptyText(t *testing.T) {
	s := newTestServer(&mockReportStore{})
	r := routerAs(azubi, func(g *gin.RouterGroup) { g.POST("/reports/:id/comments", s.handleAddComment) })

	if w := doJSON(t, r, http.MethodPost, "/reports/7/comments", map[string]string{"text": ""}); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
