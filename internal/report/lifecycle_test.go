package report

import (
	"errors"
	"testing"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

var (
	owner      = Identity{UserID: 1, Role: model.RoleAzubi}
	otherAzubi = Identity{UserID: 2, Role: model.RoleAzubi}
	ausbilder  = Identity{UserID: 3, Role: model.RoleAusbilder}
	admin      = Identity{UserID: 4, Role: model.RoleAdmin}
)

func reportWith(status model.ReportStatus) *model.Report {
	return &model.Report{ID: 10, TraineeID: 1, Status: status}
}

func wantKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error of kind %d, got nil", kind)
	}
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *report.Error, got %T: %v", err, err)
	}
	if e.Kind != kind {
		t.Fatalf("expected kind %d, got %d (%s)", kind, e.Kind, e.Message)
	}
}

func TestSubmit_AllStatuses(t *testing.T) {
	cases := []struct {
		status model.ReportStatus
		ok     bool
	}{
		{model.StatusEntwurf, true},
		{model.StatusAenderungsbedarf, true},
		{model.StatusEingereicht, false},
		{model.StatusGeprueft, false},
	}
	for _, tc := range cases {
		next, err := Submit(owner, reportWith(tc.status))
		if tc.ok {
			if err != nil {
				t.Fatalf("submit from %s: %v", tc.status, err)
			}
			if next != model.StatusEingereicht {
				t.Fatalf("submit from %s: got %s", tc.status, next)
			}
			continue
		}
		wantKind(t, err, KindInvalidTransition)
	}
}

func TestSubmit_OnlyOwner(t *testing.T) {
	for _, actor := range []Identity{otherAzubi, ausbilder, admin} {
		_, err := Submit(actor, reportWith(model.StatusEntwurf))
		wantKind(t, err, KindForbidden)
	}
}

func TestApprove_OnlyFromEingereicht(t *testing.T) {
	next, err := Approve(ausbilder, reportWith(model.StatusEingereicht))
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if next != model.StatusGeprueft {
		t.Fatalf("approve: got %s", next)
	}

	for _, status := range []model.ReportStatus{model.StatusEntwurf, model.StatusAenderungsbedarf, model.StatusGeprueft} {
		_, err := Approve(ausbilder, reportWith(status))
		wantKind(t, err, KindInvalidTransition)
	}
}

func TestApprove_RequiresInstructor(t *testing.T) {
	_, err := Approve(owner, reportWith(model.StatusEingereicht))
	wantKind(t, err, KindForbidden)

	if _, err := Approve(admin, reportWith(model.StatusEingereicht)); err != nil {
		t.Fatalf("admin approve: %v", err)
	}
}

func TestRequestChanges_Guards(t *testing.T) {
	for _, status := range []model.ReportStatus{model.StatusEntwurf, model.StatusEingereicht, model.StatusAenderungsbedarf} {
		next, err := RequestChanges(ausbilder, reportWith(status))
		if err != nil {
			t.Fatalf("request changes from %s: %v", status, err)
		}
		if next != model.StatusAenderungsbedarf {
			t.Fatalf("request changes from %s: got %s", status, next)
		}
	}

	_, err := RequestChanges(ausbilder, reportWith(model.StatusGeprueft))
	wantKind(t, err, KindInvalidTransition)

	_, err = RequestChanges(owner, reportWith(model.StatusEingereicht))
	wantKind(t, err, KindForbidden)
}

func TestCheckEdit(t *testing.T) {
	if err := CheckEdit(owner, reportWith(model.StatusEntwurf)); err != nil {
		t.Fatalf("edit draft: %v", err)
	}
	if err := CheckEdit(owner, reportWith(model.StatusAenderungsbedarf)); err != nil {
		t.Fatalf("edit after rejection: %v", err)
	}
	wantKind(t, CheckEdit(owner, reportWith(model.StatusEingereicht)), KindInvalidTransition)
	wantKind(t, CheckEdit(ausbilder, reportWith(model.StatusEntwurf)), KindForbidden)
	wantKind(t, CheckEdit(otherAzubi, reportWith(model.StatusEntwurf)), KindForbidden)
}

func TestCanAccess(t *testing.T) {
	r := reportWith(model.StatusEntwurf)
	if !owner.CanAccess(r) {
		t.Fatal("owner should access own report")
	}
	if otherAzubi.CanAccess(r) {
		t.Fatal("foreign trainee should not access report")
	}
	if !ausbilder.CanAccess(r) || !admin.CanAccess(r) {
		t.Fatal("instructors should access any report")
	}
}
