// Package report holds the report lifecycle rules: who may trigger which
// status transition, the error taxonomy those rules produce, and the
// severity reduction behind the calendar view. Everything here is pure;
// persistence stays in the API layer's store.
package report

import (
	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// Identity is the authenticated caller, as derived from the request token.
type Identity struct {
	UserID uint
	Role   model.Role
}

// CanAccess reports whether the caller may read the report and its comments.
// Trainees only reach their own reports; instructors reach all of them.
func (id Identity) CanAccess(r *model.Report) bool {
	return id.Role.Instructor() || r.TraineeID == id.UserID
}

// owns reports whether the caller is the trainee owning the report.
func (id Identity) owns(r *model.Report) bool {
	return id.Role == model.RoleAzubi && r.TraineeID == id.UserID
}

// Editable reports whether a report's fields may still be changed by its
// trainee.
func Editable(s model.ReportStatus) bool {
	return s == model.StatusEntwurf || s == model.StatusAenderungsbedarf
}

// CheckEdit guards the content/date/type edit transition. The status is left
// unchanged by an edit.
func CheckEdit(actor Identity, r *model.Report) error {
	if !actor.owns(r) {
		return Forbidden("Nur der Azubi kann diesen Bericht bearbeiten")
	}
	if !Editable(r.Status) {
		return InvalidTransition("Bearbeiten", r.Status)
	}
	return nil
}

// Submit guards the submit transition and returns the resulting status.
func Submit(actor Identity, r *model.Report) (model.ReportStatus, error) {
	if !actor.owns(r) {
		return "", Forbidden("Nur der Azubi kann diesen Bericht einreichen")
	}
	if !Editable(r.Status) {
		return "", InvalidTransition("Einreichen", r.Status)
	}
	return model.StatusEingereicht, nil
}

// Approve guards the approve transition and returns the resulting status.
// Only submitted reports can be approved; GEPRUEFT is terminal.
func Approve(actor Identity, r *model.Report) (model.ReportStatus, error) {
	if !actor.Role.Instructor() {
		return "", Forbidden("Nur Ausbilder dürfen Berichte freigeben")
	}
	if r.Status != model.StatusEingereicht {
		return "", InvalidTransition("Freigeben", r.Status)
	}
	return model.StatusGeprueft, nil
}

// RequestChanges guards the request-changes transition and returns the
// resulting status. The caller must append the instructor's comment in the
// same transaction as the status update.
func RequestChanges(actor Identity, r *model.Report) (model.ReportStatus, error) {
	if !actor.Role.Instructor() {
		return "", Forbidden("Nur Ausbilder dürfen Änderungen anfordern")
	}
	if r.Status == model.StatusGeprueft {
		return "", InvalidTransition("Änderungsanforderung", r.Status)
	}
	return model.StatusAenderungsbedarf, nil
}
