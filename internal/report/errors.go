package report

import (
	"errors"
	"fmt"

	"github.com/wiwebitazubi1/BerichtheftApp/internal/model"
)

// Kind classifies a domain failure so the HTTP layer can pick a status code
// without string-matching messages.
type Kind int

const (
	KindInternal          Kind = iota // store or unexpected failure
	KindUnauthenticated               // no / invalid / expired token
	KindForbidden                     // authenticated but disallowed by ownership or role
	KindNotFound                      // referenced entity absent
	KindInvalidInput                  // missing or malformed fields
	KindInvalidTransition             // lifecycle guard failed
)

// Error is a classified domain error. The message is safe to return to the
// client for every kind except KindInternal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// ErrNotFound is returned when the referenced report does not exist.
var ErrNotFound = &Error{Kind: KindNotFound, Message: "Bericht nicht gefunden"}

// Forbidden builds an ownership/role violation error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// InvalidInput builds a validation error.
func InvalidInput(msg string) *Error {
	return &Error{Kind: KindInvalidInput, Message: msg}
}

// InvalidTransition builds a lifecycle guard error naming the current status.
func InvalidTransition(action string, current model.ReportStatus) *Error {
	return &Error{
		Kind:    KindInvalidTransition,
		Message: fmt.Sprintf("%s nicht möglich: Bericht ist %s", action, current),
	}
}

// KindOf extracts the Kind from err, defaulting to KindInternal for
// unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
