package domain

import (
	"errors"

	"markread_demo/internal/model"
)

// Outcome tags the result of a mark-as-read request.
type Outcome string

const (
	OutcomeUpdated          Outcome = "updated"
	OutcomeNotFoundOrDenied Outcome = "not_found_or_denied"
	OutcomeInvalidRequest   Outcome = "invalid_request"
	OutcomeInternalError    Outcome = "internal_error"
)

var (
	ErrNotificationIDMissing = errors.New("notification id is missing")
	// ErrNotFoundOrDenied covers both a missing record and a record owned by
	// someone else. Callers must not be able to tell the two apart.
	ErrNotFoundOrDenied = errors.New("notification not found or access denied")
)

func Outcomes() []Outcome {
	return []Outcome{
		OutcomeUpdated,
		OutcomeNotFoundOrDenied,
		OutcomeInvalidRequest,
		OutcomeInternalError,
	}
}

// CanRead reports whether userID may change the read state of n.
func CanRead(n model.Notification, userID int64) bool {
	return n.OwnerID == userID
}

// MarkRead moves n to the read state. It returns false when n was already
// read, in which case n is left untouched.
func MarkRead(n *model.Notification) bool {
	if n.IsRead {
		return false
	}
	n.IsRead = true
	return true
}
