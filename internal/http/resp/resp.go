package resp

import (
	"net/http"

	"markread_demo/internal/domain"
)

const (
	MessageUpdated          = "Notification status updated."
	MessageMissingID        = "Notification ID is missing."
	MessageNotFoundOrDenied = "Notification not found or access is denied."
	MessageInternalError    = "Internal server error."
)

// Status maps an outcome to its HTTP status and client message. Unknown
// outcomes are treated as internal errors.
func Status(outcome domain.Outcome) (int, string) {
	switch outcome {
	case domain.OutcomeUpdated:
		return http.StatusOK, MessageUpdated
	case domain.OutcomeInvalidRequest:
		return http.StatusBadRequest, MessageMissingID
	case domain.OutcomeNotFoundOrDenied:
		return http.StatusNotFound, MessageNotFoundOrDenied
	default:
		return http.StatusInternalServerError, MessageInternalError
	}
}
