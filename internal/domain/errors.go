package domain

// Error is a caller-recoverable condition with a stable code the transport
// layer maps to an HTTP status. Codes are part of the API contract.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

var (
	ErrNotFound  = &Error{Code: "NOT_FOUND", Message: "resource not found"}
	ErrForbidden = &Error{Code: "FORBIDDEN", Message: "operation not permitted"}

	ErrVersionConflict = &Error{Code: "ITINERARY_VERSION_CONFLICT", Message: "itinerary was modified by another user, refetch and retry"}

	ErrInvalidStatusTransition = &Error{Code: "INVALID_STATUS_TRANSITION", Message: "booking status transition not allowed"}
	ErrBookingNotEditable      = &Error{Code: "BOOKING_NOT_EDITABLE", Message: "booking can no longer be edited"}
	ErrCollaboratorNotAllowed  = &Error{Code: "BOOKING_COLLABORATOR_NOT_ALLOWED", Message: "collaborators may only edit draft bookings"}
	ErrActivitiesRequired      = &Error{Code: "BOOKING_ACTIVITIES_REQUIRED", Message: "every itinerary day needs at least one activity"}
	ErrItineraryNotConfirmed   = &Error{Code: "ITINERARY_NOT_CONFIRMED", Message: "requested itinerary must be confirmed before booking"}
	ErrCannotSubmit            = &Error{Code: "CANNOT_SUBMIT", Message: "booking cannot be submitted from its current status"}
	ErrCannotCancel            = &Error{Code: "CANNOT_CANCEL", Message: "booking is already completed or cancelled"}
	ErrCannotDeleteNonDraft    = &Error{Code: "CANNOT_DELETE_NON_DRAFT", Message: "only draft bookings can be deleted"}
	ErrCannotAddOwner          = &Error{Code: "CANNOT_ADD_OWNER", Message: "owner cannot be added as a collaborator"}
)
