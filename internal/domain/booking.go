package domain

import "time"

type BookingStatus string

const (
	BookingStatusDraft     BookingStatus = "DRAFT"
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusRejected  BookingStatus = "REJECTED"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type BookingType string

const (
	BookingTypeStandard   BookingType = "STANDARD"
	BookingTypeCustomized BookingType = "CUSTOMIZED"
	BookingTypeRequested  BookingType = "REQUESTED"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusDraft:     {BookingStatusPending, BookingStatusCancelled},
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusRejected, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCompleted, BookingStatusCancelled},
	BookingStatusRejected:  {BookingStatusPending, BookingStatusCancelled},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// CanTransitionTo reports whether the status change is allowed.
// A same-state transition is always a permitted no-op.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(bookingTransitions[s]) == 0
}

type Booking struct {
	ID                  string
	Code                string
	OwnerID             string
	ItineraryID         string
	Destination         string
	StartDate           *time.Time
	EndDate             *time.Time
	Travelers           int
	TotalPrice          *float64
	Budget              *float64
	Type                BookingType
	Status              BookingStatus
	TourType            TourType
	PaymentStatus       string
	ContactName         string
	ContactEmail        string
	ContactPhone        string
	RejectionReason     string
	RejectionResolution string
	Resolved            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// BookingSequence is the per-year counter backing booking code issuance.
type BookingSequence struct {
	Year           int
	CurrentNumber  int64
	LastIssuedCode string
	UpdatedAt      time.Time
}
