package domain

import "time"

type ItineraryType string

const (
	ItineraryTypeStandard   ItineraryType = "STANDARD"
	ItineraryTypeCustomized ItineraryType = "CUSTOMIZED"
	ItineraryTypeRequested  ItineraryType = "REQUESTED"
	ItineraryTypeSmartTrip  ItineraryType = "SMART_TRIP"
)

type ItineraryStatus string

const (
	ItineraryStatusDraft    ItineraryStatus = "DRAFT"
	ItineraryStatusArchived ItineraryStatus = "ARCHIVED"
)

// RequestStatus tracks the request/offer handshake for REQUESTED itineraries.
type RequestStatus string

const (
	RequestStatusNone      RequestStatus = ""
	RequestStatusSent      RequestStatus = "SENT"
	RequestStatusConfirmed RequestStatus = "CONFIRMED"
)

type TourType string

const (
	TourTypeJoiner  TourType = "JOINER"
	TourTypePrivate TourType = "PRIVATE"
)

type Itinerary struct {
	ID                  string
	OwnerID             string
	Title               string
	Destination         string
	StartDate           *time.Time
	EndDate             *time.Time
	Travelers           int
	EstimatedCost       *float64
	TravelPace          string
	Preferences         []string
	Type                ItineraryType
	Status              ItineraryStatus
	TourType            TourType
	Version             int64
	RequestStatus       RequestStatus
	SentAt              *time.Time
	ConfirmedAt         *time.Time
	RejectionReason     string
	RejectionResolution string
	Resolved            bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
	Days                []ItineraryDay
}

type ItineraryDay struct {
	ID          string
	ItineraryID string
	DayNumber   int
	Title       string
	Date        *time.Time
	Activities  []Activity
}

type Activity struct {
	ID          string
	DayID       string
	Time        string
	Title       string
	Description string
	Location    string
	Icon        string
	Position    int
}

type CollaboratorRole string

const (
	CollaboratorRoleCollaborator CollaboratorRole = "COLLABORATOR"
)

type Collaborator struct {
	ItineraryID string
	UserID      string
	Role        CollaboratorRole
	InvitedBy   string
	AddedAt     time.Time
}

// IsOwner reports whether userID owns the itinerary.
func (i *Itinerary) IsOwner(userID string) bool {
	return i.OwnerID == userID
}
