package domain

import "time"

// TourPackage is a reusable itinerary template. Booking creation clones its
// days and activities into a fresh itinerary, never references them.
type TourPackage struct {
	ID          string
	Name        string
	Destination string
	Days        int
	Price       float64
	TourType    TourType
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	TemplateDays []ItineraryDay
}
