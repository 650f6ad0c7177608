package snapshot

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/bluevoyage/travelbooking/internal/domain"
)

// ItinerarySnapshot is the plain-data image of an itinerary stored in the
// version log. It is also the restore input, so the shape must stay
// backward-readable: decoding ignores unknown fields and treats missing
// optional fields as null.
type ItinerarySnapshot struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"owner_id"`
	Title         string        `json:"title"`
	Destination   string        `json:"destination"`
	StartDate     *string       `json:"start_date"`
	EndDate       *string       `json:"end_date"`
	Travelers     int           `json:"travelers"`
	EstimatedCost *float64      `json:"estimated_cost"`
	TravelPace    string        `json:"travel_pace"`
	Preferences   []string      `json:"preferences"`
	Type          string        `json:"type"`
	Status        string        `json:"status"`
	TourType      string        `json:"tour_type"`
	Days          []DaySnapshot `json:"days"`
}

type DaySnapshot struct {
	DayNumber  int                `json:"day_number"`
	Title      string             `json:"title"`
	Date       *string            `json:"date"`
	Activities []ActivitySnapshot `json:"activities"`
}

type ActivitySnapshot struct {
	Time        string `json:"time"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Icon        string `json:"icon"`
	Position    int    `json:"position"`
}

// Build produces a deterministic snapshot of the itinerary's current state.
// Collaborators are not versioned and are excluded. Days and activities are
// emitted in (day_number, position) order regardless of load order, so two
// builds over identical content are structurally equal.
func Build(it *domain.Itinerary) ItinerarySnapshot {
	snap := ItinerarySnapshot{
		ID:            it.ID,
		OwnerID:       it.OwnerID,
		Title:         it.Title,
		Destination:   it.Destination,
		StartDate:     isoDate(it.StartDate),
		EndDate:       isoDate(it.EndDate),
		Travelers:     it.Travelers,
		EstimatedCost: it.EstimatedCost,
		TravelPace:    it.TravelPace,
		Preferences:   append([]string(nil), it.Preferences...),
		Type:          string(it.Type),
		Status:        string(it.Status),
		TourType:      string(it.TourType),
		Days:          make([]DaySnapshot, 0, len(it.Days)),
	}

	for _, day := range it.Days {
		ds := DaySnapshot{
			DayNumber:  day.DayNumber,
			Title:      day.Title,
			Date:       isoDate(day.Date),
			Activities: make([]ActivitySnapshot, 0, len(day.Activities)),
		}
		for _, act := range day.Activities {
			ds.Activities = append(ds.Activities, ActivitySnapshot{
				Time:        act.Time,
				Title:       act.Title,
				Description: act.Description,
				Location:    act.Location,
				Icon:        act.Icon,
				Position:    act.Position,
			})
		}
		sort.SliceStable(ds.Activities, func(i, j int) bool {
			return ds.Activities[i].Position < ds.Activities[j].Position
		})
		snap.Days = append(snap.Days, ds)
	}
	sort.SliceStable(snap.Days, func(i, j int) bool {
		return snap.Days[i].DayNumber < snap.Days[j].DayNumber
	})

	return snap
}

// Encode marshals the snapshot for storage in a version row.
func Encode(snap ItinerarySnapshot) (json.RawMessage, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode reads a stored snapshot. Unknown fields from newer writers are
// ignored.
func Decode(raw json.RawMessage) (ItinerarySnapshot, error) {
	var snap ItinerarySnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return ItinerarySnapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return snap, nil
}

// DomainDays converts the snapshot's day list back into domain children,
// used when a historical version is re-applied as the current state.
func (s ItinerarySnapshot) DomainDays() []domain.ItineraryDay {
	days := make([]domain.ItineraryDay, 0, len(s.Days))
	for _, ds := range s.Days {
		day := domain.ItineraryDay{
			DayNumber: ds.DayNumber,
			Title:     ds.Title,
			Date:      parseDate(ds.Date),
		}
		for _, as := range ds.Activities {
			day.Activities = append(day.Activities, domain.Activity{
				Time:        as.Time,
				Title:       as.Title,
				Description: as.Description,
				Location:    as.Location,
				Icon:        as.Icon,
				Position:    as.Position,
			})
		}
		days = append(days, day)
	}
	return days
}

func isoDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func parseDate(s *string) *time.Time {
	if s == nil {
		return nil
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &t
}
