package domain

import (
	"encoding/json"
	"time"
)

// ItineraryVersion is an append-only snapshot record. Rows are never
// updated or deleted once written.
type ItineraryVersion struct {
	ID          string
	ItineraryID string
	Version     int64
	Snapshot    json.RawMessage
	CreatedBy   string
	CreatedAt   time.Time
}

// VersionSummary is the list-view projection of a version row, decorated
// with the creator's display name.
type VersionSummary struct {
	ID          string
	ItineraryID string
	Version     int64
	CreatedBy   string
	CreatorName string
	CreatedAt   time.Time
}
