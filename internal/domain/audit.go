package domain

import "time"

type AuditEntry struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	Message    string
	CreatedAt  time.Time
}
