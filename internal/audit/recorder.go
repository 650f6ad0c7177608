package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/bluevoyage/travelbooking/internal/repository"
	"github.com/google/uuid"
)

// Recorder writes audit rows on the caller's transaction, so an audit entry
// is durable exactly when the mutation it describes is.
type Recorder interface {
	Record(ctx context.Context, q repository.Querier, entry domain.AuditEntry) error
}

type PGRecorder struct{}

func NewRecorder() *PGRecorder {
	return &PGRecorder{}
}

func (r *PGRecorder) Record(ctx context.Context, q repository.Querier, entry domain.AuditEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	metadata, err := json.Marshal(entry.Metadata)
	if err != nil {
		return fmt.Errorf("marshal audit metadata: %w", err)
	}
	_, err = q.Exec(ctx, `INSERT INTO audit_log (id, actor_id, action, entity_type, entity_id, metadata, message)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, metadata, entry.Message)
	return err
}

var _ Recorder = (*PGRecorder)(nil)
