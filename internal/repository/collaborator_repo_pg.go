package repository

import (
	"context"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CollaboratorRepository manages the (itinerary, user) join rows. Bookings
// have no collaborator table of their own; their collaborator endpoints
// operate on the linked itinerary through this same repository.
type CollaboratorRepository interface {
	Add(ctx context.Context, q Querier, c domain.Collaborator) error
	Remove(ctx context.Context, q Querier, itineraryID, userID string) error
	List(ctx context.Context, itineraryID string) ([]domain.Collaborator, error)
	Exists(ctx context.Context, itineraryID, userID string) (bool, error)
}

type PGCollaboratorRepository struct {
	db *pgxpool.Pool
}

func NewCollaboratorRepository(db *pgxpool.Pool) *PGCollaboratorRepository {
	return &PGCollaboratorRepository{db: db}
}

// Add is an idempotent upsert: inviting the same user twice leaves a single
// row, keyed by the (itinerary_id, user_id) unique constraint.
func (r *PGCollaboratorRepository) Add(ctx context.Context, q Querier, c domain.Collaborator) error {
	_, err := q.Exec(ctx, `INSERT INTO itinerary_collaborators (itinerary_id, user_id, role, invited_by)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (itinerary_id, user_id) DO NOTHING`,
		c.ItineraryID, c.UserID, c.Role, c.InvitedBy)
	return err
}

// Remove is a no-op when the row is absent.
func (r *PGCollaboratorRepository) Remove(ctx context.Context, q Querier, itineraryID, userID string) error {
	_, err := q.Exec(ctx, `DELETE FROM itinerary_collaborators WHERE itinerary_id=$1 AND user_id=$2`, itineraryID, userID)
	return err
}

func (r *PGCollaboratorRepository) List(ctx context.Context, itineraryID string) ([]domain.Collaborator, error) {
	rows, err := r.db.Query(ctx, `SELECT itinerary_id, user_id, role, invited_by, added_at
		FROM itinerary_collaborators WHERE itinerary_id=$1 ORDER BY added_at`, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	collaborators := make([]domain.Collaborator, 0)
	for rows.Next() {
		var c domain.Collaborator
		if err := rows.Scan(&c.ItineraryID, &c.UserID, &c.Role, &c.InvitedBy, &c.AddedAt); err != nil {
			return nil, err
		}
		collaborators = append(collaborators, c)
	}
	return collaborators, rows.Err()
}

func (r *PGCollaboratorRepository) Exists(ctx context.Context, itineraryID, userID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM itinerary_collaborators WHERE itinerary_id=$1 AND user_id=$2)`,
		itineraryID, userID).Scan(&exists)
	return exists, err
}

var _ CollaboratorRepository = (*PGCollaboratorRepository)(nil)
