package repository

import (
	"context"
	"errors"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VersionRepository is the append-only snapshot log. Rows are inserted on the
// same transaction as the itinerary mutation that produced them and are never
// updated or deleted afterwards.
type VersionRepository interface {
	Append(ctx context.Context, q Querier, v *domain.ItineraryVersion) error
	ListByItinerary(ctx context.Context, itineraryID string) ([]domain.VersionSummary, error)
	GetByID(ctx context.Context, itineraryID, versionID string) (*domain.ItineraryVersion, error)
}

type PGVersionRepository struct {
	db *pgxpool.Pool
}

func NewVersionRepository(db *pgxpool.Pool) *PGVersionRepository {
	return &PGVersionRepository{db: db}
}

func (r *PGVersionRepository) Append(ctx context.Context, q Querier, v *domain.ItineraryVersion) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return q.QueryRow(ctx, `INSERT INTO itinerary_versions (id, itinerary_id, version, snapshot, created_by)
		VALUES ($1,$2,$3,$4,$5) RETURNING created_at`,
		v.ID, v.ItineraryID, v.Version, v.Snapshot, v.CreatedBy).Scan(&v.CreatedAt)
}

func (r *PGVersionRepository) ListByItinerary(ctx context.Context, itineraryID string) ([]domain.VersionSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT v.id, v.itinerary_id, v.version, v.created_by, COALESCE(u.name, ''), v.created_at
		FROM itinerary_versions v
		LEFT JOIN users u ON u.id = v.created_by
		WHERE v.itinerary_id=$1
		ORDER BY v.version DESC`, itineraryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]domain.VersionSummary, 0)
	for rows.Next() {
		var s domain.VersionSummary
		if err := rows.Scan(&s.ID, &s.ItineraryID, &s.Version, &s.CreatedBy, &s.CreatorName, &s.CreatedAt); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// GetByID filters on both version id and itinerary id, so a version id from
// another itinerary resolves to nothing instead of leaking its snapshot.
func (r *PGVersionRepository) GetByID(ctx context.Context, itineraryID, versionID string) (*domain.ItineraryVersion, error) {
	row := r.db.QueryRow(ctx, `SELECT id, itinerary_id, version, snapshot, created_by, created_at
		FROM itinerary_versions WHERE id=$1 AND itinerary_id=$2`, versionID, itineraryID)

	var v domain.ItineraryVersion
	err := row.Scan(&v.ID, &v.ItineraryID, &v.Version, &v.Snapshot, &v.CreatedBy, &v.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

var _ VersionRepository = (*PGVersionRepository)(nil)
