package repository

import (
	"context"
	"errors"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ItineraryRepository interface {
	Create(ctx context.Context, q Querier, it *domain.Itinerary) error
	GetByID(ctx context.Context, id string) (*domain.Itinerary, error)
	UpdateIfVersion(ctx context.Context, q Querier, it *domain.Itinerary, expectedVersion int64) error
	ReplaceDays(ctx context.Context, q Querier, itineraryID string, days []domain.ItineraryDay) ([]domain.ItineraryDay, error)
	MarkSent(ctx context.Context, q Querier, id string) error
	MarkConfirmed(ctx context.Context, q Querier, id string) error
	Archive(ctx context.Context, q Querier, id string) error
}

type PGItineraryRepository struct {
	db *pgxpool.Pool
}

func NewItineraryRepository(db *pgxpool.Pool) *PGItineraryRepository {
	return &PGItineraryRepository{db: db}
}

const itineraryColumns = `id, owner_id, title, destination, start_date, end_date, travelers, estimated_cost,
	travel_pace, preferences, type, status, tour_type, version, request_status, sent_at, confirmed_at,
	rejection_reason, rejection_resolution, resolved, created_at, updated_at`

func (r *PGItineraryRepository) Create(ctx context.Context, q Querier, it *domain.Itinerary) error {
	if it.ID == "" {
		it.ID = uuid.NewString()
	}
	it.Version = 1
	if it.Status == "" {
		it.Status = domain.ItineraryStatusDraft
	}

	err := q.QueryRow(ctx, `INSERT INTO itineraries
		(id, owner_id, title, destination, start_date, end_date, travelers, estimated_cost, travel_pace,
		 preferences, type, status, tour_type, version, request_status, rejection_reason, rejection_resolution, resolved)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,'','',false)
		RETURNING created_at, updated_at`,
		it.ID, it.OwnerID, it.Title, it.Destination, it.StartDate, it.EndDate, it.Travelers, it.EstimatedCost,
		it.TravelPace, it.Preferences, it.Type, it.Status, it.TourType, it.Version, it.RequestStatus).
		Scan(&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return err
	}

	days, err := r.ReplaceDays(ctx, q, it.ID, it.Days)
	if err != nil {
		return err
	}
	it.Days = days
	return nil
}

func (r *PGItineraryRepository) GetByID(ctx context.Context, id string) (*domain.Itinerary, error) {
	row := r.db.QueryRow(ctx, `SELECT `+itineraryColumns+` FROM itineraries WHERE id=$1`, id)
	it, err := scanItinerary(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if err := r.loadChildren(ctx, it); err != nil {
		return nil, err
	}
	return it, nil
}

// UpdateIfVersion is the optimistic-lock write: mutable fields are updated and
// version incremented only if the stored version still equals expectedVersion,
// in one conditional UPDATE. A miss means another writer advanced the row.
func (r *PGItineraryRepository) UpdateIfVersion(ctx context.Context, q Querier, it *domain.Itinerary, expectedVersion int64) error {
	err := q.QueryRow(ctx, `UPDATE itineraries SET
			title=$3, destination=$4, start_date=$5, end_date=$6, travelers=$7, estimated_cost=$8,
			travel_pace=$9, preferences=$10, type=$11, tour_type=$12, resolved=$13,
			version = version + 1, updated_at = now()
		WHERE id=$1 AND version=$2
		RETURNING version, updated_at`,
		it.ID, expectedVersion, it.Title, it.Destination, it.StartDate, it.EndDate, it.Travelers,
		it.EstimatedCost, it.TravelPace, it.Preferences, it.Type, it.TourType, it.Resolved).
		Scan(&it.Version, &it.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrVersionConflict
		}
		return err
	}
	return nil
}

// ReplaceDays drops and recreates the itinerary's day/activity children.
// Children are never diffed; day numbers stay unique because the whole set
// is rewritten on every update.
func (r *PGItineraryRepository) ReplaceDays(ctx context.Context, q Querier, itineraryID string, days []domain.ItineraryDay) ([]domain.ItineraryDay, error) {
	if _, err := q.Exec(ctx, `DELETE FROM activities WHERE day_id IN (SELECT id FROM itinerary_days WHERE itinerary_id=$1)`, itineraryID); err != nil {
		return nil, err
	}
	if _, err := q.Exec(ctx, `DELETE FROM itinerary_days WHERE itinerary_id=$1`, itineraryID); err != nil {
		return nil, err
	}

	out := make([]domain.ItineraryDay, 0, len(days))
	for _, day := range days {
		day.ID = uuid.NewString()
		day.ItineraryID = itineraryID
		if _, err := q.Exec(ctx, `INSERT INTO itinerary_days (id, itinerary_id, day_number, title, date)
			VALUES ($1,$2,$3,$4,$5)`, day.ID, itineraryID, day.DayNumber, day.Title, day.Date); err != nil {
			return nil, err
		}
		acts := make([]domain.Activity, 0, len(day.Activities))
		for _, act := range day.Activities {
			act.ID = uuid.NewString()
			act.DayID = day.ID
			if _, err := q.Exec(ctx, `INSERT INTO activities (id, day_id, time, title, description, location, icon, position)
				VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
				act.ID, day.ID, act.Time, act.Title, act.Description, act.Location, act.Icon, act.Position); err != nil {
				return nil, err
			}
			acts = append(acts, act)
		}
		day.Activities = acts
		out = append(out, day)
	}
	return out, nil
}

func (r *PGItineraryRepository) MarkSent(ctx context.Context, q Querier, id string) error {
	return r.setRequestStatus(ctx, q, id, domain.RequestStatusSent, `sent_at = now()`)
}

func (r *PGItineraryRepository) MarkConfirmed(ctx context.Context, q Querier, id string) error {
	return r.setRequestStatus(ctx, q, id, domain.RequestStatusConfirmed, `confirmed_at = now()`)
}

func (r *PGItineraryRepository) setRequestStatus(ctx context.Context, q Querier, id string, status domain.RequestStatus, stampExpr string) error {
	cmd, err := q.Exec(ctx, `UPDATE itineraries SET request_status=$2, `+stampExpr+`, updated_at = now() WHERE id=$1`, id, status)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Archive is the soft delete. Archiving an already archived itinerary is not
// an error.
func (r *PGItineraryRepository) Archive(ctx context.Context, q Querier, id string) error {
	cmd, err := q.Exec(ctx, `UPDATE itineraries SET status=$2, updated_at = now() WHERE id=$1`, id, domain.ItineraryStatusArchived)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PGItineraryRepository) loadChildren(ctx context.Context, it *domain.Itinerary) error {
	rows, err := r.db.Query(ctx, `SELECT id, itinerary_id, day_number, title, date
		FROM itinerary_days WHERE itinerary_id=$1 ORDER BY day_number`, it.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	dayIndex := map[string]int{}
	for rows.Next() {
		var d domain.ItineraryDay
		if err := rows.Scan(&d.ID, &d.ItineraryID, &d.DayNumber, &d.Title, &d.Date); err != nil {
			return err
		}
		dayIndex[d.ID] = len(it.Days)
		it.Days = append(it.Days, d)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	actRows, err := r.db.Query(ctx, `SELECT a.id, a.day_id, a.time, a.title, a.description, a.location, a.icon, a.position
		FROM activities a JOIN itinerary_days d ON a.day_id = d.id
		WHERE d.itinerary_id=$1 ORDER BY d.day_number, a.position`, it.ID)
	if err != nil {
		return err
	}
	defer actRows.Close()

	for actRows.Next() {
		var a domain.Activity
		if err := actRows.Scan(&a.ID, &a.DayID, &a.Time, &a.Title, &a.Description, &a.Location, &a.Icon, &a.Position); err != nil {
			return err
		}
		if idx, ok := dayIndex[a.DayID]; ok {
			it.Days[idx].Activities = append(it.Days[idx].Activities, a)
		}
	}
	return actRows.Err()
}

func scanItinerary(row pgx.Row) (*domain.Itinerary, error) {
	var it domain.Itinerary
	err := row.Scan(&it.ID, &it.OwnerID, &it.Title, &it.Destination, &it.StartDate, &it.EndDate, &it.Travelers,
		&it.EstimatedCost, &it.TravelPace, &it.Preferences, &it.Type, &it.Status, &it.TourType, &it.Version,
		&it.RequestStatus, &it.SentAt, &it.ConfirmedAt, &it.RejectionReason, &it.RejectionResolution,
		&it.Resolved, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

var _ ItineraryRepository = (*PGItineraryRepository)(nil)
