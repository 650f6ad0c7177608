package repository

import (
	"context"
	"errors"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, q Querier, b *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error)
	UpdateDetails(ctx context.Context, q Querier, b *domain.Booking) error
	UpdateStatus(ctx context.Context, q Querier, id string, from, to domain.BookingStatus, resolved bool, reason, resolution string) (*domain.Booking, error)
	Delete(ctx context.Context, q Querier, id string) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) *PGBookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `id, code, owner_id, itinerary_id, destination, start_date, end_date, travelers,
	total_price, budget, type, status, tour_type, payment_status, contact_name, contact_email, contact_phone,
	rejection_reason, rejection_resolution, resolved, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, q Querier, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.Status == "" {
		b.Status = domain.BookingStatusDraft
	}
	return q.QueryRow(ctx, `INSERT INTO bookings
		(id, code, owner_id, itinerary_id, destination, start_date, end_date, travelers, total_price, budget,
		 type, status, tour_type, payment_status, contact_name, contact_email, contact_phone,
		 rejection_reason, rejection_resolution, resolved)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,'','',false)
		RETURNING created_at, updated_at`,
		b.ID, b.Code, b.OwnerID, b.ItineraryID, b.Destination, b.StartDate, b.EndDate, b.Travelers,
		b.TotalPrice, b.Budget, b.Type, b.Status, b.TourType, b.PaymentStatus,
		b.ContactName, b.ContactEmail, b.ContactPhone).
		Scan(&b.CreatedAt, &b.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id=$1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE owner_id=$1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateDetails rewrites the denormalized itinerary fields and customer
// contact data. Status is not touched here; it only moves through
// UpdateStatus so the transition table stays authoritative.
func (r *PGBookingRepository) UpdateDetails(ctx context.Context, q Querier, b *domain.Booking) error {
	cmd, err := q.Exec(ctx, `UPDATE bookings SET
			destination=$2, start_date=$3, end_date=$4, travelers=$5, total_price=$6, budget=$7,
			contact_name=$8, contact_email=$9, contact_phone=$10, resolved=$11, updated_at = now()
		WHERE id=$1`,
		b.ID, b.Destination, b.StartDate, b.EndDate, b.Travelers, b.TotalPrice, b.Budget,
		b.ContactName, b.ContactEmail, b.ContactPhone, b.Resolved)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateStatus moves a booking from one status to another in a single
// conditional UPDATE. The from-status guard means two concurrent callers
// cannot both transition the same booking: the loser matches zero rows and
// gets ErrInvalidStatusTransition instead of silently overwriting.
func (r *PGBookingRepository) UpdateStatus(ctx context.Context, q Querier, id string, from, to domain.BookingStatus, resolved bool, reason, resolution string) (*domain.Booking, error) {
	row := q.QueryRow(ctx, `UPDATE bookings SET
			status=$3, resolved=$4, rejection_reason=$5, rejection_resolution=$6, updated_at = now()
		WHERE id=$1 AND status=$2
		RETURNING `+bookingColumns, id, from, to, resolved, reason, resolution)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrInvalidStatusTransition
		}
		return nil, err
	}
	return b, nil
}

func (r *PGBookingRepository) Delete(ctx context.Context, q Querier, id string) error {
	cmd, err := q.Exec(ctx, `DELETE FROM bookings WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	err := row.Scan(&b.ID, &b.Code, &b.OwnerID, &b.ItineraryID, &b.Destination, &b.StartDate, &b.EndDate,
		&b.Travelers, &b.TotalPrice, &b.Budget, &b.Type, &b.Status, &b.TourType, &b.PaymentStatus,
		&b.ContactName, &b.ContactEmail, &b.ContactPhone, &b.RejectionReason, &b.RejectionResolution,
		&b.Resolved, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
