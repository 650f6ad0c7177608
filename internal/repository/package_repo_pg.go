package repository

import (
	"context"
	"errors"

	"github.com/bluevoyage/travelbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TourPackageRepository interface {
	List(ctx context.Context) ([]domain.TourPackage, error)
	GetByID(ctx context.Context, id string) (*domain.TourPackage, error)
}

type PGTourPackageRepository struct {
	db *pgxpool.Pool
}

func NewTourPackageRepository(db *pgxpool.Pool) *PGTourPackageRepository {
	return &PGTourPackageRepository{db: db}
}

func (r *PGTourPackageRepository) List(ctx context.Context) ([]domain.TourPackage, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, destination, days, price, tour_type, active, created_at, updated_at
		FROM tour_packages WHERE active ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]domain.TourPackage, 0)
	for rows.Next() {
		var p domain.TourPackage
		if err := rows.Scan(&p.ID, &p.Name, &p.Destination, &p.Days, &p.Price, &p.TourType, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		packages = append(packages, p)
	}
	return packages, rows.Err()
}

// GetByID loads the package together with its template days and activities,
// ready to be cloned into a new itinerary.
func (r *PGTourPackageRepository) GetByID(ctx context.Context, id string) (*domain.TourPackage, error) {
	row := r.db.QueryRow(ctx, `SELECT id, name, destination, days, price, tour_type, active, created_at, updated_at
		FROM tour_packages WHERE id=$1`, id)
	var p domain.TourPackage
	if err := row.Scan(&p.ID, &p.Name, &p.Destination, &p.Days, &p.Price, &p.TourType, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	dayRows, err := r.db.Query(ctx, `SELECT id, day_number, title FROM tour_package_days WHERE package_id=$1 ORDER BY day_number`, id)
	if err != nil {
		return nil, err
	}
	defer dayRows.Close()

	dayIndex := map[string]int{}
	for dayRows.Next() {
		var d domain.ItineraryDay
		if err := dayRows.Scan(&d.ID, &d.DayNumber, &d.Title); err != nil {
			return nil, err
		}
		dayIndex[d.ID] = len(p.TemplateDays)
		p.TemplateDays = append(p.TemplateDays, d)
	}
	if err := dayRows.Err(); err != nil {
		return nil, err
	}

	actRows, err := r.db.Query(ctx, `SELECT a.id, a.day_id, a.time, a.title, a.description, a.location, a.icon, a.position
		FROM tour_package_activities a JOIN tour_package_days d ON a.day_id = d.id
		WHERE d.package_id=$1 ORDER BY d.day_number, a.position`, id)
	if err != nil {
		return nil, err
	}
	defer actRows.Close()

	for actRows.Next() {
		var a domain.Activity
		if err := actRows.Scan(&a.ID, &a.DayID, &a.Time, &a.Title, &a.Description, &a.Location, &a.Icon, &a.Position); err != nil {
			return nil, err
		}
		if idx, ok := dayIndex[a.DayID]; ok {
			p.TemplateDays[idx].Activities = append(p.TemplateDays[idx].Activities, a)
		}
	}
	if err := actRows.Err(); err != nil {
		return nil, err
	}
	return &p, nil
}

var _ TourPackageRepository = (*PGTourPackageRepository)(nil)
