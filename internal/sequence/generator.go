package sequence

import (
	"context"
	"fmt"

	"github.com/bluevoyage/travelbooking/internal/repository"
)

const codePrefix = "BV"

// Generator issues year-scoped booking codes of the form BV-{year}-{NNN}.
// Every call runs on the caller's transaction: if booking creation rolls
// back, the increment rolls back with it, so no code is burned on failure.
// Gaps between committed codes can still occur when concurrent transactions
// race and one aborts; duplicates cannot.
type Generator interface {
	NextCode(ctx context.Context, q repository.Querier, year int) (string, error)
}

type PGGenerator struct{}

func NewGenerator() *PGGenerator {
	return &PGGenerator{}
}

func (g *PGGenerator) NextCode(ctx context.Context, q repository.Querier, year int) (string, error) {
	if _, err := q.Exec(ctx, `INSERT INTO booking_sequences (year, current_number, last_issued_code)
		VALUES ($1, 0, '') ON CONFLICT (year) DO NOTHING`, year); err != nil {
		return "", fmt.Errorf("seed booking sequence: %w", err)
	}

	// Self-heal: the counter must never fall behind the highest suffix already
	// committed for the year, or a duplicate code would be issued after a
	// manual data fix or partial failure.
	var observedMax int64
	if err := q.QueryRow(ctx, `SELECT COALESCE(MAX(split_part(code, '-', 3)::bigint), 0)
		FROM bookings WHERE code LIKE $1`, fmt.Sprintf("%s-%d-%%", codePrefix, year)).Scan(&observedMax); err != nil {
		return "", fmt.Errorf("scan issued codes: %w", err)
	}

	// The UPDATE takes a row lock, serializing concurrent issuers for the year.
	var next int64
	if err := q.QueryRow(ctx, `UPDATE booking_sequences
		SET current_number = GREATEST(current_number, $2) + 1, updated_at = now()
		WHERE year=$1
		RETURNING current_number`, year, observedMax).Scan(&next); err != nil {
		return "", fmt.Errorf("advance booking sequence: %w", err)
	}

	code := FormatCode(year, next)
	if _, err := q.Exec(ctx, `UPDATE booking_sequences SET last_issued_code=$2 WHERE year=$1`, year, code); err != nil {
		return "", fmt.Errorf("record issued code: %w", err)
	}
	return code, nil
}

// FormatCode renders BV-{year}-{seq}, zero-padding the sequence to three
// digits and growing past 999 without truncation.
func FormatCode(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%03d", codePrefix, year, seq)
}

var _ Generator = (*PGGenerator)(nil)
