package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"

	"github.com/lib/pq"
)

type blockedDateRepository struct {
	db *sql.DB
}

func NewBlockedDateRepository(db *sql.DB) repository.BlockedDateRepository {
	return &blockedDateRepository{db: db}
}

// CreateIfFree checks every requested day against active reservations and
// inserts the rows in the same transaction, locking the vehicle row first.
// This mirrors the booking path: the two writers racing for the same
// calendar days are serialized on the vehicle.
func (r *blockedDateRepository) CreateIfFree(ctx context.Context, blocks []domain.BlockedDate) error {
	if len(blocks) == 0 {
		return nil
	}
	vehicleID := blocks[0].VehicleID

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin blocked-date transaction: %w", err)
	}
	defer tx.Rollback()

	var id int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, vehicleID).Scan(&id)
	if err == sql.ErrNoRows {
		return domain.NewNotFoundError("vehicle %d not found", vehicleID)
	}
	if err != nil {
		return err
	}

	days := make([]string, len(blocks))
	for i, b := range blocks {
		days[i] = b.Day
	}

	var conflictID int32
	err = tx.QueryRowContext(ctx, `
		SELECT r.id FROM reservations r
		JOIN unnest($2::text[]) AS d(day) ON d.day BETWEEN r.start_date AND r.end_date
		WHERE r.vehicle_id = $1 AND r.status = ANY($3)
		ORDER BY r.id LIMIT 1`,
		vehicleID, pq.Array(days), pq.Array(activeStatusStrings())).Scan(&conflictID)
	if err == nil {
		return domain.NewConflictError(conflictID, "day covered by active reservation %d", conflictID)
	}
	if err != sql.ErrNoRows {
		return err
	}

	now := time.Now()
	for i := range blocks {
		b := &blocks[i]
		err = tx.QueryRowContext(ctx, `
			INSERT INTO blocked_dates (vehicle_id, day, reason, notes, created_by, created_on)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (vehicle_id, day) DO UPDATE SET reason = EXCLUDED.reason, notes = EXCLUDED.notes
			RETURNING id`,
			b.VehicleID, b.Day, b.Reason, b.Notes, b.CreatedBy, now).Scan(&b.ID)
		if err != nil {
			return err
		}
		b.CreatedOn = now.Format(time.RFC3339)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit blocked-date transaction: %w", err)
	}
	return nil
}

func (r *blockedDateRepository) Delete(ctx context.Context, vehicleID int32, day string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocked_dates WHERE vehicle_id = $1 AND day = $2`, vehicleID, day)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.NewNotFoundError("no blocked date %s for vehicle %d", day, vehicleID)
	}
	return nil
}

func (r *blockedDateRepository) ListByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.BlockedDate, error) {
	query := `SELECT id, vehicle_id, day, reason, notes, created_by, created_on
	          FROM blocked_dates WHERE vehicle_id = $1 AND day BETWEEN $2 AND $3 ORDER BY day`
	rows, err := r.db.QueryContext(ctx, query, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []domain.BlockedDate
	for rows.Next() {
		var b domain.BlockedDate
		var createdOn time.Time
		if err := rows.Scan(&b.ID, &b.VehicleID, &b.Day, &b.Reason, &b.Notes, &b.CreatedBy, &createdOn); err != nil {
			return nil, err
		}
		b.CreatedOn = createdOn.Format(time.RFC3339)
		blocks = append(blocks, b)
	}
	return blocks, rows.Err()
}
