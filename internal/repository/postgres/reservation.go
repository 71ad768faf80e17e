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

type reservationRepository struct {
	db *sql.DB
}

func NewReservationRepository(db *sql.DB) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, vehicle_id, owner_id, renter_id, start_date, end_date, day_count,
	total_price_cents, status, check_status, contract_url, signed_by_owner, signed_by_renter,
	fully_signed_on, contract_render_pending, cancel_reason, created_on, updated_on`

func activeStatusStrings() []string {
	statuses := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		statuses[i] = string(s)
	}
	return statuses
}

// CreateWithConflictCheck runs the overlap check and the insert as one
// transaction. The vehicle row is locked first so that two concurrent
// requests for the same vehicle are serialized even when the overlap set is
// empty; without the lock both could pass the check and both insert.
func (r *reservationRepository) CreateWithConflictCheck(ctx context.Context, rs *domain.Reservation) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin booking transaction: %w", err)
	}
	defer tx.Rollback()

	var vehicleID int32
	err = tx.QueryRowContext(ctx, `SELECT id FROM vehicles WHERE id = $1 FOR UPDATE`, rs.VehicleID).Scan(&vehicleID)
	if err == sql.ErrNoRows {
		return domain.NewNotFoundError("vehicle %d not found", rs.VehicleID)
	}
	if err != nil {
		return err
	}

	// Inclusive-day overlap: existing.start <= requested.end AND
	// existing.end >= requested.start.
	var conflictID int32
	err = tx.QueryRowContext(ctx, `
		SELECT id FROM reservations
		WHERE vehicle_id = $1 AND status = ANY($2)
		  AND start_date <= $3 AND end_date >= $4
		ORDER BY id LIMIT 1`,
		rs.VehicleID, pq.Array(activeStatusStrings()), rs.EndDate, rs.StartDate).Scan(&conflictID)
	if err == nil {
		return domain.NewConflictError(conflictID, "requested dates overlap reservation %d", conflictID)
	}
	if err != sql.ErrNoRows {
		return err
	}

	var blockedDay string
	err = tx.QueryRowContext(ctx, `
		SELECT day FROM blocked_dates
		WHERE vehicle_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY day LIMIT 1`,
		rs.VehicleID, rs.StartDate, rs.EndDate).Scan(&blockedDay)
	if err == nil {
		return domain.NewConflictError(0, "vehicle is blocked by its owner on %s", blockedDay)
	}
	if err != sql.ErrNoRows {
		return err
	}

	now := time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO reservations (vehicle_id, owner_id, renter_id, start_date, end_date, day_count,
			total_price_cents, status, check_status, contract_url, signed_by_owner, signed_by_renter,
			contract_render_pending, cancel_reason, created_on, updated_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, '', false, false, false, '', $10, $10)
		RETURNING id`,
		rs.VehicleID, rs.OwnerID, rs.RenterID, rs.StartDate, rs.EndDate, rs.DayCount,
		rs.TotalPriceCents, rs.Status, rs.CheckStatus, now).Scan(&rs.ID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit booking transaction: %w", err)
	}
	rs.CreatedOn = now.Format(time.RFC3339)
	rs.UpdatedOn = rs.CreatedOn
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	rs, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("reservation %d not found", id)
	}
	return rs, err
}

func (r *reservationRepository) Update(ctx context.Context, rs *domain.Reservation) error {
	query := `UPDATE reservations
	          SET status=$1, check_status=$2, cancel_reason=$3, updated_on=$4
	          WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query,
		rs.Status, rs.CheckStatus, rs.CancelReason, time.Now(), rs.ID)
	return err
}

// UpdateContract touches only the contract columns. The signature flags are
// merged with OR and fully_signed_on is computed from the merged flags inside
// the statement, so two concurrent signatures both survive; the merged state
// is scanned back so the caller returns what actually committed.
func (r *reservationRepository) UpdateContract(ctx context.Context, rs *domain.Reservation) error {
	now := time.Now()
	query := `UPDATE reservations
	          SET contract_url = $2,
	              signed_by_owner = signed_by_owner OR $3,
	              signed_by_renter = signed_by_renter OR $4,
	              fully_signed_on = CASE
	                  WHEN (signed_by_owner OR $3) AND (signed_by_renter OR $4) THEN COALESCE(fully_signed_on, $5)
	                  ELSE fully_signed_on
	              END,
	              contract_render_pending = $6,
	              updated_on = $5
	          WHERE id = $1
	          RETURNING signed_by_owner, signed_by_renter, fully_signed_on`
	var fullySignedOn sql.NullTime
	err := r.db.QueryRowContext(ctx, query,
		rs.ID, rs.Contract.URL, rs.Contract.SignedByOwner, rs.Contract.SignedByRenter, now, rs.Contract.RenderPending).
		Scan(&rs.Contract.SignedByOwner, &rs.Contract.SignedByRenter, &fullySignedOn)
	if err == sql.ErrNoRows {
		return domain.NewNotFoundError("reservation %d not found", rs.ID)
	}
	if err != nil {
		return err
	}
	if fullySignedOn.Valid {
		s := fullySignedOn.Time.Format(time.RFC3339)
		rs.Contract.FullySignedOn = &s
	}
	rs.UpdatedOn = now.Format(time.RFC3339)
	return nil
}

func (r *reservationRepository) SetContractRendered(ctx context.Context, id int32, url string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE reservations
		SET contract_url = $2, contract_render_pending = false, updated_on = $3
		WHERE id = $1 AND contract_render_pending = true`,
		id, url, time.Now())
	return err
}

func (r *reservationRepository) ListActiveByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + `
	          FROM reservations
	          WHERE vehicle_id = $1 AND status = ANY($2) AND start_date <= $3 AND end_date >= $4
	          ORDER BY start_date`
	return r.queryReservations(ctx, query, vehicleID, pq.Array(activeStatusStrings()), to, from)
}

func (r *reservationRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.listByParty(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *reservationRepository) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return r.listByParty(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *reservationRepository) listByParty(ctx context.Context, column string, userID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE ` + column + ` = $1`
	args := []any{userID}
	argIdx := 2
	if status != "" {
		query += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + query + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	reservations, err := r.queryReservations(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListConfirmedStartingOn(ctx context.Context, day string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 AND start_date = $2`
	return r.queryReservations(ctx, query, domain.ReservationStatusConfirmed, day)
}

func (r *reservationRepository) ListInProgressEndedBefore(ctx context.Context, day string) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE status = $1 AND end_date < $2`
	return r.queryReservations(ctx, query, domain.ReservationStatusInProgress, day)
}

func (r *reservationRepository) ListContractRenderPending(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE contract_render_pending = true ORDER BY id`
	return r.queryReservations(ctx, query)
}

func (r *reservationRepository) queryReservations(ctx context.Context, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		rs, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *rs)
	}
	return reservations, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	rs := &domain.Reservation{}
	var fullySignedOn sql.NullTime
	var createdOn, updatedOn time.Time
	err := row.Scan(
		&rs.ID, &rs.VehicleID, &rs.OwnerID, &rs.RenterID, &rs.StartDate, &rs.EndDate, &rs.DayCount,
		&rs.TotalPriceCents, &rs.Status, &rs.CheckStatus, &rs.Contract.URL, &rs.Contract.SignedByOwner,
		&rs.Contract.SignedByRenter, &fullySignedOn, &rs.Contract.RenderPending, &rs.CancelReason,
		&createdOn, &updatedOn,
	)
	if err != nil {
		return nil, err
	}
	if fullySignedOn.Valid {
		s := fullySignedOn.Time.Format(time.RFC3339)
		rs.Contract.FullySignedOn = &s
	}
	rs.CreatedOn = createdOn.Format(time.RFC3339)
	rs.UpdatedOn = updatedOn.Format(time.RFC3339)
	return rs, nil
}
