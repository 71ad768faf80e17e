package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type inspectionRepository struct {
	db *sql.DB
}

func NewInspectionRepository(db *sql.DB) repository.InspectionRepository {
	return &inspectionRepository{db: db}
}

const inspectionColumns = `id, reservation_id, side, status, odometer_km, fuel_level_pct, notes,
	renter_signature_key, owner_signature_key, created_by, created_on, validated_by, validated_on,
	pdf_url, dispute_reason, dispute_amount_cents, dispute_declared_by, dispute_declared_on`

func (r *inspectionRepository) CreateSubmission(ctx context.Context, record *domain.InspectionRecord, checkStatus domain.CheckStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin inspection transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	err = tx.QueryRowContext(ctx, `
		INSERT INTO inspections (reservation_id, side, status, odometer_km, fuel_level_pct, notes,
			renter_signature_key, owner_signature_key, created_by, created_on, pdf_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7, '', $8, $9, '')
		RETURNING id`,
		record.ReservationID, record.Side, record.Status, record.OdometerKm, record.FuelLevelPct,
		record.Notes, record.RenterSignatureKey, record.CreatedBy, now).Scan(&record.ID)
	if err != nil {
		return err
	}

	for i := range record.Photos {
		p := &record.Photos[i]
		err = tx.QueryRowContext(ctx, `
			INSERT INTO inspection_photos (inspection_id, category, storage_key, uploaded_by, uploaded_on)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`,
			record.ID, p.Category, p.StorageKey, p.UploadedBy, now).Scan(&p.ID)
		if err != nil {
			return err
		}
		p.InspectionID = record.ID
		p.UploadedOn = now
	}

	_, err = tx.ExecContext(ctx, `UPDATE reservations SET check_status = $1, updated_on = $2 WHERE id = $3`,
		checkStatus, now, record.ReservationID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inspection transaction: %w", err)
	}
	record.CreatedOn = now
	return nil
}

func (r *inspectionRepository) GetByReservationAndSide(ctx context.Context, reservationID int32, side domain.InspectionSide) (*domain.InspectionRecord, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE reservation_id = $1 AND side = $2`
	record, err := scanInspection(r.db.QueryRowContext(ctx, query, reservationID, side))
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("no %s inspection for reservation %d", side, reservationID)
	}
	if err != nil {
		return nil, err
	}

	photos, err := r.listPhotos(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	record.Photos = photos
	return record, nil
}

// Validate couples the inspection validation write with the reservation
// status change so the two can never diverge.
func (r *inspectionRepository) Validate(ctx context.Context, record *domain.InspectionRecord, status domain.ReservationStatus, checkStatus domain.CheckStatus) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin validation transaction: %w", err)
	}
	defer tx.Rollback()

	var disputeReason, disputeDeclaredOn, disputeDeclaredBy, disputeAmount any
	if record.Dispute != nil {
		disputeReason = record.Dispute.Reason
		disputeAmount = record.Dispute.ClaimedAmountCents
		disputeDeclaredBy = record.Dispute.DeclaredBy
		disputeDeclaredOn = record.Dispute.DeclaredOn
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE inspections
		SET status = $1, owner_signature_key = $2, validated_by = $3, validated_on = $4,
		    dispute_reason = $5, dispute_amount_cents = $6, dispute_declared_by = $7, dispute_declared_on = $8
		WHERE id = $9`,
		record.Status, record.OwnerSignatureKey, record.ValidatedBy, record.ValidatedOn,
		disputeReason, disputeAmount, disputeDeclaredBy, disputeDeclaredOn, record.ID)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `UPDATE reservations SET status = $1, check_status = $2, updated_on = $3 WHERE id = $4`,
		status, checkStatus, time.Now(), record.ReservationID)
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit validation transaction: %w", err)
	}
	return nil
}

func (r *inspectionRepository) SetPdfURL(ctx context.Context, inspectionID int32, pdfURL string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE inspections SET pdf_url = $1 WHERE id = $2`, pdfURL, inspectionID)
	return err
}

func (r *inspectionRepository) ListValidatedMissingPdf(ctx context.Context) ([]domain.InspectionRecord, error) {
	query := `SELECT ` + inspectionColumns + ` FROM inspections WHERE status = $1 AND pdf_url = '' ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, domain.InspectionStatusValidated)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.InspectionRecord
	for rows.Next() {
		record, err := scanInspection(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

func (r *inspectionRepository) listPhotos(ctx context.Context, inspectionID int32) ([]domain.PhotoEvidence, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, inspection_id, category, storage_key, uploaded_by, uploaded_on
		FROM inspection_photos WHERE inspection_id = $1 ORDER BY id`, inspectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.PhotoEvidence
	for rows.Next() {
		var p domain.PhotoEvidence
		if err := rows.Scan(&p.ID, &p.InspectionID, &p.Category, &p.StorageKey, &p.UploadedBy, &p.UploadedOn); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

func scanInspection(row rowScanner) (*domain.InspectionRecord, error) {
	record := &domain.InspectionRecord{}
	var validatedBy sql.NullInt32
	var validatedOn sql.NullTime
	var disputeReason sql.NullString
	var disputeAmount, disputeDeclaredBy sql.NullInt32
	var disputeDeclaredOn sql.NullTime

	err := row.Scan(
		&record.ID, &record.ReservationID, &record.Side, &record.Status, &record.OdometerKm,
		&record.FuelLevelPct, &record.Notes, &record.RenterSignatureKey, &record.OwnerSignatureKey,
		&record.CreatedBy, &record.CreatedOn, &validatedBy, &validatedOn, &record.PdfURL,
		&disputeReason, &disputeAmount, &disputeDeclaredBy, &disputeDeclaredOn,
	)
	if err != nil {
		return nil, err
	}

	if validatedBy.Valid {
		v := validatedBy.Int32
		record.ValidatedBy = &v
	}
	if validatedOn.Valid {
		t := validatedOn.Time
		record.ValidatedOn = &t
	}
	if disputeReason.Valid && disputeReason.String != "" {
		record.Dispute = &domain.Dispute{
			Reason:             disputeReason.String,
			ClaimedAmountCents: disputeAmount.Int32,
			DeclaredBy:         disputeDeclaredBy.Int32,
			DeclaredOn:         disputeDeclaredOn.Time,
		}
	}
	return record, nil
}
