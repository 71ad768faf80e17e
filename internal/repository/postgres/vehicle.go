package postgres

import (
	"context"
	"database/sql"
	"time"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type vehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) repository.VehicleRepository {
	return &vehicleRepository{db: db}
}

func (r *vehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	query := `INSERT INTO vehicles (owner_id, name, registration_number, daily_price_cents, created_on)
	          VALUES ($1, $2, $3, $4, $5) RETURNING id`
	now := time.Now()
	if err := r.db.QueryRowContext(ctx, query, v.OwnerID, v.Name, v.RegistrationNumber, v.DailyPriceCents, now).Scan(&v.ID); err != nil {
		return err
	}
	v.CreatedOn = now.Format(time.RFC3339)
	return nil
}

func (r *vehicleRepository) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	v := &domain.Vehicle{}
	var createdOn time.Time
	query := `SELECT id, owner_id, name, registration_number, daily_price_cents, created_on FROM vehicles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&v.ID, &v.OwnerID, &v.Name, &v.RegistrationNumber, &v.DailyPriceCents, &createdOn)
	if err == sql.ErrNoRows {
		return nil, domain.NewNotFoundError("vehicle %d not found", id)
	}
	if err != nil {
		return nil, err
	}
	v.CreatedOn = createdOn.Format(time.RFC3339)
	return v, nil
}

func (r *vehicleRepository) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	query := `SELECT id, owner_id, name, registration_number, daily_price_cents, created_on
	          FROM vehicles WHERE owner_id = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		var v domain.Vehicle
		var createdOn time.Time
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Name, &v.RegistrationNumber, &v.DailyPriceCents, &createdOn); err != nil {
			return nil, err
		}
		v.CreatedOn = createdOn.Format(time.RFC3339)
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}
