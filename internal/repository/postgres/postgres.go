package postgres

import (
	"database/sql"

	"carshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

// Store bundles all repository implementations over one connection pool.
type Store struct {
	db *sql.DB

	Users         repository.UserRepository
	Vehicles      repository.VehicleRepository
	BlockedDates  repository.BlockedDateRepository
	Reservations  repository.ReservationRepository
	Inspections   repository.InspectionRepository
	Notifications repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:            db,
		Users:         NewUserRepository(db),
		Vehicles:      NewVehicleRepository(db),
		BlockedDates:  NewBlockedDateRepository(db),
		Reservations:  NewReservationRepository(db),
		Inspections:   NewInspectionRepository(db),
		Notifications: NewNotificationRepository(db),
	}
}
