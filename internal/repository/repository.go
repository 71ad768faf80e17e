package repository

import (
	"context"

	"carshare-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type VehicleRepository interface {
	Create(ctx context.Context, vehicle *domain.Vehicle) error
	GetByID(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error)
}

type BlockedDateRepository interface {
	// CreateIfFree inserts one blocked-day row per day, rejecting the whole
	// batch with a conflict error if any day is covered by an active
	// reservation. Check and insert run in a single transaction.
	CreateIfFree(ctx context.Context, blocks []domain.BlockedDate) error
	Delete(ctx context.Context, vehicleID int32, day string) error
	ListByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.BlockedDate, error)
}

type ReservationRepository interface {
	// CreateWithConflictCheck inserts the reservation only if no active
	// reservation and no blocked day overlaps its date range. The overlap
	// check and the insert form a single transaction serialized on the
	// vehicle row, so at most one of two concurrent conflicting requests
	// commits.
	CreateWithConflictCheck(ctx context.Context, r *domain.Reservation) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	// Update persists the lifecycle fields (status, check status, cancel
	// reason). Contract fields have their own narrower writes below so that
	// background work can never rewrite a lifecycle transition from a stale
	// snapshot.
	Update(ctx context.Context, r *domain.Reservation) error
	// UpdateContract persists only the contract fields. Signature flags merge
	// monotonically in SQL, so two parties signing concurrently cannot erase
	// each other's flag; the merged state is scanned back into r.
	UpdateContract(ctx context.Context, r *domain.Reservation) error
	// SetContractRendered records a rendered artifact and clears the stale
	// flag, but only while the render is still pending. A sweep write that
	// raced a newer signature event is dropped.
	SetContractRendered(ctx context.Context, id int32, url string) error
	ListActiveByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.Reservation, error)
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)

	// Job queries.
	ListConfirmedStartingOn(ctx context.Context, day string) ([]domain.Reservation, error)
	ListInProgressEndedBefore(ctx context.Context, day string) ([]domain.Reservation, error)
	ListContractRenderPending(ctx context.Context) ([]domain.Reservation, error)
}

type InspectionRepository interface {
	// CreateSubmission inserts the inspection record with its photo evidence
	// and advances the parent reservation's check status, all in one
	// transaction. Nothing is stored when any part fails.
	CreateSubmission(ctx context.Context, record *domain.InspectionRecord, checkStatus domain.CheckStatus) error
	GetByReservationAndSide(ctx context.Context, reservationID int32, side domain.InspectionSide) (*domain.InspectionRecord, error)
	// Validate writes the owner signature, validation fields and optional
	// dispute on the inspection, and advances the parent reservation's
	// status and check status, all in one transaction.
	Validate(ctx context.Context, record *domain.InspectionRecord, status domain.ReservationStatus, checkStatus domain.CheckStatus) error
	SetPdfURL(ctx context.Context, inspectionID int32, pdfURL string) error
	ListValidatedMissingPdf(ctx context.Context) ([]domain.InspectionRecord, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error
}
