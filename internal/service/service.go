package service

import (
	"context"

	"carshare-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*domain.User, string, error) // user, access token
	Login(ctx context.Context, email, password string) (*domain.User, string, error)
}

type VehicleService interface {
	AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error
	GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error)
	ListMyVehicles(ctx context.Context, ownerID int32) ([]domain.Vehicle, error)
}

type AvailabilityService interface {
	// GetAvailability classifies every day in [from, to] as past, reserved,
	// blocked or free, derived from active reservations and blocked days.
	GetAvailability(ctx context.Context, vehicleID int32, from, to string) ([]domain.DayAvailability, error)
	BlockDates(ctx context.Context, actorID, vehicleID int32, days []string, reason, notes string) ([]domain.BlockedDate, error)
	UnblockDate(ctx context.Context, actorID, vehicleID int32, day string) error
}

// BookingInput is the booking request payload. TotalPriceCents of zero means
// "compute it for me"; a non-zero value must match the computed price.
type BookingInput struct {
	VehicleID       int32
	StartDate       string
	EndDate         string
	TotalPriceCents int32
}

type BookingService interface {
	// CreateBooking validates the request and inserts the reservation behind
	// the transactional conflict check. Concurrent overlapping requests for
	// the same vehicle resolve to exactly one winner.
	CreateBooking(ctx context.Context, renterID int32, in *BookingInput) (*domain.Reservation, error)
}

type ReservationService interface {
	Confirm(ctx context.Context, ownerID, reservationID int32) (*domain.Reservation, error)
	Cancel(ctx context.Context, actorID, reservationID int32, reason string) (*domain.Reservation, error)
	Get(ctx context.Context, actorID, reservationID int32) (*domain.Reservation, error)
	ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error)
}

// PhotoInput references an already-uploaded evidence object.
type PhotoInput struct {
	Category   domain.PhotoCategory `json:"category"`
	StorageKey string               `json:"storage_key"`
}

// InspectionInput is a complete one-sided inspection submission. Partial
// submissions are rejected before anything is stored.
type InspectionInput struct {
	Photos       []PhotoInput `json:"photos"`
	OdometerKm   int32        `json:"odometer_km"`
	FuelLevelPct int32        `json:"fuel_level_pct"`
	Notes        string       `json:"notes"`
	SignatureKey string       `json:"signature_key"`
}

// DisputeInput is the owner's optional damage claim at check-out validation.
type DisputeInput struct {
	Reason             string `json:"reason"`
	ClaimedAmountCents int32  `json:"claimed_amount_cents"`
}

type InspectionService interface {
	SubmitCheckIn(ctx context.Context, renterID, reservationID int32, in *InspectionInput) (*domain.InspectionRecord, error)
	ValidateCheckIn(ctx context.Context, ownerID, reservationID int32, ownerSignatureKey string) (*domain.InspectionRecord, error)
	SubmitCheckOut(ctx context.Context, renterID, reservationID int32, in *InspectionInput) (*domain.InspectionRecord, error)
	ValidateCheckOut(ctx context.Context, ownerID, reservationID int32, ownerSignatureKey string, dispute *DisputeInput) (*domain.InspectionRecord, error)
	GetInspection(ctx context.Context, actorID, reservationID int32, side domain.InspectionSide) (*domain.InspectionRecord, error)
}

type ContractService interface {
	// Sign records the acting party's signature and re-renders the contract
	// artifact. Once both parties have signed the contract is immutable and
	// further Sign calls fail.
	Sign(ctx context.Context, actorID, reservationID int32, signatureKey string) (*domain.Reservation, error)
	GetDownloadURL(ctx context.Context, actorID, reservationID int32) (string, error)
}

type UploadService interface {
	// GetUploadURL presigns an upload slot for evidence photos and signature
	// images. Returns the storage key the client must echo back on submit.
	GetUploadURL(ctx context.Context, actorID int32, filename, contentType string) (key, uploadURL string, err error)
	GetDownloadURL(ctx context.Context, actorID int32, key string) (string, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName, startDate, endDate string) error
	SendBookingConfirmationNotification(ctx context.Context, renterEmail, vehicleName, ownerName string) error
	SendBookingCancellationNotification(ctx context.Context, email, cancellerName, vehicleName, reason string) error
	SendContractSignedNotification(ctx context.Context, email, signerName, vehicleName string) error
	SendInspectionSubmittedNotification(ctx context.Context, ownerEmail, renterName, vehicleName, stage string) error
	SendInspectionValidatedNotification(ctx context.Context, renterEmail, vehicleName, stage string) error
	SendDisputeNotification(ctx context.Context, renterEmail, vehicleName, reason string, claimedAmountCents int32) error
	SendPickupReminder(ctx context.Context, renterEmail, vehicleName, startDate string) error
	SendReturnReminder(ctx context.Context, renterEmail, vehicleName, endDate string) error
}
