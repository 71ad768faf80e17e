package service

import (
	"context"
	"fmt"
	"time"

	"carshare-backend/internal/document"
	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/storage"

	"github.com/google/uuid"
)

type contractService struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	userRepo        repository.UserRepository
	emailSvc        EmailService
	renderer        document.Renderer
	store           storage.StorageInterface
	urlExpiry       time.Duration
}

func NewContractService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	renderer document.Renderer,
	store storage.StorageInterface,
	urlExpiry time.Duration,
) ContractService {
	return &contractService{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		emailSvc:        emailSvc,
		renderer:        renderer,
		store:           store,
		urlExpiry:       urlExpiry,
	}
}

func (s *contractService) Sign(ctx context.Context, actorID, reservationID int32, signatureKey string) (*domain.Reservation, error) {
	if signatureKey == "" {
		return nil, domain.NewValidationError("signature is required")
	}
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !reservation.IsParty(actorID) {
		return nil, domain.NewForbiddenError("only the owner or the renter can sign the contract")
	}
	switch reservation.Status {
	case domain.ReservationStatusPending:
		return nil, domain.NewPreconditionError("contract signing requires a confirmed reservation")
	case domain.ReservationStatusCancelled:
		return nil, domain.NewPreconditionError("cancelled reservations have no contract to sign")
	}
	// A finalized contract is immutable.
	if reservation.Contract.FullySigned() {
		return nil, domain.NewPreconditionError("contract is already signed by both parties")
	}

	if actorID == reservation.OwnerID {
		reservation.Contract.SignedByOwner = true
	} else {
		reservation.Contract.SignedByRenter = true
	}
	if reservation.Contract.FullySigned() {
		now := time.Now().UTC().Format(time.RFC3339)
		reservation.Contract.FullySignedOn = &now
	}

	// Every signature event regenerates the artifact from current facts.
	// The stale-artifact flag stays set until a render succeeds.
	reservation.Contract.RenderPending = true
	if err := RenderContract(ctx, s.renderer, s.store, s.vehicleRepo, s.userRepo, reservation); err != nil {
		logger.Warn("contract render failed, sweep will retry", "reservation_id", reservationID, "error", err)
	}
	// Contract fields only; the reservation's lifecycle columns stay whatever
	// they are by now.
	if err := s.reservationRepo.UpdateContract(ctx, reservation); err != nil {
		return nil, err
	}

	s.notifyCounterpart(ctx, reservation, actorID)
	return reservation, nil
}

func (s *contractService) GetDownloadURL(ctx context.Context, actorID, reservationID int32) (string, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return "", err
	}
	if !reservation.IsParty(actorID) {
		return "", domain.NewForbiddenError("not a party to this reservation")
	}
	if reservation.Contract.URL == "" {
		return "", domain.NewNotFoundError("no contract artifact for reservation %d", reservationID)
	}
	url, err := s.store.GeneratePresignedDownloadURL(ctx, reservation.Contract.URL, s.urlExpiry)
	if err != nil {
		return "", domain.NewExternalError(err, "presign contract download")
	}
	return url, nil
}

// RenderContract renders the contract PDF from the reservation's current
// signature state, uploads it under a fresh key and clears the stale flag on
// the in-memory reservation. The caller persists the reservation.
func RenderContract(
	ctx context.Context,
	renderer document.Renderer,
	store storage.StorageInterface,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	reservation *domain.Reservation,
) error {
	vehicle, err := vehicleRepo.GetByID(ctx, reservation.VehicleID)
	if err != nil {
		return err
	}
	owner, err := userRepo.GetByID(ctx, reservation.OwnerID)
	if err != nil {
		return err
	}
	renter, err := userRepo.GetByID(ctx, reservation.RenterID)
	if err != nil {
		return err
	}

	pdf, err := renderer.RenderContract(reservation, vehicle, owner, renter)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	key := fmt.Sprintf("reservations/%d/contract-%s.pdf", reservation.ID, uuid.New().String())
	if err := store.Upload(ctx, key, "application/pdf", pdf); err != nil {
		return domain.NewExternalError(err, "upload contract %s", key)
	}
	reservation.Contract.URL = key
	reservation.Contract.RenderPending = false
	return nil
}

func (s *contractService) notifyCounterpart(ctx context.Context, reservation *domain.Reservation, actorID int32) {
	counterpartID := reservation.OwnerID
	if actorID == reservation.OwnerID {
		counterpartID = reservation.RenterID
	}
	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	actor, _ := s.userRepo.GetByID(ctx, actorID)
	counterpart, _ := s.userRepo.GetByID(ctx, counterpartID)
	if vehicle == nil || actor == nil || counterpart == nil {
		return
	}
	if err := s.emailSvc.SendContractSignedNotification(ctx, counterpart.Email, actor.Name, vehicle.Name); err != nil {
		logger.Warn("contract signed email failed", "reservation_id", reservation.ID, "error", err)
	}
}
