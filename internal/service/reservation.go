package service

import (
	"context"
	"fmt"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
)

type reservationService struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	userRepo        repository.UserRepository
	emailSvc        EmailService
	noteRepo        repository.NotificationRepository
}

func NewReservationService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) ReservationService {
	return &reservationService{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		emailSvc:        emailSvc,
		noteRepo:        noteRepo,
	}
}

func (s *reservationService) Confirm(ctx context.Context, ownerID, reservationID int32) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.OwnerID != ownerID {
		return nil, domain.NewForbiddenError("only the vehicle owner can confirm a reservation")
	}
	if err := reservation.Transition(domain.ReservationStatusConfirmed); err != nil {
		return nil, err
	}
	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	owner, _ := s.userRepo.GetByID(ctx, ownerID)
	renter, _ := s.userRepo.GetByID(ctx, reservation.RenterID)
	if vehicle != nil && owner != nil && renter != nil {
		if err := s.emailSvc.SendBookingConfirmationNotification(ctx, renter.Email, vehicle.Name, owner.Name); err != nil {
			logger.Warn("confirmation email failed", "reservation_id", reservationID, "error", err)
		}
		s.notify(ctx, renter.ID, "Booking Confirmed",
			fmt.Sprintf("%s confirmed your booking of %s", owner.Name, vehicle.Name),
			"BOOKING_CONFIRMED", reservationID)
	}
	return reservation, nil
}

func (s *reservationService) Cancel(ctx context.Context, actorID, reservationID int32, reason string) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !reservation.IsParty(actorID) {
		return nil, domain.NewForbiddenError("only the owner or the renter can cancel a reservation")
	}
	// Re-cancelling fails deterministically and sends nothing twice.
	if err := reservation.Transition(domain.ReservationStatusCancelled); err != nil {
		return nil, err
	}
	reservation.CancelReason = reason
	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return nil, err
	}

	// Tell the other party.
	counterpartID := reservation.OwnerID
	if actorID == reservation.OwnerID {
		counterpartID = reservation.RenterID
	}
	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	actor, _ := s.userRepo.GetByID(ctx, actorID)
	counterpart, _ := s.userRepo.GetByID(ctx, counterpartID)
	if vehicle != nil && actor != nil && counterpart != nil {
		if err := s.emailSvc.SendBookingCancellationNotification(ctx, counterpart.Email, actor.Name, vehicle.Name, reason); err != nil {
			logger.Warn("cancellation email failed", "reservation_id", reservationID, "error", err)
		}
		s.notify(ctx, counterpart.ID, "Booking Cancelled",
			fmt.Sprintf("%s cancelled the booking of %s", actor.Name, vehicle.Name),
			"BOOKING_CANCELLED", reservationID)
	}
	return reservation, nil
}

func (s *reservationService) Get(ctx context.Context, actorID, reservationID int32) (*domain.Reservation, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !reservation.IsParty(actorID) {
		return nil, domain.NewForbiddenError("not a party to this reservation")
	}
	return reservation, nil
}

func (s *reservationService) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *reservationService) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	return s.reservationRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

func (s *reservationService) notify(ctx context.Context, userID int32, title, message, noteType string, reservationID int32) {
	note := &domain.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
		Attributes: map[string]string{
			"type":           noteType,
			"reservation_id": fmt.Sprintf("%d", reservationID),
		},
	}
	if err := s.noteRepo.Create(ctx, note); err != nil {
		logger.Warn("notification create failed", "user_id", userID, "error", err)
	}
}
