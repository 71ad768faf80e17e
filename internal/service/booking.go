package service

import (
	"context"
	"fmt"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/utils"
)

type bookingService struct {
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	userRepo        repository.UserRepository
	emailSvc        EmailService
	noteRepo        repository.NotificationRepository
}

func NewBookingService(
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
) BookingService {
	return &bookingService{
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		emailSvc:        emailSvc,
		noteRepo:        noteRepo,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, renterID int32, in *BookingInput) (*domain.Reservation, error) {
	start, err := utils.ParseDay(in.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid start date: %s", in.StartDate)
	}
	end, err := utils.ParseDay(in.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid end date: %s", in.EndDate)
	}
	dayCount, err := utils.DayCount(start, end)
	if err != nil {
		return nil, domain.NewValidationError("end date %s precedes start date %s", in.EndDate, in.StartDate)
	}
	if start.Before(utils.Today()) {
		return nil, domain.NewValidationError("start date %s is in the past", in.StartDate)
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, in.VehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID == renterID {
		return nil, domain.NewValidationError("owners cannot book their own vehicle")
	}

	// Price is derived server-side; a caller-supplied value must agree.
	totalPrice := dayCount * vehicle.DailyPriceCents
	if in.TotalPriceCents != 0 && in.TotalPriceCents != totalPrice {
		return nil, domain.NewValidationError("total price %d does not match %d days at %d cents/day",
			in.TotalPriceCents, dayCount, vehicle.DailyPriceCents)
	}

	reservation := &domain.Reservation{
		VehicleID:       in.VehicleID,
		OwnerID:         vehicle.OwnerID,
		RenterID:        renterID,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		DayCount:        dayCount,
		TotalPriceCents: totalPrice,
		Status:          domain.ReservationStatusPending,
		CheckStatus:     domain.CheckStatusNone,
	}
	if err := s.reservationRepo.CreateWithConflictCheck(ctx, reservation); err != nil {
		return nil, err
	}

	// Best-effort notifications after the commit.
	owner, _ := s.userRepo.GetByID(ctx, vehicle.OwnerID)
	renter, _ := s.userRepo.GetByID(ctx, renterID)
	if owner != nil && renter != nil {
		if err := s.emailSvc.SendBookingRequestNotification(ctx, owner.Email, renter.Name, vehicle.Name, in.StartDate, in.EndDate); err != nil {
			logger.Warn("booking request email failed", "reservation_id", reservation.ID, "error", err)
		}
		note := &domain.Notification{
			UserID:  owner.ID,
			Title:   "New Booking Request",
			Message: fmt.Sprintf("%s requested %s from %s to %s", renter.Name, vehicle.Name, in.StartDate, in.EndDate),
			Attributes: map[string]string{
				"type":           "BOOKING_REQUEST",
				"reservation_id": fmt.Sprintf("%d", reservation.ID),
			},
		}
		if err := s.noteRepo.Create(ctx, note); err != nil {
			logger.Warn("booking request notification failed", "reservation_id", reservation.ID, "error", err)
		}
	}

	return reservation, nil
}
