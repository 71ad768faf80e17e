package service

import (
	"context"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/utils"
)

type availabilityService struct {
	vehicleRepo     repository.VehicleRepository
	reservationRepo repository.ReservationRepository
	blockedRepo     repository.BlockedDateRepository
}

func NewAvailabilityService(
	vehicleRepo repository.VehicleRepository,
	reservationRepo repository.ReservationRepository,
	blockedRepo repository.BlockedDateRepository,
) AvailabilityService {
	return &availabilityService{
		vehicleRepo:     vehicleRepo,
		reservationRepo: reservationRepo,
		blockedRepo:     blockedRepo,
	}
}

// GetAvailability classifies each day in [from, to]. Precedence for a day
// carrying several facts: past > reserved > blocked > free.
func (s *availabilityService) GetAvailability(ctx context.Context, vehicleID int32, from, to string) ([]domain.DayAvailability, error) {
	start, err := utils.ParseDay(from)
	if err != nil {
		return nil, domain.NewValidationError("invalid from date: %s", from)
	}
	end, err := utils.ParseDay(to)
	if err != nil {
		return nil, domain.NewValidationError("invalid to date: %s", to)
	}
	if end.Before(start) {
		return nil, domain.NewValidationError("to date precedes from date")
	}
	if _, err := s.vehicleRepo.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	reservations, err := s.reservationRepo.ListActiveByVehicleRange(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}
	blocks, err := s.blockedRepo.ListByVehicleRange(ctx, vehicleID, from, to)
	if err != nil {
		return nil, err
	}

	blocked := make(map[string]bool, len(blocks))
	for _, b := range blocks {
		blocked[b.Day] = true
	}

	today := utils.FormatDay(utils.Today())
	days := utils.DaysIn(start, end)
	out := make([]domain.DayAvailability, 0, len(days))
	for _, day := range days {
		status := domain.DayStatusFree
		switch {
		case day < today:
			status = domain.DayStatusPast
		case reservedOn(reservations, day):
			status = domain.DayStatusReserved
		case blocked[day]:
			status = domain.DayStatusBlocked
		}
		out = append(out, domain.DayAvailability{Day: day, Status: status})
	}
	return out, nil
}

func reservedOn(reservations []domain.Reservation, day string) bool {
	for _, r := range reservations {
		if r.StartDate <= day && day <= r.EndDate {
			return true
		}
	}
	return false
}

func (s *availabilityService) BlockDates(ctx context.Context, actorID, vehicleID int32, days []string, reason, notes string) ([]domain.BlockedDate, error) {
	if len(days) == 0 {
		return nil, domain.NewValidationError("at least one day is required")
	}
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if vehicle.OwnerID != actorID {
		return nil, domain.NewForbiddenError("only the vehicle owner can block dates")
	}

	blocks := make([]domain.BlockedDate, 0, len(days))
	for _, day := range days {
		if _, err := utils.ParseDay(day); err != nil {
			return nil, domain.NewValidationError("invalid day: %s", day)
		}
		blocks = append(blocks, domain.BlockedDate{
			VehicleID: vehicleID,
			Day:       day,
			Reason:    reason,
			Notes:     notes,
			CreatedBy: actorID,
		})
	}
	if err := s.blockedRepo.CreateIfFree(ctx, blocks); err != nil {
		return nil, err
	}
	return blocks, nil
}

func (s *availabilityService) UnblockDate(ctx context.Context, actorID, vehicleID int32, day string) error {
	vehicle, err := s.vehicleRepo.GetByID(ctx, vehicleID)
	if err != nil {
		return err
	}
	if vehicle.OwnerID != actorID {
		return domain.NewForbiddenError("only the vehicle owner can unblock dates")
	}
	return s.blockedRepo.Delete(ctx, vehicleID, day)
}
