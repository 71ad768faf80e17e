package service

import (
	"context"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/repository"
)

type vehicleService struct {
	vehicleRepo repository.VehicleRepository
	userRepo    repository.UserRepository
}

func NewVehicleService(vehicleRepo repository.VehicleRepository, userRepo repository.UserRepository) VehicleService {
	return &vehicleService{vehicleRepo: vehicleRepo, userRepo: userRepo}
}

func (s *vehicleService) AddVehicle(ctx context.Context, vehicle *domain.Vehicle) error {
	if vehicle.Name == "" {
		return domain.NewValidationError("vehicle name is required")
	}
	if vehicle.DailyPriceCents < 0 {
		return domain.NewValidationError("daily price must not be negative")
	}
	return s.vehicleRepo.Create(ctx, vehicle)
}

func (s *vehicleService) GetVehicle(ctx context.Context, id int32) (*domain.Vehicle, error) {
	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner, err := s.userRepo.GetByID(ctx, vehicle.OwnerID); err == nil {
		vehicle.Owner = owner
	}
	return vehicle, nil
}

func (s *vehicleService) ListMyVehicles(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	return s.vehicleRepo.ListByOwner(ctx, ownerID)
}
