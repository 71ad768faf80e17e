package service

import (
	"context"
	"testing"

	"carshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAvailabilityFixture() (*MockVehicleRepo, *MockReservationRepo, *MockBlockedDateRepo, AvailabilityService) {
	vehRepo := new(MockVehicleRepo)
	resRepo := new(MockReservationRepo)
	blockRepo := new(MockBlockedDateRepo)
	svc := NewAvailabilityService(vehRepo, resRepo, blockRepo)
	return vehRepo, resRepo, blockRepo, svc
}

func TestGetAvailability_Classification(t *testing.T) {
	vehRepo, resRepo, blockRepo, svc := newAvailabilityFixture()
	ctx := context.Background()

	from, to := day(-1), day(4)
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)
	resRepo.On("ListActiveByVehicleRange", ctx, int32(7), from, to).Return([]domain.Reservation{
		{ID: 42, VehicleID: 7, StartDate: day(1), EndDate: day(2), Status: domain.ReservationStatusConfirmed},
	}, nil)
	blockRepo.On("ListByVehicleRange", ctx, int32(7), from, to).Return([]domain.BlockedDate{
		{VehicleID: 7, Day: day(3)},
	}, nil)

	days, err := svc.GetAvailability(ctx, 7, from, to)
	require.NoError(t, err)
	require.Len(t, days, 6)
	assert.Equal(t, domain.DayStatusPast, days[0].Status)
	assert.Equal(t, domain.DayStatusFree, days[1].Status) // today
	assert.Equal(t, domain.DayStatusReserved, days[2].Status)
	assert.Equal(t, domain.DayStatusReserved, days[3].Status)
	assert.Equal(t, domain.DayStatusBlocked, days[4].Status)
	assert.Equal(t, domain.DayStatusFree, days[5].Status)
}

func TestGetAvailability_BadRange(t *testing.T) {
	_, _, _, svc := newAvailabilityFixture()
	ctx := context.Background()

	_, err := svc.GetAvailability(ctx, 7, "garbage", day(4))
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))

	_, err = svc.GetAvailability(ctx, 7, day(4), day(1))
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
}

func TestBlockDates_OwnerOnly(t *testing.T) {
	vehRepo, _, blockRepo, svc := newAvailabilityFixture()
	ctx := context.Background()
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)

	_, err := svc.BlockDates(ctx, 2, 7, []string{day(5)}, "maintenance", "")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	blockRepo.AssertNotCalled(t, "CreateIfFree", mock.Anything, mock.Anything)
}

func TestBlockDates_ConflictPropagated(t *testing.T) {
	vehRepo, _, blockRepo, svc := newAvailabilityFixture()
	ctx := context.Background()
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)
	blockRepo.On("CreateIfFree", ctx, mock.AnythingOfType("[]domain.BlockedDate")).
		Return(domain.NewConflictError(42, "day %s is covered by an active reservation", day(5)))

	_, err := svc.BlockDates(ctx, 1, 7, []string{day(5)}, "maintenance", "")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeConflict))
}

func TestBlockDates_Success(t *testing.T) {
	vehRepo, _, blockRepo, svc := newAvailabilityFixture()
	ctx := context.Background()
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)
	blockRepo.On("CreateIfFree", ctx, mock.AnythingOfType("[]domain.BlockedDate")).Return(nil)

	blocks, err := svc.BlockDates(ctx, 1, 7, []string{day(5), day(6)}, "maintenance", "brake pads")
	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Equal(t, day(5), blocks[0].Day)
	assert.Equal(t, int32(1), blocks[0].CreatedBy)
}
