package service

import (
	"context"
	"testing"

	"carshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingReservation() *domain.Reservation {
	return &domain.Reservation{
		ID: 42, VehicleID: 7, OwnerID: 1, RenterID: 2,
		StartDate: day(10), EndDate: day(14), DayCount: 5, TotalPriceCents: 25000,
		Status: domain.ReservationStatusPending, CheckStatus: domain.CheckStatusNone,
	}
}

func newReservationFixture() (*MockReservationRepo, *MockVehicleRepo, *MockUserRepo, *MockEmailService, *MockNotificationRepo, ReservationService) {
	resRepo := new(MockReservationRepo)
	vehRepo := new(MockVehicleRepo)
	userRepo := new(MockUserRepo)
	emailSvc := new(MockEmailService)
	noteRepo := new(MockNotificationRepo)
	svc := NewReservationService(resRepo, vehRepo, userRepo, emailSvc, noteRepo)
	return resRepo, vehRepo, userRepo, emailSvc, noteRepo, svc
}

func TestConfirm_OwnerOnly(t *testing.T) {
	resRepo, _, _, _, _, svc := newReservationFixture()
	ctx := context.Background()
	resRepo.On("GetByID", ctx, int32(42)).Return(pendingReservation(), nil)

	_, err := svc.Confirm(ctx, 2, 42) // renter, not owner
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
}

func TestConfirm_Success(t *testing.T) {
	resRepo, vehRepo, userRepo, emailSvc, noteRepo, svc := newReservationFixture()
	ctx := context.Background()

	resRepo.On("GetByID", ctx, int32(42)).Return(pendingReservation(), nil)
	resRepo.On("Update", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)
	userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Olive", Email: "olive@example.com"}, nil)
	userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Name: "Rafa", Email: "rafa@example.com"}, nil)
	emailSvc.On("SendBookingConfirmationNotification", ctx, "rafa@example.com", "Blue Kangoo", "Olive").Return(nil)
	noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	res, err := svc.Confirm(ctx, 1, 42)
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	emailSvc.AssertExpectations(t)
}

func TestConfirm_AlreadyConfirmed(t *testing.T) {
	resRepo, _, _, _, _, svc := newReservationFixture()
	ctx := context.Background()
	confirmed := pendingReservation()
	confirmed.Status = domain.ReservationStatusConfirmed
	resRepo.On("GetByID", ctx, int32(42)).Return(confirmed, nil)

	_, err := svc.Confirm(ctx, 1, 42)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
}

func TestCancel_IdempotenceWithoutSecondNotification(t *testing.T) {
	resRepo, vehRepo, userRepo, emailSvc, noteRepo, svc := newReservationFixture()
	ctx := context.Background()

	reservation := pendingReservation()
	resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	resRepo.On("Update", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)
	vehRepo.On("GetByID", ctx, int32(7)).Return(testVehicle(), nil)
	userRepo.On("GetByID", ctx, int32(1)).Return(&domain.User{ID: 1, Name: "Olive", Email: "olive@example.com"}, nil)
	userRepo.On("GetByID", ctx, int32(2)).Return(&domain.User{ID: 2, Name: "Rafa", Email: "rafa@example.com"}, nil)
	emailSvc.On("SendBookingCancellationNotification", ctx, "olive@example.com", "Rafa", "Blue Kangoo", "plans changed").Return(nil)
	noteRepo.On("Create", ctx, mock.AnythingOfType("*domain.Notification")).Return(nil)

	res, err := svc.Cancel(ctx, 2, 42, "plans changed")
	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusCancelled, res.Status)
	assert.Equal(t, "plans changed", res.CancelReason)

	// The second cancel fails deterministically and sends nothing.
	_, err = svc.Cancel(ctx, 2, 42, "plans changed")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	emailSvc.AssertNumberOfCalls(t, "SendBookingCancellationNotification", 1)
	noteRepo.AssertNumberOfCalls(t, "Create", 1)
}

func TestCancel_InProgressRejected(t *testing.T) {
	resRepo, _, _, _, _, svc := newReservationFixture()
	ctx := context.Background()
	inProgress := pendingReservation()
	inProgress.Status = domain.ReservationStatusInProgress
	resRepo.On("GetByID", ctx, int32(42)).Return(inProgress, nil)

	_, err := svc.Cancel(ctx, 2, 42, "")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
}

func TestGet_ThirdPartyForbidden(t *testing.T) {
	resRepo, _, _, _, _, svc := newReservationFixture()
	ctx := context.Background()
	resRepo.On("GetByID", ctx, int32(42)).Return(pendingReservation(), nil)

	_, err := svc.Get(ctx, 99, 42)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
}
