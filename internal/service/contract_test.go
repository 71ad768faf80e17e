package service

import (
	"context"
	"testing"
	"time"

	"carshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type contractFixture struct {
	resRepo  *MockReservationRepo
	vehRepo  *MockVehicleRepo
	userRepo *MockUserRepo
	emailSvc *MockEmailService
	renderer *MockRenderer
	store    *MockStorage
	svc      ContractService
}

func newContractFixture() *contractFixture {
	f := &contractFixture{
		resRepo:  new(MockReservationRepo),
		vehRepo:  new(MockVehicleRepo),
		userRepo: new(MockUserRepo),
		emailSvc: new(MockEmailService),
		renderer: new(MockRenderer),
		store:    new(MockStorage),
	}
	f.svc = NewContractService(f.resRepo, f.vehRepo, f.userRepo, f.emailSvc, f.renderer, f.store, 15*time.Minute)

	f.vehRepo.On("GetByID", mock.Anything, int32(7)).Return(testVehicle(), nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, int32(1)).Return(&domain.User{ID: 1, Name: "Olive", Email: "olive@example.com"}, nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, int32(2)).Return(&domain.User{ID: 2, Name: "Rafa", Email: "rafa@example.com"}, nil).Maybe()
	f.emailSvc.On("SendContractSignedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func TestSign_OwnerThenRenterFinalizes(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.resRepo.On("UpdateContract", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)
	f.renderer.On("RenderContract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]byte("%PDF"), nil)
	f.store.On("Upload", mock.Anything, mock.Anything, "application/pdf", mock.Anything).Return(nil)

	res, err := f.svc.Sign(ctx, 1, 42, "evidence/1/contract-sig.png")
	require.NoError(t, err)
	assert.True(t, res.Contract.SignedByOwner)
	assert.False(t, res.Contract.SignedByRenter)
	assert.Nil(t, res.Contract.FullySignedOn)
	assert.False(t, res.Contract.RenderPending)
	firstURL := res.Contract.URL
	assert.NotEmpty(t, firstURL)

	res, err = f.svc.Sign(ctx, 2, 42, "evidence/2/contract-sig.png")
	require.NoError(t, err)
	assert.True(t, res.Contract.FullySigned())
	require.NotNil(t, res.Contract.FullySignedOn)
	// Each signature event regenerates the artifact under a fresh key.
	assert.NotEqual(t, firstURL, res.Contract.URL)
	// Signing writes contract columns only, never the lifecycle columns.
	f.resRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSign_FinalizedContractIsImmutable(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()

	signedOn := time.Now().UTC().Format(time.RFC3339)
	reservation := confirmedReservation()
	reservation.Contract = domain.Contract{
		URL: "reservations/42/contract-abc.pdf", SignedByOwner: true, SignedByRenter: true, FullySignedOn: &signedOn,
	}
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)

	_, err := f.svc.Sign(ctx, 1, 42, "evidence/1/contract-sig.png")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	f.resRepo.AssertNotCalled(t, "UpdateContract", mock.Anything, mock.Anything)
	f.renderer.AssertNotCalled(t, "RenderContract", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSign_PendingAndCancelledRejected(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()

	f.resRepo.On("GetByID", ctx, int32(42)).Return(pendingReservation(), nil).Once()
	_, err := f.svc.Sign(ctx, 1, 42, "sig")
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))

	cancelled := pendingReservation()
	cancelled.Status = domain.ReservationStatusCancelled
	f.resRepo.On("GetByID", ctx, int32(42)).Return(cancelled, nil).Once()
	_, err = f.svc.Sign(ctx, 1, 42, "sig")
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
}

func TestSign_ThirdPartyForbidden(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)

	_, err := f.svc.Sign(ctx, 99, 42, "sig")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
}

func TestSign_RenderFailureLeavesSweepWork(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.resRepo.On("UpdateContract", ctx, mock.AnythingOfType("*domain.Reservation")).Return(nil)
	f.renderer.On("RenderContract", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, assert.AnError)

	// The signature still lands; only the artifact is stale.
	res, err := f.svc.Sign(ctx, 1, 42, "evidence/1/contract-sig.png")
	require.NoError(t, err)
	assert.True(t, res.Contract.SignedByOwner)
	assert.True(t, res.Contract.RenderPending)
}

func TestGetDownloadURL(t *testing.T) {
	f := newContractFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	reservation.Contract.URL = "reservations/42/contract-abc.pdf"
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.store.On("GeneratePresignedDownloadURL", ctx, "reservations/42/contract-abc.pdf", 15*time.Minute).
		Return("https://storage.example.com/signed", nil)

	url, err := f.svc.GetDownloadURL(ctx, 2, 42)
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/signed", url)
}
