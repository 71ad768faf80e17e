package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"carshare-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type inspectionFixture struct {
	inspRepo *MockInspectionRepo
	resRepo  *MockReservationRepo
	vehRepo  *MockVehicleRepo
	userRepo *MockUserRepo
	emailSvc *MockEmailService
	noteRepo *MockNotificationRepo
	renderer *MockRenderer
	store    *MockStorage
	svc      InspectionService
}

func newInspectionFixture() *inspectionFixture {
	f := &inspectionFixture{
		inspRepo: new(MockInspectionRepo),
		resRepo:  new(MockReservationRepo),
		vehRepo:  new(MockVehicleRepo),
		userRepo: new(MockUserRepo),
		emailSvc: new(MockEmailService),
		noteRepo: new(MockNotificationRepo),
		renderer: new(MockRenderer),
		store:    new(MockStorage),
	}
	f.svc = NewInspectionService(f.inspRepo, f.resRepo, f.vehRepo, f.userRepo,
		f.emailSvc, f.noteRepo, f.renderer, f.store, 5*time.Second)

	// The async report render and the best-effort notifications may or may
	// not land before the test ends.
	f.renderer.On("RenderInspectionReport", mock.Anything, mock.Anything).Return([]byte("%PDF"), nil).Maybe()
	f.store.On("Upload", mock.Anything, mock.Anything, "application/pdf", mock.Anything).Return(nil).Maybe()
	f.inspRepo.On("SetPdfURL", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.vehRepo.On("GetByID", mock.Anything, int32(7)).Return(testVehicle(), nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, int32(1)).Return(&domain.User{ID: 1, Name: "Olive", Email: "olive@example.com"}, nil).Maybe()
	f.userRepo.On("GetByID", mock.Anything, int32(2)).Return(&domain.User{ID: 2, Name: "Rafa", Email: "rafa@example.com"}, nil).Maybe()
	f.emailSvc.On("SendInspectionSubmittedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.emailSvc.On("SendInspectionValidatedNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.emailSvc.On("SendDisputeNotification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	f.noteRepo.On("Create", mock.Anything, mock.Anything).Return(nil).Maybe()
	return f
}

func confirmedReservation() *domain.Reservation {
	r := pendingReservation()
	r.Status = domain.ReservationStatusConfirmed
	return r
}

func fullInspectionInput() *InspectionInput {
	in := &InspectionInput{
		OdometerKm:   48211,
		FuelLevelPct: 75,
		Notes:        "scratch on rear bumper",
		SignatureKey: "evidence/2/sig.png",
	}
	for _, c := range domain.RequiredPhotoCategories {
		in.Photos = append(in.Photos, PhotoInput{Category: c, StorageKey: "evidence/2/" + string(c) + ".jpg"})
	}
	return in
}

func TestSubmitCheckIn_MissingPhotosRejected(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)

	// Five of the seven required categories.
	in := fullInspectionInput()
	in.Photos = in.Photos[:5]

	_, err := f.svc.SubmitCheckIn(ctx, 2, 42, in)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	assert.Contains(t, err.Error(), "odometer")
	assert.Contains(t, err.Error(), "fuel")
	f.inspRepo.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitCheckIn_Success(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)
	f.inspRepo.On("CreateSubmission", ctx, mock.AnythingOfType("*domain.InspectionRecord"), domain.CheckStatusCheckInSubmitted).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.InspectionRecord).ID = 5
		}).Return(nil)

	record, err := f.svc.SubmitCheckIn(ctx, 2, 42, fullInspectionInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InspectionStatusSubmitted, record.Status)
	assert.Equal(t, domain.InspectionSideCheckIn, record.Side)
	assert.Equal(t, "evidence/2/sig.png", record.RenterSignatureKey)
	assert.Empty(t, record.OwnerSignatureKey, "owner signs at validation, not submission")
	f.inspRepo.AssertExpectations(t)
}

func TestSubmitCheckIn_GuardsAndAuthority(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	t.Run("owner cannot submit", func(t *testing.T) {
		f.resRepo.ExpectedCalls = nil
		f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)
		_, err := f.svc.SubmitCheckIn(ctx, 1, 42, fullInspectionInput())
		assert.True(t, domain.IsCode(err, domain.ErrCodeForbidden))
	})

	t.Run("pending reservation rejected", func(t *testing.T) {
		f.resRepo.ExpectedCalls = nil
		f.resRepo.On("GetByID", ctx, int32(42)).Return(pendingReservation(), nil)
		_, err := f.svc.SubmitCheckIn(ctx, 2, 42, fullInspectionInput())
		assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	})

	t.Run("double submission rejected", func(t *testing.T) {
		f.resRepo.ExpectedCalls = nil
		submitted := confirmedReservation()
		submitted.CheckStatus = domain.CheckStatusCheckInSubmitted
		f.resRepo.On("GetByID", ctx, int32(42)).Return(submitted, nil)
		_, err := f.svc.SubmitCheckIn(ctx, 2, 42, fullInspectionInput())
		assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	})

	t.Run("fuel level out of range", func(t *testing.T) {
		f.resRepo.ExpectedCalls = nil
		f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)
		in := fullInspectionInput()
		in.FuelLevelPct = 120
		_, err := f.svc.SubmitCheckIn(ctx, 2, 42, in)
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})

	t.Run("missing renter signature", func(t *testing.T) {
		f.resRepo.ExpectedCalls = nil
		f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)
		in := fullInspectionInput()
		in.SignatureKey = ""
		_, err := f.svc.SubmitCheckIn(ctx, 2, 42, in)
		assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
	})
}

func TestValidateCheckIn_StartsRental(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	reservation.CheckStatus = domain.CheckStatusCheckInSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckIn).
		Return(&domain.InspectionRecord{ID: 5, ReservationID: 42, Side: domain.InspectionSideCheckIn, Status: domain.InspectionStatusSubmitted}, nil)
	f.inspRepo.On("Validate", ctx, mock.AnythingOfType("*domain.InspectionRecord"),
		domain.ReservationStatusInProgress, domain.CheckStatusCheckInValidated).Return(nil)

	record, err := f.svc.ValidateCheckIn(ctx, 1, 42, "evidence/1/sig.png")
	require.NoError(t, err)
	assert.Equal(t, domain.InspectionStatusValidated, record.Status)
	assert.Equal(t, "evidence/1/sig.png", record.OwnerSignatureKey)
	require.NotNil(t, record.ValidatedBy)
	assert.Equal(t, int32(1), *record.ValidatedBy)
	f.inspRepo.AssertExpectations(t)
}

func TestValidateCheckIn_ReturnedRecordUntouchedByAsyncRender(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := confirmedReservation()
	reservation.CheckStatus = domain.CheckStatusCheckInSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)

	// Slow the render down so it is still in flight while the caller is
	// encoding the response.
	f.renderer.ExpectedCalls = nil
	f.renderer.On("RenderInspectionReport", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(20 * time.Millisecond) }).
		Return([]byte("%PDF"), nil)

	rendered := make(chan struct{})
	f.inspRepo.ExpectedCalls = nil
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckIn).
		Return(&domain.InspectionRecord{ID: 5, ReservationID: 42, Side: domain.InspectionSideCheckIn, Status: domain.InspectionStatusSubmitted}, nil)
	f.inspRepo.On("Validate", ctx, mock.AnythingOfType("*domain.InspectionRecord"),
		domain.ReservationStatusInProgress, domain.CheckStatusCheckInValidated).Return(nil)
	f.inspRepo.On("SetPdfURL", mock.Anything, int32(5), mock.Anything).
		Run(func(mock.Arguments) { close(rendered) }).Return(nil)

	record, err := f.svc.ValidateCheckIn(ctx, 1, 42, "evidence/1/sig.png")
	require.NoError(t, err)

	// Keep serializing the returned record, the way the transport layer does,
	// until the render has finished.
	for done := false; !done; {
		_, encodeErr := json.Marshal(record)
		require.NoError(t, encodeErr)
		select {
		case <-rendered:
			done = true
		default:
		}
	}
	assert.Empty(t, record.PdfURL, "the async render must work on its own copy")
}

func TestValidateCheckIn_RequiresSubmission(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()
	f.resRepo.On("GetByID", ctx, int32(42)).Return(confirmedReservation(), nil)

	_, err := f.svc.ValidateCheckIn(ctx, 1, 42, "evidence/1/sig.png")
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
}

func TestSubmitCheckOut_GatedOnCheckInValidation(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	// Check-in submitted but not yet validated by the owner.
	reservation := confirmedReservation()
	reservation.CheckStatus = domain.CheckStatusCheckInSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)

	_, err := f.svc.SubmitCheckOut(ctx, 2, 42, fullInspectionInput())
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	f.inspRepo.AssertNotCalled(t, "CreateSubmission", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitCheckOut_Success(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := pendingReservation()
	reservation.Status = domain.ReservationStatusInProgress
	reservation.CheckStatus = domain.CheckStatusCheckInValidated
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("CreateSubmission", ctx, mock.AnythingOfType("*domain.InspectionRecord"), domain.CheckStatusCheckOutSubmitted).Return(nil)

	record, err := f.svc.SubmitCheckOut(ctx, 2, 42, fullInspectionInput())
	require.NoError(t, err)
	assert.Equal(t, domain.InspectionSideCheckOut, record.Side)
	f.inspRepo.AssertExpectations(t)
}

func TestValidateCheckOut_CompletesWithoutDispute(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := pendingReservation()
	reservation.Status = domain.ReservationStatusInProgress
	reservation.CheckStatus = domain.CheckStatusCheckOutSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckOut).
		Return(&domain.InspectionRecord{ID: 6, ReservationID: 42, Side: domain.InspectionSideCheckOut, Status: domain.InspectionStatusSubmitted}, nil)
	f.inspRepo.On("Validate", ctx, mock.AnythingOfType("*domain.InspectionRecord"),
		domain.ReservationStatusCompleted, domain.CheckStatusCompleted).Return(nil)

	record, err := f.svc.ValidateCheckOut(ctx, 1, 42, "evidence/1/sig2.png", nil)
	require.NoError(t, err)
	assert.Nil(t, record.Dispute)
	f.inspRepo.AssertExpectations(t)
}

func TestValidateCheckOut_DisputeNeverCompletes(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := pendingReservation()
	reservation.Status = domain.ReservationStatusInProgress
	reservation.CheckStatus = domain.CheckStatusCheckOutSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckOut).
		Return(&domain.InspectionRecord{ID: 6, ReservationID: 42, Side: domain.InspectionSideCheckOut, Status: domain.InspectionStatusSubmitted}, nil)
	f.inspRepo.On("Validate", ctx, mock.AnythingOfType("*domain.InspectionRecord"),
		domain.ReservationStatusDisputed, domain.CheckStatusDisputed).Return(nil)

	record, err := f.svc.ValidateCheckOut(ctx, 1, 42, "evidence/1/sig2.png",
		&DisputeInput{Reason: "dented door", ClaimedAmountCents: 35000})
	require.NoError(t, err)
	require.NotNil(t, record.Dispute)
	assert.Equal(t, "dented door", record.Dispute.Reason)
	assert.Equal(t, int32(35000), record.Dispute.ClaimedAmountCents)
	assert.Equal(t, int32(1), record.Dispute.DeclaredBy)
	// The repo was never asked for a COMPLETED transition.
	f.inspRepo.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything,
		domain.ReservationStatusCompleted, domain.CheckStatusCompleted)
}

func TestValidateCheckOut_UnexpectedStatusRejected(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	// Check status says check-out submitted but the lifecycle status never
	// reached IN_PROGRESS. The repo's unconditional status write must stay
	// unreachable from such a row.
	reservation := confirmedReservation()
	reservation.CheckStatus = domain.CheckStatusCheckOutSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckOut).
		Return(&domain.InspectionRecord{ID: 6, ReservationID: 42, Side: domain.InspectionSideCheckOut, Status: domain.InspectionStatusSubmitted}, nil)

	_, err := f.svc.ValidateCheckOut(ctx, 1, 42, "evidence/1/sig2.png", nil)
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodePrecondition))
	f.inspRepo.AssertNotCalled(t, "Validate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestValidateCheckOut_DisputeRequiresReason(t *testing.T) {
	f := newInspectionFixture()
	ctx := context.Background()

	reservation := pendingReservation()
	reservation.Status = domain.ReservationStatusInProgress
	reservation.CheckStatus = domain.CheckStatusCheckOutSubmitted
	f.resRepo.On("GetByID", ctx, int32(42)).Return(reservation, nil)
	f.inspRepo.On("GetByReservationAndSide", ctx, int32(42), domain.InspectionSideCheckOut).
		Return(&domain.InspectionRecord{ID: 6, ReservationID: 42, Side: domain.InspectionSideCheckOut, Status: domain.InspectionStatusSubmitted}, nil)

	_, err := f.svc.ValidateCheckOut(ctx, 1, 42, "evidence/1/sig2.png", &DisputeInput{Reason: "  "})
	require.Error(t, err)
	assert.True(t, domain.IsCode(err, domain.ErrCodeValidation))
}
