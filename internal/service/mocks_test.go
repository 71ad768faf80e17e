package service

import (
	"context"
	"io"
	"time"

	"carshare-backend/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*domain.User), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockVehicleRepo struct{ mock.Mock }

func (m *MockVehicleRepo) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	return m.Called(ctx, vehicle).Error(0)
}
func (m *MockVehicleRepo) GetByID(ctx context.Context, id int32) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockVehicleRepo) ListByOwner(ctx context.Context, ownerID int32) ([]domain.Vehicle, error) {
	args := m.Called(ctx, ownerID)
	if v := args.Get(0); v != nil {
		return v.([]domain.Vehicle), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockBlockedDateRepo struct{ mock.Mock }

func (m *MockBlockedDateRepo) CreateIfFree(ctx context.Context, blocks []domain.BlockedDate) error {
	return m.Called(ctx, blocks).Error(0)
}
func (m *MockBlockedDateRepo) Delete(ctx context.Context, vehicleID int32, day string) error {
	return m.Called(ctx, vehicleID, day).Error(0)
}
func (m *MockBlockedDateRepo) ListByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.BlockedDate, error) {
	args := m.Called(ctx, vehicleID, from, to)
	if b := args.Get(0); b != nil {
		return b.([]domain.BlockedDate), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockReservationRepo struct{ mock.Mock }

func (m *MockReservationRepo) CreateWithConflictCheck(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockReservationRepo) UpdateContract(ctx context.Context, r *domain.Reservation) error {
	return m.Called(ctx, r).Error(0)
}
func (m *MockReservationRepo) SetContractRendered(ctx context.Context, id int32, url string) error {
	return m.Called(ctx, id, url).Error(0)
}
func (m *MockReservationRepo) ListActiveByVehicleRange(ctx context.Context, vehicleID int32, from, to string) ([]domain.Reservation, error) {
	args := m.Called(ctx, vehicleID, from, to)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReservationRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), int32(args.Int(1)), args.Error(2)
	}
	return nil, int32(args.Int(1)), args.Error(2)
}
func (m *MockReservationRepo) ListByOwner(ctx context.Context, ownerID int32, status string, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), int32(args.Int(1)), args.Error(2)
	}
	return nil, int32(args.Int(1)), args.Error(2)
}
func (m *MockReservationRepo) ListConfirmedStartingOn(ctx context.Context, day string) ([]domain.Reservation, error) {
	args := m.Called(ctx, day)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReservationRepo) ListInProgressEndedBefore(ctx context.Context, day string) ([]domain.Reservation, error) {
	args := m.Called(ctx, day)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockReservationRepo) ListContractRenderPending(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]domain.Reservation), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockInspectionRepo struct{ mock.Mock }

func (m *MockInspectionRepo) CreateSubmission(ctx context.Context, record *domain.InspectionRecord, checkStatus domain.CheckStatus) error {
	return m.Called(ctx, record, checkStatus).Error(0)
}
func (m *MockInspectionRepo) GetByReservationAndSide(ctx context.Context, reservationID int32, side domain.InspectionSide) (*domain.InspectionRecord, error) {
	args := m.Called(ctx, reservationID, side)
	if r := args.Get(0); r != nil {
		return r.(*domain.InspectionRecord), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockInspectionRepo) Validate(ctx context.Context, record *domain.InspectionRecord, status domain.ReservationStatus, checkStatus domain.CheckStatus) error {
	return m.Called(ctx, record, status, checkStatus).Error(0)
}
func (m *MockInspectionRepo) SetPdfURL(ctx context.Context, inspectionID int32, pdfURL string) error {
	return m.Called(ctx, inspectionID, pdfURL).Error(0)
}
func (m *MockInspectionRepo) ListValidatedMissingPdf(ctx context.Context) ([]domain.InspectionRecord, error) {
	args := m.Called(ctx)
	if r := args.Get(0); r != nil {
		return r.([]domain.InspectionRecord), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	return m.Called(ctx, note).Error(0)
}
func (m *MockNotificationRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	if n := args.Get(0); n != nil {
		return n.([]domain.Notification), int32(args.Int(1)), args.Error(2)
	}
	return nil, int32(args.Int(1)), args.Error(2)
}
func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int32) error {
	return m.Called(ctx, id, userID).Error(0)
}

type MockEmailService struct{ mock.Mock }

func (m *MockEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName, startDate, endDate string) error {
	return m.Called(ctx, ownerEmail, renterName, vehicleName, startDate, endDate).Error(0)
}
func (m *MockEmailService) SendBookingConfirmationNotification(ctx context.Context, renterEmail, vehicleName, ownerName string) error {
	return m.Called(ctx, renterEmail, vehicleName, ownerName).Error(0)
}
func (m *MockEmailService) SendBookingCancellationNotification(ctx context.Context, email, cancellerName, vehicleName, reason string) error {
	return m.Called(ctx, email, cancellerName, vehicleName, reason).Error(0)
}
func (m *MockEmailService) SendContractSignedNotification(ctx context.Context, email, signerName, vehicleName string) error {
	return m.Called(ctx, email, signerName, vehicleName).Error(0)
}
func (m *MockEmailService) SendInspectionSubmittedNotification(ctx context.Context, ownerEmail, renterName, vehicleName, stage string) error {
	return m.Called(ctx, ownerEmail, renterName, vehicleName, stage).Error(0)
}
func (m *MockEmailService) SendInspectionValidatedNotification(ctx context.Context, renterEmail, vehicleName, stage string) error {
	return m.Called(ctx, renterEmail, vehicleName, stage).Error(0)
}
func (m *MockEmailService) SendDisputeNotification(ctx context.Context, renterEmail, vehicleName, reason string, claimedAmountCents int32) error {
	return m.Called(ctx, renterEmail, vehicleName, reason, claimedAmountCents).Error(0)
}
func (m *MockEmailService) SendPickupReminder(ctx context.Context, renterEmail, vehicleName, startDate string) error {
	return m.Called(ctx, renterEmail, vehicleName, startDate).Error(0)
}
func (m *MockEmailService) SendReturnReminder(ctx context.Context, renterEmail, vehicleName, endDate string) error {
	return m.Called(ctx, renterEmail, vehicleName, endDate).Error(0)
}

type MockRenderer struct{ mock.Mock }

func (m *MockRenderer) RenderContract(res *domain.Reservation, vehicle *domain.Vehicle, owner, renter *domain.User) ([]byte, error) {
	args := m.Called(res, vehicle, owner, renter)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRenderer) RenderInspectionReport(res *domain.Reservation, rec *domain.InspectionRecord) ([]byte, error) {
	args := m.Called(res, rec)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStorage struct{ mock.Mock }

func (m *MockStorage) GeneratePresignedUploadURL(ctx context.Context, key string, contentType string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, contentType, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) GeneratePresignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	args := m.Called(ctx, key, expiresIn)
	return args.String(0), args.Error(1)
}
func (m *MockStorage) Upload(ctx context.Context, key string, contentType string, data []byte) error {
	return m.Called(ctx, key, contentType, data).Error(0)
}
func (m *MockStorage) FileExists(ctx context.Context, key string) (bool, int64, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), int64(args.Int(1)), args.Error(2)
}
func (m *MockStorage) DeleteFile(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}
func (m *MockStorage) SaveFile(key string, reader io.Reader) error {
	return m.Called(key, reader).Error(0)
}
func (m *MockStorage) ReadFile(key string) (io.ReadCloser, error) {
	args := m.Called(key)
	if r := args.Get(0); r != nil {
		return r.(io.ReadCloser), args.Error(1)
	}
	return nil, args.Error(1)
}
