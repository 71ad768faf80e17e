package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"carshare-backend/internal/document"
	"carshare-backend/internal/domain"
	"carshare-backend/internal/logger"
	"carshare-backend/internal/repository"
	"carshare-backend/internal/storage"
)

type inspectionService struct {
	inspectionRepo  repository.InspectionRepository
	reservationRepo repository.ReservationRepository
	vehicleRepo     repository.VehicleRepository
	userRepo        repository.UserRepository
	emailSvc        EmailService
	noteRepo        repository.NotificationRepository
	renderer        document.Renderer
	store           storage.StorageInterface
	renderTimeout   time.Duration
}

func NewInspectionService(
	inspectionRepo repository.InspectionRepository,
	reservationRepo repository.ReservationRepository,
	vehicleRepo repository.VehicleRepository,
	userRepo repository.UserRepository,
	emailSvc EmailService,
	noteRepo repository.NotificationRepository,
	renderer document.Renderer,
	store storage.StorageInterface,
	renderTimeout time.Duration,
) InspectionService {
	return &inspectionService{
		inspectionRepo:  inspectionRepo,
		reservationRepo: reservationRepo,
		vehicleRepo:     vehicleRepo,
		userRepo:        userRepo,
		emailSvc:        emailSvc,
		noteRepo:        noteRepo,
		renderer:        renderer,
		store:           store,
		renderTimeout:   renderTimeout,
	}
}

func (s *inspectionService) SubmitCheckIn(ctx context.Context, renterID, reservationID int32, in *InspectionInput) (*domain.InspectionRecord, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.RenterID != renterID {
		return nil, domain.NewForbiddenError("only the renter can submit the check-in inspection")
	}
	if reservation.Status != domain.ReservationStatusConfirmed {
		return nil, domain.NewPreconditionError("check-in requires a confirmed reservation, got %s", reservation.Status)
	}
	if reservation.CheckStatus != domain.CheckStatusNone {
		return nil, domain.NewPreconditionError("check-in already submitted")
	}

	record, err := s.buildRecord(reservationID, domain.InspectionSideCheckIn, renterID, in)
	if err != nil {
		return nil, err
	}
	if err := s.inspectionRepo.CreateSubmission(ctx, record, domain.CheckStatusCheckInSubmitted); err != nil {
		return nil, err
	}

	s.notifySubmission(ctx, reservation, "check-in")
	return record, nil
}

func (s *inspectionService) ValidateCheckIn(ctx context.Context, ownerID, reservationID int32, ownerSignatureKey string) (*domain.InspectionRecord, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.OwnerID != ownerID {
		return nil, domain.NewForbiddenError("only the vehicle owner can validate the check-in inspection")
	}
	if reservation.CheckStatus != domain.CheckStatusCheckInSubmitted {
		return nil, domain.NewPreconditionError("check-in is not awaiting validation")
	}
	if ownerSignatureKey == "" {
		return nil, domain.NewValidationError("owner signature is required")
	}

	record, err := s.inspectionRepo.GetByReservationAndSide(ctx, reservationID, domain.InspectionSideCheckIn)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(reservation.Status, domain.ReservationStatusInProgress) {
		return nil, domain.NewPreconditionError("reservation %s cannot start the rental", reservation.Status)
	}

	now := time.Now()
	record.Status = domain.InspectionStatusValidated
	record.OwnerSignatureKey = ownerSignatureKey
	record.ValidatedBy = &ownerID
	record.ValidatedOn = &now
	// Validation, owner signature and the status transitions commit together.
	if err := s.inspectionRepo.Validate(ctx, record, domain.ReservationStatusInProgress, domain.CheckStatusCheckInValidated); err != nil {
		return nil, err
	}

	s.dispatchReportRender(reservation, record)
	s.notifyValidation(ctx, reservation, "check-in")
	return record, nil
}

func (s *inspectionService) SubmitCheckOut(ctx context.Context, renterID, reservationID int32, in *InspectionInput) (*domain.InspectionRecord, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.RenterID != renterID {
		return nil, domain.NewForbiddenError("only the renter can submit the check-out inspection")
	}
	if reservation.Status != domain.ReservationStatusInProgress {
		return nil, domain.NewPreconditionError("check-out requires a rental in progress, got %s", reservation.Status)
	}
	if reservation.CheckStatus != domain.CheckStatusCheckInValidated {
		return nil, domain.NewPreconditionError("check-out requires a validated check-in")
	}

	record, err := s.buildRecord(reservationID, domain.InspectionSideCheckOut, renterID, in)
	if err != nil {
		return nil, err
	}
	if err := s.inspectionRepo.CreateSubmission(ctx, record, domain.CheckStatusCheckOutSubmitted); err != nil {
		return nil, err
	}

	s.notifySubmission(ctx, reservation, "check-out")
	return record, nil
}

func (s *inspectionService) ValidateCheckOut(ctx context.Context, ownerID, reservationID int32, ownerSignatureKey string, dispute *DisputeInput) (*domain.InspectionRecord, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation.OwnerID != ownerID {
		return nil, domain.NewForbiddenError("only the vehicle owner can validate the check-out inspection")
	}
	if reservation.CheckStatus != domain.CheckStatusCheckOutSubmitted {
		return nil, domain.NewPreconditionError("check-out is not awaiting validation")
	}
	if ownerSignatureKey == "" {
		return nil, domain.NewValidationError("owner signature is required")
	}

	record, err := s.inspectionRepo.GetByReservationAndSide(ctx, reservationID, domain.InspectionSideCheckOut)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	status := domain.ReservationStatusCompleted
	checkStatus := domain.CheckStatusCompleted
	var disputeRecord *domain.Dispute
	if dispute != nil {
		if strings.TrimSpace(dispute.Reason) == "" {
			return nil, domain.NewValidationError("dispute reason is required")
		}
		if dispute.ClaimedAmountCents < 0 {
			return nil, domain.NewValidationError("claimed amount must not be negative")
		}
		disputeRecord = &domain.Dispute{
			Reason:             dispute.Reason,
			ClaimedAmountCents: dispute.ClaimedAmountCents,
			DeclaredBy:         ownerID,
			DeclaredOn:         now,
		}
		status = domain.ReservationStatusDisputed
		checkStatus = domain.CheckStatusDisputed
	}
	if !domain.CanTransition(reservation.Status, status) {
		return nil, domain.NewPreconditionError("reservation %s cannot close the rental", reservation.Status)
	}

	record.Status = domain.InspectionStatusValidated
	record.OwnerSignatureKey = ownerSignatureKey
	record.ValidatedBy = &ownerID
	record.ValidatedOn = &now
	record.Dispute = disputeRecord
	if err := s.inspectionRepo.Validate(ctx, record, status, checkStatus); err != nil {
		return nil, err
	}

	s.dispatchReportRender(reservation, record)
	if dispute != nil {
		s.notifyDispute(ctx, reservation, record.Dispute)
	} else {
		s.notifyValidation(ctx, reservation, "check-out")
	}
	return record, nil
}

func (s *inspectionService) GetInspection(ctx context.Context, actorID, reservationID int32, side domain.InspectionSide) (*domain.InspectionRecord, error) {
	reservation, err := s.reservationRepo.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if !reservation.IsParty(actorID) {
		return nil, domain.NewForbiddenError("not a party to this reservation")
	}
	return s.inspectionRepo.GetByReservationAndSide(ctx, reservationID, side)
}

// buildRecord validates a submission payload and assembles the record.
// Rejection here means nothing reaches the database.
func (s *inspectionService) buildRecord(reservationID int32, side domain.InspectionSide, renterID int32, in *InspectionInput) (*domain.InspectionRecord, error) {
	photos := make([]domain.PhotoEvidence, 0, len(in.Photos))
	for _, p := range in.Photos {
		if p.StorageKey == "" {
			return nil, domain.NewValidationError("photo %s has no storage key", p.Category)
		}
		photos = append(photos, domain.PhotoEvidence{
			Category:   p.Category,
			StorageKey: p.StorageKey,
			UploadedBy: renterID,
		})
	}
	if missing := domain.MissingPhotoCategories(photos); len(missing) > 0 {
		return nil, domain.NewPreconditionError("missing required photo categories: %s", joinCategories(missing))
	}
	if in.OdometerKm <= 0 {
		return nil, domain.NewValidationError("odometer reading must be positive")
	}
	if in.FuelLevelPct < 0 || in.FuelLevelPct > 100 {
		return nil, domain.NewValidationError("fuel level must be between 0 and 100")
	}
	if in.SignatureKey == "" {
		return nil, domain.NewValidationError("renter signature is required")
	}

	return &domain.InspectionRecord{
		ReservationID:      reservationID,
		Side:               side,
		Status:             domain.InspectionStatusSubmitted,
		Photos:             photos,
		OdometerKm:         in.OdometerKm,
		FuelLevelPct:       in.FuelLevelPct,
		Notes:              in.Notes,
		RenterSignatureKey: in.SignatureKey,
		CreatedBy:          renterID,
	}, nil
}

// dispatchReportRender kicks off the slow PDF work after the validation
// commit. Failures are logged; the document sweep job retries them.
// The caller is still serializing the record it got back, so the goroutine
// works on its own copies.
func (s *inspectionService) dispatchReportRender(reservation *domain.Reservation, record *domain.InspectionRecord) {
	resCopy := *reservation
	recCopy := *record
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.renderTimeout)
		defer cancel()
		if err := RenderInspectionReport(ctx, s.renderer, s.store, s.inspectionRepo, &resCopy, &recCopy); err != nil {
			logger.Warn("inspection report render failed, sweep will retry",
				"reservation_id", resCopy.ID, "side", recCopy.Side, "error", err)
		}
	}()
}

// RenderInspectionReport renders the report PDF, uploads it under the
// reservation-scoped key and attaches the URL. The key is deterministic, so
// a retried render replaces the artifact instead of duplicating it.
func RenderInspectionReport(
	ctx context.Context,
	renderer document.Renderer,
	store storage.StorageInterface,
	inspectionRepo repository.InspectionRepository,
	reservation *domain.Reservation,
	record *domain.InspectionRecord,
) error {
	pdf, err := renderer.RenderInspectionReport(reservation, record)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	key := fmt.Sprintf("reservations/%d/inspection-%s.pdf", reservation.ID, strings.ToLower(string(record.Side)))
	if err := store.Upload(ctx, key, "application/pdf", pdf); err != nil {
		return domain.NewExternalError(err, "upload inspection report %s", key)
	}
	if err := inspectionRepo.SetPdfURL(ctx, record.ID, key); err != nil {
		return fmt.Errorf("attach pdf url: %w", err)
	}
	record.PdfURL = key
	return nil
}

func (s *inspectionService) notifySubmission(ctx context.Context, reservation *domain.Reservation, stage string) {
	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	owner, _ := s.userRepo.GetByID(ctx, reservation.OwnerID)
	renter, _ := s.userRepo.GetByID(ctx, reservation.RenterID)
	if vehicle == nil || owner == nil || renter == nil {
		return
	}
	if err := s.emailSvc.SendInspectionSubmittedNotification(ctx, owner.Email, renter.Name, vehicle.Name, stage); err != nil {
		logger.Warn("inspection submitted email failed", "reservation_id", reservation.ID, "error", err)
	}
	s.notify(ctx, owner.ID, "Inspection Submitted",
		fmt.Sprintf("%s submitted the %s inspection for %s", renter.Name, stage, vehicle.Name),
		"INSPECTION_SUBMITTED", reservation.ID)
}

func (s *inspectionService) notifyValidation(ctx context.Context, reservation *domain.Reservation, stage string) {
	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	renter, _ := s.userRepo.GetByID(ctx, reservation.RenterID)
	if vehicle == nil || renter == nil {
		return
	}
	if err := s.emailSvc.SendInspectionValidatedNotification(ctx, renter.Email, vehicle.Name, stage); err != nil {
		logger.Warn("inspection validated email failed", "reservation_id", reservation.ID, "error", err)
	}
	s.notify(ctx, renter.ID, "Inspection Validated",
		fmt.Sprintf("The %s inspection for %s was validated", stage, vehicle.Name),
		"INSPECTION_VALIDATED", reservation.ID)
}

func (s *inspectionService) notifyDispute(ctx context.Context, reservation *domain.Reservation, dispute *domain.Dispute) {
	vehicle, _ := s.vehicleRepo.GetByID(ctx, reservation.VehicleID)
	renter, _ := s.userRepo.GetByID(ctx, reservation.RenterID)
	if vehicle == nil || renter == nil {
		return
	}
	if err := s.emailSvc.SendDisputeNotification(ctx, renter.Email, vehicle.Name, dispute.Reason, dispute.ClaimedAmountCents); err != nil {
		logger.Warn("dispute email failed", "reservation_id", reservation.ID, "error", err)
	}
	s.notify(ctx, renter.ID, "Dispute Opened",
		fmt.Sprintf("The owner disputed the return of %s: %s", vehicle.Name, dispute.Reason),
		"DISPUTE_OPENED", reservation.ID)
}

func (s *inspectionService) notify(ctx context.Context, userID int32, title, message, noteType string, reservationID int32) {
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

func joinCategories(categories []domain.PhotoCategory) string {
	parts := make([]string, len(categories))
	for i, c := range categories {
		parts[i] = string(c)
	}
	return strings.Join(parts, ", ")
}
