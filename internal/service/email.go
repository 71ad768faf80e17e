package service

import (
	"context"
	"fmt"

	"carshare-backend/internal/logger"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

type sendgridEmailService struct {
	client   *sendgrid.Client
	from     *mail.Email
	disabled bool
}

// NewEmailService builds the SendGrid-backed email service. With an empty
// API key (dev, tests) sends are logged and skipped.
func NewEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendgridEmailService{
		client:   sendgrid.NewSendClient(apiKey),
		from:     mail.NewEmail(fromName, fromEmail),
		disabled: apiKey == "",
	}
}

func (s *sendgridEmailService) send(ctx context.Context, toEmail, subject, body string) error {
	if s.disabled {
		logger.Debug("email dispatch disabled, skipping", "to", toEmail, "subject", subject)
		return nil
	}
	message := mail.NewSingleEmail(s.from, subject, mail.NewEmail("", toEmail), body, body)
	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendBookingRequestNotification(ctx context.Context, ownerEmail, renterName, vehicleName, startDate, endDate string) error {
	return s.send(ctx, ownerEmail, "New booking request",
		fmt.Sprintf("%s requested to rent %s from %s to %s. Confirm or decline in the app.", renterName, vehicleName, startDate, endDate))
}

func (s *sendgridEmailService) SendBookingConfirmationNotification(ctx context.Context, renterEmail, vehicleName, ownerName string) error {
	return s.send(ctx, renterEmail, "Booking confirmed",
		fmt.Sprintf("%s confirmed your booking of %s. Remember to sign the rental contract before pickup.", ownerName, vehicleName))
}

func (s *sendgridEmailService) SendBookingCancellationNotification(ctx context.Context, email, cancellerName, vehicleName, reason string) error {
	body := fmt.Sprintf("%s cancelled the booking of %s.", cancellerName, vehicleName)
	if reason != "" {
		body += " Reason: " + reason
	}
	return s.send(ctx, email, "Booking cancelled", body)
}

func (s *sendgridEmailService) SendContractSignedNotification(ctx context.Context, email, signerName, vehicleName string) error {
	return s.send(ctx, email, "Contract signed",
		fmt.Sprintf("%s signed the rental contract for %s.", signerName, vehicleName))
}

func (s *sendgridEmailService) SendInspectionSubmittedNotification(ctx context.Context, ownerEmail, renterName, vehicleName, stage string) error {
	return s.send(ctx, ownerEmail, "Inspection submitted",
		fmt.Sprintf("%s submitted the %s inspection for %s. Review and counter-sign it in the app.", renterName, stage, vehicleName))
}

func (s *sendgridEmailService) SendInspectionValidatedNotification(ctx context.Context, renterEmail, vehicleName, stage string) error {
	return s.send(ctx, renterEmail, "Inspection validated",
		fmt.Sprintf("The %s inspection for %s was validated by the owner.", stage, vehicleName))
}

func (s *sendgridEmailService) SendDisputeNotification(ctx context.Context, renterEmail, vehicleName, reason string, claimedAmountCents int32) error {
	body := fmt.Sprintf("The owner disputed the return of %s. Reason: %s.", vehicleName, reason)
	if claimedAmountCents > 0 {
		body += fmt.Sprintf(" Claimed amount: %d.%02d.", claimedAmountCents/100, claimedAmountCents%100)
	}
	return s.send(ctx, renterEmail, "Return disputed", body)
}

func (s *sendgridEmailService) SendPickupReminder(ctx context.Context, renterEmail, vehicleName, startDate string) error {
	return s.send(ctx, renterEmail, "Pickup reminder",
		fmt.Sprintf("Your rental of %s starts on %s. Bring your license and complete the check-in inspection at pickup.", vehicleName, startDate))
}

func (s *sendgridEmailService) SendReturnReminder(ctx context.Context, renterEmail, vehicleName, endDate string) error {
	return s.send(ctx, renterEmail, "Return reminder",
		fmt.Sprintf("Your rental of %s ended on %s. Please return the vehicle and complete the check-out inspection.", vehicleName, endDate))
}
