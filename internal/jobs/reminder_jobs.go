package jobs

import (
	"context"

	"carshare-backend/internal/logger"
	"carshare-backend/internal/utils"
)

// SendPickupReminders emails renters whose confirmed rental starts tomorrow.
func (jr *JobRunner) SendPickupReminders() {
	jr.runWithRecovery("SendPickupReminders", func() {
		ctx := context.Background()
		tomorrow := utils.FormatDay(utils.Today().AddDate(0, 0, 1))

		reservations, err := jr.store.Reservations.ListConfirmedStartingOn(ctx, tomorrow)
		if err != nil {
			logger.Error("Failed to list upcoming pickups", "error", err)
			return
		}

		sent := 0
		for _, reservation := range reservations {
			renter, err := jr.store.Users.GetByID(ctx, reservation.RenterID)
			if err != nil {
				logger.Error("Failed to load renter", "reservation_id", reservation.ID, "error", err)
				continue
			}
			vehicle, err := jr.store.Vehicles.GetByID(ctx, reservation.VehicleID)
			if err != nil {
				logger.Error("Failed to load vehicle", "reservation_id", reservation.ID, "error", err)
				continue
			}
			if err := jr.emailSvc.SendPickupReminder(ctx, renter.Email, vehicle.Name, reservation.StartDate); err != nil {
				logger.Error("Pickup reminder failed", "reservation_id", reservation.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Pickup reminders sent", "count", sent)
	})
}

// SendReturnReminders emails renters whose rental is still in progress past
// its end date.
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		today := utils.FormatDay(utils.Today())

		reservations, err := jr.store.Reservations.ListInProgressEndedBefore(ctx, today)
		if err != nil {
			logger.Error("Failed to list overdue returns", "error", err)
			return
		}

		sent := 0
		for _, reservation := range reservations {
			renter, err := jr.store.Users.GetByID(ctx, reservation.RenterID)
			if err != nil {
				logger.Error("Failed to load renter", "reservation_id", reservation.ID, "error", err)
				continue
			}
			vehicle, err := jr.store.Vehicles.GetByID(ctx, reservation.VehicleID)
			if err != nil {
				logger.Error("Failed to load vehicle", "reservation_id", reservation.ID, "error", err)
				continue
			}
			if err := jr.emailSvc.SendReturnReminder(ctx, renter.Email, vehicle.Name, reservation.EndDate); err != nil {
				logger.Error("Return reminder failed", "reservation_id", reservation.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Return reminders sent", "count", sent)
	})
}
