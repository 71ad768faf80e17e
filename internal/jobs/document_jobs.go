package jobs

import (
	"context"

	"carshare-backend/internal/logger"
	"carshare-backend/internal/service"
)

// RenderPendingInspectionReports retries inspection-report PDFs whose initial
// async render failed. The storage key is derived from the reservation and
// side, so a retried render replaces the artifact instead of duplicating it.
func (jr *JobRunner) RenderPendingInspectionReports() {
	jr.runWithRecovery("RenderPendingInspectionReports", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.renderTimeout())
		defer cancel()

		records, err := jr.store.Inspections.ListValidatedMissingPdf(ctx)
		if err != nil {
			logger.Error("Failed to list inspections missing reports", "error", err)
			return
		}

		rendered := 0
		for i := range records {
			record := &records[i]
			reservation, err := jr.store.Reservations.GetByID(ctx, record.ReservationID)
			if err != nil {
				logger.Error("Failed to load reservation for report", "reservation_id", record.ReservationID, "error", err)
				continue
			}
			if err := service.RenderInspectionReport(ctx, jr.renderer, jr.blobs, jr.store.Inspections, reservation, record); err != nil {
				logger.Error("Inspection report render failed", "inspection_id", record.ID, "error", err)
				continue
			}
			rendered++
		}
		logger.Info("Inspection report sweep done", "pending", len(records), "rendered", rendered)
	})
}

// RenderPendingContracts retries contract PDFs left stale by a failed render
// at signature time.
func (jr *JobRunner) RenderPendingContracts() {
	jr.runWithRecovery("RenderPendingContracts", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jr.renderTimeout())
		defer cancel()

		reservations, err := jr.store.Reservations.ListContractRenderPending(ctx)
		if err != nil {
			logger.Error("Failed to list stale contracts", "error", err)
			return
		}

		rendered := 0
		for i := range reservations {
			reservation := &reservations[i]
			if err := service.RenderContract(ctx, jr.renderer, jr.blobs, jr.store.Vehicles, jr.store.Users, reservation); err != nil {
				logger.Error("Contract render failed", "reservation_id", reservation.ID, "error", err)
				continue
			}
			// Only the contract columns, and only while the render is still
			// pending; the sweep works from a snapshot and must never touch
			// lifecycle state that moved underneath it.
			if err := jr.store.Reservations.SetContractRendered(ctx, reservation.ID, reservation.Contract.URL); err != nil {
				logger.Error("Failed to persist rendered contract", "reservation_id", reservation.ID, "error", err)
				continue
			}
			rendered++
		}
		logger.Info("Contract sweep done", "pending", len(reservations), "rendered", rendered)
	})
}
