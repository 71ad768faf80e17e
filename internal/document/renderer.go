package document

import (
	"bytes"
	"fmt"
	"time"

	"carshare-backend/internal/domain"

	"github.com/jung-kurt/gofpdf"
)

// Renderer produces the PDF artifacts attached to a reservation: the rental
// contract and the per-side inspection reports. Rendering is pure; callers
// own storage and retries.
type Renderer interface {
	RenderContract(res *domain.Reservation, vehicle *domain.Vehicle, owner, renter *domain.User) ([]byte, error)
	RenderInspectionReport(res *domain.Reservation, rec *domain.InspectionRecord) ([]byte, error)
}

type pdfRenderer struct {
	companyName string
}

func NewRenderer(companyName string) Renderer {
	return &pdfRenderer{companyName: companyName}
}

func (p *pdfRenderer) RenderContract(res *domain.Reservation, vehicle *domain.Vehicle, owner, renter *domain.User) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s - Vehicle Rental Agreement", p.companyName))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	writeField(pdf, "Reservation", fmt.Sprintf("#%d", res.ID))
	writeField(pdf, "Vehicle", fmt.Sprintf("%s (%s)", vehicle.Name, vehicle.RegistrationNumber))
	writeField(pdf, "Owner", fmt.Sprintf("%s <%s>", owner.Name, owner.Email))
	writeField(pdf, "Renter", fmt.Sprintf("%s <%s>", renter.Name, renter.Email))
	writeField(pdf, "Rental period", fmt.Sprintf("%s to %s (%d days)", res.StartDate, res.EndDate, res.DayCount))
	writeField(pdf, "Total price", formatCents(res.TotalPriceCents))
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Terms")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, contractTerms, "", "L", false)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Signatures")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	writeField(pdf, "Owner signed", yesNo(res.Contract.SignedByOwner))
	writeField(pdf, "Renter signed", yesNo(res.Contract.SignedByRenter))
	if res.Contract.FullySignedOn != nil {
		writeField(pdf, "Fully signed on", *res.Contract.FullySignedOn)
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render contract for reservation %d: %w", res.ID, err)
	}
	return buf.Bytes(), nil
}

func (p *pdfRenderer) RenderInspectionReport(res *domain.Reservation, rec *domain.InspectionRecord) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("%s - %s Inspection Report", p.companyName, sideTitle(rec.Side)))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "", 11)
	writeField(pdf, "Reservation", fmt.Sprintf("#%d", res.ID))
	writeField(pdf, "Rental period", fmt.Sprintf("%s to %s", res.StartDate, res.EndDate))
	writeField(pdf, "Odometer", fmt.Sprintf("%d km", rec.OdometerKm))
	writeField(pdf, "Fuel level", fmt.Sprintf("%d%%", rec.FuelLevelPct))
	if rec.Notes != "" {
		writeField(pdf, "Notes", rec.Notes)
	}
	writeField(pdf, "Submitted by", fmt.Sprintf("user #%d", rec.CreatedBy))
	if rec.ValidatedBy != nil {
		writeField(pdf, "Validated by", fmt.Sprintf("user #%d", *rec.ValidatedBy))
	}
	if rec.ValidatedOn != nil {
		writeField(pdf, "Validated on", rec.ValidatedOn.UTC().Format(time.RFC3339))
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Photo evidence")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 10)
	for _, photo := range rec.Photos {
		pdf.Cell(0, 5, fmt.Sprintf("- %s: %s", photo.Category, photo.StorageKey))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	if rec.Dispute != nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Dispute")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		writeField(pdf, "Reason", rec.Dispute.Reason)
		writeField(pdf, "Claimed amount", formatCents(rec.Dispute.ClaimedAmountCents))
		writeField(pdf, "Declared by", fmt.Sprintf("user #%d", rec.Dispute.DeclaredBy))
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.Cell(0, 5, fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339)))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render inspection report for reservation %d: %w", res.ID, err)
	}
	return buf.Bytes(), nil
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(45, 6, label)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func sideTitle(side domain.InspectionSide) string {
	if side == domain.InspectionSideCheckOut {
		return "Check-Out"
	}
	return "Check-In"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatCents(cents int32) string {
	return fmt.Sprintf("EUR %d.%02d", cents/100, cents%100)
}

const contractTerms = `The renter agrees to return the vehicle in the condition documented at check-in, ` +
	`with at least the fuel level recorded at check-in. The owner agrees to hand over the vehicle ` +
	`in a roadworthy state. Damage discovered at check-out that is not present in the check-in ` +
	`photo evidence is the renter's responsibility. Both parties acknowledge that this agreement ` +
	`becomes binding once signed by owner and renter.`
