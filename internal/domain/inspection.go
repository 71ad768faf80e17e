package domain

import "time"

// InspectionSide distinguishes the custody handover inspection (check-in,
// owner to renter) from the custody return inspection (check-out).
type InspectionSide string

const (
	InspectionSideCheckIn  InspectionSide = "CHECK_IN"
	InspectionSideCheckOut InspectionSide = "CHECK_OUT"
)

type InspectionStatus string

const (
	// InspectionStatusSubmitted: the renter provided the full evidence set
	// and their signature. Partial submissions are never stored.
	InspectionStatusSubmitted InspectionStatus = "SUBMITTED"
	// InspectionStatusValidated: the owner counter-signed and confirmed.
	InspectionStatusValidated InspectionStatus = "VALIDATED"
)

type PhotoCategory string

const (
	PhotoCategoryFront    PhotoCategory = "front"
	PhotoCategoryRear     PhotoCategory = "rear"
	PhotoCategoryLeft     PhotoCategory = "left"
	PhotoCategoryRight    PhotoCategory = "right"
	PhotoCategoryInterior PhotoCategory = "interior"
	PhotoCategoryOdometer PhotoCategory = "odometer"
	PhotoCategoryFuel     PhotoCategory = "fuel"
	PhotoCategoryDefects  PhotoCategory = "defects"
)

// RequiredPhotoCategories must all be present before an inspection
// submission is accepted.
var RequiredPhotoCategories = []PhotoCategory{
	PhotoCategoryFront,
	PhotoCategoryRear,
	PhotoCategoryLeft,
	PhotoCategoryRight,
	PhotoCategoryInterior,
	PhotoCategoryOdometer,
	PhotoCategoryFuel,
}

type PhotoEvidence struct {
	ID           int32         `json:"id"`
	InspectionID int32         `json:"inspection_id"`
	Category     PhotoCategory `json:"category"`
	StorageKey   string        `json:"storage_key"`
	UploadedBy   int32         `json:"uploaded_by"`
	UploadedOn   time.Time     `json:"uploaded_on"`
}

// Dispute is a claim attached at check-out validation. Write-once: once
// recorded it is immutable and forces the disputed terminal state.
type Dispute struct {
	Reason             string    `json:"reason"`
	ClaimedAmountCents int32     `json:"claimed_amount_cents"`
	DeclaredBy         int32     `json:"declared_by"`
	DeclaredOn         time.Time `json:"declared_on"`
}

// InspectionRecord is the evidentiary record for one side of the handover.
// Signatures accumulate strictly in capture order: the renter signs at
// submission, the owner signs at validation.
type InspectionRecord struct {
	ID                 int32            `json:"id"`
	ReservationID      int32            `json:"reservation_id"`
	Side               InspectionSide   `json:"side"`
	Status             InspectionStatus `json:"status"`
	Photos             []PhotoEvidence  `json:"photos"`
	OdometerKm         int32            `json:"odometer_km"`
	FuelLevelPct       int32            `json:"fuel_level_pct"`
	Notes              string           `json:"notes"`
	RenterSignatureKey string           `json:"renter_signature_key"`
	OwnerSignatureKey  string           `json:"owner_signature_key"`
	CreatedBy          int32            `json:"created_by"`
	CreatedOn          time.Time        `json:"created_on"`
	ValidatedBy        *int32           `json:"validated_by,omitempty"`
	ValidatedOn        *time.Time       `json:"validated_on,omitempty"`
	PdfURL             string           `json:"pdf_url,omitempty"`
	Dispute            *Dispute         `json:"dispute,omitempty"`
}

func (ir *InspectionRecord) Validated() bool {
	return ir.Status == InspectionStatusValidated
}

// MissingPhotoCategories returns the required categories absent from the
// given photo set, in the canonical order.
func MissingPhotoCategories(photos []PhotoEvidence) []PhotoCategory {
	present := make(map[PhotoCategory]bool, len(photos))
	for _, p := range photos {
		present[p.Category] = true
	}
	var missing []PhotoCategory
	for _, c := range RequiredPhotoCategories {
		if !present[c] {
			missing = append(missing, c)
		}
	}
	return missing
}
