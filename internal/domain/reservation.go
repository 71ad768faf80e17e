package domain

import "fmt"

type ReservationStatus string

const (
	ReservationStatusPending    ReservationStatus = "PENDING"
	ReservationStatusConfirmed  ReservationStatus = "CONFIRMED"
	ReservationStatusInProgress ReservationStatus = "IN_PROGRESS"
	ReservationStatusCompleted  ReservationStatus = "COMPLETED"
	ReservationStatusCancelled  ReservationStatus = "CANCELLED"
	ReservationStatusDisputed   ReservationStatus = "DISPUTED"
)

// CheckStatus tracks the two-sided inspection progress on a reservation.
type CheckStatus string

const (
	CheckStatusNone              CheckStatus = "NONE"
	CheckStatusCheckInSubmitted  CheckStatus = "CHECK_IN_SUBMITTED"
	CheckStatusCheckInValidated  CheckStatus = "CHECK_IN_VALIDATED"
	CheckStatusCheckOutSubmitted CheckStatus = "CHECK_OUT_SUBMITTED"
	CheckStatusCompleted         CheckStatus = "COMPLETED"
	CheckStatusDisputed          CheckStatus = "DISPUTED"
)

// ActiveStatuses are the reservation statuses that occupy calendar days for
// conflict detection and availability. A disputed reservation is terminal:
// the vehicle is back with the owner after check-out, so it does not block
// future bookings.
var ActiveStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusInProgress,
}

// allowedTransitions is the reservation state machine as a directed graph.
var allowedTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:    {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed:  {ReservationStatusInProgress, ReservationStatusCancelled},
	ReservationStatusInProgress: {ReservationStatusCompleted, ReservationStatusDisputed},
	// Terminal states.
	ReservationStatusCompleted: {},
	ReservationStatusCancelled: {},
	ReservationStatusDisputed:  {},
}

// CanTransition reports whether from -> to is an allowed status change.
func CanTransition(from, to ReservationStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Contract tracks the bilateral signature state of the rental agreement.
// The artifact is regenerated on every signature event until both flags are
// true, after which it is immutable.
type Contract struct {
	URL            string  `json:"url"`
	SignedByOwner  bool    `json:"signed_by_owner"`
	SignedByRenter bool    `json:"signed_by_renter"`
	FullySignedOn  *string `json:"fully_signed_on,omitempty"`
	// RenderPending is set while the stored artifact is stale relative to the
	// signature flags; the document sweep job clears it.
	RenderPending bool `json:"render_pending,omitempty"`
}

func (c *Contract) FullySigned() bool {
	return c.SignedByOwner && c.SignedByRenter
}

type Reservation struct {
	ID              int32             `json:"id"`
	VehicleID       int32             `json:"vehicle_id"`
	OwnerID         int32             `json:"owner_id"`
	RenterID        int32             `json:"renter_id"`
	StartDate       string            `json:"start_date"` // yyyy-mm-dd, inclusive
	EndDate         string            `json:"end_date"`   // yyyy-mm-dd, inclusive
	DayCount        int32             `json:"day_count"`
	TotalPriceCents int32             `json:"total_price_cents"`
	Status          ReservationStatus `json:"status"`
	CheckStatus     CheckStatus       `json:"check_status"`
	Contract        Contract          `json:"contract"`
	CancelReason    string            `json:"cancel_reason,omitempty"`
	CreatedOn       string            `json:"created_on"`
	UpdatedOn       string            `json:"updated_on"`
}

// Transition applies a status change, rejecting anything outside the
// allowed graph. Reservations are never deleted; cancellation is a status.
func (r *Reservation) Transition(to ReservationStatus) error {
	if !CanTransition(r.Status, to) {
		return NewPreconditionError("invalid reservation transition: %s -> %s", r.Status, to)
	}
	r.Status = to
	return nil
}

// IsActive reports whether the reservation occupies calendar days.
func (r *Reservation) IsActive() bool {
	for _, s := range ActiveStatuses {
		if r.Status == s {
			return true
		}
	}
	return false
}

// IsParty reports whether userID is the owner or the renter.
func (r *Reservation) IsParty(userID int32) bool {
	return r.OwnerID == userID || r.RenterID == userID
}

func (r *Reservation) String() string {
	return fmt.Sprintf("reservation %d vehicle=%d [%s..%s] %s", r.ID, r.VehicleID, r.StartDate, r.EndDate, r.Status)
}
