package domain

// Vehicle is immutable for the booking engine except through the owner's
// blocked-date actions.
type Vehicle struct {
	ID                  int32  `json:"id"`
	OwnerID             int32  `json:"owner_id"`
	Owner               *User  `json:"owner,omitempty"` // Populated when fetching vehicle details
	Name                string `json:"name"`
	RegistrationNumber  string `json:"registration_number"`
	DailyPriceCents     int32  `json:"daily_price_cents"`
	CreatedOn           string `json:"created_on"`
}

// BlockedDate marks a single calendar day the owner has withdrawn from the
// rentable calendar. A day covered by an active reservation can never carry
// a BlockedDate row.
type BlockedDate struct {
	ID        int32  `json:"id"`
	VehicleID int32  `json:"vehicle_id"`
	Day       string `json:"day"` // yyyy-mm-dd
	Reason    string `json:"reason"`
	Notes     string `json:"notes"`
	CreatedBy int32  `json:"created_by"`
	CreatedOn string `json:"created_on"`
}

// DayStatus is the availability classification for one vehicle-day.
type DayStatus string

const (
	DayStatusFree     DayStatus = "FREE"
	DayStatusReserved DayStatus = "RESERVED"
	DayStatusBlocked  DayStatus = "BLOCKED"
	DayStatusPast     DayStatus = "PAST"
)

// DayAvailability pairs a calendar day with its derived status.
type DayAvailability struct {
	Day    string    `json:"day"`
	Status DayStatus `json:"status"`
}
