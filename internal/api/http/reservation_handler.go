package http

import (
	"net/http"
	"strconv"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/service"
)

type ReservationHandler struct {
	bookingSvc     service.BookingService
	reservationSvc service.ReservationService
	contractSvc    service.ContractService
}

func NewReservationHandler(
	bookingSvc service.BookingService,
	reservationSvc service.ReservationService,
	contractSvc service.ContractService,
) *ReservationHandler {
	return &ReservationHandler{
		bookingSvc:     bookingSvc,
		reservationSvc: reservationSvc,
		contractSvc:    contractSvc,
	}
}

type createBookingRequest struct {
	VehicleID       int32  `json:"vehicle_id"`
	StartDate       string `json:"start_date"`
	EndDate         string `json:"end_date"`
	TotalPriceCents int32  `json:"total_price_cents"`
}

func (h *ReservationHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.bookingSvc.CreateBooking(r.Context(), actorFrom(r).UserID, &service.BookingInput{
		VehicleID:       req.VehicleID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalPriceCents: req.TotalPriceCents,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (h *ReservationHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservationSvc.Confirm(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservationSvc.Cancel(r.Context(), actorFrom(r).UserID, id, req.Reason)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.reservationSvc.Get(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// List returns the actor's reservations, as renter by default or as owner
// with role=owner.
func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	page := queryInt32(q.Get("page"), 1)
	pageSize := queryInt32(q.Get("page_size"), 20)

	var (
		reservations []domain.Reservation
		total        int32
		err          error
	)
	if q.Get("role") == "owner" {
		reservations, total, err = h.reservationSvc.ListByOwner(r.Context(), actorFrom(r).UserID, status, page, pageSize)
	} else {
		reservations, total, err = h.reservationSvc.ListByRenter(r.Context(), actorFrom(r).UserID, status, page, pageSize)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"reservations": reservations,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

type signContractRequest struct {
	SignatureKey string `json:"signature_key"`
}

func (h *ReservationHandler) SignContract(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req signContractRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	reservation, err := h.contractSvc.Sign(r.Context(), actorFrom(r).UserID, id, req.SignatureKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (h *ReservationHandler) GetContractURL(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	url, err := h.contractSvc.GetDownloadURL(r.Context(), actorFrom(r).UserID, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}

func queryInt32(raw string, fallback int32) int32 {
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v <= 0 {
		return fallback
	}
	return int32(v)
}
