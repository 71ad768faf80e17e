package http

import (
	"net/http"
	"strconv"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/service"
	"carshare-backend/internal/utils"

	"github.com/gorilla/mux"
)

type VehicleHandler struct {
	vehicleSvc      service.VehicleService
	availabilitySvc service.AvailabilityService
}

func NewVehicleHandler(vehicleSvc service.VehicleService, availabilitySvc service.AvailabilityService) *VehicleHandler {
	return &VehicleHandler{vehicleSvc: vehicleSvc, availabilitySvc: availabilitySvc}
}

func pathID(r *http.Request, name string) (int32, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid %s: %s", name, raw)
	}
	return int32(id), nil
}

type addVehicleRequest struct {
	Name               string `json:"name"`
	RegistrationNumber string `json:"registration_number"`
	DailyPriceCents    int32  `json:"daily_price_cents"`
}

func (h *VehicleHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req addVehicleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	vehicle := &domain.Vehicle{
		OwnerID:            actorFrom(r).UserID,
		Name:               req.Name,
		RegistrationNumber: req.RegistrationNumber,
		DailyPriceCents:    req.DailyPriceCents,
	}
	if err := h.vehicleSvc.AddVehicle(r.Context(), vehicle); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

func (h *VehicleHandler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	vehicle, err := h.vehicleSvc.GetVehicle(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

func (h *VehicleHandler) ListMyVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.vehicleSvc.ListMyVehicles(r.Context(), actorFrom(r).UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicles": vehicles})
}

// GetAvailability defaults to the next 60 days when the range is omitted.
func (h *VehicleHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" {
		from = utils.FormatDay(utils.Today())
	}
	if to == "" {
		to = utils.FormatDay(utils.Today().AddDate(0, 0, 60))
	}
	days, err := h.availabilitySvc.GetAvailability(r.Context(), id, from, to)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"vehicle_id": id, "from": from, "to": to, "days": days})
}

type blockDatesRequest struct {
	Days   []string `json:"days"`
	Reason string   `json:"reason"`
	Notes  string   `json:"notes"`
}

func (h *VehicleHandler) BlockDates(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req blockDatesRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	blocks, err := h.availabilitySvc.BlockDates(r.Context(), actorFrom(r).UserID, id, req.Days, req.Reason, req.Notes)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"blocked_dates": blocks})
}

func (h *VehicleHandler) UnblockDate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	day := mux.Vars(r)["day"]
	if err := h.availabilitySvc.UnblockDate(r.Context(), actorFrom(r).UserID, id, day); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
