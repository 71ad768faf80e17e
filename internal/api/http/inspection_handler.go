package http

import (
	"net/http"

	"carshare-backend/internal/domain"
	"carshare-backend/internal/service"

	"github.com/gorilla/mux"
)

type InspectionHandler struct {
	inspectionSvc service.InspectionService
}

func NewInspectionHandler(inspectionSvc service.InspectionService) *InspectionHandler {
	return &InspectionHandler{inspectionSvc: inspectionSvc}
}

func (h *InspectionHandler) SubmitCheckIn(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.InspectionSideCheckIn)
}

func (h *InspectionHandler) SubmitCheckOut(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, domain.InspectionSideCheckOut)
}

func (h *InspectionHandler) submit(w http.ResponseWriter, r *http.Request, side domain.InspectionSide) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req service.InspectionInput
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	var record *domain.InspectionRecord
	if side == domain.InspectionSideCheckIn {
		record, err = h.inspectionSvc.SubmitCheckIn(r.Context(), actorFrom(r).UserID, id, &req)
	} else {
		record, err = h.inspectionSvc.SubmitCheckOut(r.Context(), actorFrom(r).UserID, id, &req)
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

type validateInspectionRequest struct {
	SignatureKey string                `json:"signature_key"`
	Dispute      *service.DisputeInput `json:"dispute,omitempty"`
}

func (h *InspectionHandler) ValidateCheckIn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req validateInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Dispute != nil {
		writeError(w, domain.NewValidationError("disputes can only be raised at check-out validation"))
		return
	}
	record, err := h.inspectionSvc.ValidateCheckIn(r.Context(), actorFrom(r).UserID, id, req.SignatureKey)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *InspectionHandler) ValidateCheckOut(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var req validateInspectionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	record, err := h.inspectionSvc.ValidateCheckOut(r.Context(), actorFrom(r).UserID, id, req.SignatureKey, req.Dispute)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (h *InspectionHandler) GetInspection(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	var side domain.InspectionSide
	switch mux.Vars(r)["side"] {
	case "checkin":
		side = domain.InspectionSideCheckIn
	case "checkout":
		side = domain.InspectionSideCheckOut
	default:
		writeError(w, domain.NewValidationError("side must be checkin or checkout"))
		return
	}
	record, err := h.inspectionSvc.GetInspection(r.Context(), actorFrom(r).UserID, id, side)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}
