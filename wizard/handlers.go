package wizard

import (
	"encoding/json"
	"errors"
	"net/http"

	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
)

// Handlers exposes the wizard over HTTP. All endpoints require a signed-in
// user and operate on that user's own flow.
type Handlers struct {
	W *Wizard
}

func NewHandlers(w *Wizard) *Handlers {
	return &Handlers{W: w}
}

type dateRequest struct {
	Date string `json:"date"`
}

type timeRequest struct {
	Time string `json:"time"`
}

type confirmRequest struct {
	Phone string `json:"phone"`
}

func (h *Handlers) Current(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.Current(r.Context(), userID)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) SelectDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req dateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.SelectDate(r.Context(), userID, req.Date)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) SelectTime(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req timeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.SelectTime(r.Context(), userID, req.Time)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) Back(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.Back(r.Context(), userID)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	userID := utils.GetUserIDFromRequest(r)
	userName := utils.GetUsernameFromRequest(r)
	v, err := h.W.Confirm(r.Context(), userID, userName, req.Phone)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, v)
}

func (h *Handlers) Reset(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.Reset(r.Context(), userID)
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func (h *Handlers) StartEdit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	v, err := h.W.StartEdit(r.Context(), userID, ps.ByName("bookingId"))
	if err != nil {
		respondWizardError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, v)
}

func respondWizardError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrBusy):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrNotOwner):
		utils.RespondWithError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, ErrLocked):
		utils.RespondWithError(w, http.StatusConflict, err.Error())
	default:
		utils.RespondWithStoreError(w, err)
	}
}
