package admin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"kopichat/bookings"
	"kopichat/live"
	"kopichat/metrics"
	"kopichat/models"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// ListBookings returns the whole ledger, newest first.
func ListBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := bookings.Store.All(r.Context())
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if all == nil {
		all = []models.Booking{}
	}
	utils.RespondWithJSON(w, http.StatusOK, all)
}

// CreateBooking records a booking on any user's behalf. Missing host fields
// fall back to the venue defaults; the status may be set to any stage of the
// lifecycle directly.
func CreateBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var b models.Booking
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	applyDefaults(&b, utils.GetUserIDFromRequest(r))
	if b.Status == "" {
		b.Status = models.StatusPending
	}
	if err := bookings.Validate(b); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	saved, err := bookings.Store.Create(r.Context(), b)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	metrics.BookingsCreated.Inc()
	live.BroadcastUpdate(saved.Date)
	utils.RespondWithJSON(w, http.StatusCreated, saved)
}

// UpdateBooking replaces every editable field of a booking. Admins are not
// bound by the user-facing status lock; completed and cancelled bookings can
// be reopened from here.
func UpdateBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("bookingId")
	existing, err := bookings.Store.Get(r.Context(), id)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	var b models.Booking
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	applyDefaults(&b, existing.HostID)
	if b.Status == "" {
		b.Status = existing.Status
	}
	b.CreatedAt = existing.CreatedAt
	if err := bookings.Validate(b); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	saved, err := bookings.Store.Replace(r.Context(), id, b)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	live.BroadcastUpdate(saved.Date)
	if existing.Date != saved.Date {
		live.BroadcastUpdate(existing.Date)
	}
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// PatchBookingStatus moves a booking to any lifecycle stage.
func PatchBookingStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if !models.ValidStatus(req.Status) {
		utils.RespondWithStoreError(w, fmt.Errorf("unknown status %q: %w", req.Status, models.ErrValidation))
		return
	}
	saved, err := bookings.Store.Patch(r.Context(), ps.ByName("bookingId"), bson.M{"status": req.Status})
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	live.BroadcastUpdate(saved.Date)
	utils.RespondWithJSON(w, http.StatusOK, saved)
}

// DeleteBooking removes the record outright. Cancelling is the softer path;
// deletion is for records that should never have existed.
func DeleteBooking(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("bookingId")
	existing, err := bookings.Store.Get(r.Context(), id)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if err := bookings.Store.Delete(r.Context(), id); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	metrics.BookingsDeleted.Inc()
	live.BroadcastUpdate(existing.Date)
	w.WriteHeader(http.StatusNoContent)
}

// applyDefaults fills the venue fields and, when no host was named, falls
// back to hostID: the acting admin on create, the stored host on update.
func applyDefaults(b *models.Booking, hostID string) {
	if b.HostID == "" {
		b.HostID = hostID
	}
	if b.HostName == "" {
		b.HostName = models.DefaultHostName
	}
	if b.Location == "" {
		b.Location = models.DefaultLocation
	}
	if b.Title == "" {
		b.Title = models.DefaultTitle
	}
}
