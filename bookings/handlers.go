package bookings

import (
	"context"
	"net/http"
	"time"

	"kopichat/live"
	"kopichat/metrics"
	"kopichat/models"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /api/bookings/mine lists the caller's own bookings, newest first.
func ListMine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "unauthenticated")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	list, err := Store.ByUser(ctx, userID)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if list == nil {
		list = []models.Booking{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"bookings": list})
}

// DELETE /api/bookings/item/:id is self-service cancellation: removes the record
// entirely rather than marking it cancelled.
func DeleteMine(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	id := ps.ByName("bookingId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	b, err := Store.Get(ctx, id)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if b.UserID != userID {
		utils.RespondWithError(w, http.StatusForbidden, "not your booking")
		return
	}

	if err := Store.Delete(ctx, id); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	metrics.BookingsDeleted.Inc()
	live.BroadcastUpdate(b.Date)
	w.WriteHeader(http.StatusNoContent)
}
