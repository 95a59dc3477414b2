package slots

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"kopichat/live"
	"kopichat/metrics"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
)

// GET /api/slots/universe?start=9&end=23
func GetUniverse(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	start, end := 9, 23
	if v := r.URL.Query().Get("start"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			start = n
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			end = n
		}
	}
	if start < 0 || end > 24 || start >= end {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid hour range")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"labels": Universe(start, end)})
}

// GET /api/slots/day/:date
func GetSlotsByDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	if !ValidDate(date) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	labels, err := Store.Get(ctx, date)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": date, "slots": labels})
}

// PUT /api/slots/day/:date replaces the date's offered set wholesale.
func SetSlotsByDate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")

	var body struct {
		Slots []string `json:"slots"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.Slots == nil {
		body.Slots = []string{}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := Store.Set(ctx, date, body.Slots); err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	metrics.SlotSaves.Inc()
	live.BroadcastUpdate(date)

	saved, err := Store.Get(ctx, date)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": date, "slots": saved})
}
