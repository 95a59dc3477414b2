package availability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"kopichat/slots"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
)

const defaultHorizonDays = 30

// GET /api/availability/day/:date
func GetFreeSlots(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date := ps.ByName("date")
	if !slots.ValidDate(date) {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid date")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	free, err := Default.FreeSlots(ctx, date)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"date": date, "free": free})
}

// GET /api/availability/dates?days=30
func GetBookableDates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	days := defaultHorizonDays
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > 365 {
			utils.RespondWithError(w, http.StatusBadRequest, "invalid days")
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dates, err := Default.BookableDates(ctx, time.Now(), days)
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}
	if dates == nil {
		dates = []string{}
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"dates": dates})
}
