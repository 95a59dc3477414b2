package admin

import (
	"fmt"
	"net/http"
	"time"

	"kopichat/bookings"
	"kopichat/models"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{
	"ID", "Date", "Time", "Status", "Guest", "Phone", "Host", "Location", "Title", "Notes", "Created", "Updated",
}

// ExportBookings streams the whole ledger as an xlsx workbook, one row per
// booking, newest first.
func ExportBookings(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	all, err := bookings.Store.All(r.Context())
	if err != nil {
		utils.RespondWithStoreError(w, err)
		return
	}

	f, err := buildWorkbook(all)
	if err != nil {
		log.Error().Err(err).Msg("export workbook build failed")
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to build export")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	if err := f.Write(w); err != nil {
		log.Error().Err(err).Msg("export write failed")
	}
}

func buildWorkbook(all []models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range exportColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, err
		}
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(sheet, start, end, style)
	}

	for rowIdx, b := range all {
		updated := ""
		if b.UpdatedAt != nil {
			updated = b.UpdatedAt.Format(time.RFC3339)
		}
		row := []interface{}{
			b.ID, b.Date, b.Time, b.Status, b.UserName, b.UserPhone,
			b.HostName, b.Location, b.Title, b.Notes,
			b.CreatedAt.Format(time.RFC3339), updated,
		}
		for colIdx, val := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return nil, err
			}
		}
	}
	return f, nil
}
