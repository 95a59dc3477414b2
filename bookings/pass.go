package bookings

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"time"

	"kopichat/models"
	"kopichat/utils"

	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
)

func passSecret() []byte {
	if s := os.Getenv("PASS_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("kopichat-pass-secret")
}

// passPayload returns bookingID|date|time|signature so the front desk can
// verify a pass offline.
func passPayload(bookingID, date, timeLabel string) string {
	data := fmt.Sprintf("%s|%s|%s", bookingID, date, timeLabel)
	h := hmac.New(sha256.New, passSecret())
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// GET /api/bookings/item/:id/pass renders a printable PDF pass with a signed QR code.
// Only the booking owner may fetch it, and only once confirmed.
func PrintPass(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
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
	if b.Status != models.StatusConfirmed {
		utils.RespondWithError(w, http.StatusConflict, "pass is only available for confirmed bookings")
		return
	}

	qrPNG, err := qrcode.Encode(passPayload(b.ID, b.Date, b.Time), qrcode.Medium, 256)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Coffee Chat Pass")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Booking ID: %s", b.ID))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Guest: %s", b.UserName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("When: %s %s", b.Date, b.Time))
	pdf.Ln(8)
	if b.Location != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Where: %s", b.Location))
		pdf.Ln(8)
	}
	if b.HostName != "" {
		pdf.Cell(0, 10, fmt.Sprintf("Host: %s", b.HostName))
		pdf.Ln(8)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 20, 110, 60, 60, false, opts, 0, "")

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="pass-%s.pdf"`, b.ID))
	if err := pdf.Output(w); err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to render pass")
	}
}
