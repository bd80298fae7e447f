package receipts

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"mozakra/billing"
	"mozakra/db"
	"mozakra/globals"
	"mozakra/middleware"
	"mozakra/models"
	"mozakra/rates"
	"mozakra/utils"

	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"
	"go.mongodb.org/mongo-driver/bson"
)

// Receipt records a printed bill so a scanned QR code can be checked later.
type Receipt struct {
	ReceiptID string  `json:"receiptid" bson:"receiptid"`
	SessionID string  `json:"sessionid" bson:"sessionid"`
	IssuedBy  string  `json:"issuedBy" bson:"issuedBy"`
	IssuedAt  int64   `json:"issuedAt" bson:"issuedAt"`
	TotalCost float64 `json:"totalCost" bson:"totalCost"`
}

// signPayload returns sessionid|receiptid|timestamp|signature.
func signPayload(sessionID, receiptID string, issuedAt int64) string {
	data := fmt.Sprintf("%s|%s|%d", sessionID, receiptID, issuedAt)
	h := hmac.New(sha256.New, globals.ReceiptSecret)
	h.Write([]byte(data))
	sig := base64.StdEncoding.EncodeToString(h.Sum(nil))
	return fmt.Sprintf("%s|%s", data, sig)
}

// PrintReceipt renders a finished session's bill as a PDF. The breakdown
// comes from the fields stamped at finish time; the receipt never reprices
// a closed session.
func PrintReceipt(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")

	claims, err := middleware.ValidateJWT(r.Header.Get("Authorization"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var session models.Session
	if err := db.SessionsCollection.FindOne(ctx, bson.M{"sessionid": sessionID}).Decode(&session); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if !session.Finished {
		http.Error(w, "session is still open", http.StatusConflict)
		return
	}

	// legacy finished documents without stored fields are priced from the
	// current rates and their fixed endTime, matching the summary report
	currentRates, err := rates.Current(ctx)
	if err != nil {
		http.Error(w, "failed to load rates", http.StatusInternalServerError)
		return
	}
	breakdown := billing.Resolve(&session, currentRates, billing.ParseInstant(session.EndTime))

	receipt := Receipt{
		ReceiptID: uuid.NewString(),
		SessionID: sessionID,
		IssuedBy:  claims.UserID,
		IssuedAt:  time.Now().Unix(),
		TotalCost: breakdown.TotalCost,
	}
	if _, err := db.ReceiptsCollection.InsertOne(ctx, receipt); err != nil {
		http.Error(w, "failed to record receipt", http.StatusInternalServerError)
		return
	}

	qrPayload := signPayload(receipt.SessionID, receipt.ReceiptID, receipt.IssuedAt)
	qrPNG, err := qrcode.Encode(qrPayload, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	pdf := buildPDF(&session, breakdown, qrPNG)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=receipt-"+sessionID+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func buildPDF(session *models.Session, breakdown billing.Breakdown, qrPNG []byte) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(40, 10, "Study Session Receipt")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 10, fmt.Sprintf("Name: %s", session.FullName))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Phone: %s", utils.FormatPhoneNumber(session.PhoneNumber)))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("City: %s  Study year: %s", session.City, session.StudyYear))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("Session type: %s", session.SessionType))
	pdf.Ln(8)

	start := billing.ParseInstant(session.StartTime)
	end := billing.ParseInstant(session.EndTime)
	pdf.Cell(0, 10, fmt.Sprintf("Start: %s", start.Format("02 Jan 2006 15:04")))
	pdf.Ln(8)
	pdf.Cell(0, 10, fmt.Sprintf("End: %s", end.Format("02 Jan 2006 15:04")))
	pdf.Ln(8)
	if !start.IsZero() && !end.IsZero() && end.After(start) {
		pdf.Cell(0, 10, fmt.Sprintf("Duration: %s", utils.FormatDuration(int64(end.Sub(start).Seconds()))))
		pdf.Ln(8)
	}
	pdf.Ln(4)

	if len(session.Orders) > 0 {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 10, "Orders")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 12)
		for _, o := range session.Orders {
			if o.Price > 0 {
				pdf.Cell(0, 8, fmt.Sprintf("  %s  %.2f EGP", o.Name, o.Price))
			} else {
				pdf.Cell(0, 8, fmt.Sprintf("  %s", o.Name))
			}
			pdf.Ln(7)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Hours (rounded up): %d", breakdown.HoursRounded))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Price per hour: %.2f EGP", breakdown.PricePerHour))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Session cost: %.2f EGP", breakdown.SessionCost))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Orders total: %.2f EGP", breakdown.OrdersTotal))
	pdf.Ln(7)
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, fmt.Sprintf("Total: %.2f EGP", breakdown.TotalCost))

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 150, 40, 40, 40, false, imageOpts, 0, "")

	return pdf
}

// VerifyReceipt checks a scanned QR payload: signature first, then the
// stored receipt record.
func VerifyReceipt(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	payload := r.URL.Query().Get("payload")
	parts := strings.Split(payload, "|")
	if len(parts) != 4 {
		utils.RespondWithError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	sessionID, receiptID := parts[0], parts[1]
	issuedAt, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "malformed payload")
		return
	}

	expected := signPayload(sessionID, receiptID, issuedAt)
	if !hmac.Equal([]byte(expected), []byte(payload)) {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid signature")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var receipt Receipt
	if err := db.ReceiptsCollection.FindOne(ctx, bson.M{"receiptid": receiptID, "sessionid": sessionID}).Decode(&receipt); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "receipt not found")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"ok": true, "receipt": receipt})
}
