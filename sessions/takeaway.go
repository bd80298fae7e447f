package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"mozakra/billing"
	"mozakra/db"
	"mozakra/globals"
	"mozakra/models"
	"mozakra/mq"
	"mozakra/utils"

	"github.com/julienschmidt/httprouter"
)

// CreateTakeaway records an over-the-counter order. There is no timed
// occupancy: the session is written already finished with start == end,
// zero rounded hours and zero hourly cost, so the whole bill is the order
// lines.
func CreateTakeaway(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		Orders []struct {
			Name  string   `json:"name"`
			Price *float64 `json:"price"`
		} `json:"orders"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if len(input.Orders) == 0 {
		http.Error(w, "order must have at least one item", http.StatusBadRequest)
		return
	}

	orders := make([]models.OrderLine, 0, len(input.Orders))
	for _, o := range input.Orders {
		if o.Name == "" {
			http.Error(w, "missing order name", http.StatusBadRequest)
			return
		}
		price := 0.0
		if o.Price != nil {
			price = models.CoerceNumber(*o.Price)
		}
		if price < 0 {
			http.Error(w, "price must be non-negative", http.StatusBadRequest)
			return
		}
		orders = append(orders, models.OrderLine{Name: o.Name, Price: price})
	}

	createdBy, _ := r.Context().Value(globals.UserIDKey).(string)
	now := time.Now().UTC()
	instant := now.Format(time.RFC3339)

	session := models.Session{
		SessionID:   genID(),
		FullName:    "----",
		PhoneNumber: "----",
		City:        "----",
		StudyYear:   "----",
		SessionType: models.SessionTakeAway,
		StartTime:   instant,
		EndTime:     instant,
		Finished:    true,
		Orders:      orders,
		CreatedBy:   createdBy,
		CreatedAt:   now.Unix(),
	}

	breakdown := billing.Compute(&session, billing.Rates{}, now)
	session.HoursRounded = &breakdown.HoursRounded
	session.PricePerHour = &breakdown.PricePerHour
	session.SessionCost = &breakdown.SessionCost
	session.OrdersTotal = &breakdown.OrdersTotal
	session.TotalCost = &breakdown.TotalCost

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.SessionsCollection.InsertOne(ctx, session); err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	mq.Emit("created", &session)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{
		"session":   session,
		"breakdown": breakdown,
	})
}
