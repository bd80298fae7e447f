package reports

import (
	"context"
	"net/http"
	"time"

	"mozakra/billing"
	"mozakra/db"
	"mozakra/models"
	"mozakra/rates"
	"mozakra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Summary is the admin dashboard's aggregate view of a date range.
type Summary struct {
	ActiveSessions int     `json:"activeSessions"`
	TotalSessions  int     `json:"totalSessions"`
	TotalHours     int     `json:"totalHours"`
	TotalRevenue   float64 `json:"totalRevenue"`
}

// GetSummary aggregates sessions in the from/to range (YYYY-MM-DD, both
// optional). Finished sessions contribute the totals stamped at their
// finish transition; open sessions are counted but never priced against the
// live clock, so a summary is stable no matter when it is rendered.
func GetSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	timeRange := bson.M{}
	if from := r.URL.Query().Get("from"); from != "" {
		if d, err := time.Parse("2006-01-02", from); err == nil {
			timeRange["$gte"] = d.UTC().Format(time.RFC3339)
		}
	}
	if to := r.URL.Query().Get("to"); to != "" {
		if d, err := time.Parse("2006-01-02", to); err == nil {
			timeRange["$lte"] = d.AddDate(0, 0, 1).UTC().Format(time.RFC3339)
		}
	}
	if len(timeRange) > 0 {
		filter["startTime"] = timeRange
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	currentRates, err := rates.Current(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load rates")
		return
	}

	cur, err := db.SessionsCollection.Find(ctx, filter)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "db error")
		return
	}
	defer cur.Close(ctx)

	var summary Summary
	for cur.Next(ctx) {
		var s models.Session
		if err := cur.Decode(&s); err != nil {
			continue
		}
		summary.TotalSessions++
		if !s.Finished {
			summary.ActiveSessions++
			continue
		}

		// legacy finished documents without stored fields are priced from
		// their fixed endTime, so this stays deterministic
		breakdown := billing.Resolve(&s, currentRates, billing.ParseInstant(s.EndTime))
		summary.TotalHours += breakdown.HoursRounded
		summary.TotalRevenue += breakdown.TotalCost
	}

	summary.TotalRevenue = billing.Round2(summary.TotalRevenue)
	utils.RespondWithJSON(w, http.StatusOK, summary)
}
