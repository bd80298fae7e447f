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
	"mozakra/rates"
	"mozakra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func genID() string {
	return utils.GenerateRandomDigitString(16)
}

// CreateSession opens a timed session for a walk-in student.
func CreateSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		FullName    string `json:"fullName"`
		PhoneNumber string `json:"phoneNumber"`
		City        string `json:"city"`
		StudyYear   string `json:"studyYear"`
		SessionType string `json:"sessionType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if input.FullName == "" || input.PhoneNumber == "" || input.City == "" || input.StudyYear == "" {
		http.Error(w, "missing required fields", http.StatusBadRequest)
		return
	}
	if !utils.ValidatePhoneNumber(input.PhoneNumber) {
		http.Error(w, "invalid phone number", http.StatusBadRequest)
		return
	}

	switch input.SessionType {
	case "":
		input.SessionType = models.SessionBasic
	case models.SessionBasic, models.SessionDrinks:
	default:
		// take-away orders go through their own endpoint
		http.Error(w, "invalid session type", http.StatusBadRequest)
		return
	}

	createdBy, _ := r.Context().Value(globals.UserIDKey).(string)
	now := time.Now().UTC()

	session := models.Session{
		SessionID:   genID(),
		FullName:    input.FullName,
		PhoneNumber: input.PhoneNumber,
		City:        input.City,
		StudyYear:   input.StudyYear,
		SessionType: input.SessionType,
		StartTime:   now.Format(time.RFC3339),
		Finished:    false,
		Orders:      []models.OrderLine{},
		CreatedBy:   createdBy,
		CreatedAt:   now.Unix(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.SessionsCollection.InsertOne(ctx, session); err != nil {
		http.Error(w, "db insert failed", http.StatusInternalServerError)
		return
	}

	mq.Emit("created", &session)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]any{"session": session})
}

// ListSessions returns sessions, newest first. Supports ?active=true,
// free-text q over name/city, and a from/to date range (YYYY-MM-DD).
func ListSessions(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	filter := bson.M{}
	if r.URL.Query().Get("active") == "true" {
		filter["finished"] = false
	}
	if q := r.URL.Query().Get("q"); q != "" {
		filter["$or"] = []bson.M{
			{"fullName": bson.M{"$regex": q, "$options": "i"}},
			{"city": bson.M{"$regex": q, "$options": "i"}},
		}
	}
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cur, err := db.SessionsCollection.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}}))
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	defer cur.Close(ctx)

	sessions := []models.Session{}
	for cur.Next(ctx) {
		var s models.Session
		if err := cur.Decode(&s); err != nil {
			continue
		}
		sessions = append(sessions, s)
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"sessions": sessions})
}

func GetSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	if sessionID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	var s models.Session
	if err := db.SessionsCollection.FindOne(ctx, bson.M{"sessionid": sessionID}).Decode(&s); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"session": s})
}

// FinishSession closes an open session exactly once: it reads the current
// rates, computes the breakdown, and stamps endTime plus the five cost
// fields in a single update guarded by finished:false. A session that is
// already closed (or closed by a concurrent request) yields 409.
func FinishSession(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	if sessionID == "" {
		http.Error(w, "missing id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var s models.Session
	if err := db.SessionsCollection.FindOne(ctx, bson.M{"sessionid": sessionID}).Decode(&s); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}
	if s.Finished {
		http.Error(w, "session already finished", http.StatusConflict)
		return
	}

	currentRates, err := rates.Current(ctx)
	if err != nil {
		http.Error(w, "failed to load rates", http.StatusInternalServerError)
		return
	}

	now := time.Now().UTC()
	s.EndTime = now.Format(time.RFC3339)
	breakdown := billing.Compute(&s, currentRates, now)

	res := db.SessionsCollection.FindOneAndUpdate(ctx,
		bson.M{"sessionid": sessionID, "finished": false},
		bson.M{"$set": bson.M{
			"endTime":      s.EndTime,
			"finished":     true,
			"hoursRounded": breakdown.HoursRounded,
			"pricePerHour": breakdown.PricePerHour,
			"sessionCost":  breakdown.SessionCost,
			"ordersTotal":  breakdown.OrdersTotal,
			"totalCost":    breakdown.TotalCost,
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var updated models.Session
	if err := res.Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			http.Error(w, "session already finished", http.StatusConflict)
			return
		}
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}

	mq.Emit("finished", &updated)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"session":   updated,
		"breakdown": breakdown,
	})
}
