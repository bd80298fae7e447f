package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"mozakra/db"
	"mozakra/models"
	"mozakra/mq"
	"mozakra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
)

// Order lines are mutable only while a session is open. Once finished the
// list is billing history and every edit is rejected with 409.

func decodeOrderInput(r *http.Request) (models.OrderLine, error) {
	var input struct {
		Name  string   `json:"name"`
		Price *float64 `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		return models.OrderLine{}, fmt.Errorf("invalid JSON")
	}
	if input.Name == "" {
		return models.OrderLine{}, fmt.Errorf("missing order name")
	}
	price := 0.0
	if input.Price != nil {
		price = models.CoerceNumber(*input.Price)
	}
	if price < 0 {
		return models.OrderLine{}, fmt.Errorf("price must be non-negative")
	}
	return models.OrderLine{Name: input.Name, Price: price}, nil
}

// loadOpenSession fetches a session and writes the proper error response if
// it is missing or already closed.
func loadOpenSession(ctx context.Context, w http.ResponseWriter, sessionID string) (*models.Session, bool) {
	var s models.Session
	if err := db.SessionsCollection.FindOne(ctx, bson.M{"sessionid": sessionID}).Decode(&s); err != nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return nil, false
	}
	if s.Finished {
		http.Error(w, "orders are read-only after finish", http.StatusConflict)
		return nil, false
	}
	return &s, true
}

func respondWithOrders(ctx context.Context, w http.ResponseWriter, sessionID string) {
	var updated models.Session
	if err := db.SessionsCollection.FindOne(ctx, bson.M{"sessionid": sessionID}).Decode(&updated); err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	mq.Emit("updated", &updated)
	utils.RespondWithJSON(w, http.StatusOK, map[string]any{"session": updated})
}

func AddOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	line, err := decodeOrderInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, ok := loadOpenSession(ctx, w, sessionID); !ok {
		return
	}

	_, err = db.SessionsCollection.UpdateOne(ctx,
		bson.M{"sessionid": sessionID, "finished": false},
		bson.M{"$push": bson.M{"orders": line}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	respondWithOrders(ctx, w, sessionID)
}

func UpdateOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	idx, err := strconv.Atoi(ps.ByName("idx"))
	if err != nil || idx < 0 {
		http.Error(w, "invalid order index", http.StatusBadRequest)
		return
	}
	line, err := decodeOrderInput(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, ok := loadOpenSession(ctx, w, sessionID)
	if !ok {
		return
	}
	if idx >= len(s.Orders) {
		http.Error(w, "order index out of range", http.StatusNotFound)
		return
	}

	_, err = db.SessionsCollection.UpdateOne(ctx,
		bson.M{"sessionid": sessionID, "finished": false},
		bson.M{"$set": bson.M{fmt.Sprintf("orders.%d", idx): line}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	respondWithOrders(ctx, w, sessionID)
}

func RemoveOrder(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sessionID := ps.ByName("sessionid")
	idx, err := strconv.Atoi(ps.ByName("idx"))
	if err != nil || idx < 0 {
		http.Error(w, "invalid order index", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s, ok := loadOpenSession(ctx, w, sessionID)
	if !ok {
		return
	}
	if idx >= len(s.Orders) {
		http.Error(w, "order index out of range", http.StatusNotFound)
		return
	}

	// remove-by-index: null the slot, then pull the null
	field := fmt.Sprintf("orders.%d", idx)
	_, err = db.SessionsCollection.UpdateOne(ctx,
		bson.M{"sessionid": sessionID, "finished": false},
		bson.M{"$unset": bson.M{field: 1}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	_, err = db.SessionsCollection.UpdateOne(ctx,
		bson.M{"sessionid": sessionID},
		bson.M{"$pull": bson.M{"orders": nil}},
	)
	if err != nil {
		http.Error(w, "db error", http.StatusInternalServerError)
		return
	}
	respondWithOrders(ctx, w, sessionID)
}
