package rates

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"mozakra/billing"
	"mozakra/db"
	"mozakra/models"
	"mozakra/rdx"
	"mozakra/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	pricingDocID    = "pricing"
	pricingCacheKey = "pricing"
	pricingCacheTTL = time.Minute
)

// load fetches the pricing document, creating a zero-rate one on first
// read. Missing or malformed rate values coerce to 0 — billing degrades to
// free-of-charge instead of failing.
func load(ctx context.Context) (models.Pricing, error) {
	var raw bson.M
	err := db.SettingsCollection.FindOne(ctx, bson.M{"_id": pricingDocID}).Decode(&raw)
	if err == mongo.ErrNoDocuments {
		p := models.Pricing{ID: pricingDocID}
		if _, insErr := db.SettingsCollection.InsertOne(ctx, p); insErr != nil {
			log.Printf("pricing init failed: %v", insErr)
		}
		return p, nil
	}
	if err != nil {
		return models.Pricing{}, err
	}
	return models.Pricing{
		ID:          pricingDocID,
		BasicPrice:  models.CoerceNumber(raw["basicPrice"]),
		DrinksPrice: models.CoerceNumber(raw["drinksPrice"]),
	}, nil
}

// Current returns the hourly rates for billing, served from the Redis cache
// when fresh.
func Current(ctx context.Context) (billing.Rates, error) {
	if cached, err := rdx.RdxGet(pricingCacheKey); err == nil && cached != "" {
		var p models.Pricing
		if json.Unmarshal([]byte(cached), &p) == nil {
			return billing.Rates{BasicPerHour: p.BasicPrice, DrinksPerHour: p.DrinksPrice}, nil
		}
	}

	p, err := load(ctx)
	if err != nil {
		return billing.Rates{}, err
	}

	if data, err := json.Marshal(p); err == nil {
		if err := rdx.SetWithExpiry(pricingCacheKey, string(data), pricingCacheTTL); err != nil {
			log.Printf("pricing cache write failed: %v", err)
		}
	}

	return billing.Rates{BasicPerHour: p.BasicPrice, DrinksPerHour: p.DrinksPrice}, nil
}

func GetPricing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p, err := load(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load pricing")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func UpdatePricing(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var input struct {
		BasicPrice  *float64 `json:"basicPrice"`
		DrinksPrice *float64 `json:"drinksPrice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	current, err := load(ctx)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to load pricing")
		return
	}

	if input.BasicPrice != nil {
		current.BasicPrice = models.CoerceNumber(*input.BasicPrice)
	}
	if input.DrinksPrice != nil {
		current.DrinksPrice = models.CoerceNumber(*input.DrinksPrice)
	}
	if current.BasicPrice < 0 || current.DrinksPrice < 0 {
		utils.RespondWithError(w, http.StatusBadRequest, "rates must be non-negative")
		return
	}

	_, err = db.SettingsCollection.UpdateOne(ctx,
		bson.M{"_id": pricingDocID},
		bson.M{"$set": bson.M{"basicPrice": current.BasicPrice, "drinksPrice": current.DrinksPrice}},
	)
	if err != nil {
		utils.RespondWithError(w, http.StatusInternalServerError, "failed to update pricing")
		return
	}

	if err := rdx.RdxDel(pricingCacheKey); err != nil {
		log.Printf("pricing cache invalidation failed: %v", err)
	}

	utils.RespondWithJSON(w, http.StatusOK, current)
}
