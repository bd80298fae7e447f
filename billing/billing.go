// Package billing holds the one computation the whole service exists for:
// turning a session's timestamps, category and order lines into a cost
// breakdown. It is pure — no clock, no store, no mutation — so the same
// snapshot always prices the same way.
package billing

import (
	"math"
	"time"

	"mozakra/models"
)

const msPerHour = 3600000

// Rates are the per-category hourly prices from the pricing document.
// Take-away has no hourly component and no configurable rate.
type Rates struct {
	BasicPerHour  float64 `json:"basicPricePerHour"`
	DrinksPerHour float64 `json:"drinksPricePerHour"`
}

// Breakdown is the priced result stamped onto a session at finish time.
type Breakdown struct {
	HoursRounded int     `json:"hoursRounded" bson:"hoursRounded"`
	PricePerHour float64 `json:"pricePerHour" bson:"pricePerHour"`
	SessionCost  float64 `json:"sessionCost" bson:"sessionCost"`
	OrdersTotal  float64 `json:"ordersTotal" bson:"ordersTotal"`
	TotalCost    float64 `json:"totalCost" bson:"totalCost"`
}

// Compute prices a session snapshot. For an open session the caller supplies
// now as the provisional end time. Elapsed time is billed in whole hours,
// always rounded up: a one-minute session bills as one hour. Malformed
// timestamps, negative elapsed time and junk prices all coerce to zero —
// historical documents contain every one of those shapes, and billing
// degrades to free rather than rejecting a record.
func Compute(session *models.Session, rates Rates, now time.Time) Breakdown {
	start := ParseInstant(session.StartTime)
	end := now
	if session.EndTime != "" {
		end = ParseInstant(session.EndTime)
	}

	hours := 0
	if session.SessionType != models.SessionTakeAway && !start.IsZero() && !end.IsZero() {
		elapsedMs := end.Sub(start).Milliseconds()
		if elapsedMs > 0 {
			hours = int(math.Ceil(float64(elapsedMs) / msPerHour))
		}
	}

	perHour := 0.0
	switch session.SessionType {
	case models.SessionDrinks:
		perHour = clampNonNeg(rates.DrinksPerHour)
	case models.SessionTakeAway:
		perHour = 0
	default:
		perHour = clampNonNeg(rates.BasicPerHour)
	}

	sessionCost := float64(hours) * perHour
	ordersTotal := OrdersTotal(session.Orders)

	return Breakdown{
		HoursRounded: hours,
		PricePerHour: perHour,
		SessionCost:  sessionCost,
		OrdersTotal:  ordersTotal,
		TotalCost:    Round2(sessionCost + ordersTotal),
	}
}

// Resolve returns the breakdown to show for a session. A finished session
// keeps the breakdown stamped at its finish transition; recomputing it from
// a later "now" would silently change history. Only open sessions (and
// finished legacy documents missing the stored fields) are priced live.
func Resolve(session *models.Session, rates Rates, now time.Time) Breakdown {
	if session.Finished && session.HasBreakdown() {
		return Breakdown{
			HoursRounded: *session.HoursRounded,
			PricePerHour: clampNonNeg(*session.PricePerHour),
			SessionCost:  clampNonNeg(*session.SessionCost),
			OrdersTotal:  clampNonNeg(*session.OrdersTotal),
			TotalCost:    clampNonNeg(*session.TotalCost),
		}
	}
	return Compute(session, rates, now)
}

// OrdersTotal sums the order lines. Legacy bare-string lines carry price 0,
// and negative or non-finite prices contribute nothing.
func OrdersTotal(orders []models.OrderLine) float64 {
	total := 0.0
	for _, o := range orders {
		total += clampNonNeg(o.Price)
	}
	return total
}

// ParseInstant parses the ISO-8601 text instants stored on session
// documents. Anything unparseable yields the zero time, which the caller
// treats as "no usable timestamp".
func ParseInstant(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Round2 rounds to two decimals, half up at the cent.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Floor(v*100+0.5) / 100
}

func clampNonNeg(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
