package billing

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"mozakra/models"
)

var t0 = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

func sessionWith(kind string, dur time.Duration, orders []models.OrderLine) *models.Session {
	return &models.Session{
		SessionID:   "12345",
		SessionType: kind,
		StartTime:   t0.Format(time.RFC3339),
		EndTime:     t0.Add(dur).Format(time.RFC3339),
		Orders:      orders,
	}
}

func TestCeilingRule(t *testing.T) {
	rates := Rates{BasicPerHour: 20}
	cases := []struct {
		dur  time.Duration
		want int
	}{
		{1 * time.Second, 1},
		{1 * time.Minute, 1},
		{59 * time.Minute, 1},
		{60 * time.Minute, 1},
		{61 * time.Minute, 2},
		{90 * time.Minute, 2},
		{120 * time.Minute, 2},
		{121 * time.Minute, 3},
		{0, 0},
	}
	for _, c := range cases {
		got := Compute(sessionWith(models.SessionBasic, c.dur, nil), rates, t0)
		if got.HoursRounded != c.want {
			t.Errorf("duration %v: hoursRounded = %d, want %d", c.dur, got.HoursRounded, c.want)
		}
	}
}

func TestTakeAwayOverride(t *testing.T) {
	rates := Rates{BasicPerHour: 20, DrinksPerHour: 30}
	orders := []models.OrderLine{{Name: "Coffee", Price: 25}, {Name: "Cake", Price: 40}}

	// even with a long elapsed time, take-away bills zero hours
	b := Compute(sessionWith(models.SessionTakeAway, 5*time.Hour, orders), rates, t0)
	if b.HoursRounded != 0 || b.SessionCost != 0 || b.PricePerHour != 0 {
		t.Fatalf("take-away billed time: %+v", b)
	}
	if b.OrdersTotal != 65 || b.TotalCost != 65 {
		t.Fatalf("take-away orders: got %v total %v, want 65", b.OrdersTotal, b.TotalCost)
	}
}

func TestCategoryPricing(t *testing.T) {
	rates := Rates{BasicPerHour: 20, DrinksPerHour: 30}
	if got := Compute(sessionWith(models.SessionBasic, time.Hour, nil), rates, t0).PricePerHour; got != 20 {
		t.Errorf("basic pricePerHour = %v, want 20", got)
	}
	if got := Compute(sessionWith(models.SessionDrinks, time.Hour, nil), rates, t0).PricePerHour; got != 30 {
		t.Errorf("drinks pricePerHour = %v, want 30", got)
	}
	if got := Compute(sessionWith(models.SessionTakeAway, time.Hour, nil), rates, t0).PricePerHour; got != 0 {
		t.Errorf("take-away pricePerHour = %v, want 0", got)
	}
}

func TestTypicalSessions(t *testing.T) {
	// 90 min basic at 20/hr rounds up to 2 hours
	b := Compute(sessionWith(models.SessionBasic, 90*time.Minute, nil), Rates{BasicPerHour: 20}, t0)
	if b.HoursRounded != 2 || b.SessionCost != 40 || b.OrdersTotal != 0 || b.TotalCost != 40 {
		t.Errorf("90min basic: %+v", b)
	}

	// 45 min drinks at 30/hr plus a 15 EGP tea
	b = Compute(sessionWith(models.SessionDrinks, 45*time.Minute, []models.OrderLine{{Name: "Tea", Price: 15}}),
		Rates{DrinksPerHour: 30}, t0)
	if b.HoursRounded != 1 || b.SessionCost != 30 || b.OrdersTotal != 15 || b.TotalCost != 45 {
		t.Errorf("45min drinks: %+v", b)
	}
}

func TestNegativeElapsedClamped(t *testing.T) {
	s := sessionWith(models.SessionBasic, -5*time.Minute, nil)
	b := Compute(s, Rates{BasicPerHour: 20}, t0)
	if b.HoursRounded != 0 || b.SessionCost != 0 || b.TotalCost != 0 {
		t.Errorf("clock skew not clamped: %+v", b)
	}
}

func TestOpenSessionUsesNow(t *testing.T) {
	s := &models.Session{
		SessionType: models.SessionBasic,
		StartTime:   t0.Format(time.RFC3339),
	}
	b := Compute(s, Rates{BasicPerHour: 20}, t0.Add(30*time.Minute))
	if b.HoursRounded != 1 || b.SessionCost != 20 {
		t.Errorf("open session: %+v", b)
	}
}

func TestMalformedInputsCoerceToZero(t *testing.T) {
	s := &models.Session{
		SessionType: models.SessionBasic,
		StartTime:   "not-a-timestamp",
		EndTime:     "also-garbage",
		Orders:      []models.OrderLine{{Name: "?", Price: math.NaN()}, {Name: "??", Price: -10}},
	}
	b := Compute(s, Rates{BasicPerHour: math.Inf(1), DrinksPerHour: -5}, t0)
	for name, v := range map[string]float64{
		"pricePerHour": b.PricePerHour,
		"sessionCost":  b.SessionCost,
		"ordersTotal":  b.OrdersTotal,
		"totalCost":    b.TotalCost,
	} {
		if v != 0 {
			t.Errorf("%s = %v, want 0", name, v)
		}
	}
	if b.HoursRounded != 0 {
		t.Errorf("hoursRounded = %d, want 0", b.HoursRounded)
	}
}

func TestMissingRatesBillFree(t *testing.T) {
	b := Compute(sessionWith(models.SessionDrinks, 2*time.Hour, nil), Rates{}, t0)
	if b.HoursRounded != 2 || b.SessionCost != 0 || b.TotalCost != 0 {
		t.Errorf("missing rates: %+v", b)
	}
}

func TestIdempotence(t *testing.T) {
	s := sessionWith(models.SessionDrinks, 95*time.Minute, []models.OrderLine{{Name: "Tea", Price: 12.5}})
	rates := Rates{BasicPerHour: 20, DrinksPerHour: 30}
	first := Compute(s, rates, t0)
	second := Compute(s, rates, t0)
	if first != second {
		t.Errorf("not idempotent: %+v vs %+v", first, second)
	}
}

func TestLegacyStringOrders(t *testing.T) {
	var orders []models.OrderLine
	if err := json.Unmarshal([]byte(`["Juice", {"name":"Tea","price":15}]`), &orders); err != nil {
		t.Fatal(err)
	}
	if orders[0].Name != "Juice" || orders[0].Price != 0 || !orders[0].Legacy {
		t.Fatalf("legacy line decoded as %+v", orders[0])
	}
	if got := OrdersTotal(orders); got != 15 {
		t.Errorf("ordersTotal = %v, want 15 (legacy line contributes 0)", got)
	}
}

func TestResolvePrefersStoredBreakdown(t *testing.T) {
	hours := 2
	per := 20.0
	sc := 40.0
	ot := 15.0
	tc := 55.0
	s := sessionWith(models.SessionBasic, 90*time.Minute, nil)
	s.Finished = true
	s.HoursRounded = &hours
	s.PricePerHour = &per
	s.SessionCost = &sc
	s.OrdersTotal = &ot
	s.TotalCost = &tc

	// rates changed since finish; stored fields must win
	b := Resolve(s, Rates{BasicPerHour: 99}, t0.Add(24*time.Hour))
	if b.SessionCost != 40 || b.TotalCost != 55 || b.PricePerHour != 20 {
		t.Errorf("resolve recomputed a finished session: %+v", b)
	}
}

func TestResolveLegacyFinishedUsesRatesAndEndTime(t *testing.T) {
	// finished document predating stored breakdown fields: priced from the
	// supplied rates and its fixed endTime, identically in every view
	s := sessionWith(models.SessionBasic, 90*time.Minute, nil)
	s.Finished = true

	rates := Rates{BasicPerHour: 20}
	first := Resolve(s, rates, ParseInstant(s.EndTime))
	second := Resolve(s, rates, ParseInstant(s.EndTime).Add(48*time.Hour))
	if first.HoursRounded != 2 || first.SessionCost != 40 || first.TotalCost != 40 {
		t.Errorf("legacy finished session: %+v", first)
	}
	if first != second {
		t.Errorf("legacy pricing drifted between renders: %+v vs %+v", first, second)
	}
}

func TestRound2HalfUp(t *testing.T) {
	cases := map[float64]float64{
		0.125:   0.13,
		40.0:    40.0,
		0.004:   0.0,
		0.005:   0.01,
		19.9949: 19.99,
	}
	for in, want := range cases {
		if got := Round2(in); got != want {
			t.Errorf("Round2(%v) = %v, want %v", in, got, want)
		}
	}
}
