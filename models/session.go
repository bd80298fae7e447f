package models

// Session type values as stored in session documents. "take away" keeps the
// space because that is how historical documents were written.
const (
	SessionBasic    = "basic"
	SessionDrinks   = "drinks"
	SessionTakeAway = "take away"
)

// Session is one timed occupancy record for a student, billed by elapsed
// time plus optional order lines. Start and end times are ISO-8601 text,
// matching the historical session documents. The five breakdown
// pointers are set exactly once, at the finish transition, and are the
// source of truth for any later report or receipt.
type Session struct {
	SessionID   string      `json:"sessionid" bson:"sessionid"`
	FullName    string      `json:"fullName" bson:"fullName"`
	PhoneNumber string      `json:"phoneNumber" bson:"phoneNumber"`
	City        string      `json:"city" bson:"city"`
	StudyYear   string      `json:"studyYear" bson:"studyYear"`
	SessionType string      `json:"sessionType" bson:"sessionType"`
	StartTime   string      `json:"startTime" bson:"startTime"`
	EndTime     string      `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Finished    bool        `json:"finished" bson:"finished"`
	Orders      []OrderLine `json:"orders" bson:"orders"`
	CreatedBy   string      `json:"createdBy,omitempty" bson:"createdBy,omitempty"`
	CreatedAt   int64       `json:"createdAt" bson:"createdAt"`

	HoursRounded *int     `json:"hoursRounded,omitempty" bson:"hoursRounded,omitempty"`
	PricePerHour *float64 `json:"pricePerHour,omitempty" bson:"pricePerHour,omitempty"`
	SessionCost  *float64 `json:"sessionCost,omitempty" bson:"sessionCost,omitempty"`
	OrdersTotal  *float64 `json:"ordersTotal,omitempty" bson:"ordersTotal,omitempty"`
	TotalCost    *float64 `json:"totalCost,omitempty" bson:"totalCost,omitempty"`
}

// HasBreakdown reports whether all five stored cost fields are present.
func (s *Session) HasBreakdown() bool {
	return s.HoursRounded != nil && s.PricePerHour != nil &&
		s.SessionCost != nil && s.OrdersTotal != nil && s.TotalCost != nil
}

// Pricing is the single rate-configuration document (settings/pricing).
type Pricing struct {
	ID          string  `json:"-" bson:"_id"`
	BasicPrice  float64 `json:"basicPrice" bson:"basicPrice"`
	DrinksPrice float64 `json:"drinksPrice" bson:"drinksPrice"`
}
