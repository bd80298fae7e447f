package models

import (
	"encoding/json"
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// OrderLine is one incidental charge attached to a session. Historical
// documents sometimes stored a line as a bare string ("Juice") instead of an
// object, and older objects used item/drinkName for the name and cost for
// the price. All of those shapes must keep decoding; a bare string carries
// price 0.
type OrderLine struct {
	Name  string  `json:"name" bson:"name"`
	Price float64 `json:"price" bson:"price"`

	// Legacy marks a line decoded from a bare string document.
	Legacy bool `json:"-" bson:"-"`
}

func (o *OrderLine) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Name = s
		o.Price = 0
		o.Legacy = true
		return nil
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	o.fromMap(raw)
	return nil
}

func (o *OrderLine) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bson.TypeString:
		var s string
		if err := bson.UnmarshalValue(t, data, &s); err != nil {
			return err
		}
		o.Name = s
		o.Price = 0
		o.Legacy = true
		return nil
	case bson.TypeEmbeddedDocument:
		var raw bson.M
		if err := bson.Unmarshal(data, &raw); err != nil {
			return err
		}
		o.fromMap(raw)
		return nil
	default:
		// nulls and anything else decode to an empty zero-price line
		*o = OrderLine{}
		return nil
	}
}

func (o *OrderLine) fromMap(raw map[string]interface{}) {
	o.Legacy = false
	o.Name = firstString(raw, "name", "item", "drinkName")
	o.Price = CoerceNumber(firstPresent(raw, "price", "cost"))
}

func firstString(raw map[string]interface{}, keys ...string) string {
	for _, k := range keys {
		if v, ok := raw[k].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

func firstPresent(raw map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// CoerceNumber converts a loosely-typed stored value to a finite float64,
// falling back to 0. The store has historically held numbers as strings,
// ints, and doubles; billing treats anything unusable as zero rather than
// failing.
func CoerceNumber(v interface{}) float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		f, _ = n.Float64()
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
