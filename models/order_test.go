package models

import (
	"encoding/json"
	"math"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestOrderLineJSONShapes(t *testing.T) {
	var orders []OrderLine
	payload := `[
		"Juice",
		{"name":"Tea","price":15},
		{"item":"Coffee","cost":25},
		{"drinkName":"Cake","price":"40"},
		{"name":"Water"}
	]`
	if err := json.Unmarshal([]byte(payload), &orders); err != nil {
		t.Fatal(err)
	}

	want := []OrderLine{
		{Name: "Juice", Price: 0, Legacy: true},
		{Name: "Tea", Price: 15},
		{Name: "Coffee", Price: 25},
		{Name: "Cake", Price: 40},
		{Name: "Water", Price: 0},
	}
	if len(orders) != len(want) {
		t.Fatalf("decoded %d lines, want %d", len(orders), len(want))
	}
	for i := range want {
		if orders[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, orders[i], want[i])
		}
	}
}

func TestOrderLineBSONShapes(t *testing.T) {
	doc, err := bson.Marshal(bson.M{
		"orders": bson.A{
			"Juice",
			bson.M{"name": "Tea", "price": 15},
			bson.M{"item": "Coffee", "cost": 25.5},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	var out struct {
		Orders []OrderLine `bson:"orders"`
	}
	if err := bson.Unmarshal(doc, &out); err != nil {
		t.Fatal(err)
	}

	if len(out.Orders) != 3 {
		t.Fatalf("decoded %d lines, want 3", len(out.Orders))
	}
	if out.Orders[0].Name != "Juice" || out.Orders[0].Price != 0 || !out.Orders[0].Legacy {
		t.Errorf("legacy string line: %+v", out.Orders[0])
	}
	if out.Orders[1].Name != "Tea" || out.Orders[1].Price != 15 {
		t.Errorf("object line: %+v", out.Orders[1])
	}
	if out.Orders[2].Name != "Coffee" || out.Orders[2].Price != 25.5 {
		t.Errorf("aliased line: %+v", out.Orders[2])
	}
}

func TestCoerceNumber(t *testing.T) {
	cases := []struct {
		in   interface{}
		want float64
	}{
		{15.5, 15.5},
		{int32(7), 7},
		{int64(9), 9},
		{"12.25", 12.25},
		{"junk", 0},
		{nil, 0},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{true, 0},
	}
	for _, c := range cases {
		if got := CoerceNumber(c.in); got != c.want {
			t.Errorf("CoerceNumber(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}
