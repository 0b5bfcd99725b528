package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

type Product struct {
	ID          string   `json:"id" bson:"_id"`
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description" bson:"description"`
	Price       Price    `json:"price" bson:"price"`
	Colors      []string `json:"colors" bson:"colors"`
	Sizes       []string `json:"sizes" bson:"sizes"`
	Category    string   `json:"category" bson:"category"`
	ImageURL    string   `json:"imageUrl" bson:"imageUrl"`
}

// HasColor reports whether c is one of the declared colors.
func (p Product) HasColor(c string) bool {
	return contains(p.Colors, c)
}

func (p Product) HasSize(s string) bool {
	return contains(p.Sizes, s)
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// Price is a unit price exactly as the catalog supplied it. Catalog documents
// carry prices as numbers or as numeric-looking strings, so the text is kept
// and parsed on use.
type Price struct {
	raw string
}

func NewPrice(v int64) Price {
	return Price{raw: strconv.FormatInt(v, 10)}
}

func PriceFromDecimal(d decimal.Decimal) Price {
	return Price{raw: d.String()}
}

func ParsePrice(s string) Price {
	return Price{raw: strings.TrimSpace(s)}
}

// Decimal returns the numeric value, or zero when the text is not a number.
func (p Price) Decimal() decimal.Decimal {
	d, ok := p.parse()
	if !ok {
		return decimal.Zero
	}
	return d
}

// Valid reports whether the price parses as a number.
func (p Price) Valid() bool {
	_, ok := p.parse()
	return ok
}

func (p Price) String() string {
	return p.raw
}

func (p Price) parse() (decimal.Decimal, bool) {
	if p.raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(p.raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (p Price) MarshalJSON() ([]byte, error) {
	if p.raw == "" {
		return []byte("null"), nil
	}
	if p.Valid() && json.Valid([]byte(p.raw)) {
		return []byte(p.raw), nil
	}
	return json.Marshal(p.raw)
}

func (p *Price) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		p.raw = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		p.raw = strings.TrimSpace(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("price: %w", err)
		}
		p.raw = n.String()
	}
	return nil
}

// MarshalBSONValue stores the price as a string so no precision is lost.
func (p Price) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if p.raw == "" {
		return bson.MarshalValue(nil)
	}
	return bson.MarshalValue(p.raw)
}

func (p *Price) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.Null, bsontype.Undefined:
		p.raw = ""
	case bsontype.String:
		p.raw = strings.TrimSpace(rv.StringValue())
	case bsontype.Double:
		p.raw = strconv.FormatFloat(rv.Double(), 'f', -1, 64)
	case bsontype.Int32:
		p.raw = strconv.FormatInt(int64(rv.Int32()), 10)
	case bsontype.Int64:
		p.raw = strconv.FormatInt(rv.Int64(), 10)
	case bsontype.Decimal128:
		p.raw = rv.Decimal128().String()
	default:
		return fmt.Errorf("price: unsupported bson type %s", t)
	}
	return nil
}
