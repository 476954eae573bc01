// Package wire holds the raw payload types returned by the receipt backend.
//
// The backend has gone through several serializer generations: monetary
// fields may arrive as plain JSON numbers, numeric strings, nulls, or
// SQLAlchemy Decimal objects tagged as {"__Decimal__": true, "str": "123.45"}.
// Number absorbs all of them so the rest of the codebase only ever sees a
// finite float64.
package wire

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

// Number is a wire-format numeric value with a total, non-failing decoder.
// Malformed, missing, or non-finite input decodes to 0.
type Number float64

// taggedDecimal matches the legacy Decimal serialization emitted by old
// backend versions.
type taggedDecimal struct {
	Tag json.RawMessage `json:"__Decimal__"`
	Str string          `json:"str"`
}

// UnmarshalJSON implements json.Unmarshaler. It never returns an error:
// the display layer must survive any data quality issue upstream.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = 0

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*n = fromString(s)
	case '{':
		var td taggedDecimal
		if err := json.Unmarshal(data, &td); err != nil {
			return nil
		}
		if td.Tag != nil {
			*n = fromString(td.Str)
		}
	case 't', 'f', '[':
		// Booleans and arrays carry no numeric meaning.
	default:
		f, err := strconv.ParseFloat(string(data), 64)
		if err == nil {
			*n = Number(sanitize(f))
		}
	}
	return nil
}

// Float64 returns the normalized numeric value.
func (n Number) Float64() float64 {
	return sanitize(float64(n))
}

func fromString(s string) Number {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	f, _ := d.Float64()
	return Number(sanitize(f))
}

func sanitize(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
