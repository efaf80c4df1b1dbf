// Package models defines data structures for Pulse
package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// Brokerage APIs transmit numeric fields inconsistently: sometimes as JSON
// numbers, sometimes as numeric strings. FlexFloat and FlexInt accept both and
// degrade to zero on absent, null, or unparseable values — a bad field never
// fails the decode of its enclosing record.

// FlexFloat is a float64 that unmarshals from a JSON number or numeric string.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			*f = FlexFloat(v)
		}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*f = FlexFloat(v)
	}
	return nil
}

// Float64 returns the value as a plain float64.
func (f FlexFloat) Float64() float64 {
	return float64(f)
}

// FlexInt is an int that unmarshals from a JSON integer or numeric string.
type FlexInt int

func (i *FlexInt) UnmarshalJSON(data []byte) error {
	*i = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if v, err := strconv.Atoi(s); err == nil {
			*i = FlexInt(v)
		}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err == nil {
		*i = FlexInt(v)
	}
	return nil
}

// Int returns the value as a plain int.
func (i FlexInt) Int() int {
	return int(i)
}

// ParseFillTime parses an ISO-8601 fill timestamp with optional fractional
// seconds. An unparseable timestamp falls back to the current wall-clock time
// rather than zero, so a bad date from the API never produces a zero-dated
// fill in the trade list. Intentional; do not tighten without a product
// decision.
func ParseFillTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Now()
}
