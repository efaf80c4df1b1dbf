package models

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// Credentials is an opaque Alpaca key/secret pair. Immutable once set on the
// sync service; a zero value means unauthenticated and all fetches are no-ops.
type Credentials struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
}

// IsZero reports whether no credentials are set.
func (c Credentials) IsZero() bool {
	return c.Key == "" && c.Secret == ""
}

// Trade is a single executed fill reported by the brokerage.
type Trade struct {
	ID       string    `json:"id"`
	Symbol   string    `json:"symbol"`
	Side     string    `json:"side"` // "buy" or "sell"
	Qty      float64   `json:"qty"`
	Price    float64   `json:"price"`
	FilledAt time.Time `json:"filled_at"`
}

func (t *Trade) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID              string    `json:"id"`
		Symbol          string    `json:"symbol"`
		Side            string    `json:"side"`
		Qty             FlexFloat `json:"qty"`
		Price           FlexFloat `json:"price"`
		TransactionTime string    `json:"transaction_time"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ID = raw.ID
	t.Symbol = raw.Symbol
	t.Side = raw.Side
	t.Qty = raw.Qty.Float64()
	t.Price = raw.Price.Float64()
	t.FilledAt = ParseFillTime(raw.TransactionTime)
	return nil
}

// AccountSnapshot is a full-replace read of the account summary.
type AccountSnapshot struct {
	Equity     float64 `json:"equity"`
	Cash       float64 `json:"cash"`
	LastEquity float64 `json:"last_equity"`

	BuyingPower              float64 `json:"buying_power"`
	RegTBuyingPower          float64 `json:"regt_buying_power"`
	DaytradingBuyingPower    float64 `json:"daytrading_buying_power"`
	EffectiveBuyingPower     float64 `json:"effective_buying_power"`
	NonMarginableBuyingPower float64 `json:"non_marginable_buying_power"`

	InitialMargin     float64 `json:"initial_margin"`
	MaintenanceMargin float64 `json:"maintenance_margin"`

	AccruedFees   float64 `json:"accrued_fees"`
	DaytradeCount int     `json:"daytrade_count"`

	LongMarketValue     float64 `json:"long_market_value"`
	ShortMarketValue    float64 `json:"short_market_value"`
	PositionMarketValue float64 `json:"position_market_value"`
}

func (a *AccountSnapshot) UnmarshalJSON(data []byte) error {
	var raw struct {
		Equity     FlexFloat `json:"equity"`
		Cash       FlexFloat `json:"cash"`
		LastEquity FlexFloat `json:"last_equity"`

		BuyingPower              FlexFloat `json:"buying_power"`
		RegTBuyingPower          FlexFloat `json:"regt_buying_power"`
		DaytradingBuyingPower    FlexFloat `json:"daytrading_buying_power"`
		EffectiveBuyingPower     FlexFloat `json:"effective_buying_power"`
		NonMarginableBuyingPower FlexFloat `json:"non_marginable_buying_power"`

		InitialMargin     FlexFloat `json:"initial_margin"`
		MaintenanceMargin FlexFloat `json:"maintenance_margin"`

		AccruedFees   FlexFloat `json:"accrued_fees"`
		DaytradeCount FlexInt   `json:"daytrade_count"`

		LongMarketValue     FlexFloat       `json:"long_market_value"`
		ShortMarketValue    FlexFloat       `json:"short_market_value"`
		PositionMarketValue json.RawMessage `json:"position_market_value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.Equity = raw.Equity.Float64()
	a.Cash = raw.Cash.Float64()
	a.LastEquity = raw.LastEquity.Float64()
	a.BuyingPower = raw.BuyingPower.Float64()
	a.RegTBuyingPower = raw.RegTBuyingPower.Float64()
	a.DaytradingBuyingPower = raw.DaytradingBuyingPower.Float64()
	a.EffectiveBuyingPower = raw.EffectiveBuyingPower.Float64()
	a.NonMarginableBuyingPower = raw.NonMarginableBuyingPower.Float64()
	a.InitialMargin = raw.InitialMargin.Float64()
	a.MaintenanceMargin = raw.MaintenanceMargin.Float64()
	a.AccruedFees = raw.AccruedFees.Float64()
	a.DaytradeCount = raw.DaytradeCount.Int()
	a.LongMarketValue = raw.LongMarketValue.Float64()
	a.ShortMarketValue = raw.ShortMarketValue.Float64()
	a.PositionMarketValue = positionMarketValue(raw.PositionMarketValue, a.LongMarketValue, a.ShortMarketValue)

	return nil
}

// positionMarketValue resolves the position_market_value field. When the API
// omits it or sends something unparseable, the value is derived as
// abs(long) + abs(short) instead of defaulting to zero like other fields.
func positionMarketValue(raw json.RawMessage, long, short float64) float64 {
	if len(raw) > 0 {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			if v, err := strconv.ParseFloat(s, 64); err == nil {
				return v
			}
		} else {
			var v float64
			if err := json.Unmarshal(raw, &v); err == nil {
				return v
			}
		}
	}
	return math.Abs(long) + math.Abs(short)
}

// Position is an open position keyed by symbol (unique within one snapshot).
type Position struct {
	Symbol       string  `json:"symbol"`
	Qty          float64 `json:"qty"`
	MarketValue  float64 `json:"market_value"`
	CurrentPrice float64 `json:"current_price"`
	UnrealizedPL float64 `json:"unrealized_pl"`
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var raw struct {
		Symbol       string    `json:"symbol"`
		Qty          FlexFloat `json:"qty"`
		MarketValue  FlexFloat `json:"market_value"`
		CurrentPrice FlexFloat `json:"current_price"`
		UnrealizedPL FlexFloat `json:"unrealized_pl"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Symbol = raw.Symbol
	p.Qty = raw.Qty.Float64()
	p.MarketValue = raw.MarketValue.Float64()
	p.CurrentPrice = raw.CurrentPrice.Float64()
	p.UnrealizedPL = raw.UnrealizedPL.Float64()
	return nil
}

// EquityPoint is one reading of the equity-history series.
type EquityPoint struct {
	Timestamp int64   `json:"timestamp"` // epoch seconds
	Equity    float64 `json:"equity"`
}

// PortfolioHistory is the raw history response: two parallel arrays of equal
// length. Null or malformed equity entries decode to 0 and are dropped by
// Points' sentinel filter.
type PortfolioHistory struct {
	Equity     []FlexFloat `json:"equity"`
	Timestamps []int64     `json:"timestamp"`
}

// Points zips the parallel arrays into a chronological point sequence,
// discarding sentinel/invalid readings (equity <= 0.01).
func (h *PortfolioHistory) Points() []EquityPoint {
	n := len(h.Equity)
	if len(h.Timestamps) < n {
		n = len(h.Timestamps)
	}
	points := make([]EquityPoint, 0, n)
	for i := 0; i < n; i++ {
		eq := h.Equity[i].Float64()
		if eq > 0.01 {
			points = append(points, EquityPoint{Timestamp: h.Timestamps[i], Equity: eq})
		}
	}
	return points
}

// LoadingState reports which fetch classes are currently in flight.
type LoadingState struct {
	Trades    bool `json:"trades"`
	Account   bool `json:"account"`
	Positions bool `json:"positions"`
	History   bool `json:"history"`
}

// Range is the enumerated time-window choice driving the equity-history query.
type Range string

const (
	Range1D  Range = "1D"
	Range1M  Range = "1M"
	Range1Y  Range = "1Y"
	RangeAll Range = "ALL"
)

// Valid reports whether r is one of the supported ranges.
func (r Range) Valid() bool {
	switch r {
	case Range1D, Range1M, Range1Y, RangeAll:
		return true
	}
	return false
}

// Query returns the (period, timeframe) query parameters for the history
// endpoint. Unknown ranges fall back to the 1D mapping.
func (r Range) Query() (period, timeframe string) {
	switch r {
	case Range1M:
		return "1M", "1H"
	case Range1Y:
		return "1A", "1D"
	case RangeAll:
		return "ALL", "1D"
	default:
		return "1D", "5Min"
	}
}
