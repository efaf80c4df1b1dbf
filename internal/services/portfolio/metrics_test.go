package portfolio

import (
	"testing"

	"github.com/bobmcallan/pulse/internal/models"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name   string
		points []models.EquityPoint
		want   float64
	}{
		{
			name:   "ten percent up",
			points: []models.EquityPoint{{Timestamp: 1, Equity: 100.0}, {Timestamp: 2, Equity: 110.0}},
			want:   10.0,
		},
		{
			name:   "down",
			points: []models.EquityPoint{{Timestamp: 1, Equity: 200.0}, {Timestamp: 2, Equity: 150.0}},
			want:   -25.0,
		},
		{
			name:   "single point",
			points: []models.EquityPoint{{Timestamp: 1, Equity: 100.0}},
			want:   0.0,
		},
		{
			name:   "empty",
			points: nil,
			want:   0.0,
		},
		{
			name:   "zero first equity",
			points: []models.EquityPoint{{Timestamp: 1, Equity: 0.0}, {Timestamp: 2, Equity: 110.0}},
			want:   0.0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PercentChange(tc.points); got != tc.want {
				t.Errorf("PercentChange() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDailyChange(t *testing.T) {
	if got := DailyChange(&models.AccountSnapshot{Equity: 105, LastEquity: 100}); got != 5.0 {
		t.Errorf("DailyChange() = %v, want 5.0", got)
	}
	if got := DailyChange(&models.AccountSnapshot{Equity: 105, LastEquity: 0}); got != 0.0 {
		t.Errorf("DailyChange() with zero lastEquity = %v, want 0.0", got)
	}
	if got := DailyChange(nil); got != 0.0 {
		t.Errorf("DailyChange(nil) = %v, want 0.0", got)
	}
}

func TestPositionROI(t *testing.T) {
	p := models.Position{MarketValue: 1100, UnrealizedPL: 100}
	if got := PositionROI(p); got != 10.0 {
		t.Errorf("PositionROI() = %v, want 10.0 (cost basis 1000)", got)
	}

	// market value equals unrealized P&L: cost basis 0
	p = models.Position{MarketValue: 100, UnrealizedPL: 100}
	if got := PositionROI(p); got != 0.0 {
		t.Errorf("PositionROI() with zero cost basis = %v, want 0.0", got)
	}

	// losing position
	p = models.Position{MarketValue: 900, UnrealizedPL: -100}
	if got := PositionROI(p); got != -10.0 {
		t.Errorf("PositionROI() = %v, want -10.0", got)
	}
}

func TestChartDomain(t *testing.T) {
	points := []models.EquityPoint{
		{Timestamp: 1, Equity: 90},
		{Timestamp: 2, Equity: 100},
		{Timestamp: 3, Equity: 110},
	}
	lo, hi := ChartDomain(points)
	if lo != 89.0 || hi != 111.0 {
		t.Errorf("ChartDomain() = [%v, %v], want [89, 111] (5%% of range 20 = 1)", lo, hi)
	}
}

func TestChartDomain_Degenerate(t *testing.T) {
	lo, hi := ChartDomain(nil)
	if lo != 0 || hi != 1 {
		t.Errorf("ChartDomain(empty) = [%v, %v], want [0, 1]", lo, hi)
	}

	flat := []models.EquityPoint{{Timestamp: 1, Equity: 50}, {Timestamp: 2, Equity: 50}}
	lo, hi = ChartDomain(flat)
	if lo != 0 || hi != 1 {
		t.Errorf("ChartDomain(flat) = [%v, %v], want [0, 1]", lo, hi)
	}
}
