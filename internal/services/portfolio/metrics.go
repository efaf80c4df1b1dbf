package portfolio

import "github.com/bobmcallan/pulse/internal/models"

// PercentChange returns the percentage change in equity across a history
// window: 100 * (last - first) / first. Empty windows and zero first-equity
// yield 0 (no division by zero).
func PercentChange(points []models.EquityPoint) float64 {
	if len(points) == 0 {
		return 0
	}
	first := points[0].Equity
	last := points[len(points)-1].Equity
	if first == 0 {
		return 0
	}
	return 100 * (last - first) / first
}

// DailyChange returns the percentage change of equity against the previous
// trading day's close from the account snapshot.
func DailyChange(snapshot *models.AccountSnapshot) float64 {
	if snapshot == nil || snapshot.LastEquity == 0 {
		return 0
	}
	return 100 * (snapshot.Equity - snapshot.LastEquity) / snapshot.LastEquity
}

// PositionROI returns a position's return on investment against its cost
// basis (market value minus unrealized P&L). A zero cost basis yields 0.
func PositionROI(p models.Position) float64 {
	costBasis := p.MarketValue - p.UnrealizedPL
	if costBasis == 0 {
		return 0
	}
	return 100 * p.UnrealizedPL / costBasis
}

// ChartDomain returns the vertical domain for rendering an equity curve:
// min/max padded by 5% of the range. Empty or flat series degenerate to
// [0, 1] so the chart never has a zero-height domain.
func ChartDomain(points []models.EquityPoint) (lo, hi float64) {
	if len(points) == 0 {
		return 0, 1
	}

	min, max := points[0].Equity, points[0].Equity
	for _, p := range points[1:] {
		if p.Equity < min {
			min = p.Equity
		}
		if p.Equity > max {
			max = p.Equity
		}
	}

	if min == max {
		return 0, 1
	}

	pad := 0.05 * (max - min)
	return min - pad, max + pad
}
