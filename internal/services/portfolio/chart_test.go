package portfolio

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/pulse/internal/models"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func TestRenderEquityChart(t *testing.T) {
	points := []models.EquityPoint{
		{Timestamp: 1710500000, Equity: 100000},
		{Timestamp: 1710503600, Equity: 100500},
		{Timestamp: 1710507200, Equity: 99800},
		{Timestamp: 1710510800, Equity: 101200},
	}

	png, err := RenderEquityChart(points, models.Range1D)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, pngMagic), "output should be a PNG")
}

func TestRenderEquityChart_TooFewPoints(t *testing.T) {
	_, err := RenderEquityChart([]models.EquityPoint{{Timestamp: 1, Equity: 100}}, models.Range1D)
	require.Error(t, err)

	_, err = RenderEquityChart(nil, models.RangeAll)
	require.Error(t, err)
}
