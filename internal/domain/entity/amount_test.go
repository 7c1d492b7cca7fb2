package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSatsToBTC(t *testing.T) {
	assert.Equal(t, 1.0, SatsToBTC(100_000_000))
	assert.Equal(t, 0.00000001, SatsToBTC(1))
	assert.Equal(t, 0.0, SatsToBTC(0))
}

func TestBTCToSats(t *testing.T) {
	assert.Equal(t, int64(100_000_000), BTCToSats(1.0))
	assert.Equal(t, int64(500), BTCToSats(0.000005))
	assert.Equal(t, int64(1), BTCToSats(0.00000001))
}

func TestFormatSats(t *testing.T) {
	assert.Equal(t, "500 sats", FormatSats(500))
	assert.Equal(t, "10,000 sats", FormatSats(10_000))
	assert.Equal(t, "1,234,567 sats", FormatSats(1_234_567))
	assert.Equal(t, "-2,500 sats", FormatSats(-2_500))
}

func TestFormatSatsWithBTC(t *testing.T) {
	assert.Equal(t, "10,000 sats (0.0001 BTC)", FormatSatsWithBTC(10_000))
	assert.Equal(t, "100,000,000 sats (1 BTC)", FormatSatsWithBTC(100_000_000))
}
