package entity

import (
	"fmt"
	"strconv"
)

const SatsPerBTC = 100_000_000

// SatsToBTC converts a satoshi amount to its BTC value.
func SatsToBTC(sats int64) float64 {
	return float64(sats) / SatsPerBTC
}

// BTCToSats converts a BTC amount to whole satoshis, rounding to nearest.
func BTCToSats(btc float64) int64 {
	return int64(btc*SatsPerBTC + 0.5)
}

// FormatSats renders a satoshi amount with thousands separators,
// e.g. 1234567 -> "1,234,567 sats".
func FormatSats(sats int64) string {
	s := strconv.FormatInt(sats, 10)
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		out = append([]byte{'-'}, out...)
	}
	return string(out) + " sats"
}

// FormatSatsWithBTC renders both units so a human reviewer can spot
// magnitude mistakes before confirming a payment.
func FormatSatsWithBTC(sats int64) string {
	return fmt.Sprintf("%s (%s BTC)", FormatSats(sats), strconv.FormatFloat(SatsToBTC(sats), 'f', -1, 64))
}
