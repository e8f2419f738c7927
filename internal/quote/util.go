package quote

import (
	"math"

	"github.com/dwarvesf/arkswap/internal/consts"
)

func validRate(rate float64) bool {
	return rate > 0 && !math.IsInf(rate, 0) && !math.IsNaN(rate)
}

// TargetFromSats converts sats into stablecoin units at rate (units per BTC).
func TargetFromSats(sats, rate float64) float64 {
	if !validRate(rate) || sats <= 0 {
		return 0
	}
	return sats * rate / consts.SatsPerBTC
}

// SatsFromUnits converts stablecoin units into sats at rate (units per BTC).
func SatsFromUnits(units, rate float64) float64 {
	if !validRate(rate) || units <= 0 {
		return 0
	}
	return units * consts.SatsPerBTC / rate
}

// RateFromAmounts derives units per BTC from a stablecoin amount and the sats
// it trades against.
func RateFromAmounts(units, sats float64) float64 {
	if sats <= 0 || units <= 0 {
		return 0
	}
	rate := units * consts.SatsPerBTC / sats
	if !validRate(rate) {
		return 0
	}
	return rate
}

// FeePercentage is fee as a percentage of amount, both in sats.
func FeePercentage(fee, amount float64) float64 {
	if amount <= 0 || fee <= 0 {
		return 0
	}
	pct := fee * 100 / amount
	if math.IsInf(pct, 0) || math.IsNaN(pct) {
		return 0
	}
	return pct
}
