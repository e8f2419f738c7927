package model

import (
	"math"
	"math/big"
	"strconv"
	"strings"
)

// Web3BigInt is an integer amount in a token's smallest unit plus its decimals.
// Stablecoin amounts cross the swap API in this form.
type Web3BigInt struct {
	Value   string `json:"value"`
	Decimal int    `json:"decimal"`
}

// Web3BigIntFromFloat converts a human amount (e.g. 97.5 USDC) to base units,
// rounding to the token precision. Negative and non-finite inputs become zero.
func Web3BigIntFromFloat(amount float64, decimals int) *Web3BigInt {
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return &Web3BigInt{Value: "0", Decimal: decimals}
	}

	formatted := strconv.FormatFloat(amount, 'f', decimals, 64)
	digits := strings.Replace(formatted, ".", "", 1)

	num, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return &Web3BigInt{Value: "0", Decimal: decimals}
	}

	return &Web3BigInt{Value: num.String(), Decimal: decimals}
}

func (w *Web3BigInt) ToFloat() float64 {
	num, ok := new(big.Int).SetString(w.Value, 10)
	if !ok {
		return 0
	}

	floatNum := new(big.Float).SetInt(num)
	divisor := new(big.Float).SetFloat64(math.Pow(10, float64(w.Decimal)))
	floatNum.Quo(floatNum, divisor)

	result, _ := floatNum.Float64()
	return result
}

func (w *Web3BigInt) IsZero() bool {
	num, ok := new(big.Int).SetString(w.Value, 10)
	return !ok || num.Sign() == 0
}
