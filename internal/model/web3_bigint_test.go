package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeb3BigInt_ToFloat(t *testing.T) {
	tests := []struct {
		name     string
		input    Web3BigInt
		expected float64
	}{
		{"one usdc", Web3BigInt{Value: "1000000", Decimal: 6}, 1.0},
		{"zero value", Web3BigInt{Value: "0", Decimal: 18}, 0.0},
		{"fractional", Web3BigInt{Value: "1500000", Decimal: 6}, 1.5},
		{"garbage", Web3BigInt{Value: "abc", Decimal: 6}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.input.ToFloat())
		})
	}
}

func TestWeb3BigIntFromFloat(t *testing.T) {
	tests := []struct {
		name     string
		amount   float64
		decimals int
		want     string
	}{
		{"whole", 100, 6, "100000000"},
		{"half", 97.5, 6, "97500000"},
		{"rounds instead of truncating", 0.3, 6, "300000"},
		{"eighteen decimals", 1.5, 18, "1500000000000000000"},
		{"negative", -1, 6, "0"},
		{"nan", math.NaN(), 6, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Web3BigIntFromFloat(tt.amount, tt.decimals)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.decimals, got.Decimal)
		})
	}
}

func TestWeb3BigInt_IsZero(t *testing.T) {
	assert.False(t, (&Web3BigInt{Value: "3500000", Decimal: 6}).IsZero())
	assert.True(t, (&Web3BigInt{Value: "0", Decimal: 6}).IsZero())
	assert.True(t, (&Web3BigInt{Value: "not a number", Decimal: 6}).IsZero())
	assert.True(t, Web3BigIntFromFloat(0.0000001, 6).IsZero())
}
