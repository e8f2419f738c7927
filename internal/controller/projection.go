package controller

import (
	"strings"
	"time"

	"github.com/dwarvesf/arkswap/internal/consts"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/quote"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/swapstate"
)

// project builds the local row for a remote swap. existing, when known, keeps
// the fields only this side knows about.
func project(resp *swapapi.SwapResponse, direction model.SwapDirection, existing *model.Swap, now time.Time) *model.Swap {
	swap := &model.Swap{
		SwapID:       resp.ID,
		Direction:    resolveDirection(resp, direction, existing),
		Status:       swapstate.Normalize(resp.Status),
		RemoteStatus: resp.Status,
		SourceToken:  resp.SourceToken,
		TargetToken:  resp.TargetToken,
		SourceAmount: resp.SourceAmount,
		TargetAmount: resp.TargetAmount,
		FeeAmount:    resp.FeeSats,
		TxID:         resp.TxID,
		CreatedAt:    resp.CreatedAt,
	}

	// Fee percentage uses the sats side of the swap: the source for
	// btc_to_stablecoin and the target for stablecoin_to_btc.
	if swap.Direction == model.DirectionBtcToStablecoin {
		swap.ExchangeRate = quote.RateFromAmounts(swap.TargetAmount, swap.SourceAmount)
		swap.FeePercentage = quote.FeePercentage(float64(swap.FeeAmount), swap.SourceAmount)
	} else {
		swap.ExchangeRate = quote.RateFromAmounts(swap.SourceAmount, swap.TargetAmount)
		swap.FeePercentage = quote.FeePercentage(float64(swap.FeeAmount), swap.TargetAmount)
	}

	if resp.RefundLocktime > 0 {
		swap.ExpiresAt = time.Unix(resp.RefundLocktime, 0).UTC()
	}

	swap.SetDetails(model.PaymentDetails{
		FundingAddress: resp.VhtlcAddress,
		HTLCAddress:    resp.HTLCAddress,
		Invoice:        resp.Invoice,
	})

	if existing != nil {
		swap.ID = existing.ID
		swap.SourceIsWallet = existing.SourceIsWallet
		swap.RefundAddress = existing.RefundAddress
		if swap.TxID == "" {
			swap.TxID = existing.TxID
		}
		if swap.CreatedAt.IsZero() {
			swap.CreatedAt = existing.CreatedAt
		}
		swap.CompletedAt = existing.CompletedAt
	}
	if swap.CreatedAt.IsZero() {
		swap.CreatedAt = now
	}
	if swap.CompletedAt == nil && swap.Status == model.SwapStatusCompleted {
		observed := now
		swap.CompletedAt = &observed
	}

	return swap
}

func resolveDirection(resp *swapapi.SwapResponse, hint model.SwapDirection, existing *model.Swap) model.SwapDirection {
	if d := model.SwapDirection(strings.ToLower(resp.Direction)); d.Valid() {
		return d
	}
	if hint.Valid() {
		return hint
	}
	if existing != nil && existing.Direction.Valid() {
		return existing.Direction
	}
	if isBTCToken(resp.SourceToken) {
		return model.DirectionBtcToStablecoin
	}
	return model.DirectionStablecoinToBtc
}

func isBTCToken(token string) bool {
	token = strings.ToLower(token)
	return token == consts.TokenBTC || strings.HasPrefix(token, consts.TokenBTC+"_")
}
