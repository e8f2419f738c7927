package controller

import (
	"context"

	"github.com/dwarvesf/arkswap/internal/model"
)

type IController interface {
	// Quote prices a swap without creating it.
	Quote(ctx context.Context, params QuoteParams) (*model.Quote, error)

	// Tokens lists every token the swap service can trade.
	Tokens(ctx context.Context) ([]model.TokenRef, error)

	// CreateBtcToStablecoin creates the swap remotely and immediately funds its
	// VHTLC from the wallet. The returned swap is reported as funded as soon as
	// the payment is initiated, before the swap service has seen it; the next
	// status fetch reconciles. A failed payment returns a funding error carrying
	// the swap id: the swap then exists remotely, unfunded.
	CreateBtcToStablecoin(ctx context.Context, params BtcToStablecoinParams) (*model.StablecoinSwapResult, error)

	// CreateStablecoinToBtc creates the swap remotely. The counterparty funds
	// the EVM side, so the swap is returned in whatever status the service reports.
	CreateStablecoinToBtc(ctx context.Context, params StablecoinToBtcParams) (*model.StablecoinSwapResult, error)

	// GetStatus re-fetches a swap and refreshes its projection.
	GetStatus(ctx context.Context, swapID string) (*model.StablecoinSwapInfo, error)

	// ListPending re-fetches every swap not known to be terminal. A swap that
	// cannot be re-fetched is returned as last seen.
	ListPending(ctx context.Context) ([]model.StablecoinSwapInfo, error)

	// ListHistory returns the local projection, newest first, without re-fetching.
	ListHistory(ctx context.Context) ([]model.StablecoinSwapInfo, error)

	// Claim asks the swap service to claim. It is not retried.
	Claim(ctx context.Context, swapID string) (*model.ClaimResult, error)

	// Refund refunds a BTC-sourced swap to destination, or to a wallet address
	// when destination is empty. For stablecoin_to_btc swaps it returns a
	// not-applicable result; use GetEvmRefundCallData instead.
	Refund(ctx context.Context, swapID, destination string) (*model.RefundResult, error)

	GetEvmFundingCallData(ctx context.Context, swapID string) (*model.EvmCallData, error)
	GetEvmRefundCallData(ctx context.Context, swapID string) (*model.EvmCallData, error)

	// Sync reconciles the projection with the service's full swap list.
	Sync(ctx context.Context) (*SyncResult, error)
}
