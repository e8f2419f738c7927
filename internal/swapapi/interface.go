package swapapi

import "context"

// ISwapAPI is the remote swap-coordination service. It is the only authority
// on swap state; everything it returns is taken as-is.
type ISwapAPI interface {
	GetTokens(ctx context.Context) ([]TokenInfo, error)
	GetQuote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error)

	CreateArkadeToEvm(ctx context.Context, req ArkadeToEvmRequest) (*SwapResponse, error)
	CreateEvmToArkade(ctx context.Context, req EvmToArkadeRequest) (*SwapResponse, error)
	GetSwap(ctx context.Context, swapID string) (*SwapResponse, error)
	ListSwaps(ctx context.Context) ([]SwapResponse, error)

	Claim(ctx context.Context, swapID string) (*ClaimResponse, error)
	Refund(ctx context.Context, swapID string, req RefundRequest) (*RefundResponse, error)

	GetCoordinatorFundingCallData(ctx context.Context, swapID string) (*CallDataResponse, error)
	// GetCoordinatorRefundCallData returns nil, nil when the service has no
	// refund call data for the swap.
	GetCoordinatorRefundCallData(ctx context.Context, swapID string) (*CallDataResponse, error)

	Health(ctx context.Context) error
	GetVersion(ctx context.Context) (*VersionResponse, error)
}
