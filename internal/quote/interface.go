package quote

import (
	"context"

	"github.com/dwarvesf/arkswap/internal/model"
)

type IQuoteEngine interface {
	// BtcToStablecoin prices sourceSats of Arkade BTC in the target stablecoin.
	BtcToStablecoin(ctx context.Context, sourceSats int64, targetToken, targetChain string) (*model.Quote, error)

	// StablecoinToBtc prices sourceUnits of a stablecoin in sats. The target
	// amount is floored and never negative.
	StablecoinToBtc(ctx context.Context, sourceUnits float64, sourceToken, sourceChain string) (*model.Quote, error)
}
