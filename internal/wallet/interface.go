// Package wallet describes the Ark wallet the coordinator pays from and
// receives into. Signing and coin selection live behind it.
package wallet

import (
	"context"

	"github.com/dwarvesf/arkswap/internal/model"
)

type SendParams struct {
	Address string
	// Amount is in sats.
	Amount int64
	// FeeRate is sat/vB; zero lets the wallet pick.
	FeeRate float64
	Memo    string
}

// FundsCallback receives incoming funds notifications. It may be called from
// another goroutine and must not block.
type FundsCallback func(model.IncomingFunds)

// StreamErrorCallback receives the error that ended a funds stream the caller
// did not unsubscribe from. It is called at most once and must not block.
type StreamErrorCallback func(error)

type IWallet interface {
	// GetAddress returns the wallet's off-chain Ark address.
	GetAddress(ctx context.Context) (string, error)
	// GetBoardingAddress returns the on-chain address used to board funds.
	GetBoardingAddress(ctx context.Context) (string, error)
	GetBalance(ctx context.Context) (*model.Balance, error)
	// SendBitcoin pays an Ark or on-chain address and returns the txid.
	SendBitcoin(ctx context.Context, params SendParams) (string, error)
	GetBoardingUtxos(ctx context.Context) ([]model.Coin, error)
	GetVtxos(ctx context.Context, filter model.VtxoFilter) ([]model.Coin, error)
	// NotifyIncomingFunds subscribes cb to the funds stream. onErr, if set,
	// learns when the stream dies on its own. The returned function
	// unsubscribes; it is safe to call more than once.
	NotifyIncomingFunds(ctx context.Context, cb FundsCallback, onErr StreamErrorCallback) (unsubscribe func(), err error)
}
