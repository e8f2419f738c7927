package blockstream

import "context"

// IBlockStream is the subset of the esplora API the coordinator uses.
type IBlockStream interface {
	// EstimateFees maps confirmation targets (in blocks) to fee rates in sat/vB.
	EstimateFees(ctx context.Context) (map[string]float64, error)
	GetUTXOs(ctx context.Context, address string) ([]UTXO, error)
	GetTipHeight(ctx context.Context) (int64, error)
}
