package arkwallet

import "github.com/dwarvesf/arkswap/internal/model"

type addressResponse struct {
	Address string `json:"address"`
}

type sendRequest struct {
	Address string  `json:"address"`
	Amount  int64   `json:"amount"`
	FeeRate float64 `json:"fee_rate,omitempty"`
	Memo    string  `json:"memo,omitempty"`
}

type sendResponse struct {
	TxID string `json:"txid"`
}

type vtxosResponse struct {
	Vtxos []model.Coin `json:"vtxos"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// fundsEvent is one frame of the funds websocket stream.
type fundsEvent struct {
	Type  model.CoinType `json:"type"`
	Coins []model.Coin   `json:"coins"`
}
