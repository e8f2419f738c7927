package arkwallet

import (
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg"
)

// NetParams maps a BTC_NETWORK value to chain params; unknown values are mainnet.
func NetParams(network string) *chaincfg.Params {
	switch strings.ToLower(network) {
	case "testnet", "testnet3":
		return &chaincfg.TestNet3Params
	case "signet", "mutinynet":
		return &chaincfg.SigNetParams
	case "regtest":
		return &chaincfg.RegressionNetParams
	default:
		return &chaincfg.MainNetParams
	}
}

// IsOnchainAddress reports whether address is a valid bitcoin address for params.
func IsOnchainAddress(address string, params *chaincfg.Params) bool {
	addr, err := btcutil.DecodeAddress(address, params)
	if err != nil {
		return false
	}
	return addr.IsForNet(params)
}

// IsArkAddress reports whether address looks like an Ark off-chain address.
func IsArkAddress(address string) bool {
	a := strings.ToLower(address)
	return strings.HasPrefix(a, "ark1") || strings.HasPrefix(a, "tark1")
}
