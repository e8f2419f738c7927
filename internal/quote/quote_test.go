package quote

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/mocks"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/types/environments"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) (*Engine, *mocks.SwapAPI) {
	t.Helper()
	api := &mocks.SwapAPI{}
	api.On("GetTokens", mock.Anything).Return([]swapapi.TokenInfo{
		{TokenID: "btc_arkade", Symbol: "BTC", Chain: "arkade", Decimals: 8, TokenAddress: "btc"},
		{TokenID: "usdc_pol", Symbol: "USDC", Chain: "polygon", ChainID: 137, Decimals: 6, TokenAddress: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"},
	}, nil)

	l := logger.New(environments.Test)
	e := New(api, tokenregistry.New(api, l), l, WithClock(func() time.Time { return fixedNow }))
	return e, api
}

func quoteFor(from, to string) interface{} {
	return mock.MatchedBy(func(req swapapi.QuoteRequest) bool {
		return req.From == from && req.To == to
	})
}

func TestBtcToStablecoin(t *testing.T) {
	t.Run("no fees", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, quoteFor("btc_arkade", "usdc_pol")).
			Return(&swapapi.QuoteResponse{ExchangeRate: 97_500}, nil)

		q, err := e.BtcToStablecoin(context.Background(), 100_000, "usdc", "polygon")
		require.NoError(t, err)
		assert.Equal(t, 97.5, q.TargetAmount)
		assert.Equal(t, 97_500.0, q.ExchangeRate)
		assert.Equal(t, 100_000.0, q.SourceAmount)
		assert.Equal(t, "btc_arkade", q.SourceToken)
		assert.Equal(t, "usdc_pol", q.TargetToken)
		assert.Equal(t, fixedNow.Add(60*time.Second), q.ExpiresAt)
		assert.False(t, q.IsExpired(fixedNow.Add(59*time.Second)))
		assert.True(t, q.IsExpired(fixedNow.Add(60*time.Second)))
	})

	t.Run("fees come off the source before conversion", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(&swapapi.QuoteResponse{ExchangeRate: 97_500, ProtocolFee: 200, NetworkFee: 50, ProtocolFeeRate: 0.0025}, nil)

		q, err := e.BtcToStablecoin(context.Background(), 100_000, "usdc_pol", "")
		require.NoError(t, err)
		assert.InDelta(t, 97.25625, q.TargetAmount, 1e-9)
		assert.Equal(t, int64(250), q.Fee.Amount)
		assert.InDelta(t, 0.25, q.Fee.Percentage, 1e-12)
	})

	t.Run("zero rate yields zero, not NaN", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(&swapapi.QuoteResponse{ExchangeRate: 0}, nil)

		q, err := e.BtcToStablecoin(context.Background(), 100_000, "usdc", "polygon")
		require.NoError(t, err)
		assert.Equal(t, 0.0, q.TargetAmount)
		assert.Equal(t, 0.0, q.ExchangeRate)
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.BtcToStablecoin(context.Background(), 0, "usdc", "polygon")
		assert.True(t, errors.Is(err, errs.ErrInvalidArgument))
	})

	t.Run("unknown token", func(t *testing.T) {
		e, _ := newEngine(t)
		_, err := e.BtcToStablecoin(context.Background(), 100_000, "dai", "ethereum")
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("remote failure propagates", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(nil, errs.Remote(400, "amount too small", nil))

		_, err := e.BtcToStablecoin(context.Background(), 100_000, "usdc", "polygon")
		require.Error(t, err)
		remote, ok := errs.From(err)
		require.True(t, ok)
		assert.Equal(t, "amount too small", remote.Message())
	})
}

func TestStablecoinToBtc(t *testing.T) {
	t.Run("no fees", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, quoteFor("usdc_pol", "btc_arkade")).
			Return(&swapapi.QuoteResponse{ExchangeRate: 100_000}, nil)

		q, err := e.StablecoinToBtc(context.Background(), 100, "usdc", "polygon")
		require.NoError(t, err)
		assert.Equal(t, 100_000.0, q.TargetAmount)
		assert.Equal(t, 100_000.0, q.ExchangeRate)
		assert.Equal(t, fixedNow.Add(60*time.Second), q.ExpiresAt)
	})

	t.Run("floors the sats", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(&swapapi.QuoteResponse{ExchangeRate: 97_500, ProtocolFee: 100, NetworkFee: 20, ProtocolFeeRate: 0.001}, nil)

		q, err := e.StablecoinToBtc(context.Background(), 10, "usdc", "polygon")
		require.NoError(t, err)
		// 10 / 97_500 BTC = 10256.41 sats, minus 120 in fees
		assert.Equal(t, 10_136.0, q.TargetAmount)
		assert.InDelta(t, 0.1, q.Fee.Percentage, 1e-12)
	})

	t.Run("clamps to zero when fees exceed proceeds", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(&swapapi.QuoteResponse{ExchangeRate: 100_000, ProtocolFee: 5_000, NetworkFee: 5_000}, nil)

		q, err := e.StablecoinToBtc(context.Background(), 1, "usdc", "polygon")
		require.NoError(t, err)
		assert.Equal(t, 0.0, q.TargetAmount)
	})

	t.Run("zero rate yields zero", func(t *testing.T) {
		e, api := newEngine(t)
		api.On("GetQuote", mock.Anything, mock.Anything).
			Return(&swapapi.QuoteResponse{ExchangeRate: 0, NetworkFee: 10}, nil)

		q, err := e.StablecoinToBtc(context.Background(), 100, "usdc", "polygon")
		require.NoError(t, err)
		assert.Equal(t, 0.0, q.TargetAmount)
		assert.False(t, math.IsNaN(q.ExchangeRate))
	})

	t.Run("rejects bad amounts", func(t *testing.T) {
		e, _ := newEngine(t)
		for _, amount := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := e.StablecoinToBtc(context.Background(), amount, "usdc", "polygon")
			assert.Equal(t, errs.CodeInvalidArgument, errs.CodeOf(err))
		}
	})
}
