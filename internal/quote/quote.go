package quote

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dwarvesf/arkswap/internal/consts"
	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

type Engine struct {
	api    swapapi.ISwapAPI
	tokens tokenregistry.IRegistry
	logger *logger.Logger
	now    func() time.Time
}

type Option func(*Engine)

// WithClock replaces time.Now for expiry stamping.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func New(api swapapi.ISwapAPI, tokens tokenregistry.IRegistry, logger *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		api:    api,
		tokens: tokens,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) BtcToStablecoin(ctx context.Context, sourceSats int64, targetToken, targetChain string) (*model.Quote, error) {
	if sourceSats <= 0 {
		return nil, errs.InvalidArgument("source amount must be positive, got %d sats", sourceSats)
	}

	btc, err := e.tokens.Resolve(ctx, consts.TokenBTC, consts.ChainArkade)
	if err != nil {
		return nil, err
	}
	target, err := e.tokens.Resolve(ctx, targetToken, targetChain)
	if err != nil {
		return nil, err
	}

	res, err := e.api.GetQuote(ctx, swapapi.QuoteRequest{
		From:   btc.ID,
		To:     target.ID,
		Amount: float64(sourceSats),
	})
	if err != nil {
		e.logger.Error("[BtcToStablecoin][GetQuote]", map[string]string{
			"error":  err.Error(),
			"target": target.ID,
		})
		return nil, err
	}

	fees := res.ProtocolFee + res.NetworkFee
	netSats := math.Max(0, float64(sourceSats-fees))

	return &model.Quote{
		SourceToken:  btc.ID,
		TargetToken:  target.ID,
		SourceAmount: float64(sourceSats),
		TargetAmount: TargetFromSats(netSats, res.ExchangeRate),
		ExchangeRate: rateOrZero(res.ExchangeRate),
		Fee: model.Fee{
			Amount:     fees,
			Percentage: res.ProtocolFeeRate * 100,
		},
		ExpiresAt: e.now().Add(consts.QuoteValidity),
	}, nil
}

func (e *Engine) StablecoinToBtc(ctx context.Context, sourceUnits float64, sourceToken, sourceChain string) (*model.Quote, error) {
	if !(sourceUnits > 0) || math.IsInf(sourceUnits, 0) {
		return nil, errs.InvalidArgument("source amount must be positive, got %s", fmt.Sprint(sourceUnits))
	}

	source, err := e.tokens.Resolve(ctx, sourceToken, sourceChain)
	if err != nil {
		return nil, err
	}
	btc, err := e.tokens.Resolve(ctx, consts.TokenBTC, consts.ChainArkade)
	if err != nil {
		return nil, err
	}

	res, err := e.api.GetQuote(ctx, swapapi.QuoteRequest{
		From:   source.ID,
		To:     btc.ID,
		Amount: sourceUnits,
	})
	if err != nil {
		e.logger.Error("[StablecoinToBtc][GetQuote]", map[string]string{
			"error":  err.Error(),
			"source": source.ID,
		})
		return nil, err
	}

	fees := res.ProtocolFee + res.NetworkFee
	grossSats := SatsFromUnits(sourceUnits, res.ExchangeRate)

	return &model.Quote{
		SourceToken:  source.ID,
		TargetToken:  btc.ID,
		SourceAmount: sourceUnits,
		TargetAmount: math.Floor(math.Max(0, grossSats-float64(fees))),
		ExchangeRate: rateOrZero(res.ExchangeRate),
		Fee: model.Fee{
			Amount:     fees,
			Percentage: res.ProtocolFeeRate * 100,
		},
		ExpiresAt: e.now().Add(consts.QuoteValidity),
	}, nil
}

func rateOrZero(rate float64) float64 {
	if !validRate(rate) {
		return 0
	}
	return rate
}
