package controller

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/quote"
	"github.com/dwarvesf/arkswap/internal/store"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/swapstate"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

// StatusObserver is told about every normalized status change the controller
// sees while refreshing the projection.
type StatusObserver interface {
	SwapStatusChanged(swapID string, from, to model.SwapStatus)
}

type Controller struct {
	api      swapapi.ISwapAPI
	tokens   tokenregistry.IRegistry
	quotes   quote.IQuoteEngine
	wallet   wallet.IWallet
	db       *gorm.DB
	store    *store.Store
	logger   *logger.Logger
	observer StatusObserver
	now      func() time.Time
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

func WithObserver(observer StatusObserver) Option {
	return func(c *Controller) {
		c.observer = observer
	}
}

func New(
	api swapapi.ISwapAPI,
	tokens tokenregistry.IRegistry,
	quotes quote.IQuoteEngine,
	wallet wallet.IWallet,
	db *gorm.DB,
	store *store.Store,
	logger *logger.Logger,
	opts ...Option,
) *Controller {
	c := &Controller{
		api:    api,
		tokens: tokens,
		quotes: quotes,
		wallet: wallet,
		db:     db,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Quote(ctx context.Context, params QuoteParams) (*model.Quote, error) {
	switch params.Direction {
	case model.DirectionBtcToStablecoin:
		if params.Amount != math.Trunc(params.Amount) {
			return nil, errs.InvalidArgument("btc amounts are whole sats, got %v", params.Amount)
		}
		return c.quotes.BtcToStablecoin(ctx, int64(params.Amount), params.Token, params.Chain)
	case model.DirectionStablecoinToBtc:
		return c.quotes.StablecoinToBtc(ctx, params.Amount, params.Token, params.Chain)
	default:
		return nil, errs.InvalidArgument("unknown swap direction %q", params.Direction)
	}
}

func (c *Controller) Tokens(ctx context.Context) ([]model.TokenRef, error) {
	return c.tokens.All(ctx)
}

func (c *Controller) CreateBtcToStablecoin(ctx context.Context, params BtcToStablecoinParams) (*model.StablecoinSwapResult, error) {
	if params.SourceAmountSats <= 0 && params.TargetAmount <= 0 {
		return nil, errs.InvalidArgument("one of source amount or target amount is required")
	}
	if !common.IsHexAddress(params.TargetAddress) {
		return nil, errs.InvalidArgument("target address %q is not an EVM address", params.TargetAddress)
	}

	target, err := c.tokens.Resolve(ctx, params.TargetToken, params.TargetChain)
	if err != nil {
		return nil, err
	}
	if target.IsBTC() {
		return nil, errs.InvalidArgument("target token must be a stablecoin, got %s", target.ID)
	}

	req := swapapi.ArkadeToEvmRequest{
		TargetAddress: params.TargetAddress,
		TargetToken:   target.ID,
		ReferralCode:  params.ReferralCode,
	}
	if params.SourceAmountSats > 0 {
		req.SourceAmount = &params.SourceAmountSats
	} else {
		req.TargetAmount = &params.TargetAmount
	}

	resp, err := c.api.CreateArkadeToEvm(ctx, req)
	if err != nil {
		c.logger.Error("[CreateBtcToStablecoin][CreateArkadeToEvm]", map[string]string{
			"error":  err.Error(),
			"target": target.ID,
		})
		return nil, err
	}

	swap := project(resp, model.DirectionBtcToStablecoin, nil, c.now())
	swap.SourceIsWallet = true
	swap = c.persist("CreateBtcToStablecoin", swap)

	sats := int64(resp.SourceAmount)
	details := swap.Details()
	if sats <= 0 || details.FundingAddress == "" {
		c.logger.Error("[CreateBtcToStablecoin] swap has nothing to fund", map[string]string{
			"swap_id": swap.SwapID,
			"amount":  strconv.FormatInt(sats, 10),
		})
		return nil, errs.Funding(swap.SwapID, errs.Remote(0, "swap service returned no funding address or amount", nil))
	}

	txid, err := c.wallet.SendBitcoin(ctx, wallet.SendParams{
		Address: details.FundingAddress,
		Amount:  sats,
	})
	if err != nil {
		c.logger.Error("[CreateBtcToStablecoin][SendBitcoin] swap left unfunded", map[string]string{
			"error":   err.Error(),
			"swap_id": swap.SwapID,
			"address": details.FundingAddress,
		})
		return nil, errs.Funding(swap.SwapID, err)
	}

	swap.TxID = txid
	swap = c.persist("CreateBtcToStablecoin", swap)

	// Locally optimistic: the payment is initiated, not confirmed. The stored
	// row keeps the remote status until the next fetch.
	funded := *swap
	funded.Status = model.SwapStatusFunded

	c.logger.Info("[CreateBtcToStablecoin] swap created and funded", map[string]string{
		"swap_id": swap.SwapID,
		"txid":    txid,
		"amount":  strconv.FormatInt(sats, 10),
	})
	return &model.StablecoinSwapResult{Swap: &funded, FundingTxID: txid}, nil
}

func (c *Controller) CreateStablecoinToBtc(ctx context.Context, params StablecoinToBtcParams) (*model.StablecoinSwapResult, error) {
	if !(params.SourceAmount > 0) || math.IsInf(params.SourceAmount, 0) {
		return nil, errs.InvalidArgument("source amount must be positive")
	}
	if !common.IsHexAddress(params.UserAddress) {
		return nil, errs.InvalidArgument("user address %q is not an EVM address", params.UserAddress)
	}

	source, err := c.tokens.Resolve(ctx, params.SourceToken, params.SourceChain)
	if err != nil {
		return nil, err
	}
	if source.IsBTC() {
		return nil, errs.InvalidArgument("source token must be a stablecoin, got %s", source.ID)
	}
	// the EVM side moves whole base units
	amount := model.Web3BigIntFromFloat(params.SourceAmount, source.Decimals)
	if amount.IsZero() {
		return nil, errs.InvalidArgument("source amount %v is below %s precision", params.SourceAmount, source.ID)
	}

	destination := params.DestinationAddress
	if destination == "" {
		destination, err = c.wallet.GetAddress(ctx)
		if err != nil {
			c.logger.Error("[CreateStablecoinToBtc][GetAddress]", map[string]string{
				"error": err.Error(),
			})
			return nil, err
		}
	}

	resp, err := c.api.CreateEvmToArkade(ctx, swapapi.EvmToArkadeRequest{
		SourceToken:   source.ID,
		SourceAmount:  amount.ToFloat(),
		UserAddress:   params.UserAddress,
		TargetAddress: destination,
		ReferralCode:  params.ReferralCode,
	})
	if err != nil {
		c.logger.Error("[CreateStablecoinToBtc][CreateEvmToArkade]", map[string]string{
			"error":  err.Error(),
			"source": source.ID,
		})
		return nil, err
	}

	swap := c.persist("CreateStablecoinToBtc", project(resp, model.DirectionStablecoinToBtc, nil, c.now()))
	return &model.StablecoinSwapResult{Swap: swap}, nil
}

func (c *Controller) GetStatus(ctx context.Context, swapID string) (*model.StablecoinSwapInfo, error) {
	if swapID == "" {
		return nil, errs.InvalidArgument("swap id is required")
	}
	existing, err := c.store.Swap.GetBySwapID(c.db, swapID)
	if err != nil && errs.CodeOf(err) != errs.CodeNotFound {
		c.logger.Warn("[GetStatus][GetBySwapID]", map[string]string{
			"error":   err.Error(),
			"swap_id": swapID,
		})
	}
	return c.refresh(ctx, swapID, existing)
}

// refresh re-fetches one swap and writes the new projection.
func (c *Controller) refresh(ctx context.Context, swapID string, existing *model.Swap) (*model.Swap, error) {
	resp, err := c.api.GetSwap(ctx, swapID)
	if err != nil {
		c.logger.Error("[refresh][GetSwap]", map[string]string{
			"error":   err.Error(),
			"swap_id": swapID,
		})
		return nil, err
	}

	swap := project(resp, "", existing, c.now())
	c.observe(existing, swap)
	return c.persist("refresh", swap), nil
}

func (c *Controller) ListPending(ctx context.Context) ([]model.StablecoinSwapInfo, error) {
	cached, err := c.store.Swap.ListNonTerminal(c.db)
	if err != nil {
		c.logger.Error("[ListPending][ListNonTerminal]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	pending := make([]model.StablecoinSwapInfo, 0, len(cached))
	for i := range cached {
		row := cached[i]
		fresh, err := c.refresh(ctx, row.SwapID, &row)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.Warn("[ListPending][refresh] using cached swap", map[string]string{
				"error":   err.Error(),
				"swap_id": row.SwapID,
			})
			pending = append(pending, row)
			continue
		}
		if swapstate.IsTerminal(fresh.Status) {
			continue
		}
		pending = append(pending, *fresh)
	}
	return pending, nil
}

func (c *Controller) ListHistory(ctx context.Context) ([]model.StablecoinSwapInfo, error) {
	swaps, err := c.store.Swap.All(c.db.WithContext(ctx))
	if err != nil {
		c.logger.Error("[ListHistory][All]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}
	return swaps, nil
}

func (c *Controller) Claim(ctx context.Context, swapID string) (*model.ClaimResult, error) {
	resp, err := c.api.Claim(ctx, swapID)
	if err != nil {
		c.logger.Error("[Claim][Claim]", map[string]string{
			"error":   err.Error(),
			"swap_id": swapID,
		})
		return nil, err
	}
	return &model.ClaimResult{
		Success: resp.Success,
		Message: resp.Message,
		Chain:   resp.Chain,
		TxHash:  resp.TxHash,
	}, nil
}

func (c *Controller) Refund(ctx context.Context, swapID, destination string) (*model.RefundResult, error) {
	swap, err := c.store.Swap.GetBySwapID(c.db, swapID)
	if err != nil {
		if errs.CodeOf(err) != errs.CodeNotFound {
			return nil, err
		}
		if swap, err = c.refresh(ctx, swapID, nil); err != nil {
			return nil, err
		}
	}

	if swap.Direction == model.DirectionStablecoinToBtc {
		return &model.RefundResult{
			Success:       false,
			NotApplicable: true,
			Message:       "stablecoin_to_btc swaps are refunded on the EVM side; use the EVM refund call data",
		}, nil
	}

	if destination == "" {
		if swap.SourceIsWallet {
			destination, err = c.wallet.GetAddress(ctx)
		} else {
			destination, err = c.wallet.GetBoardingAddress(ctx)
		}
		if err != nil {
			c.logger.Error("[Refund][wallet address]", map[string]string{
				"error":   err.Error(),
				"swap_id": swapID,
			})
			return nil, err
		}
	}

	resp, err := c.api.Refund(ctx, swapID, swapapi.RefundRequest{DestinationAddress: destination})
	if err != nil {
		c.logger.Error("[Refund][Refund]", map[string]string{
			"error":       err.Error(),
			"swap_id":     swapID,
			"destination": destination,
		})
		return nil, err
	}

	swap.RefundAddress = destination
	c.persist("Refund", swap)

	return &model.RefundResult{
		Success: resp.Success,
		Message: resp.Message,
		TxID:    resp.TxID,
	}, nil
}

func (c *Controller) GetEvmFundingCallData(ctx context.Context, swapID string) (*model.EvmCallData, error) {
	resp, err := c.api.GetCoordinatorFundingCallData(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errs.NotAvailable("no EVM funding call data for swap %s", swapID)
	}
	return toCallData(resp), nil
}

func (c *Controller) GetEvmRefundCallData(ctx context.Context, swapID string) (*model.EvmCallData, error) {
	resp, err := c.api.GetCoordinatorRefundCallData(ctx, swapID)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, errs.NotAvailable("no EVM refund call data for swap %s: it is not EVM-funded or its timelock has not expired", swapID)
	}
	return toCallData(resp), nil
}

func (c *Controller) Sync(ctx context.Context) (*SyncResult, error) {
	remote, err := c.api.ListSwaps(ctx)
	if err != nil {
		c.logger.Error("[Sync][ListSwaps]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	result := &SyncResult{Fetched: len(remote)}
	now := c.now()
	err = store.DoInTx(ctx, c.db, func(tx *gorm.DB) error {
		for i := range remote {
			existing, err := c.store.Swap.GetBySwapID(tx, remote[i].ID)
			if err != nil && errs.CodeOf(err) != errs.CodeNotFound {
				return err
			}

			swap := project(&remote[i], "", existing, now)
			if existing != nil && existing.Status != swap.Status {
				result.Transitions++
			}
			c.observe(existing, swap)

			if _, err := c.store.Swap.Upsert(tx, swap); err != nil {
				return err
			}
			result.Upserted++
		}
		return nil
	})
	if err != nil {
		c.logger.Error("[Sync][DoInTx]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	c.logger.Info("[Sync] projection reconciled", map[string]string{
		"fetched":     strconv.Itoa(result.Fetched),
		"transitions": strconv.Itoa(result.Transitions),
	})
	return result, nil
}

// persist writes the projection. The swap service stays authoritative, so a
// failed write is logged and the in-memory swap is returned as-is.
func (c *Controller) persist(op string, swap *model.Swap) *model.Swap {
	saved, err := c.store.Swap.Upsert(c.db, swap)
	if err != nil {
		c.logger.Error("["+op+"][Upsert]", map[string]string{
			"error":   err.Error(),
			"swap_id": swap.SwapID,
		})
		return swap
	}
	return saved
}

func (c *Controller) observe(existing, fresh *model.Swap) {
	if c.observer == nil || fresh == nil {
		return
	}
	from := model.SwapStatus("")
	if existing != nil {
		from = existing.Status
	}
	if from != fresh.Status {
		c.observer.SwapStatusChanged(fresh.SwapID, from, fresh.Status)
	}
}

func toCallData(resp *swapapi.CallDataResponse) *model.EvmCallData {
	return &model.EvmCallData{
		To:      resp.To,
		Data:    resp.Data,
		Value:   resp.Value,
		ChainID: resp.ChainID,
	}
}
