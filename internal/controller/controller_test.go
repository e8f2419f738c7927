package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/mocks"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/quote"
	"github.com/dwarvesf/arkswap/internal/store"
	"github.com/dwarvesf/arkswap/internal/store/database"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/tokenregistry"
	"github.com/dwarvesf/arkswap/internal/types/environments"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

const (
	evmAddress = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	vhtlc      = "tark1qvhtlcaddressfortests"
	arkAddress = "tark1qwalletaddress"
)

type transition struct {
	swapID   string
	from, to model.SwapStatus
}

type recorder struct {
	mu     sync.Mutex
	events []transition
}

func (r *recorder) SwapStatusChanged(swapID string, from, to model.SwapStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, transition{swapID, from, to})
}

func btcSwap(id, status string) *swapapi.SwapResponse {
	return &swapapi.SwapResponse{
		ID:             id,
		Status:         status,
		Direction:      "btc_to_stablecoin",
		SourceToken:    "btc_arkade",
		TargetToken:    "usdc_pol",
		SourceAmount:   100_000,
		TargetAmount:   97.5,
		FeeSats:        250,
		VhtlcAddress:   vhtlc,
		RefundLocktime: 1_900_000_000,
	}
}

func stableSwap(id, status string) *swapapi.SwapResponse {
	return &swapapi.SwapResponse{
		ID:           id,
		Status:       status,
		Direction:    "stablecoin_to_btc",
		SourceToken:  "usdc_pol",
		TargetToken:  "btc_arkade",
		SourceAmount: 100,
		TargetAmount: 100_000,
		FeeSats:      500,
		HTLCAddress:  evmAddress,
	}
}

var _ = Describe("Controller", func() {
	var (
		ctx    context.Context
		api    *mocks.SwapAPI
		w      *mocks.Wallet
		db     *gorm.DB
		st     *store.Store
		obs    *recorder
		now    time.Time
		ctrl   *Controller
		stored func(id string) *model.Swap
	)

	BeforeEach(func() {
		ctx = context.Background()
		api = &mocks.SwapAPI{}
		w = &mocks.Wallet{}
		obs = &recorder{}
		now = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

		var err error
		db, err = database.OpenInMemory()
		Expect(err).NotTo(HaveOccurred())
		Expect(store.AutoMigrate(db)).To(Succeed())
		st = store.New()

		api.On("GetTokens", mock.Anything).Return([]swapapi.TokenInfo{
			{TokenID: "btc_arkade", Symbol: "BTC", Chain: "arkade", Decimals: 8, TokenAddress: "btc"},
			{TokenID: "usdc_pol", Symbol: "USDC", Chain: "polygon", ChainID: 137, Decimals: 6, TokenAddress: "0x3c499c542cEF5E3811e1192ce70d8cC03d5c3359"},
		}, nil).Maybe()

		log := logger.New(environments.Test)
		tokens := tokenregistry.New(api, log)
		quotes := quote.New(api, tokens, log, quote.WithClock(func() time.Time { return now }))
		ctrl = New(api, tokens, quotes, w, db, st, log,
			WithClock(func() time.Time { return now }),
			WithObserver(obs),
		)

		stored = func(id string) *model.Swap {
			swap, err := st.Swap.GetBySwapID(db, id)
			Expect(err).NotTo(HaveOccurred())
			return swap
		}
	})

	Describe("Quote", func() {
		It("rejects an unknown direction", func() {
			_, err := ctrl.Quote(ctx, QuoteParams{Direction: "sideways", Amount: 1, Token: "usdc", Chain: "polygon"})
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
		})

		It("rejects fractional sats", func() {
			_, err := ctrl.Quote(ctx, QuoteParams{Direction: model.DirectionBtcToStablecoin, Amount: 1.5, Token: "usdc", Chain: "polygon"})
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
		})

		It("prices btc_to_stablecoin through the engine", func() {
			api.On("GetQuote", mock.Anything, mock.Anything).Return(&swapapi.QuoteResponse{
				ExchangeRate:    100_000,
				ProtocolFee:     250,
				ProtocolFeeRate: 0.0025,
			}, nil).Once()

			q, err := ctrl.Quote(ctx, QuoteParams{Direction: model.DirectionBtcToStablecoin, Amount: 100_000, Token: "usdc", Chain: "polygon"})
			Expect(err).NotTo(HaveOccurred())
			Expect(q.TargetToken).To(Equal("usdc_pol"))
			Expect(q.ExpiresAt).To(Equal(now.Add(60 * time.Second)))
		})
	})

	Describe("CreateBtcToStablecoin", func() {
		params := BtcToStablecoinParams{
			TargetToken:      "usdc",
			TargetChain:      "polygon",
			TargetAddress:    evmAddress,
			SourceAmountSats: 100_000,
		}

		It("creates, funds the VHTLC and reports the swap as funded", func() {
			api.On("CreateArkadeToEvm", mock.Anything, mock.MatchedBy(func(req swapapi.ArkadeToEvmRequest) bool {
				return req.TargetToken == "usdc_pol" && req.SourceAmount != nil && *req.SourceAmount == 100_000 && req.TargetAmount == nil
			})).Return(btcSwap("s1", "pending"), nil).Once()
			w.On("SendBitcoin", mock.Anything, wallet.SendParams{Address: vhtlc, Amount: 100_000}).Return("fundtx", nil).Once()

			res, err := ctrl.CreateBtcToStablecoin(ctx, params)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Swap.Status).To(Equal(model.SwapStatusFunded))
			Expect(res.FundingTxID).To(Equal("fundtx"))
			Expect(res.Swap.FeePercentage).To(BeNumerically("~", 0.25, 1e-9))
			Expect(res.Swap.ExchangeRate).To(BeNumerically("~", 97_500, 1e-6))

			row := stored("s1")
			Expect(row.Status).To(Equal(model.SwapStatusPending))
			Expect(row.TxID).To(Equal("fundtx"))
			Expect(row.SourceIsWallet).To(BeTrue())
			w.AssertExpectations(GinkgoT())
		})

		It("returns a funding error carrying the swap id when payment fails", func() {
			api.On("CreateArkadeToEvm", mock.Anything, mock.Anything).Return(btcSwap("s2", "pending"), nil).Once()
			w.On("SendBitcoin", mock.Anything, mock.Anything).Return("", errors.New("insufficient funds")).Once()

			_, err := ctrl.CreateBtcToStablecoin(ctx, params)
			Expect(err).To(MatchError(errs.ErrFunding))
			e, ok := errs.From(err)
			Expect(ok).To(BeTrue())
			Expect(e.SwapID).To(Equal("s2"))

			Expect(stored("s2").Status).To(Equal(model.SwapStatusPending))
		})

		It("validates the EVM address before calling out", func() {
			p := params
			p.TargetAddress = "not-an-address"
			_, err := ctrl.CreateBtcToStablecoin(ctx, p)
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
			api.AssertNotCalled(GinkgoT(), "CreateArkadeToEvm", mock.Anything, mock.Anything)
		})

		It("requires an amount", func() {
			p := params
			p.SourceAmountSats = 0
			_, err := ctrl.CreateBtcToStablecoin(ctx, p)
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
		})

		It("surfaces the remote rejection untouched", func() {
			api.On("CreateArkadeToEvm", mock.Anything, mock.Anything).
				Return(nil, errs.Remote(400, "amount below minimum", nil)).Once()

			_, err := ctrl.CreateBtcToStablecoin(ctx, params)
			e, ok := errs.From(err)
			Expect(ok).To(BeTrue())
			Expect(e.Message()).To(Equal("amount below minimum"))
			w.AssertNotCalled(GinkgoT(), "SendBitcoin", mock.Anything, mock.Anything)
		})
	})

	Describe("CreateStablecoinToBtc", func() {
		It("defaults the destination to the wallet address", func() {
			w.On("GetAddress", mock.Anything).Return(arkAddress, nil).Once()
			api.On("CreateEvmToArkade", mock.Anything, mock.MatchedBy(func(req swapapi.EvmToArkadeRequest) bool {
				return req.TargetAddress == arkAddress && req.SourceToken == "usdc_pol"
			})).Return(stableSwap("s3", "pending"), nil).Once()

			res, err := ctrl.CreateStablecoinToBtc(ctx, StablecoinToBtcParams{
				SourceToken:  "usdc",
				SourceChain:  "polygon",
				SourceAmount: 100,
				UserAddress:  evmAddress,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Swap.Status).To(Equal(model.SwapStatusPending))
			Expect(res.Swap.Details().HTLCAddress).To(Equal(evmAddress))
			// 500 sats of a 100_000 sats target
			Expect(res.Swap.FeePercentage).To(BeNumerically("~", 0.5, 1e-9))
		})
	})

	Describe("CreateStablecoinToBtc precision", func() {
		It("rejects amounts below the token's base unit", func() {
			_, err := ctrl.CreateStablecoinToBtc(ctx, StablecoinToBtcParams{
				SourceToken:  "usdc",
				SourceChain:  "polygon",
				SourceAmount: 0.0000001,
				UserAddress:  evmAddress,
			})
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
			api.AssertNotCalled(GinkgoT(), "CreateEvmToArkade", mock.Anything, mock.Anything)
		})

		It("rounds to the token's precision before creating", func() {
			w.On("GetAddress", mock.Anything).Return(arkAddress, nil).Once()
			api.On("CreateEvmToArkade", mock.Anything, mock.MatchedBy(func(req swapapi.EvmToArkadeRequest) bool {
				return req.SourceAmount > 10.1234565 && req.SourceAmount < 10.1234575
			})).Return(stableSwap("s3b", "pending"), nil).Once()

			_, err := ctrl.CreateStablecoinToBtc(ctx, StablecoinToBtcParams{
				SourceToken:  "usdc",
				SourceChain:  "polygon",
				SourceAmount: 10.1234567,
				UserAddress:  evmAddress,
			})
			Expect(err).NotTo(HaveOccurred())
			api.AssertExpectations(GinkgoT())
		})
	})

	Describe("GetStatus", func() {
		It("stamps CompletedAt on the first completed observation only", func() {
			api.On("GetSwap", mock.Anything, "s4").Return(btcSwap("s4", "client-redeemed"), nil)

			first, err := ctrl.GetStatus(ctx, "s4")
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Status).To(Equal(model.SwapStatusCompleted))
			Expect(first.CompletedAt).NotTo(BeNil())
			Expect(first.CompletedAt.Equal(now)).To(BeTrue())

			firstSeen := now
			now = now.Add(time.Hour)
			second, err := ctrl.GetStatus(ctx, "s4")
			Expect(err).NotTo(HaveOccurred())
			Expect(second.CompletedAt.Equal(firstSeen)).To(BeTrue())
		})

		It("reports status transitions to the observer", func() {
			api.On("GetSwap", mock.Anything, "s5").Return(btcSwap("s5", "client-funded"), nil).Once()
			api.On("GetSwap", mock.Anything, "s5").Return(btcSwap("s5", "server-funded"), nil).Once()

			_, err := ctrl.GetStatus(ctx, "s5")
			Expect(err).NotTo(HaveOccurred())
			_, err = ctrl.GetStatus(ctx, "s5")
			Expect(err).NotTo(HaveOccurred())

			Expect(obs.events).To(Equal([]transition{
				{"s5", "", model.SwapStatusFunded},
				{"s5", model.SwapStatusFunded, model.SwapStatusProcessing},
			}))
		})

		It("requires an id", func() {
			_, err := ctrl.GetStatus(ctx, "")
			Expect(errs.CodeOf(err)).To(Equal(errs.CodeInvalidArgument))
		})
	})

	Describe("ListPending", func() {
		BeforeEach(func() {
			for _, id := range []string{"p1", "p2", "p3"} {
				api.On("GetSwap", mock.Anything, id).Return(btcSwap(id, "pending"), nil).Once()
				_, err := ctrl.GetStatus(ctx, id)
				Expect(err).NotTo(HaveOccurred())
			}
		})

		It("drops swaps that turned terminal and keeps stale ones that failed to refresh", func() {
			api.On("GetSwap", mock.Anything, "p1").Return(btcSwap("p1", "server-funded"), nil).Once()
			api.On("GetSwap", mock.Anything, "p2").Return(nil, errs.Remote(503, "unavailable", nil)).Once()
			api.On("GetSwap", mock.Anything, "p3").Return(btcSwap("p3", "expired"), nil).Once()

			pending, err := ctrl.ListPending(ctx)
			Expect(err).NotTo(HaveOccurred())

			statuses := map[string]model.SwapStatus{}
			for _, s := range pending {
				statuses[s.SwapID] = s.Status
			}
			Expect(statuses).To(Equal(map[string]model.SwapStatus{
				"p1": model.SwapStatusProcessing,
				"p2": model.SwapStatusPending,
			}))
			Expect(stored("p3").Status).To(Equal(model.SwapStatusExpired))
		})
	})

	Describe("ListHistory", func() {
		It("returns the projection newest first without calling out", func() {
			api.On("GetSwap", mock.Anything, "h1").Return(btcSwap("h1", "pending"), nil).Once()
			_, err := ctrl.GetStatus(ctx, "h1")
			Expect(err).NotTo(HaveOccurred())

			now = now.Add(time.Minute)
			api.On("GetSwap", mock.Anything, "h2").Return(stableSwap("h2", "pending"), nil).Once()
			_, err = ctrl.GetStatus(ctx, "h2")
			Expect(err).NotTo(HaveOccurred())

			history, err := ctrl.ListHistory(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(history).To(HaveLen(2))
			Expect(history[0].SwapID).To(Equal("h2"))
			api.AssertNumberOfCalls(GinkgoT(), "GetSwap", 2)
		})
	})

	Describe("Refund", func() {
		It("is not applicable to stablecoin_to_btc swaps", func() {
			api.On("GetSwap", mock.Anything, "r1").Return(stableSwap("r1", "expired"), nil).Once()

			res, err := ctrl.Refund(ctx, "r1", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.NotApplicable).To(BeTrue())
			Expect(res.Success).To(BeFalse())
			api.AssertNotCalled(GinkgoT(), "Refund", mock.Anything, mock.Anything, mock.Anything)
		})

		It("refunds a wallet-funded swap to the Ark address", func() {
			api.On("CreateArkadeToEvm", mock.Anything, mock.Anything).Return(btcSwap("r2", "pending"), nil).Once()
			w.On("SendBitcoin", mock.Anything, mock.Anything).Return("fundtx", nil).Once()
			_, err := ctrl.CreateBtcToStablecoin(ctx, BtcToStablecoinParams{
				TargetToken: "usdc_pol", TargetAddress: evmAddress, SourceAmountSats: 100_000,
			})
			Expect(err).NotTo(HaveOccurred())

			w.On("GetAddress", mock.Anything).Return(arkAddress, nil).Once()
			api.On("Refund", mock.Anything, "r2", swapapi.RefundRequest{DestinationAddress: arkAddress}).
				Return(&swapapi.RefundResponse{Success: true, TxID: "refundtx"}, nil).Once()

			res, err := ctrl.Refund(ctx, "r2", "")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Success).To(BeTrue())
			Expect(res.TxID).To(Equal("refundtx"))
			Expect(stored("r2").RefundAddress).To(Equal(arkAddress))
		})

		It("uses an explicit destination as given", func() {
			api.On("GetSwap", mock.Anything, "r3").Return(btcSwap("r3", "expired"), nil).Once()
			api.On("Refund", mock.Anything, "r3", swapapi.RefundRequest{DestinationAddress: "tb1qdest"}).
				Return(&swapapi.RefundResponse{Success: true}, nil).Once()

			_, err := ctrl.Refund(ctx, "r3", "tb1qdest")
			Expect(err).NotTo(HaveOccurred())
			w.AssertNotCalled(GinkgoT(), "GetAddress", mock.Anything)
			w.AssertNotCalled(GinkgoT(), "GetBoardingAddress", mock.Anything)
		})
	})

	Describe("EVM call data", func() {
		It("maps missing refund call data to not available", func() {
			api.On("GetCoordinatorRefundCallData", mock.Anything, "c1").Return(nil, nil).Once()

			_, err := ctrl.GetEvmRefundCallData(ctx, "c1")
			Expect(err).To(MatchError(errs.ErrNotAvailable))
		})

		It("returns funding call data", func() {
			api.On("GetCoordinatorFundingCallData", mock.Anything, "c2").
				Return(&swapapi.CallDataResponse{To: evmAddress, Data: "0xdeadbeef", ChainID: 137}, nil).Once()

			data, err := ctrl.GetEvmFundingCallData(ctx, "c2")
			Expect(err).NotTo(HaveOccurred())
			Expect(data.Data).To(Equal("0xdeadbeef"))
			Expect(data.ChainID).To(Equal(int64(137)))
		})
	})

	Describe("Claim", func() {
		It("passes the remote result through", func() {
			api.On("Claim", mock.Anything, "k1").
				Return(&swapapi.ClaimResponse{Success: true, Chain: "polygon", TxHash: "0xabc"}, nil).Once()

			res, err := ctrl.Claim(ctx, "k1")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.TxHash).To(Equal("0xabc"))
		})
	})

	Describe("Sync", func() {
		It("upserts every remote swap and counts transitions", func() {
			api.On("GetSwap", mock.Anything, "y1").Return(btcSwap("y1", "pending"), nil).Once()
			_, err := ctrl.GetStatus(ctx, "y1")
			Expect(err).NotTo(HaveOccurred())

			api.On("ListSwaps", mock.Anything).Return([]swapapi.SwapResponse{
				*btcSwap("y1", "client-funded"),
				*stableSwap("y2", "pending"),
			}, nil).Once()

			res, err := ctrl.Sync(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(*res).To(Equal(SyncResult{Fetched: 2, Upserted: 2, Transitions: 1}))
			Expect(stored("y1").Status).To(Equal(model.SwapStatusFunded))
			Expect(stored("y2").Direction).To(Equal(model.DirectionStablecoinToBtc))
		})
	})
})
