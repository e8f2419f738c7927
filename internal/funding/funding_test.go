package funding

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/mocks"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/types/environments"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

const (
	txA = "4a5e1e4baab89f3a32518a88c31bc87f618f76673e2cc77ab2127b7afdeda33b"
	txB = "0e3e2357e806b6cdb1f70b54c3a3a17b6714ee1f0e68bebb44a74b1efd512098"
)

type fakeTimer struct {
	c       chan time.Time
	stopped int32
}

func (t *fakeTimer) Chan() <-chan time.Time { return t.c }

func (t *fakeTimer) Stop() bool {
	atomic.AddInt32(&t.stopped, 1)
	return true
}

func (t *fakeTimer) fire() { t.c <- time.Now() }

type fakeWallet struct {
	mocks.Wallet

	setupErr     error
	onSubscribe  func(cb wallet.FundsCallback)
	subscribed   chan wallet.FundsCallback
	streamErrs   chan wallet.StreamErrorCallback
	unsubscribed int32
}

func newFakeWallet() *fakeWallet {
	return &fakeWallet{
		subscribed: make(chan wallet.FundsCallback, 1),
		streamErrs: make(chan wallet.StreamErrorCallback, 1),
	}
}

func (w *fakeWallet) NotifyIncomingFunds(_ context.Context, cb wallet.FundsCallback, onErr wallet.StreamErrorCallback) (func(), error) {
	if w.setupErr != nil {
		return nil, w.setupErr
	}
	if w.onSubscribe != nil {
		w.onSubscribe(cb)
	}
	w.streamErrs <- onErr
	w.subscribed <- cb
	return func() { atomic.AddInt32(&w.unsubscribed, 1) }, nil
}

func (w *fakeWallet) unsubscribeCount() int32 {
	return atomic.LoadInt32(&w.unsubscribed)
}

type outcome struct {
	res *model.IncomingFundsWaitResult
	err error
}

var _ = Describe("Waiter", func() {
	var (
		w      *fakeWallet
		waiter *Waiter
		tm     *fakeTimer
		timers int32
	)

	BeforeEach(func() {
		w = newFakeWallet()
		tm = &fakeTimer{c: make(chan time.Time, 1)}
		atomic.StoreInt32(&timers, 0)
		waiter = New(w, logger.New(environments.Test))
		waiter.newTimer = func(time.Duration) timer {
			atomic.AddInt32(&timers, 1)
			return tm
		}
	})

	wait := func(ctx context.Context, timeout time.Duration) <-chan outcome {
		done := make(chan outcome, 1)
		go func() {
			res, err := waiter.WaitForIncomingFunds(ctx, timeout)
			done <- outcome{res, err}
		}()
		return done
	}

	Describe("#WaitForIncomingFunds", func() {
		It("should return the notification payload when funds arrive before the timeout", func() {
			done := wait(context.Background(), time.Minute)

			var cb wallet.FundsCallback
			Eventually(w.subscribed).Should(Receive(&cb))
			cb(model.IncomingFunds{
				Type: model.CoinTypeVTXO,
				Coins: []model.Coin{
					{TxID: txA, Vout: 0, Value: 40_000},
					{TxID: txB, Vout: 3, Value: 2_500},
				},
			})

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.err).NotTo(HaveOccurred())
			Expect(got.res.Type).To(Equal(model.CoinTypeVTXO))
			Expect(got.res.Amount).To(Equal(int64(42_500)))
			Expect(got.res.IDs).To(Equal([]string{txA + ":0", txB + ":3"}))

			Expect(atomic.LoadInt32(&tm.stopped)).To(Equal(int32(1)))
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))

			// a late timer has nobody left to reject
			tm.fire()
			Consistently(done).ShouldNot(Receive())
		})

		It("should fail with a timeout error and unsubscribe exactly once when the timer fires first", func() {
			done := wait(context.Background(), time.Second)

			var cb wallet.FundsCallback
			Eventually(w.subscribed).Should(Receive(&cb))
			tm.fire()

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.res).To(BeNil())
			Expect(errors.Is(got.err, errs.ErrTimeout)).To(BeTrue())
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))

			// late notification is a no-op
			Expect(func() {
				cb(model.IncomingFunds{Type: model.CoinTypeUTXO, Coins: []model.Coin{{TxID: txA, Value: 1}}})
			}).NotTo(Panic())
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
		})

		It("should return the subscription error verbatim and still stop the timer", func() {
			setupErr := errors.New("wallet stream unavailable")
			w.setupErr = setupErr

			res, err := waiter.WaitForIncomingFunds(context.Background(), time.Minute)
			Expect(res).To(BeNil())
			Expect(err).To(BeIdenticalTo(setupErr))
			Expect(atomic.LoadInt32(&tm.stopped)).To(Equal(int32(1)))
			Expect(w.unsubscribeCount()).To(Equal(int32(0)))
		})

		It("should return the context error when cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := wait(ctx, time.Minute)

			Eventually(w.subscribed).Should(Receive())
			cancel()

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.err).To(MatchError(context.Canceled))
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
			Expect(atomic.LoadInt32(&tm.stopped)).To(Equal(int32(1)))
		})

		It("should fail with a remote error and unsubscribe once when the stream dies first", func() {
			done := wait(context.Background(), time.Minute)

			var cb wallet.FundsCallback
			var onErr wallet.StreamErrorCallback
			Eventually(w.subscribed).Should(Receive(&cb))
			Eventually(w.streamErrs).Should(Receive(&onErr))
			onErr(errs.Remote(0, "wallet funds stream closed", errors.New("websocket: close 1011 wallet daemon crashed")))

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.res).To(BeNil())
			Expect(errs.CodeOf(got.err)).To(Equal(errs.CodeRemote))
			Expect(got.err.Error()).To(ContainSubstring("wallet daemon crashed"))
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
			Expect(atomic.LoadInt32(&tm.stopped)).To(Equal(int32(1)))

			// the timer and late funds have nobody left to answer
			tm.fire()
			cb(model.IncomingFunds{Type: model.CoinTypeVTXO, Coins: []model.Coin{{TxID: txA, Value: 1}}})
			Consistently(done).ShouldNot(Receive())
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
		})

		It("should not hang without a timeout when the stream dies", func() {
			done := wait(context.Background(), 0)

			var onErr wallet.StreamErrorCallback
			Eventually(w.streamErrs).Should(Receive(&onErr))
			onErr(errors.New("unexpected EOF"))

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(errs.CodeOf(got.err)).To(Equal(errs.CodeRemote))
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
		})

		It("should ignore a stream failure after funds arrived", func() {
			done := wait(context.Background(), time.Minute)

			var cb wallet.FundsCallback
			var onErr wallet.StreamErrorCallback
			Eventually(w.subscribed).Should(Receive(&cb))
			Eventually(w.streamErrs).Should(Receive(&onErr))
			cb(model.IncomingFunds{Type: model.CoinTypeUTXO, Coins: []model.Coin{{TxID: txB, Vout: 2, Value: 5_000}}})
			onErr(errors.New("unexpected EOF"))

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.err).NotTo(HaveOccurred())
			Expect(got.res.Amount).To(Equal(int64(5_000)))
		})

		It("should not arm a timer without a timeout", func() {
			done := wait(context.Background(), 0)

			var cb wallet.FundsCallback
			Eventually(w.subscribed).Should(Receive(&cb))
			cb(model.IncomingFunds{Type: model.CoinTypeUTXO, Coins: []model.Coin{{TxID: txA, Vout: 1, Value: 10_000}}})

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.err).NotTo(HaveOccurred())
			Expect(got.res.Amount).To(Equal(int64(10_000)))
			Expect(atomic.LoadInt32(&timers)).To(Equal(int32(0)))
		})

		It("should accept a notification delivered while subscribing", func() {
			w.onSubscribe = func(cb wallet.FundsCallback) {
				cb(model.IncomingFunds{Type: model.CoinTypeVTXO, Coins: []model.Coin{{TxID: txB, Value: 7}}})
			}

			res, err := waiter.WaitForIncomingFunds(context.Background(), time.Minute)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Amount).To(Equal(int64(7)))
			Expect(w.unsubscribeCount()).To(Equal(int32(1)))
		})

		It("should let exactly one of many concurrent notifications win", func() {
			done := wait(context.Background(), time.Minute)

			var cb wallet.FundsCallback
			Eventually(w.subscribed).Should(Receive(&cb))

			var wg sync.WaitGroup
			for i := 1; i <= 20; i++ {
				wg.Add(1)
				go func(v int64) {
					defer wg.Done()
					cb(model.IncomingFunds{Type: model.CoinTypeVTXO, Coins: []model.Coin{{TxID: txA, Value: v}}})
				}(int64(i))
			}
			wg.Wait()

			var got outcome
			Eventually(done).Should(Receive(&got))
			Expect(got.err).NotTo(HaveOccurred())
			Expect(got.res.Amount).To(BeNumerically(">=", 1))
			Expect(got.res.IDs).To(HaveLen(1))
			Consistently(done).ShouldNot(Receive())
		})
	})
})
