// Package funding waits for the wallet to receive funds.
package funding

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
	"github.com/dwarvesf/arkswap/internal/wallet"
)

type timer interface {
	Chan() <-chan time.Time
	Stop() bool
}

type stdTimer struct {
	*time.Timer
}

func (t stdTimer) Chan() <-chan time.Time {
	return t.C
}

type IWaiter interface {
	WaitForIncomingFunds(ctx context.Context, timeout time.Duration) (*model.IncomingFundsWaitResult, error)
}

type Waiter struct {
	wallet   wallet.IWallet
	logger   *logger.Logger
	newTimer func(time.Duration) timer
}

func New(w wallet.IWallet, logger *logger.Logger) *Waiter {
	return &Waiter{
		wallet: w,
		logger: logger,
		newTimer: func(d time.Duration) timer {
			return stdTimer{time.NewTimer(d)}
		},
	}
}

type waitOutcome struct {
	funds model.IncomingFunds
	err   error
}

// WaitForIncomingFunds returns the first funds notification received after the
// call. A zero timeout waits until ctx is done. Whichever of notification,
// stream failure, timeout or cancellation comes first decides the outcome; the
// others are ignored. The subscription is always released before returning.
func (w *Waiter) WaitForIncomingFunds(ctx context.Context, timeout time.Duration) (*model.IncomingFundsWaitResult, error) {
	var (
		settled  atomic.Bool
		decided  = make(chan waitOutcome, 1)
		timeoutC <-chan time.Time
		t        timer
	)
	settle := func(o waitOutcome) bool {
		if !settled.CompareAndSwap(false, true) {
			return false
		}
		decided <- o
		return true
	}

	if timeout > 0 {
		t = w.newTimer(timeout)
		timeoutC = t.Chan()
	}

	var unsubscribe func()
	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			if t != nil {
				t.Stop()
			}
			if unsubscribe != nil {
				unsubscribe()
			}
		})
	}
	defer cleanup()

	unsubscribe, err := w.wallet.NotifyIncomingFunds(ctx,
		func(funds model.IncomingFunds) {
			settle(waitOutcome{funds: funds})
		},
		func(err error) {
			if errs.CodeOf(err) != errs.CodeRemote {
				err = errs.Remote(0, "wallet funds stream closed", err)
			}
			settle(waitOutcome{err: err})
		},
	)
	if err != nil {
		w.logger.Error("[WaitForIncomingFunds][NotifyIncomingFunds]", map[string]string{
			"error": err.Error(),
		})
		return nil, err
	}

	select {
	case o := <-decided:
		return w.finish(o)
	case <-timeoutC:
		if settle(waitOutcome{err: errs.Timeout("no funds received within %s", timeout)}) {
			w.logger.Info("[WaitForIncomingFunds] timed out", map[string]string{
				"timeout": timeout.String(),
			})
		}
	case <-ctx.Done():
		settle(waitOutcome{err: ctx.Err()})
	}
	// a notification that won the race is already in decided
	return w.finish(<-decided)
}

func (w *Waiter) finish(o waitOutcome) (*model.IncomingFundsWaitResult, error) {
	if o.err != nil {
		if errs.CodeOf(o.err) == errs.CodeRemote {
			w.logger.Error("[WaitForIncomingFunds] funds stream failed", map[string]string{
				"error": o.err.Error(),
			})
		}
		return nil, o.err
	}
	return w.received(o.funds), nil
}

func summarize(funds model.IncomingFunds) *model.IncomingFundsWaitResult {
	res := &model.IncomingFundsWaitResult{
		Type: funds.Type,
		IDs:  make([]string, 0, len(funds.Coins)),
	}
	for _, coin := range funds.Coins {
		res.Amount += coin.Value
		res.IDs = append(res.IDs, coin.Outpoint())
	}
	return res
}

func (w *Waiter) received(funds model.IncomingFunds) *model.IncomingFundsWaitResult {
	res := summarize(funds)
	w.logger.Info("[WaitForIncomingFunds] funds received", map[string]string{
		"type":   string(res.Type),
		"amount": strconv.FormatInt(res.Amount, 10),
		"coins":  strconv.Itoa(len(res.IDs)),
	})
	return res
}
