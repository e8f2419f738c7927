package monitoring

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/dwarvesf/arkswap/internal/blockstream"
	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/swapapi"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

type breaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	metrics  *ExternalAPIMetrics
	logger   *logger.Logger
	timeouts TimeoutConfig
}

func newBreaker(name string, config CircuitBreakerConfig, timeouts TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *breaker {
	if err := validateCircuitBreakerConfig(config); err != nil {
		logger.Warn("[newBreaker] invalid config, using defaults", map[string]string{
			"service": name,
			"error":   err.Error(),
		})
		config = CircuitBreakerConfigs[name]
	}

	b := &breaker{
		name:     name,
		metrics:  metrics,
		logger:   logger,
		timeouts: timeouts,
	}

	b.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.ConsecutiveFailureThreshold)
		},
		IsSuccessful: isBreakerSuccess,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] state change", map[string]string{
				"service": name,
				"from":    from.String(),
				"to":      to.String(),
			})
			metrics.UpdateCircuitBreakerState(name, to)
		},
	})
	metrics.UpdateCircuitBreakerState(name, gobreaker.StateClosed)
	return b
}

func (b *breaker) State() gobreaker.State {
	return b.cb.State()
}

// call runs fn under the breaker with a per-call deadline derived from ctx.
func call[T any](ctx context.Context, b *breaker, endpoint string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	timeout := b.timeouts.RequestTimeout
	if endpoint == "health" {
		timeout = b.timeouts.HealthCheckTimeout
	}

	start := time.Now()
	result, err := b.cb.Execute(func() (interface{}, error) {
		callCtx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		v, err := fn(callCtx)
		if err != nil && ctx.Err() == nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			b.metrics.RecordTimeout(b.name, endpoint)
			return nil, errs.Timeout("%s %s timed out after %s", b.name, endpoint, timeout)
		}
		return v, err
	})
	duration := time.Since(start).Seconds()

	if err != nil {
		b.metrics.RecordAPICall(b.name, endpoint, "error", duration)
		b.logError(endpoint, duration, err)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, errs.Remote(http.StatusServiceUnavailable, fmt.Sprintf("%s unavailable: %v", b.name, err), err)
		}
		return zero, err
	}

	b.metrics.RecordAPICall(b.name, endpoint, "success", duration)
	if result == nil {
		return zero, nil
	}
	return result.(T), nil
}

func (b *breaker) logError(endpoint string, duration float64, err error) {
	b.logger.Error("[CircuitBreaker] external call failed", map[string]string{
		"service":    b.name,
		"endpoint":   endpoint,
		"duration":   strconv.FormatFloat(duration, 'f', 3, 64),
		"error":      err.Error(),
		"error_type": string(classifyError(err)),
		"cb_state":   b.cb.State().String(),
	})
}

// isBreakerSuccess keeps caller mistakes and remote 4xx answers from tripping
// the breaker: the service answered.
func isBreakerSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	return classifyError(err) == ErrorTypeClientError
}

// CircuitBreakerSwapAPI is an swapapi.ISwapAPI guarded by a circuit breaker.
type CircuitBreakerSwapAPI struct {
	wrapped swapapi.ISwapAPI
	*breaker
}

func NewCircuitBreakerSwapAPI(wrapped swapapi.ISwapAPI, config CircuitBreakerConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *CircuitBreakerSwapAPI {
	return NewCircuitBreakerSwapAPIWithTimeout(wrapped, config, DefaultTimeoutConfig, metrics, logger)
}

func NewCircuitBreakerSwapAPIWithTimeout(wrapped swapapi.ISwapAPI, config CircuitBreakerConfig, timeouts TimeoutConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *CircuitBreakerSwapAPI {
	return &CircuitBreakerSwapAPI{
		wrapped: wrapped,
		breaker: newBreaker(ServiceSwapAPI, config, timeouts, metrics, logger),
	}
}

func (s *CircuitBreakerSwapAPI) GetTokens(ctx context.Context) ([]swapapi.TokenInfo, error) {
	return call(ctx, s.breaker, "get_tokens", s.wrapped.GetTokens)
}

func (s *CircuitBreakerSwapAPI) GetQuote(ctx context.Context, req swapapi.QuoteRequest) (*swapapi.QuoteResponse, error) {
	return call(ctx, s.breaker, "get_quote", func(ctx context.Context) (*swapapi.QuoteResponse, error) {
		return s.wrapped.GetQuote(ctx, req)
	})
}

func (s *CircuitBreakerSwapAPI) CreateArkadeToEvm(ctx context.Context, req swapapi.ArkadeToEvmRequest) (*swapapi.SwapResponse, error) {
	return call(ctx, s.breaker, "create_arkade_to_evm", func(ctx context.Context) (*swapapi.SwapResponse, error) {
		return s.wrapped.CreateArkadeToEvm(ctx, req)
	})
}

func (s *CircuitBreakerSwapAPI) CreateEvmToArkade(ctx context.Context, req swapapi.EvmToArkadeRequest) (*swapapi.SwapResponse, error) {
	return call(ctx, s.breaker, "create_evm_to_arkade", func(ctx context.Context) (*swapapi.SwapResponse, error) {
		return s.wrapped.CreateEvmToArkade(ctx, req)
	})
}

func (s *CircuitBreakerSwapAPI) GetSwap(ctx context.Context, swapID string) (*swapapi.SwapResponse, error) {
	return call(ctx, s.breaker, "get_swap", func(ctx context.Context) (*swapapi.SwapResponse, error) {
		return s.wrapped.GetSwap(ctx, swapID)
	})
}

func (s *CircuitBreakerSwapAPI) ListSwaps(ctx context.Context) ([]swapapi.SwapResponse, error) {
	return call(ctx, s.breaker, "list_swaps", s.wrapped.ListSwaps)
}

func (s *CircuitBreakerSwapAPI) Claim(ctx context.Context, swapID string) (*swapapi.ClaimResponse, error) {
	return call(ctx, s.breaker, "claim", func(ctx context.Context) (*swapapi.ClaimResponse, error) {
		return s.wrapped.Claim(ctx, swapID)
	})
}

func (s *CircuitBreakerSwapAPI) Refund(ctx context.Context, swapID string, req swapapi.RefundRequest) (*swapapi.RefundResponse, error) {
	return call(ctx, s.breaker, "refund", func(ctx context.Context) (*swapapi.RefundResponse, error) {
		return s.wrapped.Refund(ctx, swapID, req)
	})
}

func (s *CircuitBreakerSwapAPI) GetCoordinatorFundingCallData(ctx context.Context, swapID string) (*swapapi.CallDataResponse, error) {
	return call(ctx, s.breaker, "funding_call_data", func(ctx context.Context) (*swapapi.CallDataResponse, error) {
		return s.wrapped.GetCoordinatorFundingCallData(ctx, swapID)
	})
}

func (s *CircuitBreakerSwapAPI) GetCoordinatorRefundCallData(ctx context.Context, swapID string) (*swapapi.CallDataResponse, error) {
	return call(ctx, s.breaker, "refund_call_data", func(ctx context.Context) (*swapapi.CallDataResponse, error) {
		return s.wrapped.GetCoordinatorRefundCallData(ctx, swapID)
	})
}

func (s *CircuitBreakerSwapAPI) Health(ctx context.Context) error {
	_, err := call(ctx, s.breaker, "health", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.wrapped.Health(ctx)
	})
	return err
}

func (s *CircuitBreakerSwapAPI) GetVersion(ctx context.Context) (*swapapi.VersionResponse, error) {
	return call(ctx, s.breaker, "get_version", s.wrapped.GetVersion)
}

// CircuitBreakerExplorer guards the esplora client.
type CircuitBreakerExplorer struct {
	wrapped blockstream.IBlockStream
	*breaker
}

func NewCircuitBreakerExplorer(wrapped blockstream.IBlockStream, config CircuitBreakerConfig, metrics *ExternalAPIMetrics, logger *logger.Logger) *CircuitBreakerExplorer {
	return &CircuitBreakerExplorer{
		wrapped: wrapped,
		breaker: newBreaker(ServiceExplorer, config, DefaultTimeoutConfig, metrics, logger),
	}
}

func (e *CircuitBreakerExplorer) EstimateFees(ctx context.Context) (map[string]float64, error) {
	return call(ctx, e.breaker, "estimate_fees", e.wrapped.EstimateFees)
}

func (e *CircuitBreakerExplorer) GetUTXOs(ctx context.Context, address string) ([]blockstream.UTXO, error) {
	return call(ctx, e.breaker, "get_utxos", func(ctx context.Context) ([]blockstream.UTXO, error) {
		return e.wrapped.GetUTXOs(ctx, address)
	})
}

func (e *CircuitBreakerExplorer) GetTipHeight(ctx context.Context) (int64, error) {
	return call(ctx, e.breaker, "get_tip_height", e.wrapped.GetTipHeight)
}

func classifyError(err error) APIErrorType {
	if err == nil {
		return ""
	}

	switch errs.CodeOf(err) {
	case errs.CodeTimeout:
		return ErrorTypeTimeout
	case errs.CodeInvalidArgument, errs.CodeNotFound, errs.CodeNotAvailable:
		return ErrorTypeClientError
	case errs.CodeRemote:
		if e, ok := errs.From(err); ok && e.StatusCode > 0 {
			if e.StatusCode >= 500 {
				return ErrorTypeServerError
			}
			if e.StatusCode >= 400 {
				return ErrorTypeClientError
			}
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorTypeTimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return ErrorTypeTimeout
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"),
		strings.Contains(msg, "unreachable"), strings.Contains(msg, "no such host"):
		return ErrorTypeNetworkError
	case strings.Contains(msg, "500"), strings.Contains(msg, "502"),
		strings.Contains(msg, "503"), strings.Contains(msg, "504"):
		return ErrorTypeServerError
	}
	return ErrorTypeUnknown
}

func validateCircuitBreakerConfig(config CircuitBreakerConfig) error {
	if config.MaxRequests == 0 {
		return fmt.Errorf("max_requests must be greater than 0")
	}
	if config.ConsecutiveFailureThreshold <= 0 {
		return fmt.Errorf("consecutive_failure_threshold must be greater than 0")
	}
	if config.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	if config.Interval < 0 {
		return fmt.Errorf("interval must be non-negative")
	}
	return nil
}
