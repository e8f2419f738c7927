package swapapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

type swapAPI struct {
	client     *resty.Client
	maxRetries int
	backoff    time.Duration
	logger     *logger.Logger
}

func New(cfg *config.AppConfig, logger *logger.Logger) ISwapAPI {
	return NewWithClient(cfg.SwapAPI.BaseURL, cfg.SwapAPI.APIKey, cfg.SwapAPI.Timeout, cfg.SwapAPI.MaxRetries, logger)
}

func NewWithClient(baseURL, apiKey string, timeout time.Duration, maxRetries int, logger *logger.Logger) ISwapAPI {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout)
	if apiKey != "" {
		client.SetHeader("X-API-Key", apiKey)
	}
	if maxRetries < 1 {
		maxRetries = 1
	}

	return &swapAPI{
		client:     client,
		maxRetries: maxRetries,
		backoff:    time.Second,
		logger:     logger,
	}
}

type call struct {
	op         string
	method     string
	path       string
	pathParams map[string]string
	query      map[string]string
	body       any
	// idempotent calls are retried on transport errors and 5xx responses.
	idempotent bool
}

func (c *swapAPI) do(ctx context.Context, in call, out any) (int, error) {
	attempts := 1
	if in.idempotent {
		attempts = c.maxRetries
	}

	var lastErr error
	lastStatus := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		req := c.client.R().SetContext(ctx)
		if in.pathParams != nil {
			req.SetPathParams(in.pathParams)
		}
		if in.query != nil {
			req.SetQueryParams(in.query)
		}
		if in.body != nil {
			req.SetHeader("Content-Type", "application/json").SetBody(in.body)
		}

		resp, err := req.Execute(in.method, in.path)
		if err != nil {
			if ctx.Err() != nil {
				return 0, errors.Wrapf(ctx.Err(), "%s cancelled", in.op)
			}
			lastErr = errs.Remote(0, fmt.Sprintf("%s request failed", in.op), err)
			c.logger.Error(fmt.Sprintf("[%s][Execute]", in.op), map[string]string{
				"error":   err.Error(),
				"attempt": strconv.Itoa(attempt),
			})
			if !c.sleep(ctx, attempt) {
				return 0, errors.Wrapf(ctx.Err(), "%s cancelled", in.op)
			}
			continue
		}

		lastStatus = resp.StatusCode()
		if resp.IsError() {
			message := remoteMessage(resp)
			lastErr = errs.Remote(lastStatus, message, nil)
			c.logger.Error(fmt.Sprintf("[%s][StatusCode]", in.op), map[string]string{
				"error":      message,
				"statusCode": strconv.Itoa(lastStatus),
				"attempt":    strconv.Itoa(attempt),
			})
			if lastStatus < http.StatusInternalServerError {
				return lastStatus, lastErr
			}
			if !c.sleep(ctx, attempt) {
				return lastStatus, errors.Wrapf(ctx.Err(), "%s cancelled", in.op)
			}
			continue
		}

		if out == nil {
			return lastStatus, nil
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			c.logger.Error(fmt.Sprintf("[%s][json.Unmarshal]", in.op), map[string]string{
				"error": err.Error(),
				"body":  string(resp.Body()),
			})
			return lastStatus, errs.Remote(lastStatus, fmt.Sprintf("%s returned an unreadable body", in.op), err)
		}
		return lastStatus, nil
	}

	return lastStatus, lastErr
}

// sleep backs off linearly and reports false if ctx ended first.
func (c *swapAPI) sleep(ctx context.Context, attempt int) bool {
	if attempt >= c.maxRetries {
		return ctx.Err() == nil
	}
	t := time.NewTimer(time.Duration(attempt) * c.backoff)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func remoteMessage(resp *resty.Response) string {
	var body errorResponse
	if err := json.Unmarshal(resp.Body(), &body); err == nil && body.text() != "" {
		return body.text()
	}
	if text := strings.TrimSpace(string(resp.Body())); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode())
}

func (c *swapAPI) GetTokens(ctx context.Context) ([]TokenInfo, error) {
	var tokens []TokenInfo
	if _, err := c.do(ctx, call{op: "GetTokens", method: resty.MethodGet, path: "/tokens", idempotent: true}, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

func (c *swapAPI) GetQuote(ctx context.Context, in QuoteRequest) (*QuoteResponse, error) {
	var quote QuoteResponse
	_, err := c.do(ctx, call{
		op:     "GetQuote",
		method: resty.MethodGet,
		path:   "/quote",
		query: map[string]string{
			"from":        in.From,
			"to":          in.To,
			"base_amount": strconv.FormatFloat(in.Amount, 'f', -1, 64),
		},
		idempotent: true,
	}, &quote)
	if err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *swapAPI) CreateArkadeToEvm(ctx context.Context, in ArkadeToEvmRequest) (*SwapResponse, error) {
	var swap SwapResponse
	_, err := c.do(ctx, call{op: "CreateArkadeToEvm", method: resty.MethodPost, path: "/swap/arkade/evm", body: in}, &swap)
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *swapAPI) CreateEvmToArkade(ctx context.Context, in EvmToArkadeRequest) (*SwapResponse, error) {
	var swap SwapResponse
	_, err := c.do(ctx, call{op: "CreateEvmToArkade", method: resty.MethodPost, path: "/swap/evm/arkade", body: in}, &swap)
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *swapAPI) GetSwap(ctx context.Context, swapID string) (*SwapResponse, error) {
	var swap SwapResponse
	_, err := c.do(ctx, call{
		op:         "GetSwap",
		method:     resty.MethodGet,
		path:       "/swap/{id}",
		pathParams: map[string]string{"id": swapID},
		idempotent: true,
	}, &swap)
	if err != nil {
		return nil, err
	}
	return &swap, nil
}

func (c *swapAPI) ListSwaps(ctx context.Context) ([]SwapResponse, error) {
	var swaps []SwapResponse
	if _, err := c.do(ctx, call{op: "ListSwaps", method: resty.MethodGet, path: "/swaps", idempotent: true}, &swaps); err != nil {
		return nil, err
	}
	return swaps, nil
}

func (c *swapAPI) Claim(ctx context.Context, swapID string) (*ClaimResponse, error) {
	var res ClaimResponse
	_, err := c.do(ctx, call{
		op:         "Claim",
		method:     resty.MethodPost,
		path:       "/swap/{id}/claim",
		pathParams: map[string]string{"id": swapID},
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *swapAPI) Refund(ctx context.Context, swapID string, in RefundRequest) (*RefundResponse, error) {
	var res RefundResponse
	_, err := c.do(ctx, call{
		op:         "Refund",
		method:     resty.MethodPost,
		path:       "/swap/{id}/refund",
		pathParams: map[string]string{"id": swapID},
		body:       in,
	}, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *swapAPI) GetCoordinatorFundingCallData(ctx context.Context, swapID string) (*CallDataResponse, error) {
	var res CallDataResponse
	_, err := c.do(ctx, call{
		op:         "GetCoordinatorFundingCallData",
		method:     resty.MethodGet,
		path:       "/swap/{id}/funding-call-data",
		pathParams: map[string]string{"id": swapID},
		idempotent: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	if err := validateCallData(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *swapAPI) GetCoordinatorRefundCallData(ctx context.Context, swapID string) (*CallDataResponse, error) {
	var res CallDataResponse
	status, err := c.do(ctx, call{
		op:         "GetCoordinatorRefundCallData",
		method:     resty.MethodGet,
		path:       "/swap/{id}/refund-call-data",
		pathParams: map[string]string{"id": swapID},
		idempotent: true,
	}, &res)
	if status == http.StatusNotFound || status == http.StatusNoContent {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if res.Data == "" {
		return nil, nil
	}
	if err := validateCallData(&res); err != nil {
		return nil, err
	}
	return &res, nil
}

func validateCallData(res *CallDataResponse) error {
	if !common.IsHexAddress(res.To) {
		return errs.Remote(0, fmt.Sprintf("call data target %q is not an EVM address", res.To), nil)
	}
	if _, err := hexutil.Decode(res.Data); err != nil {
		return errs.Remote(0, "call data is not 0x-prefixed hex", err)
	}
	return nil
}

func (c *swapAPI) Health(ctx context.Context) error {
	_, err := c.do(ctx, call{op: "Health", method: resty.MethodGet, path: "/health"}, nil)
	return err
}

func (c *swapAPI) GetVersion(ctx context.Context) (*VersionResponse, error) {
	var res VersionResponse
	if _, err := c.do(ctx, call{op: "GetVersion", method: resty.MethodGet, path: "/version", idempotent: true}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
