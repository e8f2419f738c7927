package blockstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"

	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

const maxRetries = 3

type blockstream struct {
	client  *resty.Client
	logger  *logger.Logger
	backoff time.Duration
}

func New(cfg *config.AppConfig, logger *logger.Logger) IBlockStream {
	return newBlockstream(cfg.Bitcoin.BlockstreamAPIURL, logger)
}

func newBlockstream(baseURL string, logger *logger.Logger) *blockstream {
	return &blockstream{
		client:  resty.New().SetBaseURL(strings.TrimRight(baseURL, "/")).SetTimeout(15 * time.Second),
		logger:  logger,
		backoff: time.Second,
	}
}

// get fetches path, retrying transport failures, rate limits and 5xx with a
// linear backoff. A Retry-After header on 429 overrides the backoff.
func (c *blockstream) get(ctx context.Context, op, path string) ([]byte, error) {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		resp, err := c.client.R().SetContext(ctx).Get(path)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = errors.Wrapf(err, "failed to request %s", path)
			c.logger.Error(fmt.Sprintf("[%s][client.Get]", op), map[string]string{
				"error":   err.Error(),
				"attempt": strconv.Itoa(attempt),
			})
			if err := c.wait(ctx, attempt, 0); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode() != http.StatusOK {
			lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode())
			c.logger.Error(fmt.Sprintf("[%s][client.Get]", op), map[string]string{
				"error":      lastErr.Error(),
				"statusCode": strconv.Itoa(resp.StatusCode()),
				"attempt":    strconv.Itoa(attempt),
			})
			if resp.StatusCode() != http.StatusTooManyRequests && resp.StatusCode() < http.StatusInternalServerError {
				return nil, lastErr
			}
			if err := c.wait(ctx, attempt, retryAfter(resp)); err != nil {
				return nil, err
			}
			continue
		}

		return resp.Body(), nil
	}

	return nil, lastErr
}

func (c *blockstream) wait(ctx context.Context, attempt int, override time.Duration) error {
	if attempt >= maxRetries {
		return nil
	}
	d := time.Duration(attempt) * c.backoff
	if override > 0 {
		d = override
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func retryAfter(resp *resty.Response) time.Duration {
	seconds, err := strconv.Atoi(resp.Header().Get("Retry-After"))
	if err != nil || seconds <= 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// EstimateFees returns a map of confirmation target times (in blocks) to fee rates (in sat/vB)
// Example response:
//
//	{
//	  "1": 25.0,  // 25 sat/vB for next block
//	  "6": 10.0   // 10 sat/vB for 6 blocks
//	}
func (c *blockstream) EstimateFees(ctx context.Context) (map[string]float64, error) {
	body, err := c.get(ctx, "EstimateFees", "/fee-estimates")
	if err != nil {
		return nil, err
	}

	var fees map[string]float64
	if err := json.Unmarshal(body, &fees); err != nil {
		c.logger.Error("[EstimateFees][json.Unmarshal]", map[string]string{
			"error": err.Error(),
			"body":  string(body),
		})
		return nil, errors.Wrap(err, "failed to parse fee estimates")
	}
	return fees, nil
}

func (c *blockstream) GetUTXOs(ctx context.Context, address string) ([]UTXO, error) {
	body, err := c.get(ctx, "GetUTXOs", fmt.Sprintf("/address/%s/utxo", address))
	if err != nil {
		return nil, err
	}

	var utxos []UTXO
	if err := json.Unmarshal(body, &utxos); err != nil {
		c.logger.Error("[GetUTXOs][json.Unmarshal]", map[string]string{
			"error": err.Error(),
			"body":  string(body),
		})
		return nil, errors.Wrap(err, "failed to parse UTXOs")
	}
	return utxos, nil
}

func (c *blockstream) GetTipHeight(ctx context.Context) (int64, error) {
	body, err := c.get(ctx, "GetTipHeight", "/blocks/tip/height")
	if err != nil {
		return 0, err
	}

	height, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, errors.Wrap(err, "failed to parse tip height")
	}
	return height, nil
}

// FeeRateFor picks the rate for the smallest target at or above blocks, falling
// back to the slowest estimate available.
func FeeRateFor(fees map[string]float64, blocks int) float64 {
	best, bestTarget := 0.0, 0
	slowest, slowestTarget := 0.0, 0
	for k, rate := range fees {
		target, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		if target >= blocks && (bestTarget == 0 || target < bestTarget) {
			best, bestTarget = rate, target
		}
		if target > slowestTarget {
			slowest, slowestTarget = rate, target
		}
	}
	if bestTarget != 0 {
		return best
	}
	return slowest
}
