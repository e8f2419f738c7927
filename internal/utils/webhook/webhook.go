package webhook

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

// Client pings uptime monitors after a background job succeeds.
type Client struct {
	rest   *resty.Client
	logger *logger.Logger
}

func New(logger *logger.Logger) *Client {
	return &Client{
		rest:   resty.New().SetTimeout(10 * time.Second),
		logger: logger,
	}
}

// CallUptimeWebhook GETs webhookURL. An empty URL is a no-op and failures are
// only logged.
func (c *Client) CallUptimeWebhook(ctx context.Context, webhookURL string) bool {
	if webhookURL == "" {
		return false
	}

	resp, err := c.rest.R().SetContext(ctx).Get(webhookURL)
	if err != nil {
		c.logger.Error("[CallUptimeWebhook]", map[string]string{
			"url":   webhookURL,
			"error": err.Error(),
		})
		return false
	}
	if resp.IsError() {
		c.logger.Warn("[CallUptimeWebhook] non-2xx response", map[string]string{
			"url":    webhookURL,
			"status": resp.Status(),
		})
		return false
	}

	c.logger.Debug("[CallUptimeWebhook] ok", map[string]string{
		"url":    webhookURL,
		"status": resp.Status(),
	})
	return true
}
