package monitoring

import (
	"time"
)

// CircuitBreakerConfig tunes one gobreaker instance.
type CircuitBreakerConfig struct {
	MaxRequests                 uint32        `json:"max_requests"`
	Interval                    time.Duration `json:"interval"`
	Timeout                     time.Duration `json:"timeout"`
	ConsecutiveFailureThreshold int           `json:"consecutive_failure_threshold"`
}

// TimeoutConfig bounds each call made through a breaker.
type TimeoutConfig struct {
	RequestTimeout     time.Duration `json:"request_timeout"`
	HealthCheckTimeout time.Duration `json:"health_check_timeout"`
}

// APIErrorType classifies failed external calls for metrics and logs.
type APIErrorType string

const (
	ErrorTypeTimeout      APIErrorType = "timeout"
	ErrorTypeNetworkError APIErrorType = "network_error"
	ErrorTypeServerError  APIErrorType = "server_error"
	ErrorTypeClientError  APIErrorType = "client_error"
	ErrorTypeUnknown      APIErrorType = "unknown"
)

const (
	ServiceSwapAPI  = "swap_api"
	ServiceExplorer = "blockstream_api"
)

var CircuitBreakerConfigs = map[string]CircuitBreakerConfig{
	ServiceSwapAPI: {
		MaxRequests:                 3,
		Interval:                    30 * time.Second,
		Timeout:                     60 * time.Second,
		ConsecutiveFailureThreshold: 5,
	},
	ServiceExplorer: {
		MaxRequests:                 5,
		Interval:                    30 * time.Second,
		Timeout:                     60 * time.Second,
		ConsecutiveFailureThreshold: 3,
	},
}

// DefaultTimeoutConfig leaves room for the swap client's own retries.
var DefaultTimeoutConfig = TimeoutConfig{
	RequestTimeout:     45 * time.Second,
	HealthCheckTimeout: 5 * time.Second,
}
