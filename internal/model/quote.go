package model

import "time"

type Fee struct {
	// Amount is in sats.
	Amount     int64   `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// Quote is an indicative price. It is not tied to any swap created afterwards;
// the remote rate can move between quoting and execution.
type Quote struct {
	SourceToken  string    `json:"source_token"`
	TargetToken  string    `json:"target_token"`
	SourceAmount float64   `json:"source_amount"`
	TargetAmount float64   `json:"target_amount"`
	ExchangeRate float64   `json:"exchange_rate"`
	Fee          Fee       `json:"fee"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (q *Quote) IsExpired(now time.Time) bool {
	return !now.Before(q.ExpiresAt)
}
