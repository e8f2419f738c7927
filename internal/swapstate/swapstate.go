// Package swapstate maps the swap service's status vocabulary onto the small
// closed set of lifecycle states the coordinator reasons about.
package swapstate

import (
	"sort"
	"strings"

	"github.com/dwarvesf/arkswap/internal/model"
)

// remoteStatuses is the whole mapping. New remote statuses are added here and
// nowhere else; anything missing falls through to pending.
var remoteStatuses = map[string]model.SwapStatus{
	"pending": model.SwapStatusPending,

	"client-funding-seen": model.SwapStatusFunded,
	"client-funded":       model.SwapStatusFunded,

	"server-funded":    model.SwapStatusProcessing,
	"client-redeeming": model.SwapStatusProcessing,

	"client-redeemed":                     model.SwapStatusCompleted,
	"server-redeemed":                     model.SwapStatusCompleted,
	"client-redeemed-and-client-refunded": model.SwapStatusCompleted,

	"expired":                model.SwapStatusExpired,
	"client-funded-too-late": model.SwapStatusExpired,

	"client-refunded":                 model.SwapStatusRefunded,
	"client-funded-server-refunded":   model.SwapStatusRefunded,
	"client-refunded-server-funded":   model.SwapStatusRefunded,
	"client-refunded-server-refunded": model.SwapStatusRefunded,

	"client-invalid-funded": model.SwapStatusFailed,
}

var byCanonical = func() map[string]model.SwapStatus {
	m := make(map[string]model.SwapStatus, len(remoteStatuses))
	for remote, status := range remoteStatuses {
		m[canonical(remote)] = status
	}
	return m
}()

var terminal = map[model.SwapStatus]bool{
	model.SwapStatusCompleted: true,
	model.SwapStatusExpired:   true,
	model.SwapStatusRefunded:  true,
	model.SwapStatusFailed:    true,
}

// canonical folds case and separators so "ClientFunded", "client_funded" and
// "client-funded" land on the same key.
func canonical(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch r {
		case '-', '_', ' ':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Normalize never fails: unknown or future remote statuses are pending.
// Already-normalized values map to themselves.
func Normalize(remote string) model.SwapStatus {
	key := canonical(remote)
	if status, ok := byCanonical[key]; ok {
		return status
	}
	if IsKnown(model.SwapStatus(key)) {
		return model.SwapStatus(key)
	}
	return model.SwapStatusPending
}

// IsTerminal reports whether no further transition is expected. It gates both
// pending listings and whether a cached projection can be trusted as final.
func IsTerminal(status model.SwapStatus) bool {
	return terminal[status]
}

// AllStatuses is the closed normalized set, in lifecycle order.
func AllStatuses() []model.SwapStatus {
	return []model.SwapStatus{
		model.SwapStatusPending,
		model.SwapStatusFunded,
		model.SwapStatusProcessing,
		model.SwapStatusCompleted,
		model.SwapStatusExpired,
		model.SwapStatusRefunded,
		model.SwapStatusFailed,
	}
}

func IsKnown(status model.SwapStatus) bool {
	for _, s := range AllStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// KnownRemoteStatuses lists the remote vocabulary, sorted.
func KnownRemoteStatuses() []string {
	out := make([]string, 0, len(remoteStatuses))
	for remote := range remoteStatuses {
		out = append(out, remote)
	}
	sort.Strings(out)
	return out
}

// TerminalStatuses is used by stores to filter rows without loading them.
func TerminalStatuses() []model.SwapStatus {
	out := make([]model.SwapStatus, 0, len(terminal))
	for _, s := range AllStatuses() {
		if terminal[s] {
			out = append(out, s)
		}
	}
	return out
}
