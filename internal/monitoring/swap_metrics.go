package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/swapstate"
)

// SwapMetrics tracks the projection: status transitions as the controller sees
// them and the current count per status.
type SwapMetrics struct {
	transitions *prometheus.CounterVec
	byStatus    *prometheus.GaugeVec
}

func NewSwapMetrics() *SwapMetrics {
	return &SwapMetrics{
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arkswap_swap_status_transitions_total",
				Help: "Normalized swap status transitions observed locally",
			},
			[]string{"from", "to"},
		),
		byStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "arkswap_swaps",
				Help: "Swaps in the local projection by normalized status",
			},
			[]string{"status"},
		),
	}
}

func (m *SwapMetrics) MustRegister(registry prometheus.Registerer) {
	registry.MustRegister(m.transitions, m.byStatus)
}

// SwapStatusChanged records one transition. A swap seen for the first time
// comes from "new".
func (m *SwapMetrics) SwapStatusChanged(_ string, from, to model.SwapStatus) {
	if from == "" {
		from = "new"
	}
	m.transitions.WithLabelValues(string(from), string(to)).Inc()
}

// SetSwapCounts replaces the per-status gauge. Statuses missing from counts are
// reset to zero.
func (m *SwapMetrics) SetSwapCounts(counts map[model.SwapStatus]int64) {
	for _, status := range swapstate.AllStatuses() {
		m.byStatus.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}
