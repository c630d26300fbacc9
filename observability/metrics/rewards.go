package metrics

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// RewardsMetrics exposes the operational counters of the rewards engine.
type RewardsMetrics struct {
	awardsTotal        prometheus.Counter
	assignedPoints     prometheus.Gauge
	activeRecipients   prometheus.Gauge
	distributionsTotal prometheus.Counter
	payoutTotal        prometheus.Counter
	roundingDust       prometheus.Gauge
}

var (
	rewardsOnce     sync.Once
	rewardsRegistry *RewardsMetrics
)

// Rewards returns the process-wide rewards metrics, registering the
// collectors on first use.
func Rewards() *RewardsMetrics {
	rewardsOnce.Do(func() {
		rewardsRegistry = &RewardsMetrics{
			awardsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "syndeo_awards_total",
				Help: "Count of successful point awards.",
			}),
			assignedPoints: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "syndeo_assigned_points",
				Help: "Points assigned in the current accounting period.",
			}),
			activeRecipients: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "syndeo_active_recipients",
				Help: "Recipients awarded at least once this period.",
			}),
			distributionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "syndeo_distributions_total",
				Help: "Count of completed reward distributions.",
			}),
			payoutTotal: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "syndeo_payout_total",
				Help: "Cumulative funds paid out across all distributions, in minor units.",
			}),
			roundingDust: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "syndeo_rounding_dust",
				Help: "Rounding remainder left in the pool by the last distribution.",
			}),
		}
		prometheus.MustRegister(
			rewardsRegistry.awardsTotal,
			rewardsRegistry.assignedPoints,
			rewardsRegistry.activeRecipients,
			rewardsRegistry.distributionsTotal,
			rewardsRegistry.payoutTotal,
			rewardsRegistry.roundingDust,
		)
	})
	return rewardsRegistry
}

// ObserveAward records a successful award and the resulting ledger gauges.
func (m *RewardsMetrics) ObserveAward(totalPoints uint64, activeRecipients int) {
	if m == nil {
		return
	}
	m.awardsTotal.Inc()
	m.assignedPoints.Set(float64(totalPoints))
	m.activeRecipients.Set(float64(activeRecipients))
}

// ObserveDistribution records a completed distribution.
func (m *RewardsMetrics) ObserveDistribution(paid, dust *big.Int) {
	if m == nil {
		return
	}
	m.distributionsTotal.Inc()
	if paid != nil {
		f, _ := new(big.Float).SetInt(paid).Float64()
		m.payoutTotal.Add(f)
	}
	if dust != nil {
		f, _ := new(big.Float).SetInt(dust).Float64()
		m.roundingDust.Set(f)
	}
	m.assignedPoints.Set(0)
	m.activeRecipients.Set(0)
}
