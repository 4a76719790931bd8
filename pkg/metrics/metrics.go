package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const subsystem = "paycalc"

// Load results
const (
	LoadSucceeded = "succeeded"
	LoadFailed    = "failed"
)

var (
	tableLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "table_loads_total",
		Help:      "Number of pay table loads from a source, by result",
	}, []string{"result"})

	tableResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "table_resolutions_total",
		Help:      "Number of pay table resolutions, by origin",
	}, []string{"origin"})

	calculations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Subsystem: subsystem,
		Name:      "calculations_total",
		Help:      "Number of pro-rata calculations, by outcome",
	}, []string{"outcome"})
)

func init() {
	prometheus.MustRegister(tableLoads, tableResolutions, calculations)
}

func IncLoad(result string) {
	tableLoads.WithLabelValues(result).Inc()
}

func IncResolution(origin string) {
	tableResolutions.WithLabelValues(origin).Inc()
}

func IncCalculation(outcome string) {
	calculations.WithLabelValues(outcome).Inc()
}
