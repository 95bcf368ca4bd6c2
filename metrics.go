package molcom

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// outcome label values of BatchCollector.Configurations
const (
	OutcomeOK     = "ok"
	OutcomeFailed = "failed"
)

// BatchCollector bundles the Prometheus metrics of batch analyses
type BatchCollector struct {
	gatherer prometheus.Gatherer

	// Configurations counts processed descriptors, labeled by outcome and, for failures, stage
	Configurations *prometheus.CounterVec

	// Trials counts the result log trials read by successful configurations
	Trials prometheus.Counter

	// PredictedRTT observes the analytical round trip time of successful configurations
	PredictedRTT prometheus.Histogram
}

// NewBatchCollector registers the batch metrics against the provided registerer,
// defaulting to the global Prometheus registry when nil
func NewBatchCollector(reg prometheus.Registerer) (*BatchCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	configs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "molcom_configurations_total",
		Help: "Descriptors processed, labeled by outcome and failing stage.",
	}, []string{"outcome", "stage"})
	if err := register(reg, configs); err != nil {
		return nil, err
	}

	trials := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "molcom_trials_total",
		Help: "Result log trials read by successfully processed descriptors.",
	})
	if err := register(reg, trials); err != nil {
		return nil, err
	}

	rtt := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "molcom_predicted_rtt_steps",
		Help:    "Analytical round trip time of successfully processed descriptors, in steps.",
		Buckets: prometheus.ExponentialBuckets(10, 4, 10),
	})
	if err := register(reg, rtt); err != nil {
		return nil, err
	}

	return &BatchCollector{
		gatherer:       gatherer,
		Configurations: configs,
		Trials:         trials,
		PredictedRTT:   rtt,
	}, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			return fmt.Errorf("metric already registered: %w", err)
		}
		return err
	}
	return nil
}

// ObserveExperiment records a successfully processed descriptor
func (bc *BatchCollector) ObserveExperiment(exp *Experiment) {
	if bc == nil {
		return
	}
	bc.Configurations.WithLabelValues(OutcomeOK, "").Inc()
	bc.Trials.Add(float64(exp.Log.NumTrials()))
	bc.PredictedRTT.Observe(exp.Prediction.RTT)
}

// ObserveFailure records a descriptor that failed at stage
func (bc *BatchCollector) ObserveFailure(stage string) {
	if bc == nil {
		return
	}
	bc.Configurations.WithLabelValues(OutcomeFailed, stage).Inc()
}

// WriteToTextfile dumps the gathered metrics in the Prometheus text format
func (bc *BatchCollector) WriteToTextfile(filename string) error {
	return prometheus.WriteToTextfile(filename, bc.gatherer)
}
