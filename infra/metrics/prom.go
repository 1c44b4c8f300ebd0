package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/ferry/core/metrics"
)

// PromSink records allocation runs and events in Prometheus metrics.
type PromSink struct {
	runs        *prometheus.CounterVec
	vehicles    *prometheus.CounterVec
	relocations *prometheus.CounterVec
	laneLoad    *prometheus.GaugeVec
	utilization *prometheus.GaugeVec
	duration    *prometheus.HistogramVec
}

// NewPromSink registers allocation metrics on the default Prometheus registerer.
// The metrics endpoint is served separately by StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferry_allocation_runs_total",
			Help: "Total number of allocation runs",
		}, []string{"strategy"}),
		vehicles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferry_vehicles_total",
			Help: "Vehicles processed by outcome",
		}, []string{"category", "outcome"}),
		relocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ferry_relocation_moves_total",
			Help: "Small car relocation moves, including rolled back ones",
		}, []string{"undone"}),
		laneLoad: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ferry_lane_load_cm",
			Help: "Lane load at the end of the last run",
		}, []string{"lane"}),
		utilization: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ferry_deck_utilization_ratio",
			Help: "Total load over total capacity at the end of the last run",
		}, []string{"strategy"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ferry_allocation_duration_seconds",
			Help:    "Wall time of an allocation run",
			Buckets: prometheus.DefBuckets,
		}, []string{"strategy"}),
	}
	var err error
	if s.runs, err = register(reg, s.runs); err != nil {
		return nil, err
	}
	if s.vehicles, err = register(reg, s.vehicles); err != nil {
		return nil, err
	}
	if s.relocations, err = register(reg, s.relocations); err != nil {
		return nil, err
	}
	if s.laneLoad, err = register(reg, s.laneLoad); err != nil {
		return nil, err
	}
	if s.utilization, err = register(reg, s.utilization); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, s.duration); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing an identical collector that is already
// registered.
func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates run counters and the per-lane gauges.
func (s *PromSink) RecordRun(res coremetrics.RunResult) error {
	s.runs.WithLabelValues(res.Strategy).Inc()
	s.utilization.WithLabelValues(res.Strategy).Set(res.Utilization)
	s.duration.WithLabelValues(res.Strategy).Observe(res.EndTime.Sub(res.StartTime).Seconds())
	for i, load := range res.LaneLoads {
		s.laneLoad.WithLabelValues(strconv.Itoa(i)).Set(float64(load))
	}
	return nil
}

// RecordPlacement counts a placed vehicle.
func (s *PromSink) RecordPlacement(ev coremetrics.PlacementEvent) error {
	s.vehicles.WithLabelValues(ev.Category, "placed_"+ev.Via).Inc()
	return nil
}

// RecordRelocation counts a relocation move.
func (s *PromSink) RecordRelocation(ev coremetrics.RelocationEvent) error {
	s.relocations.WithLabelValues(strconv.FormatBool(ev.Undone)).Inc()
	return nil
}

// RecordOverflow counts an overflowed vehicle.
func (s *PromSink) RecordOverflow(ev coremetrics.OverflowEvent) error {
	s.vehicles.WithLabelValues(ev.Category, "overflow").Inc()
	return nil
}
