package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kilianp07/ferry/config"
	"github.com/kilianp07/ferry/core/allocation"
	coremetrics "github.com/kilianp07/ferry/core/metrics"
	coremqtt "github.com/kilianp07/ferry/core/mqtt"
	"github.com/kilianp07/ferry/infra/logger"
	"github.com/kilianp07/ferry/infra/metrics"
	"github.com/kilianp07/ferry/infra/mqtt"
	"github.com/kilianp07/ferry/internal/eventbus"
	"github.com/kilianp07/ferry/pkg/export"
	"github.com/kilianp07/ferry/pkg/problem"
)

// ErrPublishDisabled is returned by Publish when no MQTT broker is configured.
var ErrPublishDisabled = errors.New("publish: no mqtt broker configured")

var newPublisher = func(cfg mqtt.Config) (coremqtt.Publisher, error) {
	return mqtt.NewPahoPublisher(cfg)
}

// Service wires the allocator to its observability and reporting
// collaborators.
type Service struct {
	cfg       *config.Config
	selector  allocation.LaneSelector
	sink      coremetrics.MetricsSink
	publisher coremqtt.Publisher
	bus       eventbus.EventBus
	log       logger.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithPublisher sets the publisher used for run reports instead of dialing
// the configured broker.
func WithPublisher(p coremqtt.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithSink replaces the metrics sink built from the configuration.
func WithSink(sink coremetrics.MetricsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithEventBus copies allocation events to bus. The bus drops events for
// subscribers that fall behind; metrics do not depend on it.
func WithEventBus(bus eventbus.EventBus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithLogger sets the logger used by the service and its allocator.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) { s.log = l }
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	svc := &Service{cfg: cfg}
	for _, o := range opts {
		o(svc)
	}
	if svc.log == nil {
		svc.log = logger.New("service")
	}
	if svc.sink == nil {
		sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
		svc.sink = sink
	}

	strategy, ok := allocation.ParseStrategy(cfg.Allocation.Strategy)
	if !ok {
		svc.log.Warnf("unknown strategy %q, falling back to %s", cfg.Allocation.Strategy, strategy)
	}
	svc.selector = allocation.NewLaneSelector(strategy, allocation.NewChooser(cfg.Allocation.Seed))
	return svc, nil
}

// Strategy returns the lane selection strategy in use.
func (s *Service) Strategy() allocation.StrategyType { return s.selector.Strategy() }

// Run validates the problem and allocates its vehicles. Events emitted by the
// allocator are recorded in the metrics sink as they happen and copied to the
// event bus set with WithEventBus.
func (s *Service) Run(ctx context.Context, in allocation.Input) (allocation.Result, error) {
	if err := problem.Validate(in); err != nil {
		return allocation.Result{}, err
	}
	pub := eventbus.Fanout{metrics.NewEventRecorder(s.sink)}
	if s.bus != nil {
		pub = append(pub, s.bus)
	}
	alloc, err := allocation.NewAllocator(s.selector, s.sink, pub, s.log)
	if err != nil {
		return allocation.Result{}, err
	}
	alloc.SetRearrangement(s.cfg.Allocation.RearrangementEnabled())

	return alloc.Run(ctx, in)
}

// Publish sends the JSON report of res to the configured report topic.
func (s *Service) Publish(ctx context.Context, res allocation.Result) error {
	if s.publisher == nil {
		if s.cfg.MQTT.Broker == "" {
			return ErrPublishDisabled
		}
		p, err := newPublisher(s.cfg.MQTT)
		if err != nil {
			return fmt.Errorf("mqtt publisher: %w", err)
		}
		s.publisher = p
	}
	payload, err := json.Marshal(export.NewReport(res))
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	topic := s.cfg.MQTT.ReportTopic
	if topic == "" {
		topic = mqtt.DefaultReportTopic
	}
	return s.publisher.Publish(ctx, topic, payload)
}

// ServeMetrics exposes the Prometheus endpoint until ctx is canceled when a
// prometheus sink is configured.
func (s *Service) ServeMetrics(ctx context.Context) {
	if !s.cfg.Metrics.PrometheusEnabled() || s.cfg.Metrics.PrometheusPort == "" {
		return
	}
	go func() {
		if err := metrics.StartPromServer(ctx, s.cfg.Metrics.PrometheusPort); err != nil {
			s.log.Errorf("prom server: %v", err)
		}
	}()
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.publisher != nil {
		s.publisher.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
