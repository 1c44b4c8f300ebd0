package metrics

import "github.com/kilianp07/ferry/core/factory"

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusPort is the listen address of the /metrics endpoint, e.g. ":2112".
	// The endpoint is only served when a prometheus sink is configured.
	PrometheusPort string `json:"prometheus_port"`
}

// PrometheusEnabled reports whether one of the configured sinks is prometheus.
func (c Config) PrometheusEnabled() bool {
	for _, s := range c.Sinks {
		if s.Type == "prometheus" {
			return true
		}
	}
	return false
}
