package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/ferry/core/metrics"
	"github.com/kilianp07/ferry/infra/logger"
)

// InfluxSink writes allocation runs and events to an InfluxDB instance using
// the official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

// RecordRun writes one allocation_run point plus one lane_load point per lane.
func (s *InfluxSink) RecordRun(res coremetrics.RunResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", res.RunID).
		AddTag("strategy", res.Strategy).
		AddField("capacity_cm", res.Capacity).
		AddField("vehicles", res.Vehicles).
		AddField("placed", res.Placed).
		AddField("rearranged", res.Rearranged).
		AddField("relocations", res.Relocations).
		AddField("overflow", res.Overflow).
		AddField("overflow_cm", res.OverflowLength).
		AddField("utilization", round3(res.Utilization)).
		AddField("duration_ms", round3(float64(res.EndTime.Sub(res.StartTime).Microseconds())/1000)).
		SetTime(res.EndTime)
	if err := s.writeAPI.WritePoint(ctx, p); err != nil {
		return err
	}
	for i, load := range res.LaneLoads {
		lp := write.NewPointWithMeasurement("lane_load").
			AddTag("run_id", res.RunID).
			AddTag("lane", strconv.Itoa(i)).
			AddField("load_cm", load).
			SetTime(res.EndTime)
		if err := s.writeAPI.WritePoint(ctx, lp); err != nil {
			return err
		}
	}
	return nil
}

// RecordRelocation writes a relocation move.
func (s *InfluxSink) RecordRelocation(ev coremetrics.RelocationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("relocation_move").
		AddTag("run_id", ev.RunID).
		AddTag("undone", strconv.FormatBool(ev.Undone)).
		AddField("from_lane", ev.From).
		AddField("to_lane", ev.To).
		AddField("length_cm", ev.Length).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordOverflow writes an overflowed vehicle.
func (s *InfluxSink) RecordOverflow(ev coremetrics.OverflowEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("vehicle_overflow").
		AddTag("run_id", ev.RunID).
		AddTag("category", ev.Category).
		AddField("length_cm", ev.Length).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
