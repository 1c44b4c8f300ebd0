package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/ferry/core/metrics"
)

// captureServer records the line protocol bodies written to it.
func captureServer(t *testing.T) (*httptest.Server, func() []string) {
	t.Helper()
	var mu sync.Mutex
	var bodies []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		mu.Lock()
		bodies = append(bodies, strings.TrimSpace(string(data)))
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), bodies...)
	}
}

func line(p *write.Point) string {
	return strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
}

func TestInfluxSink_RecordRun(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer sink.Close()

	start := time.Unix(1700000000, 0)
	end := start.Add(1500 * time.Microsecond)
	res := coremetrics.RunResult{
		RunID:          "r1",
		Strategy:       "first",
		Capacity:       1100,
		LaneLoads:      []int{810, 1060},
		Vehicles:       7,
		Placed:         6,
		Rearranged:     1,
		Relocations:    2,
		Overflow:       1,
		OverflowLength: 2000,
		Utilization:    0.848484,
		StartTime:      start,
		EndTime:        end,
	}
	require.NoError(t, sink.RecordRun(res))

	run := write.NewPointWithMeasurement("allocation_run").
		AddTag("run_id", "r1").
		AddTag("strategy", "first").
		AddField("capacity_cm", 1100).
		AddField("vehicles", 7).
		AddField("placed", 6).
		AddField("rearranged", 1).
		AddField("relocations", 2).
		AddField("overflow", 1).
		AddField("overflow_cm", 2000).
		AddField("utilization", 0.848).
		AddField("duration_ms", 1.5).
		SetTime(end)
	lane0 := write.NewPointWithMeasurement("lane_load").
		AddTag("run_id", "r1").AddTag("lane", "0").AddField("load_cm", 810).SetTime(end)
	lane1 := write.NewPointWithMeasurement("lane_load").
		AddTag("run_id", "r1").AddTag("lane", "1").AddField("load_cm", 1060).SetTime(end)

	assert.Equal(t, []string{line(run), line(lane0), line(lane1)}, bodies())
}

func TestInfluxSink_RecordEvents(t *testing.T) {
	srv, bodies := captureServer(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")
	defer sink.Close()

	now := time.Unix(1700000000, 0)
	require.NoError(t, sink.RecordRelocation(coremetrics.RelocationEvent{RunID: "r1", From: 0, To: 2, Length: 360, Time: now}))
	require.NoError(t, sink.RecordOverflow(coremetrics.OverflowEvent{RunID: "r1", Length: 2000, Category: "Lorry", Time: now}))

	reloc := write.NewPointWithMeasurement("relocation_move").
		AddTag("run_id", "r1").
		AddTag("undone", "false").
		AddField("from_lane", 0).
		AddField("to_lane", 2).
		AddField("length_cm", 360).
		SetTime(now)
	over := write.NewPointWithMeasurement("vehicle_overflow").
		AddTag("run_id", "r1").
		AddTag("category", "Lorry").
		AddField("length_cm", 2000).
		SetTime(now)
	assert.Equal(t, []string{line(reloc), line(over)}, bodies())
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	_, isInflux := sink.(*InfluxSink)
	assert.False(t, isInflux, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}
