package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/ferry/core/allocation"
	"github.com/kilianp07/ferry/core/model"
)

// OverflowLane is the lane column value used for overflowed vehicles in CSV output.
const OverflowLane = "overflow"

// VehicleReport is the serialized form of a vehicle.
type VehicleReport struct {
	Seq      int    `json:"seq"`
	Length   int    `json:"length_cm"`
	Category string `json:"category"`
}

// LaneReport is the serialized form of a lane.
type LaneReport struct {
	Index    int             `json:"index"`
	Load     int             `json:"load_cm"`
	Vehicles []VehicleReport `json:"vehicles"`
}

// StatsReport is the serialized form of allocation.Stats.
type StatsReport struct {
	Vehicles       int     `json:"vehicles"`
	TotalLength    int     `json:"total_length_cm"`
	Placed         int     `json:"placed"`
	Rearranged     int     `json:"rearranged"`
	Relocations    int     `json:"relocations"`
	Overflow       int     `json:"overflow"`
	OverflowLength int     `json:"overflow_length_cm"`
	MeanLoad       float64 `json:"mean_load_cm"`
	LoadStdDev     float64 `json:"load_stddev_cm"`
	Utilization    float64 `json:"utilization"`
}

// Report is the document written by WriteJSON and published over MQTT.
type Report struct {
	RunID    string          `json:"run_id"`
	Strategy string          `json:"strategy"`
	Capacity int             `json:"capacity_cm"`
	Lanes    []LaneReport    `json:"lanes"`
	Overflow []VehicleReport `json:"overflow"`
	Stats    StatsReport     `json:"stats"`
}

// NewReport converts an allocation result into its serialized form.
func NewReport(res allocation.Result) Report {
	rep := Report{
		RunID:    res.RunID,
		Strategy: string(res.Strategy),
		Capacity: res.Capacity,
		Lanes:    make([]LaneReport, len(res.Lanes)),
		Overflow: vehicleReports(res.Overflow),
		Stats:    StatsReport(res.Stats),
	}
	loads := res.LaneLoads()
	for i, vs := range res.Lanes {
		rep.Lanes[i] = LaneReport{Index: i, Load: loads[i], Vehicles: vehicleReports(vs)}
	}
	return rep
}

func vehicleReports(vs []model.Vehicle) []VehicleReport {
	out := make([]VehicleReport, len(vs))
	for i, v := range vs {
		out[i] = VehicleReport{Seq: v.Seq, Length: v.Length, Category: string(v.Category)}
	}
	return out
}

// WriteJSON writes the allocation report to w in JSON format.
func WriteJSON(w io.Writer, res allocation.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(res))
}

// WriteCSV writes one row per vehicle: lane, position in lane, input
// sequence, length and category. Overflowed vehicles use OverflowLane.
func WriteCSV(w io.Writer, res allocation.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"lane", "position", "seq", "length_cm", "category"}); err != nil {
		return err
	}
	write := func(lane string, vs []model.Vehicle) error {
		for pos, v := range vs {
			rec := []string{
				lane,
				strconv.Itoa(pos),
				strconv.Itoa(v.Seq),
				strconv.Itoa(v.Length),
				string(v.Category),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	}
	for i, vs := range res.Lanes {
		if err := write(strconv.Itoa(i), vs); err != nil {
			return err
		}
	}
	if err := write(OverflowLane, res.Overflow); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteSummary writes the problem header followed by one line per lane, the
// overflow list and the total overflow length.
func WriteSummary(w io.Writer, res allocation.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Number of vehicles           = %d\n", res.Stats.Vehicles)
	fmt.Fprintf(&b, "Total length of vehicles     = %d cm\n", res.Stats.TotalLength)
	fmt.Fprintf(&b, "Number of lanes              = %d\n", len(res.Lanes))
	fmt.Fprintf(&b, "Capacity per lane            = %d cm\n", res.Capacity)
	fmt.Fprintf(&b, "Strategy                     = %s\n", res.Strategy)
	loads := res.LaneLoads()
	for i, vs := range res.Lanes {
		fmt.Fprintf(&b, "Ln %d\t%dcm\t%s\n", i, loads[i], vehicleList(vs))
	}
	fmt.Fprintf(&b, "Overflow = %s\n", vehicleList(res.Overflow))
	fmt.Fprintf(&b, "Total length in overflow = %d cm\n", res.OverflowLength())
	_, err := io.WriteString(w, b.String())
	return err
}

func vehicleList(vs []model.Vehicle) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
