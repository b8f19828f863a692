package engine

import (
	"os"

	"github.com/gocarina/gocsv"
)

// FrameMetric is one CSV row of the benchmark recorder: the "Property/
// benchmark tests" 5% component share of spec.md §2's budget table.
// spec.md §6 only requires that CLI-level benchmark capture exist as a
// delegated external collaborator ("an optional `benchmark` feature emits
// a trace file"); this recorder is the in-engine counterpart a caller can
// wire into that trace file. It records frame index, delta time, live
// particle count, and the collision-cell count the extractor found that
// frame — not per-stage durations; FrameDriver.Step has no timing hooks.
type FrameMetric struct {
	FrameIndex         uint64  `csv:"frame_index"`
	DeltaTime          float32 `csv:"delta_time"`
	ParticleCount      int     `csv:"particle_count"`
	CollisionCellCount uint32  `csv:"collision_cell_count"`
}

// BenchRecorder accumulates one FrameMetric per frame and can flush them
// to a CSV file in one shot. FrameDriver.Step records into it directly
// whenever FrameDriver.Bench is non-nil.
type BenchRecorder struct {
	rows []FrameMetric
}

func NewBenchRecorder() *BenchRecorder {
	return &BenchRecorder{}
}

// Record appends one frame's metrics.
func (r *BenchRecorder) Record(m FrameMetric) {
	r.rows = append(r.rows, m)
}

// WriteCSV flushes every recorded row to path, overwriting it if present.
func (r *BenchRecorder) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gocsv.MarshalFile(&r.rows, f)
}

// Rows returns the recorded metrics, most recent last.
func (r *BenchRecorder) Rows() []FrameMetric {
	return r.rows
}
