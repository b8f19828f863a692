package engine

// StageName identifies one dispatch in the per-frame pipeline graph of
// spec.md §2. Design note §9 replaces dynamic dispatch with "an explicit
// pipeline graph of typed stages" — PipelineStage is that typed value.
type StageName string

const (
	StageIntegrate             StageName = "integrate"
	StageBuildCellIDs          StageName = "build_cell_ids"
	StageRadixSort             StageName = "radix_sort"
	StageExtractCollisionCells StageName = "extract_collision_cells"
	StageSolveCollisions       StageName = "solve_collisions"
	StageMortonReorder         StageName = "morton_reorder"
)

// PipelineStage is one node of the frame graph: a named dispatch, flagged
// Indirect for the stage spec.md §4.6 sizes from the extractor's output
// (the resolver's four color passes). FrameDriver.Step does not read the
// flag, and both backends size that stage from the exact collision-cell
// count rather than from IndirectDispatchArgs. The frame driver inserts a
// barrier between every stage (spec.md §5's "Stage barrier" rule); stages
// never need to declare their buffer dependencies explicitly because the
// driver always runs them in the fixed order of spec.md §2.
type PipelineStage struct {
	Name     StageName
	Indirect bool
}

// FramePlan is the fixed per-frame dispatch sequence of spec.md §2,
// driven directly by FrameDriver.Step. It is a plain value, not a mutable
// schedule, matching design note §9 ("Global mutable state... None...
// passed explicitly"). StageExtractCollisionCells stands for the three
// sub-phases of spec.md §4.4/§4.5 (count-per-chunk, prefix sum,
// build-collision-cells) because Backend.ExtractCollisionCells dispatches
// all three as one unit — the plan names exactly the calls FrameDriver.Step
// makes, not a finer breakdown nothing ever drives.
func FramePlan() []PipelineStage {
	return []PipelineStage{
		{Name: StageIntegrate},
		{Name: StageBuildCellIDs},
		{Name: StageRadixSort},
		{Name: StageExtractCollisionCells},
		{Name: StageSolveCollisions, Indirect: true},
	}
}
