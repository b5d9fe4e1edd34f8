package buildpipeline

import (
	"slices"
	"testing"
	"time"
)

func TestTimingsKeepPipelineOrder(t *testing.T) {
	var timings Timings
	timings.Set(StageRun, 4*time.Millisecond)
	timings.Set(StageParse, time.Millisecond)
	timings.Set(StageGenerate, 2*time.Millisecond)
	timings.Set(Stage("link"), time.Hour)

	var order []Stage
	timings.Each(func(st Stage, _ time.Duration) { order = append(order, st) })
	if !slices.Equal(order, []Stage{StageParse, StageGenerate, StageRun}) {
		t.Fatalf("order = %v", order)
	}
	if got := timings.Total(); got != 7*time.Millisecond {
		t.Fatalf("total = %v", got)
	}
	if got := timings.Total(StageRun); got != 3*time.Millisecond {
		t.Fatalf("total without run = %v", got)
	}
	if timings.Has(Stage("link")) || timings.Duration(StageWrite) != 0 {
		t.Fatalf("unknown or missing stages must read as empty")
	}
}
