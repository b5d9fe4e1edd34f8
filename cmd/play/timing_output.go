package main

import (
	"fmt"
	"io"
	"time"

	"playscript/internal/buildpipeline"
)

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageParse:    "parsed",
	buildpipeline.StageDiagnose: "diagnosed",
	buildpipeline.StageGenerate: "generated",
	buildpipeline.StageWrite:    "wrote",
	buildpipeline.StageRun:      "ran",
}

// printStageTimings prints one line per recorded stage and, when more than
// one stage is shown, their total.
func printStageTimings(out io.Writer, timings buildpipeline.Timings, includeRun bool) {
	if out == nil {
		return
	}
	var skip []buildpipeline.Stage
	if !includeRun {
		skip = append(skip, buildpipeline.StageRun)
	}
	shown := 0
	timings.Each(func(st buildpipeline.Stage, d time.Duration) {
		if !includeRun && st == buildpipeline.StageRun {
			return
		}
		fmt.Fprintf(out, "%s %.1f ms\n", stageVerbs[st], toMillis(d))
		shown++
	})
	if shown > 1 {
		fmt.Fprintf(out, "total %.1f ms\n", toMillis(timings.Total(skip...)))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
