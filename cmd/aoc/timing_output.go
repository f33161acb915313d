package main

import (
	"fmt"
	"io"
	"time"

	"aoc/internal/buildpipeline"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	if timings.Has(buildpipeline.StageLoad) {
		fmt.Fprintf(out, "loaded %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageLoad)))
	}
	if timings.Has(buildpipeline.StageParse) {
		fmt.Fprintf(out, "parsed %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageParse)))
	}
	if timings.Has(buildpipeline.StageGraph) {
		fmt.Fprintf(out, "linked %.1f ms\n", toMillis(timings.Duration(buildpipeline.StageGraph)))
	}
	total := timings.Sum(buildpipeline.StageLoad, buildpipeline.StageParse, buildpipeline.StageGraph)
	fmt.Fprintf(out, "total %.1f ms\n", toMillis(total))
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
