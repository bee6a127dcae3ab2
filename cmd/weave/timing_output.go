package main

import (
	"fmt"
	"io"

	"weave/internal/observ"
	"weave/internal/pipeline"
)

// printStageTimings adds the per-stage totals of a batch to timer and
// prints its summary.
func printStageTimings(out io.Writer, timings *pipeline.Timings, timer *observ.Timer, files int) {
	if out == nil || timer == nil {
		return
	}
	if timings != nil {
		for _, stage := range pipeline.Stages {
			if timings.Has(stage) {
				timer.Add(string(stage)+" (sum)", timings.Duration(stage), fmt.Sprintf("%d files", files))
			}
		}
	}
	fmt.Fprint(out, timer.Summary())
}
