package main

import (
	"fmt"
	"io"
	"time"

	"sold/internal/build"
)

func printStageTimings(out io.Writer, timings build.Timings) {
	if out == nil {
		return
	}
	if timings.Has(build.StageCompile) {
		fmt.Fprintf(out, "compiled %.1f ms\n", toMillis(timings.Duration(build.StageCompile)))
	}
	if timings.Has(build.StageEmit) {
		fmt.Fprintf(out, "emitted %.1f ms\n", toMillis(timings.Duration(build.StageEmit)))
	}
	if timings.Has(build.StageAssemble) || timings.Has(build.StageData) {
		assembled := timings.Sum(build.StageAssemble, build.StageData)
		fmt.Fprintf(out, "assembled %.1f ms\n", toMillis(assembled))
	}
	total := timings.Sum(build.StageCompile, build.StageEmit, build.StageAssemble, build.StageData)
	if total > 0 {
		fmt.Fprintf(out, "total %.1f ms\n", toMillis(total))
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
