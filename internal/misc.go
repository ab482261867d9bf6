// elPrep: a high-performance tool for analyzing SAM/BAM files.
// Copyright (c) 2020 imec vzw.

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version, and Additional Terms
// (see below).

// This program is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public
// License and Additional Terms along with this program. If not, see
// <https://github.com/ExaScience/elprep/blob/master/LICENSE.txt>.

// Package internal holds helpers shared by refgraph and pathgraph that are
// not part of the public API.
package internal

import (
	"log"
	"time"

	"github.com/exascience/pargo/pipeline"
)

// RunPipeline is p.Run() with panics in place of errors, for pipelines
// whose Filters cannot fail for reasons other than programmer error.
func RunPipeline(p *pipeline.Pipeline) {
	p.Run()
	if err := p.Err(); err != nil {
		log.Panic(err)
	}
}

// Stopwatch measures elapsed wall-clock time for verbose progress lines,
// the same role clock() plays in the original C++ implementation's
// verbose diagnostics.
type Stopwatch struct {
	start time.Time
}

// NewStopwatch starts a Stopwatch.
func NewStopwatch() Stopwatch {
	return Stopwatch{start: time.Now()}
}

// Elapsed returns the time since the Stopwatch was started.
func (s Stopwatch) Elapsed() time.Duration {
	return time.Since(s.start)
}

// LogElapsed logs label and the elapsed time if verbose is set.
func (s Stopwatch) LogElapsed(verbose bool, buildID, label string) {
	if verbose {
		log.Printf("[%s] %s: %s", buildID, label, s.Elapsed())
	}
}
