// elPrep: a high-performance tool for analyzing SAM/BAM files.
// Copyright (c) 2017-2020 imec vzw.

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

package pathgraph

import (
	"log"

	"gonum.org/v1/gonum/stat"

	"github.com/exascience/pangraph/internal"
)

// GenerationStats summarizes one doubling round's convergence: how many
// PathNodes remain, how many distinct rank groups they fall into, and
// the mean/stddev of group sizes (a group of size 1 is already sorted;
// a wide spread of group sizes signals a few stubborn repeats holding
// up convergence).
type GenerationStats struct {
	Generation      int
	NodeCount       int
	GroupCount      int
	MeanGroupSize   float64
	StdDevGroupSize float64
	Sorted          int
}

func computeGenerationStats(generation int, nodes []PathNode) GenerationStats {
	groups := make(map[uint64]int, len(nodes))
	sorted := 0
	for _, n := range nodes {
		groups[n.Key.First]++
		if n.IsSorted() {
			sorted++
		}
	}
	sizes := make([]float64, 0, len(groups))
	for _, c := range groups {
		sizes = append(sizes, float64(c))
	}
	mean, stddev := stat.MeanStdDev(sizes, nil)
	return GenerationStats{
		Generation:      generation,
		NodeCount:       len(nodes),
		GroupCount:      len(groups),
		MeanGroupSize:   mean,
		StdDevGroupSize: stddev,
		Sorted:          sorted,
	}
}

// logGeneration prints one doubling round's convergence stats when cfg
// requests verbose output.
func logGeneration(cfg RunConfig, watch internal.Stopwatch, generation int, nodes []PathNode) {
	if !cfg.Verbose {
		return
	}
	s := computeGenerationStats(generation, nodes)
	log.Printf("[%s] generation %d: %d nodes, %d groups (mean %.2f +/- %.2f), %d sorted, %s",
		cfg.BuildID, s.Generation, s.NodeCount, s.GroupCount, s.MeanGroupSize, s.StdDevGroupSize, s.Sorted, watch.Elapsed())
}
