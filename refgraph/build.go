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

package refgraph

import (
	"fmt"
	"log"

	"github.com/exascience/pangraph/gcsaerr"
	"github.com/exascience/pangraph/internal"
)

// BuildConfig controls how Build constructs and, if necessary,
// reverse-determinizes the automaton.
type BuildConfig struct {
	Threads    int
	Verbose    bool
	BuildID    string
	ShardBase  string // spill file directory when sharding; empty selects os.TempDir()
	ChunkSize  uint64 // reference bases per shard; 0 selects the default (1<<20)
	NeighborLo uint64 // left relaxation added to a variant's neighborhood; 0 selects the default (10)
	NeighborHi uint64 // right relaxation for non-insertion variants; 0 selects the default (10)
	InsHi      uint64 // right relaxation for insertions; 0 selects the default (128)
}

func (c BuildConfig) withDefaults() BuildConfig {
	if c.ChunkSize == 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.NeighborLo == 0 {
		c.NeighborLo = defaultNeighborRelax
	}
	if c.NeighborHi == 0 {
		c.NeighborHi = defaultNeighborRelax
	}
	if c.InsHi == 0 {
		c.InsHi = defaultInsRelax
	}
	return c
}

// Build constructs the reference-plus-variants automaton, choosing the
// monolithic or sharded strategy by reference length, validates every
// variant first, and reverse-determinizes the result whenever the raw
// construction is not already reverse-deterministic.
func Build(reference []byte, variants []Variant, cfg BuildConfig) (*Graph, error) {
	cfg = cfg.withDefaults()
	for _, v := range variants {
		if err := v.Validate(reference); err != nil {
			return nil, err
		}
	}

	sw := internal.NewStopwatch()

	var g *Graph
	var err error
	if uint64(len(reference)) < MonolithicThreshold {
		g, err = buildMonolithic(reference, variants)
	} else {
		g, err = buildSharded(reference, variants, cfg)
	}
	if err != nil {
		return nil, err
	}
	sw.LogElapsed(cfg.Verbose, cfg.BuildID, fmt.Sprintf("build automaton (%d nodes, %d edges)", g.NumNodes(), g.NumEdges()))

	if !IsReverseDeterministic(g) {
		if cfg.Verbose {
			log.Printf("[%s] automaton is not reverse-deterministic, determinizing", cfg.BuildID)
		}
		dsw := internal.NewStopwatch()
		if err := Determinize(g); err != nil {
			return nil, err
		}
		dsw.LogElapsed(cfg.Verbose, cfg.BuildID, fmt.Sprintf("determinize (%d nodes, %d edges)", g.NumNodes(), g.NumEdges()))
		if !IsReverseDeterministic(g) {
			return nil, gcsaerr.NewInvariantError(gcsaerr.InvariantReverseDeterminism, "graph still not reverse-deterministic after Determinize")
		}
	} else {
		g.SortEdgesByFrom(cfg.Threads)
	}

	return g, nil
}
