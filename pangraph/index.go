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

package pangraph

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/exascience/pangraph/internal"
	"github.com/exascience/pangraph/pathgraph"
	"github.com/exascience/pangraph/refgraph"
)

// BuildIndex drives the full pipeline: RefGraph construction (splicing
// variants into reference, reverse-determinizing if needed), PathGraph
// prefix doubling, edge generation, and BWT/F/M quadruple emission to
// sink. It returns the finished RefGraph and PathNode/PathEdge arrays
// alongside any error, so a caller wanting to run BackwardSearch queries
// against the freshly built index does not have to rebuild it.
func BuildIndex(cfg Config, reference []byte, variants []refgraph.Variant, sink pathgraph.BWTConsumer) (*refgraph.Graph, []pathgraph.PathNode, []pathgraph.PathEdge, error) {
	buildID := cfg.BuildID
	if buildID == "" {
		buildID = uuid.NewString()
	}
	threads := cfg.threads()

	sw := internal.NewStopwatch()

	g, err := refgraph.Build(reference, variants, refgraph.BuildConfig{
		Threads:   threads,
		Verbose:   cfg.Verbose,
		BuildID:   buildID,
		ShardBase: cfg.ShardBase,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pangraph: building reference graph: %w", err)
	}
	sw.LogElapsed(cfg.Verbose, buildID, "refgraph.Build complete")

	dsw := internal.NewStopwatch()
	nodes, err := pathgraph.Run(g, pathgraph.RunConfig{
		Threads: threads,
		Verbose: cfg.Verbose,
		BuildID: buildID,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pangraph: prefix doubling: %w", err)
	}
	dsw.LogElapsed(cfg.Verbose, buildID, fmt.Sprintf("pathgraph.Run complete (%d path nodes)", len(nodes)))

	esw := internal.NewStopwatch()
	nodes, edges, err := pathgraph.GenerateEdges(nodes, g)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("pangraph: generating edges: %w", err)
	}
	esw.LogElapsed(cfg.Verbose, buildID, fmt.Sprintf("pathgraph.GenerateEdges complete (%d edges)", len(edges)))

	if sink != nil {
		if err := pathgraph.Drain(nodes, edges, sink); err != nil {
			return nil, nil, nil, fmt.Errorf("pangraph: emitting bwt stream: %w", err)
		}
	}

	return g, nodes, edges, nil
}
