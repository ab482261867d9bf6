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
	"strings"
	"testing"
)

func TestChunkBoundariesAvoidsNeighborhoods(t *testing.T) {
	coalesced := []Interval{{Start: 95, End: 105}}
	bounds := chunkBoundaries(200, 100, coalesced)
	for _, b := range bounds {
		if b >= 95 && b < 105 {
			t.Errorf("boundary %d falls inside the coalesced neighbourhood [95,105)", b)
		}
	}
}

func TestCoalesceNeighborhoods(t *testing.T) {
	cfg := BuildConfig{}.withDefaults()
	variants := []Variant{
		{Pos: 100, Type: SGL, Seq: []byte("G")},
		{Pos: 105, Type: SGL, Seq: []byte("C")},
	}
	coalesced := coalesceNeighborhoods(variants, cfg)
	if len(coalesced) != 1 {
		t.Fatalf("expected the two nearby SGLs' neighbourhoods to coalesce into one, got %d", len(coalesced))
	}
}

func TestStitchShardsDropsInteriorHeadsAndTails(t *testing.T) {
	left, err := buildMonolithic([]byte("ACGT"), nil)
	if err != nil {
		t.Fatalf("buildMonolithic left failed: %v", err)
	}
	right, err := buildMonolithic([]byte("TTTT"), nil)
	if err != nil {
		t.Fatalf("buildMonolithic right failed: %v", err)
	}

	g, err := stitchShards([]*Graph{left, right})
	if err != nil {
		t.Fatalf("stitchShards failed: %v", err)
	}

	// One Y overall, one Z overall, no interior Y/Z survive.
	if strings.Count(labelString(g), "Y") != 1 {
		t.Errorf("expected exactly one Y after stitching, got %d", strings.Count(labelString(g), "Y"))
	}
	if strings.Count(labelString(g), "Z") != 1 {
		t.Errorf("expected exactly one Z after stitching, got %d", strings.Count(labelString(g), "Z"))
	}
	if g.Nodes[g.LastNode].Label != Z {
		t.Errorf("LastNode must point at the surviving Z, got label %c", g.Nodes[g.LastNode].Label)
	}
}

func TestBuildShardedMatchesMonolithic(t *testing.T) {
	ref := []byte(strings.Repeat("ACGT", 20)) // 80 bases
	variants := []Variant{{Pos: 40, Type: SGL, Seq: []byte("T")}}

	mono, err := buildMonolithic(ref, variants)
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}

	cfg := BuildConfig{ChunkSize: 30}.withDefaults()
	sharded, err := buildSharded(ref, variants, cfg)
	if err != nil {
		t.Fatalf("buildSharded failed: %v", err)
	}

	if sharded.NumNodes() != mono.NumNodes() {
		t.Errorf("expected %d nodes from sharded build, got %d", mono.NumNodes(), sharded.NumNodes())
	}
	if sharded.NumEdges() != mono.NumEdges() {
		t.Errorf("expected %d edges from sharded build, got %d", mono.NumEdges(), sharded.NumEdges())
	}
}
