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
	"testing"

	"github.com/exascience/pangraph/refgraph"
)

func TestGenerateEdgesOnPlainSpine(t *testing.T) {
	g := buildRefGraph(t, "ACGT", nil)
	nodes, err := Run(g, RunConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	out, edges, err := GenerateEdges(nodes, g)
	if err != nil {
		t.Fatalf("GenerateEdges failed: %v", err)
	}
	// Removing the Y-labelled head row drops the count by exactly one.
	if len(out) != len(nodes)-1 {
		t.Fatalf("expected %d rows after head removal, got %d", len(nodes)-1, len(out))
	}
	for _, e := range edges {
		if e.Label == 'Y' {
			t.Errorf("a Y-labelled edge should have been relabelled to Z, got %v", e)
		}
		if int(e.Ranking) >= len(out) {
			t.Errorf("edge ranking %d out of range for %d nodes", e.Ranking, len(out))
		}
	}
	// Every row on a plain, unbranched spine owns exactly one outgoing
	// edge: the row that reaches the true tail owns the edge into the
	// terminal placeholder row, and the placeholder owns the head row's
	// relabelled edge, so the edge count equals the row count.
	if len(edges) != len(out) {
		t.Errorf("expected %d edges, got %d", len(out), len(edges))
	}
}

func TestGenerateEdgesResolvesBranch(t *testing.T) {
	g := buildRefGraph(t, "ACGTACGT", []refgraph.Variant{{Pos: 3, Type: refgraph.SGL, Seq: []byte("G")}})
	nodes, err := Run(g, RunConfig{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	_, edges, err := GenerateEdges(nodes, g)
	if err != nil {
		t.Fatalf("GenerateEdges failed: %v", err)
	}

	labels := map[byte]int{}
	for _, e := range edges {
		labels[e.Label]++
	}
	// The SGL at position 3 introduces a second branch out of the same
	// node, so both the reference base and the alt base must appear as
	// edge labels somewhere in the generated set.
	if labels['T'] == 0 || labels['G'] == 0 {
		t.Errorf("expected both branch labels T and G to appear, got %v", labels)
	}
}
