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

import "testing"

// A graph with two nodes labelled C both feeding into the same successor
// is not reverse-deterministic; after Determinize the two C nodes must
// have merged into one.
func TestDeterminizeMergesSharedLabel(t *testing.T) {
	// Y(0) -> A(1) -> C(2) -> T(4)
	//      -> A?     C(3) -> T(4)   (only one A here; the two Cs collide)
	g := &Graph{
		Nodes: []Node{
			{Label: Y, Value: 0},
			{Label: A, Value: 0},
			{Label: C, Value: 1},
			{Label: C, Value: 1},
			{Label: T, Value: 2},
			{Label: Z, Value: 3},
		},
		Edges: []Edge{
			{From: 0, To: 1},
			{From: 1, To: 2},
			{From: 1, To: 3},
			{From: 2, To: 4},
			{From: 3, To: 4},
			{From: 4, To: 5},
		},
		LastNode: 5,
	}

	if IsReverseDeterministic(g) {
		t.Fatal("test fixture should not already be reverse-deterministic")
	}

	if err := Determinize(g); err != nil {
		t.Fatalf("Determinize failed: %v", err)
	}

	if !IsReverseDeterministic(g) {
		t.Error("graph should be reverse-deterministic after Determinize")
	}

	countByLabel := map[Label]int{}
	for _, n := range g.Nodes {
		countByLabel[n.Label]++
	}
	if countByLabel[C] != 1 {
		t.Errorf("expected the two C nodes to merge into one, got %d", countByLabel[C])
	}
	if countByLabel[Y] != 1 || countByLabel[Z] != 1 {
		t.Errorf("expected exactly one Y and one Z, got Y=%d Z=%d", countByLabel[Y], countByLabel[Z])
	}
}

func TestIsReverseDeterministicSimpleSpine(t *testing.T) {
	g, err := buildMonolithic([]byte("ACGT"), nil)
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}
	if !IsReverseDeterministic(g) {
		t.Error("a plain spine automaton must be reverse-deterministic")
	}
}
