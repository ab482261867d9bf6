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

func labelString(g *Graph) string {
	s := make([]byte, len(g.Nodes))
	for i, n := range g.Nodes {
		s[i] = byte(n.Label)
	}
	return string(s)
}

// S1: ref = "ACGT", no variants.
func TestBuildMonolithicNoVariants(t *testing.T) {
	g, err := buildMonolithic([]byte("ACGT"), nil)
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}
	if g.NumNodes() != 6 {
		t.Errorf("expected 6 nodes, got %d", g.NumNodes())
	}
	if g.NumEdges() != 5 {
		t.Errorf("expected 5 edges, got %d", g.NumEdges())
	}
	if labelString(g) != "YACGTZ" {
		t.Errorf("expected YACGTZ, got %s", labelString(g))
	}
	if !IsReverseDeterministic(g) {
		t.Error("ref-only automaton must already be reverse-deterministic")
	}
}

// S2: ref = "ACGT", one SGL {pos=1, alt=G}.
func TestBuildMonolithicSGL(t *testing.T) {
	g, err := buildMonolithic([]byte("ACGT"), []Variant{{Pos: 1, Type: SGL, Seq: []byte("G")}})
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}
	if g.NumNodes() != 7 {
		t.Errorf("expected 7 nodes (spine + 1 alt), got %d", g.NumNodes())
	}
	altID := NodeID(6)
	if g.Nodes[altID].Label != G {
		t.Errorf("expected alt node labelled G, got %c", g.Nodes[altID].Label)
	}
	foundIn, foundOut := false, false
	for _, e := range g.Edges {
		if e.From == 1 && e.To == altID {
			foundIn = true
		}
		if e.From == altID && e.To == 3 {
			foundOut = true
		}
	}
	if !foundIn || !foundOut {
		t.Error("expected alt node wired between spine node 1 and spine node 3")
	}
}

// S3: ref = "ACGTACGT", one DEL {pos=2, len=2}.
func TestBuildMonolithicDEL(t *testing.T) {
	g, err := buildMonolithic([]byte("ACGTACGT"), []Variant{{Pos: 2, Type: DEL, Len: 2}})
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}
	if g.NumNodes() != 10 {
		t.Errorf("expected 10 nodes (no new nodes for a DEL), got %d", g.NumNodes())
	}
	found := false
	for _, e := range g.Edges {
		if e.From == 2 && e.To == 5 {
			found = true
		}
	}
	if !found {
		t.Error("expected a bypass edge from node 2 to node 5, skipping the two deleted spine nodes")
	}
}

// S4: ref = "AAA", one INS {pos=1, len=2, seq="CG"}.
func TestBuildMonolithicINS(t *testing.T) {
	g, err := buildMonolithic([]byte("AAA"), []Variant{{Pos: 1, Type: INS, Len: 2, Seq: []byte("CG")}})
	if err != nil {
		t.Fatalf("buildMonolithic failed: %v", err)
	}
	if g.NumNodes() != 7 {
		t.Errorf("expected 7 nodes (spine + 2 inserted), got %d", g.NumNodes())
	}
	insC, insG := NodeID(5), NodeID(6)
	if g.Nodes[insC].Label != C || g.Nodes[insC].Value != NoGenomicPosition {
		t.Errorf("expected node 5 to be an inserted C with sentinel value, got %+v", g.Nodes[insC])
	}
	if g.Nodes[insG].Label != G || g.Nodes[insG].Value != NoGenomicPosition {
		t.Errorf("expected node 6 to be an inserted G with sentinel value, got %+v", g.Nodes[insG])
	}
	// The insertion splices in before spine position 1 (node id 2): the
	// detour chain is 1 -> insC -> insG -> 2, giving the walk "A C G A A".
	want := []Edge{{From: 1, To: insC}, {From: insC, To: insG}, {From: insG, To: 2}}
	for _, w := range want {
		found := false
		for _, e := range g.Edges {
			if e == w {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("expected detour edge %+v", w)
		}
	}
}

func TestVariantValidate(t *testing.T) {
	ref := []byte("ACGT")
	cases := []struct {
		name string
		v    Variant
		ok   bool
	}{
		{"good SGL", Variant{Pos: 0, Type: SGL, Seq: []byte("G")}, true},
		{"SGL matches ref", Variant{Pos: 0, Type: SGL, Seq: []byte("A")}, false},
		{"SGL out of range", Variant{Pos: 4, Type: SGL, Seq: []byte("A")}, false},
		{"good DEL", Variant{Pos: 1, Type: DEL, Len: 2}, true},
		{"zero length DEL", Variant{Pos: 1, Type: DEL, Len: 0}, false},
		{"DEL past end", Variant{Pos: 1, Type: DEL, Len: 10}, false},
		{"good INS", Variant{Pos: 1, Type: INS, Seq: []byte("CG")}, true},
		{"empty INS", Variant{Pos: 1, Type: INS, Seq: nil}, false},
	}
	for _, c := range cases {
		err := c.v.Validate(ref)
		if c.ok && err != nil {
			t.Errorf("%s: expected valid, got error %v", c.name, err)
		}
		if !c.ok && err == nil {
			t.Errorf("%s: expected an error, got none", c.name)
		}
	}
}
