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
	"testing"

	"github.com/exascience/pangraph/internal"
	"github.com/exascience/pangraph/pathgraph"
	"github.com/exascience/pangraph/refgraph"
)

var bases = [4]byte{'A', 'C', 'G', 'T'}

func randomReference(r *internal.Rand, n int) []byte {
	ref := make([]byte, n)
	for i := range ref {
		ref[i] = bases[r.Int31n(4)]
	}
	return ref
}

// randomVariants picks a handful of non-adjacent positions and replaces
// each with a different base, guaranteeing every SGL passes validation.
func randomVariants(r *internal.Rand, ref []byte, count int) []refgraph.Variant {
	used := make(map[int]bool, count)
	variants := make([]refgraph.Variant, 0, count)
	for attempts := 0; len(variants) < count && attempts < 10*count+10; attempts++ {
		pos := int(r.Int31n(int32(len(ref))))
		if used[pos] || used[pos-1] || used[pos+1] {
			continue
		}
		used[pos] = true
		alt := bases[r.Int31n(4)]
		for alt == ref[pos] {
			alt = bases[(int(alt-'A')+1)%4]
		}
		variants = append(variants, refgraph.Variant{Pos: uint64(pos), Type: refgraph.SGL, Seq: []byte{alt}})
	}
	return variants
}

// TestPropertyRankPermutationAndEdgeConsistency runs the build over a
// batch of randomly generated references and SGL variant sets, checking
// invariants 3 (rank permutation, on pathgraph.Run's converged ranks,
// since GenerateEdges reuses Key for edge ranges) and 4 (edge-rank
// consistency, on BuildIndex's edges).
func TestPropertyRankPermutationAndEdgeConsistency(t *testing.T) {
	r := internal.NewRand(20260806)
	for trial := 0; trial < 20; trial++ {
		n := 8 + int(r.Int31n(40))
		ref := randomReference(r, n)
		variants := randomVariants(r, ref, int(r.Int31n(4)))

		g, err := refgraph.Build(ref, variants, refgraph.BuildConfig{})
		if err != nil {
			t.Fatalf("trial %d: refgraph.Build(%q, %v) failed: %v", trial, ref, variants, err)
		}
		ranked, err := pathgraph.Run(g, pathgraph.RunConfig{})
		if err != nil {
			t.Fatalf("trial %d: pathgraph.Run(%q, %v) failed: %v", trial, ref, variants, err)
		}

		seen := make(map[uint64]bool, len(ranked))
		for _, node := range ranked {
			if node.Key.First >= uint64(len(ranked)) {
				t.Fatalf("trial %d: rank %d out of range for %d nodes", trial, node.Key.First, len(ranked))
			}
			if seen[node.Key.First] {
				t.Fatalf("trial %d: duplicate rank %d", trial, node.Key.First)
			}
			seen[node.Key.First] = true
		}

		_, nodes, edges, err := BuildIndex(Config{}, ref, variants, nil)
		if err != nil {
			t.Fatalf("trial %d: BuildIndex(%q, %v) failed: %v", trial, ref, variants, err)
		}

		for _, e := range edges {
			if e.Ranking >= uint64(len(nodes)) {
				t.Fatalf("trial %d: edge ranking %d out of range for %d nodes", trial, e.Ranking, len(nodes))
			}
		}
	}
}

// TestPropertyFMDuality checks invariant 5: the number of emitted F flags
// equals the number of rows owning at least one outgoing edge, and the
// number of emitted M flags equals the number of distinct rank targets
// those edges point at. On an unbranched reference these both equal
// |nodes|; the two counts are derived independently here rather than
// assumed equal to a fixed node count.
func TestPropertyFMDuality(t *testing.T) {
	r := internal.NewRand(1337)
	for trial := 0; trial < 10; trial++ {
		n := 8 + int(r.Int31n(30))
		ref := randomReference(r, n)
		variants := randomVariants(r, ref, int(r.Int31n(3)))

		sink := &collectingSink{}
		_, nodes, edges, err := BuildIndex(Config{}, ref, variants, sink)
		if err != nil {
			t.Fatalf("trial %d: BuildIndex(%q, %v) failed: %v", trial, ref, variants, err)
		}

		wantF := 0
		for _, n := range nodes {
			if n.Key.First > 0 {
				wantF++
			}
		}
		targeted := make(map[uint64]bool, len(edges))
		for _, e := range edges {
			targeted[e.Ranking] = true
		}
		wantM := len(targeted)

		if sink.fSeen != wantF || sink.mSeen != wantM {
			t.Fatalf("trial %d: expected %d F and %d M flags, got %d and %d", trial, wantF, wantM, sink.fSeen, sink.mSeen)
		}
	}
}
