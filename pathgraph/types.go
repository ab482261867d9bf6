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

// Package pathgraph builds the prefix-sorted BWT/F/M representation of a
// refgraph.Graph by Karp-Miller-Rosenberg prefix doubling: repeatedly
// joining paths of length 2^g into paths of length 2^(g+1) and refining
// their sort key, until every path's key uniquely identifies it.
package pathgraph

// RefNodeID mirrors refgraph.NodeID without importing refgraph, so that
// pathgraph stays usable against any labelled-automaton source that can
// hand it edges and node values.
type RefNodeID = uint64

// key is the two-word sort key carried by a PathNode. SentinelTo below
// shares its representation with a fully-converged rank but names a
// different thing; keeping it distinct avoids conflating "no successor
// node" with "the highest possible rank" while debugging.
type key struct {
	First, Second uint64
}

// Less orders keys lexicographically by (First, Second).
func (k key) Less(o key) bool {
	return k.First < o.First || (k.First == o.First && k.Second < o.Second)
}

// SentinelTo marks a PathNode that has no successor to extend along: the
// generation-0 placeholder for the automaton's unique tail node (whose
// Head is SentinelTo as well), and, as To, any row whose doubled path has
// reached that tail.
const SentinelTo RefNodeID = ^uint64(0)

// PathNode represents, abstractly, a path in the underlying automaton of
// the current generation's length, starting at From and ending at To
// (or at nothing further, if To == SentinelTo). Key.First at generation 0
// is seeded from From's own label, not Head's: a row's rank must reflect
// the character its own path starts with, and every later join only ever
// combines existing keys without re-consulting From, so getting this seed
// right is the one place that character enters the sort at all.
//
// Head is the automaton node reached after this path's first edge; it is
// fixed at generation 0 and carried through every join unchanged. Once
// doubling converges, the pair (From, Head) names the exact RefGraph edge
// this row was born from, and that pair is what GenerateEdges uses to
// find every row directly: no join ever changes it, so it survives
// however many generations a row takes to become sorted, unlike To,
// which keeps naming whatever node the row's *doubled* path currently
// ends at and says nothing about the row's immediate next hop once past
// generation 0.
//
// Sorted reports whether this path no longer needs extending by further
// doubling, either because Key already uniquely identifies it or because
// it has reached the automaton's tail (To == SentinelTo). GenerateEdges
// does not consult To; it overwrites To with From's genomic value.
type PathNode struct {
	From, To, Head RefNodeID
	Sorted         bool
	Key            key
}

// IsSorted reports whether n's label-prefix already uniquely identifies
// it.
func (n PathNode) IsSorted() bool { return n.Sorted }

// SetSorted marks n as sorted.
func (n *PathNode) SetSorted() { n.Sorted = true }

// PathEdge is one incoming-ref-edge/path-node combination: emitted once
// GenerateEdges walks the sorted PathNode array against the underlying
// automaton's edges.
type PathEdge struct {
	From    RefNodeID
	Ranking uint64
	Label   byte
}
