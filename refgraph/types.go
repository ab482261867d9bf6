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

import "math"

// Label identifies the base (or sentinel role) a Node carries.
type Label byte

// The alphabet a Node's Label may take. Ordering matters: A<C<G<T<Y<Z is
// the canonical label order used throughout PathGraph generation 0 and
// BWT bucket emission.
const (
	A Label = 'A'
	C Label = 'C'
	G Label = 'G'
	T Label = 'T'
	Y Label = 'Y' // unique head
	Z Label = 'Z' // unique tail
)

// LabelOrder returns the canonical rank of a label in A<C<G<T<Y<Z order,
// or -1 if lbl is not one of those six labels.
func LabelOrder(lbl Label) int {
	switch lbl {
	case A:
		return 0
	case C:
		return 1
	case G:
		return 2
	case T:
		return 3
	case Y:
		return 4
	case Z:
		return 5
	default:
		return -1
	}
}

// NoGenomicPosition is the sentinel Node.Value for bases introduced by an
// insertion: they have no corresponding coordinate in the reference.
const NoGenomicPosition = math.MaxUint64

// NoEdge marks a dropped node in stitchShards' per-shard id remapping;
// the edge range queries return an empty range, not NoEdge, when they
// find no matching edges.
const NoEdge = math.MaxUint64

// NodeID indexes into a Graph's Nodes slice.
type NodeID = uint64

// Node is one vertex of the reference-plus-variants automaton.
type Node struct {
	Label Label
	Value uint64 // genomic coordinate, or NoGenomicPosition
}

// Edge is one unlabelled arc of the automaton; labels live on Nodes.
type Edge struct {
	From, To NodeID
}

// Graph is the reference-plus-variants automaton: a flat, index-addressed
// node/edge arena. A freshly built Graph has edges ordered by From; after
// Determinize edges are ordered by From as well (see EdgesFrom/EdgesTo,
// which require the caller to state which ordering it needs).
type Graph struct {
	Nodes    []Node
	Edges    []Edge
	LastNode NodeID // index of the unique Z node

	edgesSortedBy edgeOrder
}

type edgeOrder int

const (
	unsorted edgeOrder = iota
	sortedByFrom
	sortedByTo
)

// NumNodes returns the number of nodes in g.
func (g *Graph) NumNodes() int { return len(g.Nodes) }

// NumEdges returns the number of edges in g.
func (g *Graph) NumEdges() int { return len(g.Edges) }

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) Node { return g.Nodes[id] }

// Edge returns the edge with the given index.
func (g *Graph) Edge(i int) Edge { return g.Edges[i] }
