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
	"log"
	"sort"

	"github.com/exascience/pangraph/sortutil"
)

// SortEdgesByFrom orders g.Edges by From, using nthreads worker ranges.
func (g *Graph) SortEdgesByFrom(nthreads int) {
	sortutil.BinSortInPlace(g.Edges, func(e Edge) uint64 { return e.From }, uint64(len(g.Nodes)), nthreads)
	g.edgesSortedBy = sortedByFrom
}

// SortEdgesByTo orders g.Edges by To, using nthreads worker ranges.
func (g *Graph) SortEdgesByTo(nthreads int) {
	sortutil.BinSortInPlace(g.Edges, func(e Edge) uint64 { return e.To }, uint64(len(g.Nodes)), nthreads)
	g.edgesSortedBy = sortedByTo
}

// EdgesFrom returns the half-open range [lo, hi) of g.Edges whose From
// field equals node. Panics if g.Edges is not currently sorted by From:
// callers must state which ordering they need, per the range-query
// contract, rather than silently re-sorting underneath them.
func (g *Graph) EdgesFrom(node NodeID) (lo, hi int) {
	if g.edgesSortedBy != sortedByFrom {
		log.Panic("refgraph: EdgesFrom requires edges sorted by From; call SortEdgesByFrom first")
	}
	lo = sort.Search(len(g.Edges), func(i int) bool { return g.Edges[i].From >= node })
	hi = sort.Search(len(g.Edges), func(i int) bool { return g.Edges[i].From > node })
	return lo, hi
}

// EdgesTo returns the half-open range [lo, hi) of g.Edges whose To field
// equals node. Panics if g.Edges is not currently sorted by To.
func (g *Graph) EdgesTo(node NodeID) (lo, hi int) {
	if g.edgesSortedBy != sortedByTo {
		log.Panic("refgraph: EdgesTo requires edges sorted by To; call SortEdgesByTo first")
	}
	lo = sort.Search(len(g.Edges), func(i int) bool { return g.Edges[i].To >= node })
	hi = sort.Search(len(g.Edges), func(i int) bool { return g.Edges[i].To > node })
	return lo, hi
}
