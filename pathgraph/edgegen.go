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
	"fmt"

	"github.com/exascience/pangraph/gcsaerr"
)

// GenerateEdges converts a fully-converged, rank-ordered PathNode array
// into the PathEdge array the BWT/F/M stream is read off of.
//
// Every row's (From, Head) pair names the exact RefGraph edge it was born
// from and survives every doubling join unchanged, so it identifies that
// row directly with no lookahead-label guessing: for automaton edge
// (v, w), the row that represents "arrived fresh at v, heading to w" is
// found by one map lookup on (v, w) itself, and every row that has
// *arrived* at v (regardless of its own From) inherits that edge as one
// of its own possible continuations, because from v onward every such
// row shares the same future. A row commonly owns more than one outgoing
// edge whenever v itself branches. A row that has arrived at the
// automaton's tail (Head == g.LastNodeID()) has no automaton edge to
// follow; it owns one edge into the terminal placeholder row instead,
// since that row stands for the tail itself.
//
// The row rooted at the automaton's unique head is excluded from the
// result: nothing ever ranks into it (Y has no in-edges), so it would be
// a dead-end sink if left in the cyclic representation. Its own outgoing
// edge is real, though (it is the first real transition in the whole
// automaton), so rather than drop it, it is relabelled from 'Y' to 'Z'
// and reattached to the terminal placeholder row, the one row that would
// otherwise be a genuine dead end: the placeholder's Head == SentinelTo
// means it has no automaton successor of its own to look up, so it is
// otherwise always edgeless.
func GenerateEdges(nodes []PathNode, g SourceGraph) ([]PathNode, []PathEdge, error) {
	type arrival struct{ from, head RefNodeID }
	rowOf := make(map[arrival]int, len(nodes))
	rowsByHead := make(map[RefNodeID][]int, len(nodes))
	for i, n := range nodes {
		rowOf[arrival{n.From, n.Head}] = i
		if n.Head != SentinelTo {
			rowsByHead[n.Head] = append(rowsByHead[n.Head], i)
		}
	}

	outgoing := make([][]PathEdge, len(nodes))
	for i := 0; i < g.NumEdges(); i++ {
		v, w := g.EdgeAt(i)
		target, ok := rowOf[arrival{v, w}]
		if !ok {
			return nil, nil, gcsaerr.NewInvariantError(gcsaerr.InvariantEdgeRankRange,
				fmt.Sprintf("no path node represents RefGraph edge %d->%d", v, w))
		}
		for _, r := range rowsByHead[v] {
			outgoing[r] = append(outgoing[r], PathEdge{
				From:    uint64(r),
				Ranking: uint64(target),
				Label:   g.LabelAt(nodes[r].From),
			})
		}
	}
	if tail, ok := rowOf[arrival{g.LastNodeID(), SentinelTo}]; ok {
		for _, r := range rowsByHead[g.LastNodeID()] {
			outgoing[r] = append(outgoing[r], PathEdge{
				From:    uint64(r),
				Ranking: uint64(tail),
				Label:   g.LabelAt(nodes[r].From),
			})
		}
	}

	headRow, terminalRow := -1, -1
	for i, n := range nodes {
		if g.LabelAt(n.From) == 'Y' {
			headRow = i
		}
		if n.Head == SentinelTo {
			terminalRow = i
		}
	}
	if headRow != -1 {
		for j := range outgoing[headRow] {
			outgoing[headRow][j].Label = 'Z'
		}
		if terminalRow != -1 {
			outgoing[terminalRow] = append(outgoing[terminalRow], outgoing[headRow]...)
		}
		outgoing[headRow] = nil
	}

	rankRemap := make([]int, len(nodes))
	for i := range rankRemap {
		if headRow != -1 && i > headRow {
			rankRemap[i] = i - 1
		} else {
			rankRemap[i] = i
		}
	}

	out := make([]PathNode, 0, len(nodes)-1)
	edges := make([]PathEdge, 0, len(nodes))
	for i, n := range nodes {
		if i == headRow {
			continue
		}
		n.To = g.ValueAt(n.From)
		outdegree := uint64(len(outgoing[i]))
		for _, e := range outgoing[i] {
			if int(e.Ranking) == headRow {
				return nil, nil, gcsaerr.NewInvariantError(gcsaerr.InvariantEdgeRankRange,
					fmt.Sprintf("edge from row %d targets the removed head row", i))
			}
			e.From = uint64(len(out))
			e.Ranking = uint64(rankRemap[e.Ranking])
			edges = append(edges, e)
		}
		n.Key = key{First: outdegree, Second: uint64(len(edges))}
		out = append(out, n)
	}

	return out, edges, nil
}
