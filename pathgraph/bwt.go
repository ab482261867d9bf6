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

// BWTConsumer receives the emitted BWT/F/M quadruple stream, one edge at
// a time: bwtChar is the edge's label, f marks the first edge of its
// source row, m marks the first emitted edge that targets a given row,
// and position is the genomic coordinate of the edge's source row.
type BWTConsumer interface {
	Emit(bwtChar byte, f, m bool, position uint64) error
}

// edgeRange returns node nodeIdx's own outgoing PathEdges as a [lo, hi)
// range into edges. GenerateEdges lays edges out grouped by owning row in
// final rank order, so a node's own range is fully described by the
// running totals it left in its own Key: Second is the exclusive upper
// bound, First (the node's out-degree) is the range's width.
func edgeRange(nodes []PathNode, nodeIdx int) (lo, hi int) {
	hi = int(nodes[nodeIdx].Key.Second)
	lo = hi - int(nodes[nodeIdx].Key.First)
	return lo, hi
}

// BWTStream walks a GenerateEdges result row by row, reproducing the
// BWT/F/M quadruple one entry at a time without materializing the whole
// stream in memory.
type BWTStream struct {
	nodes []PathNode
	edges []PathEdge

	edgeNodeIdx         int
	edgeRangeLo, edgeHi int
	seenTarget          []bool
	fNodeIdx            int
}

// NewBWTStream prepares a stream over nodes and edges, both as returned
// by GenerateEdges.
func NewBWTStream(nodes []PathNode, edges []PathEdge) *BWTStream {
	return &BWTStream{nodes: nodes, edges: edges, seenTarget: make([]bool, len(nodes))}
}

// NextRow returns the next BWT/F/M quadruple, or ok == false once every
// row has been consumed.
func (s *BWTStream) NextRow() (bwtChar byte, f, m bool, position uint64, ok bool) {
	for s.edgeNodeIdx < len(s.nodes) {
		if s.edgeRangeLo >= s.edgeHi {
			s.edgeRangeLo, s.edgeHi = edgeRange(s.nodes, s.edgeNodeIdx)
		}
		if s.edgeRangeLo >= s.edgeHi {
			s.edgeNodeIdx++
			continue
		}

		sourceNode := s.edgeNodeIdx
		first := s.edgeRangeLo == s.edgeHi-int(s.nodes[sourceNode].Key.First)

		edge := s.edges[s.edgeRangeLo]
		s.edgeRangeLo++
		if s.edgeRangeLo >= s.edgeHi {
			s.edgeNodeIdx++
		}

		firstM := !s.seenTarget[edge.Ranking]
		s.seenTarget[edge.Ranking] = true

		return edge.Label, first, firstM, s.nodes[sourceNode].To, true
	}
	return 0, false, false, 0, false
}

// NextFLocation returns each node's starting offset in the F column, in
// rank order, or ok == false once every node has been consumed.
func (s *BWTStream) NextFLocation() (location uint64, ok bool) {
	if s.fNodeIdx >= len(s.nodes) {
		return 0, false
	}
	lo, _ := edgeRange(s.nodes, s.fNodeIdx)
	s.fNodeIdx++
	return uint64(lo), true
}

// Drain runs the stream to completion, handing every row to consumer.
func Drain(nodes []PathNode, edges []PathEdge, consumer BWTConsumer) error {
	s := NewBWTStream(nodes, edges)
	for {
		c, f, m, pos, ok := s.NextRow()
		if !ok {
			return nil
		}
		if err := consumer.Emit(c, f, m, pos); err != nil {
			return err
		}
	}
}

// BackwardSearch narrows the rank range matching pattern, read back to
// front, the way an FM-index extends a match by prepending one character
// at a time. A row counts as a match for its own label c as soon as any
// one of its (possibly several) outgoing edges lands in the current
// range: doubling already resolved each row to a unique suffix, so a row
// with more than one outgoing edge is a shared prefix of several longer
// paths, any of which extends the current match. It returns lo == hi == 0
// if no row matches.
func BackwardSearch(nodes []PathNode, edges []PathEdge, pattern []byte) (lo, hi int) {
	lo, hi = 0, len(nodes)
	for i := len(pattern) - 1; i >= 0; i-- {
		c := pattern[i]
		newLo, newHi := -1, -1
		for r := range nodes {
			elo, ehi := edgeRange(nodes, r)
			matched := false
			for _, e := range edges[elo:ehi] {
				if e.Label == c && int(e.Ranking) >= lo && int(e.Ranking) < hi {
					matched = true
					break
				}
			}
			if !matched {
				continue
			}
			if newLo == -1 {
				newLo = r
			}
			newHi = r + 1
		}
		if newLo == -1 {
			return 0, 0
		}
		lo, hi = newLo, newHi
	}
	return lo, hi
}
