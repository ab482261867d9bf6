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
	"sort"

	"github.com/exascience/pangraph/gcsaerr"
	"github.com/exascience/pangraph/internal"
	"github.com/exascience/pangraph/sortutil"
)

// SourceGraph is the minimal view of a labelled automaton that Run needs:
// refgraph.Graph satisfies it structurally without pathgraph importing
// refgraph, so pathgraph stays usable against any node/edge source that
// looks like one.
type SourceGraph interface {
	NumNodes() int
	NumEdges() int
	EdgeAt(i int) (from, to RefNodeID)
	LabelAt(id RefNodeID) byte
	ValueAt(id RefNodeID) uint64
	LastNodeID() RefNodeID
}

func labelOrder(lbl byte) uint64 {
	switch lbl {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	case 'Y':
		return 4
	case 'Z':
		return 5
	default:
		return 6
	}
}

// makeFromRef builds the generation-0 PathNode array: one node per edge
// of g, plus one terminal node standing for g's last node, which starts
// out already sorted since it has no outgoing edges to extend along.
//
// Key.First is seeded from the label of the edge's own From node, not its
// To node: a row's rank must reflect the character its own path starts
// with before anything that follows it, the same convention
// refgraph.Determinize's incoming-edge-label grouping depends on. Head is
// set to the edge's To node and never changes again: GenerateEdges relies
// on (From, Head) still naming this exact edge once doubling converges.
func makeFromRef(g SourceGraph) []PathNode {
	nodes := make([]PathNode, 0, g.NumEdges()+1)
	for i := 0; i < g.NumEdges(); i++ {
		from, to := g.EdgeAt(i)
		fromLbl := g.LabelAt(from)
		nodes = append(nodes, PathNode{
			From: from,
			To:   to,
			Head: to,
			Key:  key{First: labelOrder(fromLbl)},
		})
	}
	last := PathNode{From: g.LastNodeID(), To: SentinelTo, Head: SentinelTo, Key: key{First: 5}}
	last.SetSorted()
	nodes = append(nodes, last)
	return nodes
}

// sortByFrom orders nodes by From using the RefGraph node-id range as the
// counting key, mirroring the teacher's bin-sort-over-max_from index
// build used before every doubling join.
func sortByFrom(nodes []PathNode, maxFrom uint64) {
	sortutil.BinSortInPlace(nodes, func(n PathNode) uint64 { return n.From }, maxFrom, 0)
}

// fromOffsets builds from_index[from+1] = one past the last index of a
// From-sorted nodes slice whose From equals `from`, so joins can look up
// "every past node starting where I end" in O(1) rather than scanning.
func fromOffsets(nodes []PathNode, maxFrom uint64) []int {
	offsets := make([]int, maxFrom+2)
	for _, n := range nodes {
		offsets[n.From+1]++
	}
	for i := uint64(0); i < maxFrom+1; i++ {
		offsets[i+1] += offsets[i]
	}
	return offsets
}

func nodesFrom(sortedByFrom []PathNode, offsets []int, from RefNodeID) []PathNode {
	return sortedByFrom[offsets[from]:offsets[from+1]]
}

// joinWith walks past, carrying any already-sorted or dead-ended (no
// successor) node through without extending its path (marking a dead end
// sorted, since an automaton node with no outgoing edge can never be
// further extended), and otherwise joining it with every past node m
// starting where it ends, via combine. A carried node's key is passed
// through combine with an all-zero successor key, so that in the
// bit-packed generations it is shifted into the same width as every
// joined key; in the pair-key generations this leaves it unchanged.
// From and Head are carried through every join unchanged: (From, Head)
// names the original RefGraph edge a row was born from, and
// GenerateEdges depends on that identity surviving however many
// generations doubling takes to sort a given row.
func joinWith(past []PathNode, maxFrom uint64, combine func(n, m PathNode) key) []PathNode {
	byFrom := append([]PathNode(nil), past...)
	sortByFrom(byFrom, maxFrom)
	offsets := fromOffsets(byFrom, maxFrom)

	next := make([]PathNode, 0, len(past))
	for _, n := range past {
		if n.IsSorted() {
			n.Key = combine(n, PathNode{})
			next = append(next, n)
			continue
		}
		if n.To == SentinelTo {
			n.SetSorted()
			n.Key = combine(n, PathNode{})
			next = append(next, n)
			continue
		}
		candidates := nodesFrom(byFrom, offsets, n.To)
		if len(candidates) == 0 {
			n.SetSorted()
			n.Key = combine(n, PathNode{})
			next = append(next, n)
			continue
		}
		for _, m := range candidates {
			next = append(next, PathNode{
				From: n.From,
				To:   m.To,
				Head: n.Head,
				Key:  combine(n, m),
			})
		}
	}
	return next
}

// joinBitPacked implements generations 1 through 3: for every unresolved
// past node n, join it with every past node m starting where n ends,
// packing the two generations' keys into a single uint64 (3 bits per
// path character, so key.first doubles in width each generation and is
// 24 bits wide after generation 3).
func joinBitPacked(past []PathNode, maxFrom uint64, generation int) []PathNode {
	shift := uint(3 * (1 << uint(generation-1)))
	return joinWith(past, maxFrom, func(n, m PathNode) key {
		return key{First: (n.Key.First << shift) ^ m.Key.First}
	})
}

// joinPairKey implements generation 4's join: the same join as
// joinBitPacked, but the new key keeps the two generations' keys as a
// (first, second) pair instead of bit-packing them, the form every later
// generation uses as well (a generation-5 packed key would need 96 bits).
func joinPairKey(past []PathNode, maxFrom uint64) []PathNode {
	return joinWith(past, maxFrom, func(n, m PathNode) key {
		return key{First: n.Key.First, Second: m.Key.First}
	})
}

// joinLate implements generation >= 5's join: sorted or dead-ended past
// nodes are carried through unchanged, unsorted ones are joined exactly
// as joinPairKey does.
func joinLate(past []PathNode, maxFrom uint64) []PathNode {
	return joinWith(past, maxFrom, func(n, m PathNode) key {
		return key{First: n.Key.First, Second: m.Key.First}
	})
}

func sortByKey(nodes []PathNode) {
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].Key.Less(nodes[j].Key) })
}

// nextMaximalSet returns the contiguous run of nodes (already sorted by
// Key) starting at index start that all share the same Key.First.
func nextMaximalSet(nodes []PathNode, start int) (lo, hi int) {
	lo = start
	hi = start
	for hi < len(nodes) && nodes[hi].Key.First == nodes[lo].Key.First {
		hi++
	}
	return lo, hi
}

// mergeUpdateRank re-ranks a Key-sorted node array, collapses maximal
// mergeable sets (runs sharing a key that all start at the same From)
// into a single sorted node, and marks any node left with a
// now-unique key as sorted. It reports whether every node ended up
// sorted, meaning doubling is complete.
func mergeUpdateRank(nodes []PathNode) ([]PathNode, bool) {
	rank := uint64(0)
	for i := range nodes {
		if i > 0 && (nodes[i].Key.First != nodes[i-1].Key.First || nodes[i].Key.Second != nodes[i-1].Key.Second) {
			rank++
		}
		nodes[i].Key = key{First: rank}
	}

	compacted := nodes[:0]
	for i := 0; i < len(nodes); {
		lo, hi := nextMaximalSet(nodes, i)
		mergeable := true
		for k := lo + 1; k < hi; k++ {
			if nodes[k].From != nodes[lo].From {
				mergeable = false
				break
			}
		}
		if mergeable {
			merged := nodes[lo]
			merged.SetSorted()
			compacted = append(compacted, merged)
		} else {
			compacted = append(compacted, nodes[lo:hi]...)
		}
		i = hi
	}
	nodes = compacted

	counts := make(map[uint64]int, len(nodes))
	for _, n := range nodes {
		counts[n.Key.First]++
	}
	allSorted := true
	for i := range nodes {
		if !nodes[i].IsSorted() && counts[nodes[i].Key.First] == 1 {
			nodes[i].SetSorted()
		}
		if !nodes[i].IsSorted() {
			allSorted = false
		}
	}
	if allSorted {
		for i := range nodes {
			nodes[i].Key.First = uint64(i)
		}
	}
	return nodes, allSorted
}

// maxGenerations bounds the doubling loop as a defensive backstop: a
// finite acyclic automaton with n nodes can never need more than
// O(log n) generations to fully distinguish every path, so exceeding
// this comfortably-generous bound indicates an implementation bug rather
// than a slow-converging but valid input.
const maxGenerations = 128

// RunConfig configures a doubling run's parallelism and progress logging.
type RunConfig struct {
	Threads int
	Verbose bool
	BuildID string
}

// Run doubles path length generation by generation until every PathNode
// is sorted, returning the final PathNode array.
func Run(g SourceGraph, cfg RunConfig) ([]PathNode, error) {
	nodes := makeFromRef(g)
	maxFrom := uint64(g.NumNodes())
	if maxFrom == 0 {
		return nodes, nil
	}

	for generation := 1; generation <= maxGenerations; generation++ {
		watch := internal.NewStopwatch()
		switch {
		case generation <= 3:
			nodes = joinBitPacked(nodes, maxFrom, generation)
		case generation == 4:
			nodes = joinPairKey(nodes, maxFrom)
			sortByKey(nodes)
			var done bool
			nodes, done = mergeUpdateRank(nodes)
			logGeneration(cfg, watch, generation, nodes)
			if done {
				return nodes, nil
			}
			continue
		default:
			nodes = joinLate(nodes, maxFrom)
			sortByKey(nodes)
			var done bool
			nodes, done = mergeUpdateRank(nodes)
			logGeneration(cfg, watch, generation, nodes)
			if done {
				return nodes, nil
			}
			continue
		}
		logGeneration(cfg, watch, generation, nodes)
	}
	return nil, fmt.Errorf("pathgraph: doubling did not converge within %d generations: %w", maxGenerations, gcsaerr.ErrInvariantViolation)
}
