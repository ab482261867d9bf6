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
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/exascience/pangraph/gcsaerr"
)

// compositeNode is one node of the subset-construction automaton: a set of
// original node ids that all reach the same suffix, plus the label and
// value the merged node will carry once emitted.
type compositeNode struct {
	label   Label
	value   uint64
	members []NodeID // sorted, deduplicated
}

func canonicalKey(members []NodeID) string {
	var b strings.Builder
	for i, m := range members {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatUint(m, 10))
	}
	return b.String()
}

// IsReverseDeterministic reports whether g has, for every node, at most
// one incoming edge per source label: the property Determinize
// establishes and BackwardSearch requires.
func IsReverseDeterministic(g *Graph) bool {
	edges := append([]Edge(nil), g.Edges...)
	sort.Slice(edges, func(i, j int) bool { return edges[i].To < edges[j].To })

	var seen [6]bool
	curTo := NodeID(0)
	first := true
	for _, e := range edges {
		if first || e.To != curTo {
			curTo = e.To
			first = false
			seen = [6]bool{}
		}
		order := LabelOrder(g.Nodes[e.From].Label)
		if order < 0 {
			continue
		}
		if seen[order] {
			return false
		}
		seen[order] = true
	}
	return true
}

// Determinize replaces g's node/edge arrays with the reverse-deterministic
// automaton obtained by backward subset construction starting from
// g.LastNode: composite nodes are built by repeatedly grouping the
// predecessors of the active frontier by label, so that no emitted node
// ever has two incoming edges sharing a source label.
func Determinize(g *Graph) error {
	predecessorsOf := make([][]NodeID, len(g.Nodes))
	for _, e := range g.Edges {
		predecessorsOf[e.To] = append(predecessorsOf[e.To], e.From)
	}

	var cnodes []compositeNode
	keyToID := make(map[string]int)
	type compositeEdge struct{ from, to int } // from precedes to, forward direction

	seed := compositeNode{
		label:   g.Nodes[g.LastNode].Label,
		value:   g.Nodes[g.LastNode].Value,
		members: []NodeID{g.LastNode},
	}
	cnodes = append(cnodes, seed)
	keyToID[canonicalKey(seed.members)] = 0

	var active []int
	active = append(active, 0)

	var cedges []compositeEdge
	firstNode := -1

	for len(active) > 0 {
		cnodeID := active[0]
		active = active[1:]

		var predecessors []NodeID
		for _, member := range cnodes[cnodeID].members {
			predecessors = append(predecessors, predecessorsOf[member]...)
		}
		if len(predecessors) >= 2 {
			sort.Slice(predecessors, func(i, j int) bool { return predecessors[i] < predecessors[j] })
			predecessors = dedupNodeIDs(predecessors)
			sort.SliceStable(predecessors, func(i, j int) bool {
				return LabelOrder(g.Nodes[predecessors[i]].Label) < LabelOrder(g.Nodes[predecessors[j]].Label)
			})
		}

		for i := 0; i < len(predecessors); {
			lbl := g.Nodes[predecessors[i]].Label
			group := []NodeID{predecessors[i]}
			value := g.Nodes[predecessors[i]].Value
			i++
			for i < len(predecessors) && g.Nodes[predecessors[i]].Label == lbl {
				group = append(group, predecessors[i])
				if v := g.Nodes[predecessors[i]].Value; v != NoGenomicPosition {
					if value == NoGenomicPosition || v > value {
						value = v
					}
				}
				i++
			}

			key := canonicalKey(group)
			var groupID int
			if id, ok := keyToID[key]; ok {
				groupID = id
			} else {
				groupID = len(cnodes)
				cnodes = append(cnodes, compositeNode{label: lbl, value: value, members: group})
				keyToID[key] = groupID
				active = append(active, groupID)
				if lbl == Y && firstNode == -1 {
					firstNode = groupID
				}
			}
			cedges = append(cedges, compositeEdge{from: groupID, to: cnodeID})
		}
	}

	if firstNode == -1 {
		return fmt.Errorf("determinize: no composite node reached label Y: %w", gcsaerr.ErrInvariantViolation)
	}

	// Kahn's algorithm assigns final ids in forward topological order,
	// starting from firstNode: this replaces the original two-pass
	// indegree-then-interchange renumbering with an equivalent, simpler
	// single BFS.
	indegree := make([]int, len(cnodes))
	outEdges := make([][]int, len(cnodes))
	for _, ce := range cedges {
		indegree[ce.to]++
		outEdges[ce.from] = append(outEdges[ce.from], ce.to)
	}

	finalID := make([]int, len(cnodes))
	for i := range finalID {
		finalID[i] = -1
	}
	var order []int
	queue := []int{firstNode}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if finalID[c] != -1 {
			continue
		}
		finalID[c] = len(order)
		order = append(order, c)
		for _, succ := range outEdges[c] {
			indegree[succ]--
			if indegree[succ] == 0 {
				queue = append(queue, succ)
			}
		}
	}

	if len(order) != len(cnodes) {
		return fmt.Errorf("determinize: composite graph is not a DAG reachable from the head node: %w", gcsaerr.ErrInvariantViolation)
	}

	newNodes := make([]Node, len(cnodes))
	lastNode := NodeID(0)
	haveLast := false
	for _, c := range order {
		id := finalID[c]
		newNodes[id] = Node{Label: cnodes[c].label, Value: cnodes[c].value}
		if cnodes[c].label == Z {
			lastNode = NodeID(id)
			haveLast = true
		}
	}
	if !haveLast {
		return fmt.Errorf("determinize: no composite node reached label Z: %w", gcsaerr.ErrInvariantViolation)
	}

	newEdges := make([]Edge, len(cedges))
	for i, ce := range cedges {
		newEdges[i] = Edge{From: NodeID(finalID[ce.from]), To: NodeID(finalID[ce.to])}
	}

	g.Nodes = newNodes
	g.Edges = newEdges
	g.LastNode = lastNode
	g.edgesSortedBy = unsorted
	g.SortEdgesByFrom(0)
	return nil
}

func dedupNodeIDs(sorted []NodeID) []NodeID {
	if len(sorted) == 0 {
		return sorted
	}
	out := sorted[:1]
	for _, v := range sorted[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
