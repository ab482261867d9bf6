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

import "fmt"

// MonolithicThreshold is the reference length at or above which Build
// switches from buildMonolithic to the sharded builder.
const MonolithicThreshold = 1 << 16

// buildMonolithic builds the whole automaton in memory in a single pass:
// a Y head, one node per reference base, a Z tail, spine edges chaining
// them in order, and one detour per variant. Variants are assumed
// already validated by the caller.
func buildMonolithic(reference []byte, variants []Variant) (*Graph, error) {
	n := len(reference)
	g := &Graph{
		Nodes: make([]Node, 0, n+2+estimateVariantNodes(variants)),
		Edges: make([]Edge, 0, n+2+estimateVariantNodes(variants)),
	}

	g.Nodes = append(g.Nodes, Node{Label: Y, Value: 0})
	for i, base := range reference {
		lbl, err := baseLabel(base)
		if err != nil {
			return nil, err
		}
		g.Nodes = append(g.Nodes, Node{Label: lbl, Value: uint64(i)})
		g.Edges = append(g.Edges, Edge{From: NodeID(len(g.Nodes) - 2), To: NodeID(len(g.Nodes) - 1)})
	}
	g.Nodes = append(g.Nodes, Node{Label: Z, Value: uint64(n)})
	g.LastNode = NodeID(len(g.Nodes) - 1)
	g.Edges = append(g.Edges, Edge{From: g.LastNode - 1, To: g.LastNode})

	// spineID returns the node id of the spine node standing for reference
	// position pos, where pos may run from -1 (the head, Y) to n (the
	// tail, Z): spineID(-1) == 0 and spineID(n) == lastNode.
	spineID := func(pos int64) NodeID { return NodeID(pos + 1) }

	for _, v := range variants {
		if v.Pos >= uint64(n) {
			continue // already rejected by Validate; defensive only
		}
		switch v.Type {
		case SGL:
			altLbl, err := baseLabel(v.Seq[0])
			if err != nil {
				return nil, fmt.Errorf("SGL variant at pos %d: %w", v.Pos, err)
			}
			altID := NodeID(len(g.Nodes))
			g.Nodes = append(g.Nodes, Node{Label: altLbl, Value: v.Pos})
			g.Edges = append(g.Edges,
				Edge{From: spineID(int64(v.Pos) - 1), To: altID},
				Edge{From: altID, To: spineID(int64(v.Pos) + 1)},
			)
		case DEL:
			g.Edges = append(g.Edges, Edge{
				From: spineID(int64(v.Pos) - 1),
				To:   spineID(int64(v.Pos) + int64(v.Len)),
			})
		case INS:
			prev := spineID(int64(v.Pos) - 1)
			for j, base := range v.Seq {
				lbl, err := baseLabel(base)
				if err != nil {
					return nil, fmt.Errorf("INS variant at pos %d: %w", v.Pos, err)
				}
				insID := NodeID(len(g.Nodes))
				g.Nodes = append(g.Nodes, Node{Label: lbl, Value: NoGenomicPosition})
				from := prev
				if j > 0 {
					from = insID - 1
				}
				g.Edges = append(g.Edges, Edge{From: from, To: insID})
			}
			g.Edges = append(g.Edges, Edge{From: NodeID(len(g.Nodes) - 1), To: spineID(int64(v.Pos))})
		}
	}

	return g, nil
}

func estimateVariantNodes(variants []Variant) int {
	total := 0
	for _, v := range variants {
		switch v.Type {
		case SGL:
			total++
		case INS:
			total += len(v.Seq)
		}
	}
	return total
}

func baseLabel(b byte) (Label, error) {
	switch b {
	case 'A', 'a':
		return A, nil
	case 'C', 'c':
		return C, nil
	case 'G', 'g':
		return G, nil
	case 'T', 't':
		return T, nil
	default:
		return 0, fmt.Errorf("unrecognized base %q", b)
	}
}
