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

// EdgeAt, LabelAt, ValueAt and LastNodeID exist so that *Graph structurally
// satisfies pathgraph.SourceGraph without refgraph importing pathgraph.
// pathgraph.Run requires edges ordered by From; call SortEdgesByFrom first.

// EdgeAt returns the i'th edge as a (from, to) pair.
func (g *Graph) EdgeAt(i int) (from, to NodeID) {
	e := g.Edges[i]
	return e.From, e.To
}

// LabelAt returns the label of node id as a plain byte.
func (g *Graph) LabelAt(id NodeID) byte { return byte(g.Nodes[id].Label) }

// ValueAt returns the genomic value of node id.
func (g *Graph) ValueAt(id NodeID) uint64 { return g.Nodes[id].Value }

// LastNodeID returns the id of g's unique Z node.
func (g *Graph) LastNodeID() NodeID { return g.LastNode }
