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
	"os"
	"path/filepath"
	"sort"

	"github.com/exascience/pangraph/gcsaerr"
	"github.com/exascience/pargo/pipeline"
	"github.com/google/uuid"
)

type shardRange struct {
	start, end uint64 // reference coordinates, half-open
}

func shardRanges(refLen uint64, bounds []uint64) []shardRange {
	ranges := make([]shardRange, 0, len(bounds)+1)
	prev := uint64(0)
	for _, b := range bounds {
		ranges = append(ranges, shardRange{start: prev, end: b})
		prev = b
	}
	ranges = append(ranges, shardRange{start: prev, end: refLen})
	return ranges
}

func variantsIn(variants []Variant, r shardRange) []Variant {
	var local []Variant
	for _, v := range variants {
		if v.Pos >= r.start && v.Pos < r.end {
			shifted := v
			shifted.Pos -= r.start
			local = append(local, shifted)
		}
	}
	return local
}

type shardOutcome struct {
	index int
	path  string
	err   error
}

// buildSharded partitions reference into chunks aligned to snp-free gaps,
// builds each chunk as a self-contained automaton in parallel (spilling
// each to its own file so the driver thread can serialise the collection
// I/O as described by the concurrency model), then stitches the shards
// into a single automaton by dropping interior Y/Z nodes and connecting
// each shard's tail predecessors to the next shard's head successors.
func buildSharded(reference []byte, variants []Variant, cfg BuildConfig) (*Graph, error) {
	refLen := uint64(len(reference))
	coalesced := coalesceNeighborhoods(variants, cfg)
	bounds := chunkBoundaries(refLen, cfg.ChunkSize, coalesced)
	ranges := shardRanges(refLen, bounds)

	buildID := cfg.BuildID
	if buildID == "" {
		buildID = uuid.New().String()
	}
	shardDir := cfg.ShardBase
	if shardDir == "" {
		shardDir = os.TempDir()
	}

	outcomes := make([]shardOutcome, len(ranges))
	next := 0
	var p pipeline.Pipeline
	p.Source(pipeline.NewFunc(-1, func(size int) (interface{}, int, error) {
		if next >= len(ranges) {
			return nil, 0, nil
		}
		idx := next
		next++
		return idx, 1, nil
	}))
	p.SetVariableBatchSize(1, 1)
	p.Add(
		pipeline.LimitedPar(cfg.Threads, pipeline.Receive(func(_ int, data interface{}) interface{} {
			idx := data.(int)
			r := ranges[idx]
			g, err := buildMonolithic(reference[r.start:r.end], variantsIn(variants, r))
			if err != nil {
				return shardOutcome{index: idx, err: gcsaerr.NewShardError(idx, err)}
			}
			path := filepath.Join(shardDir, fmt.Sprintf("gcsa-%s-shard-%d.spill", buildID, idx))
			if err := writeShard(path, g); err != nil {
				return shardOutcome{index: idx, err: gcsaerr.NewShardError(idx, err)}
			}
			return shardOutcome{index: idx, path: path}
		})),
		pipeline.StrictOrd(pipeline.Receive(func(_ int, data interface{}) interface{} {
			o := data.(shardOutcome)
			outcomes[o.index] = o
			return nil
		})),
	)
	p.Run()

	cleanup := func() {
		for _, o := range outcomes {
			if o.path != "" {
				_ = os.Remove(o.path)
			}
		}
	}

	if err := p.Err(); err != nil {
		cleanup()
		return nil, err
	}
	for _, o := range outcomes {
		if o.err != nil {
			cleanup()
			return nil, o.err
		}
	}

	shards := make([]*Graph, len(outcomes))
	for i, o := range outcomes {
		g, err := readShard(o.path)
		if err != nil {
			cleanup()
			return nil, gcsaerr.NewShardError(i, err)
		}
		shards[i] = g
	}
	cleanup()

	return stitchShards(shards)
}

// stitchShards concatenates a sequence of independently built shard
// automatons into one, dropping every interior Y and Z node and
// connecting each shard's Z-predecessors to the next shard's
// Y-successors with the full Cartesian product of edges. Node values are
// shifted from shard-local to whole-reference coordinates by the total
// length of the preceding shards (each shard's Z value).
func stitchShards(shards []*Graph) (*Graph, error) {
	if len(shards) == 0 {
		return nil, fmt.Errorf("stitchShards: no shards to stitch: %w", gcsaerr.ErrInvariantViolation)
	}
	if len(shards) == 1 {
		g := shards[0]
		g.SortEdgesByFrom(0)
		return g, nil
	}

	const dropped = NoEdge
	remaps := make([][]NodeID, len(shards))
	var nodes []Node

	offset := uint64(0) // reference coordinate of the current shard's first base
	for i, sh := range shards {
		remap := make([]NodeID, len(sh.Nodes))
		for local := range sh.Nodes {
			isHeadY := NodeID(local) == 0
			isTailZ := NodeID(local) == sh.LastNode
			if (isHeadY && i > 0) || (isTailZ && i < len(shards)-1) {
				remap[local] = dropped
				continue
			}
			remap[local] = NodeID(len(nodes))
			node := sh.Nodes[local]
			if node.Value != NoGenomicPosition {
				node.Value += offset
			}
			nodes = append(nodes, node)
		}
		remaps[i] = remap
		offset += sh.Nodes[sh.LastNode].Value
	}

	var edges []Edge
	for i, sh := range shards {
		remap := remaps[i]
		for _, e := range sh.Edges {
			gf, gt := remap[e.From], remap[e.To]
			if gf == dropped || gt == dropped {
				continue
			}
			edges = append(edges, Edge{From: gf, To: gt})
		}
	}

	for i := 0; i+1 < len(shards); i++ {
		tailPreds := distinctSourcesInto(shards[i], shards[i].LastNode)
		headSuccs := distinctTargetsFrom(shards[i+1], 0)
		for _, tp := range tailPreds {
			gtp := remaps[i][tp]
			for _, hs := range headSuccs {
				edges = append(edges, Edge{From: gtp, To: remaps[i+1][hs]})
			}
		}
	}

	lastShard := shards[len(shards)-1]
	lastNode := remaps[len(shards)-1][lastShard.LastNode]

	g := &Graph{Nodes: nodes, Edges: edges, LastNode: lastNode}
	g.SortEdgesByFrom(0)
	return g, nil
}

func distinctSourcesInto(g *Graph, target NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.Edges {
		if e.To == target {
			out = append(out, e.From)
		}
	}
	return dedupUnsorted(out)
}

func distinctTargetsFrom(g *Graph, source NodeID) []NodeID {
	var out []NodeID
	for _, e := range g.Edges {
		if e.From == source {
			out = append(out, e.To)
		}
	}
	return dedupUnsorted(out)
}

func dedupUnsorted(ids []NodeID) []NodeID {
	if len(ids) < 2 {
		return ids
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return dedupNodeIDs(ids)
}
