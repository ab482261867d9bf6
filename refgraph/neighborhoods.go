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
	"sort"

	"github.com/willf/bitset"
)

const (
	defaultChunkSize     = 1 << 20
	defaultNeighborRelax = 10
	defaultInsRelax      = 128
)

// Interval is a half-open [Start, End) range of reference coordinates, the
// span a variant's neighbourhood must not be split across a shard
// boundary.
type Interval struct {
	Start, End uint64
}

// Extend grows iv to cover other if the two overlap or touch, and reports
// whether it did. other.Start must be >= iv.Start.
func (iv *Interval) Extend(other Interval) bool {
	if other.Start > iv.End {
		return false
	}
	if other.End > iv.End {
		iv.End = other.End
	}
	return true
}

// neighborhood returns the shard-splitting-avoidance range around v, per
// cfg's relaxation margins: left_relax bases before Pos, right_relax
// bases past v.End (128 instead of the default 10 for insertions, which
// otherwise carry no reference span of their own to relax around).
func neighborhood(v Variant, cfg BuildConfig) Interval {
	var start uint64
	if v.Pos > cfg.NeighborLo {
		start = v.Pos - cfg.NeighborLo
	}
	end := v.End()
	if v.Type == INS {
		end += cfg.InsHi
	} else {
		end += cfg.NeighborHi
	}
	return Interval{Start: start, End: end}
}

// coalesceNeighborhoods sorts and merges the per-variant neighbourhoods of
// variants into the minimal set of disjoint covering intervals, the same
// sort-then-Flatten strategy the teacher uses to collapse overlapping
// intervals from BED/VCF sources.
func coalesceNeighborhoods(variants []Variant, cfg BuildConfig) []Interval {
	if len(variants) == 0 {
		return nil
	}
	ivs := make([]Interval, len(variants))
	for i, v := range variants {
		ivs[i] = neighborhood(v, cfg)
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].Start < ivs[j].Start })
	return flatten(ivs)
}

func flatten(ivs []Interval) []Interval {
	for i, n := 0, len(ivs)-1; i < n; i++ {
		if ivs[i].Extend(ivs[i+1]) {
			n++
			for j := i + 1; j < n; j++ {
				if !ivs[i].Extend(ivs[j]) {
					i++
					ivs[i] = ivs[j]
				}
			}
			return ivs[:i+1]
		}
	}
	return ivs
}

// coverageBitset marks every reference position covered by a coalesced
// neighbourhood, so chunkBoundaries can find the nearest snp-free gap with
// a single NextClear scan instead of re-searching the interval list.
func coverageBitset(refLen uint64, coalesced []Interval) *bitset.BitSet {
	bs := bitset.New(uint(refLen))
	for _, iv := range coalesced {
		for p := iv.Start; p < iv.End && p < refLen; p++ {
			bs.Set(uint(p))
		}
	}
	return bs
}

// chunkBoundaries picks interior split points for a reference of length
// refLen at roughly every chunkSize bases, nudging each candidate forward
// to the next snp-free position so that no shard boundary falls inside a
// variant's neighbourhood.
func chunkBoundaries(refLen, chunkSize uint64, coalesced []Interval) []uint64 {
	if refLen <= chunkSize {
		return nil
	}
	covered := coverageBitset(refLen, coalesced)
	var bounds []uint64
	for target := chunkSize; target < refLen; target += chunkSize {
		if covered.Test(uint(target)) {
			if next, ok := covered.NextClear(uint(target)); ok && uint64(next) < refLen {
				target = uint64(next)
			} else {
				break
			}
		}
		if target > 0 && target < refLen && (len(bounds) == 0 || bounds[len(bounds)-1] != target) {
			bounds = append(bounds, target)
		}
	}
	return bounds
}
