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

// Package sortutil provides the bulk key-extracting bin/radix sorts that
// RefGraph and PathGraph use to keep their large flat node/edge arrays
// totally ordered without allocating a full second copy per pass.
//
// Both BinSortInPlace and BinSortCopy give a total order by the value
// keyFn extracts; equal keys are not guaranteed to keep their relative
// input order. When keyUpperBound is small relative to the slice length,
// the sort degenerates to an exact counting sort (one bucket per key
// value, already fully ordered after the scatter pass); otherwise the key
// space is coarsened into nthreads ranges, each range is scattered
// independently and then finished with an ordinary comparison sort, the
// same two-tier strategy the teacher's radix/comparison split follows
// throughout its own bulk record processing.
package sortutil

import (
	"runtime"
	"sort"

	"github.com/exascience/pargo/parallel"
)

// exactBucketFactor bounds how large keyUpperBound may be, relative to the
// slice length, before an exact one-bucket-per-key counting sort is
// abandoned in favor of coarse range partitioning + comparison sort. A
// generous factor keeps small, dense key spaces (ranks, small alphabets,
// out-degrees) on the fast exact path.
const exactBucketFactor = 4

func resolveThreads(nthreads int) int {
	if nthreads > 0 {
		return nthreads
	}
	if n := runtime.GOMAXPROCS(0); n > 0 {
		return n
	}
	return 1
}

// bucketing decides how many buckets to use and how wide each is, given a
// slice length and a key upper bound (inclusive).
func bucketing(n int, keyUpperBound uint64, nthreads int) (numBuckets int, width uint64, exact bool) {
	span := keyUpperBound + 1
	if span == 0 { // keyUpperBound == math.MaxUint64; never treat as "small"
		numBuckets = resolveThreads(nthreads)
		if numBuckets < 1 {
			numBuckets = 1
		}
		width = 0 // signals "coarsen by division with overflow guard", handled by caller
		return numBuckets, width, false
	}
	if uint64(n)*exactBucketFactor >= span || span <= 1<<16 {
		return int(span), 1, true
	}
	numBuckets = resolveThreads(nthreads)
	if numBuckets < 1 {
		numBuckets = 1
	}
	if uint64(numBuckets) > span {
		numBuckets = int(span)
	}
	width = (span + uint64(numBuckets) - 1) / uint64(numBuckets)
	return numBuckets, width, width == 1
}

func bucketOf(key uint64, width uint64, numBuckets int) int {
	if width == 0 {
		// keyUpperBound was the max value of the key type; approximate by
		// dividing the full range into numBuckets equal shares.
		b := int(key / (^uint64(0)/uint64(numBuckets) + 1))
		if b >= numBuckets {
			b = numBuckets - 1
		}
		return b
	}
	b := int(key / width)
	if b >= numBuckets {
		b = numBuckets - 1
	}
	return b
}

// BinSortCopy sorts src by the unsigned key keyFn extracts, writing the
// result into dst (which must have the same length as src). keyUpperBound
// is an inclusive upper bound on the values keyFn can return.
func BinSortCopy[T any](src, dst []T, keyFn func(T) uint64, keyUpperBound uint64, nthreads int) {
	n := len(src)
	if n == 0 {
		return
	}
	numBuckets, width, exact := bucketing(n, keyUpperBound, nthreads)

	counts := make([]int, numBuckets)
	for i := 0; i < n; i++ {
		counts[bucketOf(keyFn(src[i]), width, numBuckets)]++
	}
	offsets := make([]int, numBuckets+1)
	for b := 0; b < numBuckets; b++ {
		offsets[b+1] = offsets[b] + counts[b]
	}

	threads := resolveThreads(nthreads)
	if threads > numBuckets {
		threads = numBuckets
	}
	if threads <= 1 || n < 1<<14 {
		cursors := append([]int(nil), offsets[:numBuckets]...)
		for i := 0; i < n; i++ {
			b := bucketOf(keyFn(src[i]), width, numBuckets)
			dst[cursors[b]] = src[i]
			cursors[b]++
		}
	} else {
		// Partition the bucket space into `threads` disjoint ranges; each
		// worker rescans the whole input but only ever writes into the
		// buckets it owns, so no synchronization is needed mid-phase.
		lo := make([]int, threads+1)
		for t := 0; t <= threads; t++ {
			lo[t] = t * numBuckets / threads
		}
		tasks := make([]func(), threads)
		for t := 0; t < threads; t++ {
			t := t
			tasks[t] = func() {
				cursors := append([]int(nil), offsets[lo[t]:lo[t+1]]...)
				for i := 0; i < n; i++ {
					b := bucketOf(keyFn(src[i]), width, numBuckets)
					if b < lo[t] || b >= lo[t+1] {
						continue
					}
					dst[cursors[b-lo[t]]] = src[i]
					cursors[b-lo[t]]++
				}
			}
		}
		parallel.Do(tasks...)
	}

	if !exact {
		finishBuckets(dst, offsets, numBuckets, keyFn, threads)
	}
}

// BinSortInPlace sorts slice by the unsigned key keyFn extracts, permuting
// it in place using O(numBuckets) auxiliary memory (an American-flag-sort
// style cycle placement) instead of allocating a second copy the size of
// slice.
func BinSortInPlace[T any](slice []T, keyFn func(T) uint64, keyUpperBound uint64, nthreads int) {
	n := len(slice)
	if n == 0 {
		return
	}
	numBuckets, width, exact := bucketing(n, keyUpperBound, nthreads)

	counts := make([]int, numBuckets)
	for i := 0; i < n; i++ {
		counts[bucketOf(keyFn(slice[i]), width, numBuckets)]++
	}
	starts := make([]int, numBuckets+1)
	for b := 0; b < numBuckets; b++ {
		starts[b+1] = starts[b] + counts[b]
	}
	next := append([]int(nil), starts[:numBuckets]...)
	ends := starts[1:]

	for b := 0; b < numBuckets; b++ {
		for next[b] < ends[b] {
			item := slice[next[b]]
			itemBucket := bucketOf(keyFn(item), width, numBuckets)
			if itemBucket == b {
				next[b]++
				continue
			}
			slice[next[b]], slice[next[itemBucket]] = slice[next[itemBucket]], item
			next[itemBucket]++
		}
	}

	if !exact {
		finishBuckets(slice, starts, numBuckets, keyFn, resolveThreads(nthreads))
	}
}

// finishBuckets comparison-sorts each of numBuckets disjoint ranges of s
// (delimited by offsets) by keyFn, in parallel across up to threads
// workers. Buckets are disjoint index ranges, so no synchronization is
// needed between workers.
func finishBuckets[T any](s []T, offsets []int, numBuckets int, keyFn func(T) uint64, threads int) {
	if threads < 1 {
		threads = 1
	}
	if threads > numBuckets {
		threads = numBuckets
	}
	tasks := make([]func(), threads)
	for t := 0; t < threads; t++ {
		lo := t * numBuckets / threads
		hi := (t + 1) * numBuckets / threads
		tasks[t] = func() {
			for b := lo; b < hi; b++ {
				chunk := s[offsets[b]:offsets[b+1]]
				sort.Slice(chunk, func(i, j int) bool {
					return keyFn(chunk[i]) < keyFn(chunk[j])
				})
			}
		}
	}
	parallel.Do(tasks...)
}
