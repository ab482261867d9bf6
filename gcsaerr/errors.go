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

// Package gcsaerr holds the sentinel error kinds shared by refgraph and
// pathgraph. Callers branch on these with errors.Is; context is attached
// with fmt.Errorf("...: %w", ...) rather than by stringly-typed codes.
package gcsaerr

import (
	"errors"
	"fmt"
)

// ErrInvalidVariant indicates a variant record failed validation: its
// position lies outside the reference, it has zero length, or it is a
// substitution whose alt base equals the reference base at that position.
var ErrInvalidVariant = errors.New("gcsaerr: invalid variant")

// ErrShardFailed indicates a worker building one shard of a sharded RefGraph
// failed fatally. Use ShardError to recover the shard id and cause.
var ErrShardFailed = errors.New("gcsaerr: shard build failed")

// ErrInvariantViolation indicates a core invariant did not hold where a
// sanity check expected it to (e.g. reverse-determinism failed to hold
// after Determinize completed). This signals an implementation bug, not
// bad input. The checks that raise it always run; there is no switch that
// turns them off.
var ErrInvariantViolation = errors.New("gcsaerr: invariant violation")

// ErrOutOfMemory indicates the path-node array could not be allocated at
// its required size. The caller may retry with a packed representation or
// fewer threads.
var ErrOutOfMemory = errors.New("gcsaerr: out of memory")

// ErrIO indicates a shard spill file could not be written or read back.
var ErrIO = errors.New("gcsaerr: spill file i/o error")

// ShardError wraps ErrShardFailed with the failing shard's id and the
// underlying cause, while still satisfying errors.Is(err, ErrShardFailed).
type ShardError struct {
	ShardID int
	Cause   error
}

func (e *ShardError) Error() string {
	return fmt.Sprintf("gcsaerr: shard %d failed: %v", e.ShardID, e.Cause)
}

func (e *ShardError) Unwrap() []error {
	return []error{ErrShardFailed, e.Cause}
}

// NewShardError builds a ShardError for the given shard id and cause.
func NewShardError(shardID int, cause error) *ShardError {
	return &ShardError{ShardID: shardID, Cause: cause}
}

// InvariantKind names which invariant failed a sanity check.
type InvariantKind string

const (
	InvariantReverseDeterminism InvariantKind = "reverse-determinism"
	InvariantRankPermutation    InvariantKind = "rank-permutation"
	InvariantEdgeRankRange      InvariantKind = "edge-rank-range"
	InvariantFMDuality          InvariantKind = "f-m-duality"
)

// InvariantError wraps ErrInvariantViolation with the specific invariant
// that failed and a free-form detail message.
type InvariantError struct {
	Kind   InvariantKind
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("gcsaerr: invariant %q violated: %s", e.Kind, e.Detail)
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

// NewInvariantError builds an InvariantError for the given kind.
func NewInvariantError(kind InvariantKind, detail string) *InvariantError {
	return &InvariantError{Kind: kind, Detail: detail}
}
