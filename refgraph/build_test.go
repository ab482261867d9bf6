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
	"errors"
	"testing"

	"github.com/exascience/pangraph/gcsaerr"
)

func TestBuildRejectsInvalidVariant(t *testing.T) {
	_, err := Build([]byte("ACGT"), []Variant{{Pos: 0, Type: SGL, Seq: []byte("A")}}, BuildConfig{})
	if !errors.Is(err, gcsaerr.ErrInvalidVariant) {
		t.Errorf("expected ErrInvalidVariant, got %v", err)
	}
}

func TestBuildMonolithicPath(t *testing.T) {
	g, err := Build([]byte("ACGTACGTACGT"), []Variant{{Pos: 3, Type: SGL, Seq: []byte("G")}}, BuildConfig{})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !IsReverseDeterministic(g) {
		t.Error("Build must return a reverse-deterministic graph")
	}
	lo, hi := g.EdgesFrom(0)
	if hi-lo != 1 {
		t.Errorf("expected exactly one outgoing edge from the head node, got %d", hi-lo)
	}
}
