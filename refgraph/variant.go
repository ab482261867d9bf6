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

	"github.com/exascience/pangraph/gcsaerr"
)

// VariantType distinguishes the three ways a Variant can diverge from the
// reference at Pos.
type VariantType int

const (
	// SGL replaces the single reference base at Pos with Seq[0].
	SGL VariantType = iota
	// INS inserts Seq immediately before the reference base at Pos.
	INS
	// DEL removes Len reference bases starting at Pos.
	DEL
)

func (t VariantType) String() string {
	switch t {
	case SGL:
		return "SGL"
	case INS:
		return "INS"
	case DEL:
		return "DEL"
	default:
		return fmt.Sprintf("VariantType(%d)", int(t))
	}
}

// Variant is one deviation from the reference sequence to be spliced into
// the automaton alongside the reference spine.
type Variant struct {
	Pos  uint64 // 0-based reference coordinate
	Type VariantType
	Len  uint32 // number of reference bases consumed (DEL only)
	Seq  []byte // alternate bases (SGL: exactly one, INS: one or more)
}

// Validate reports whether v is a well-formed variant against reference,
// wrapping gcsaerr.ErrInvalidVariant when it is not: a Pos outside the
// reference, a DEL or SGL running past the end of the reference, a
// zero-length INS or DEL, an SGL/INS with no alternate bases, or an SGL
// whose alt base equals the reference base at Pos are all rejected here
// so that build_monolithic.go and shard.go never have to special-case
// malformed input while splicing.
func (v Variant) Validate(reference []byte) error {
	refLen := uint64(len(reference))
	if v.Pos >= refLen {
		return fmt.Errorf("variant at pos %d outside reference of length %d: %w", v.Pos, refLen, gcsaerr.ErrInvalidVariant)
	}
	switch v.Type {
	case SGL:
		if len(v.Seq) != 1 {
			return fmt.Errorf("SGL variant at pos %d must carry exactly one base, got %d: %w", v.Pos, len(v.Seq), gcsaerr.ErrInvalidVariant)
		}
		if v.Seq[0]|0x20 == reference[v.Pos]|0x20 {
			return fmt.Errorf("SGL variant at pos %d has alt base equal to reference base: %w", v.Pos, gcsaerr.ErrInvalidVariant)
		}
	case INS:
		if len(v.Seq) == 0 {
			return fmt.Errorf("INS variant at pos %d carries no bases: %w", v.Pos, gcsaerr.ErrInvalidVariant)
		}
	case DEL:
		if v.Len == 0 {
			return fmt.Errorf("DEL variant at pos %d has zero length: %w", v.Pos, gcsaerr.ErrInvalidVariant)
		}
		if v.Pos+uint64(v.Len) > refLen {
			return fmt.Errorf("DEL variant at pos %d, len %d runs past reference of length %d: %w", v.Pos, v.Len, refLen, gcsaerr.ErrInvalidVariant)
		}
	default:
		return fmt.Errorf("unknown variant type %v at pos %d: %w", v.Type, v.Pos, gcsaerr.ErrInvalidVariant)
	}
	return nil
}

// End returns the reference coordinate one past the last reference base v
// consumes: Pos+1 for SGL, Pos+Len for DEL, and Pos itself for INS (an
// insertion consumes no reference bases; it splices in before Pos).
func (v Variant) End() uint64 {
	switch v.Type {
	case DEL:
		return v.Pos + uint64(v.Len)
	case INS:
		return v.Pos
	default:
		return v.Pos + 1
	}
}
