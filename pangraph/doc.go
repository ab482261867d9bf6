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

// Package pangraph wires refgraph and pathgraph into a single prefix-sorted
// genome-graph index builder: BuildIndex takes a reference, its variants,
// and a BWTConsumer, and drives RefGraph construction, prefix doubling, and
// edge generation to completion, emitting the (bwt_char, F, M, position)
// quadruple stream to the consumer. FASTA/VCF parsing and on-disk index
// layout are left to the caller: the reference is passed in as a byte
// slice and the variants as refgraph.Variant values, and the package
// defines no input-provider or index-sink types of its own.
package pangraph
