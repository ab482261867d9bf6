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
	"bufio"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/exascience/pangraph/gcsaerr"
	"golang.org/x/sys/unix"
)

// spillMagic marks a shard spill file, the same style as the teacher's
// ElfastaMagic: 31FA57A2 => GCSASHARD, version 2 to distinguish it from
// unrelated stray files sharing the spill directory.
var spillMagic = []byte{0x31, 0xFA, 0x57, 0xA2}

// writeShard sequentially writes g to path: the magic bytes, a varint node
// count and label/value pairs, a varint edge count and from/to pairs, and
// finally the LastNode id. Writes are buffered and sequential
// (bufio.Writer) since a shard is only ever appended once; readShard
// mmaps it back for the stitching phase.
func writeShard(path string, g *Graph) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	w := bufio.NewWriter(file)
	var buf [binary.MaxVarintLen64]byte
	writeUvarint := func(v uint64) error {
		n := binary.PutUvarint(buf[:], v)
		_, werr := w.Write(buf[:n])
		return werr
	}

	if _, err = w.Write(spillMagic); err != nil {
		return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	if err = writeUvarint(uint64(len(g.Nodes))); err != nil {
		return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	for _, node := range g.Nodes {
		if err = w.WriteByte(byte(node.Label)); err != nil {
			return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
		}
		if err = writeUvarint(node.Value); err != nil {
			return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
		}
	}
	if err = writeUvarint(uint64(len(g.Edges))); err != nil {
		return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	for _, edge := range g.Edges {
		if err = writeUvarint(edge.From); err != nil {
			return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
		}
		if err = writeUvarint(edge.To); err != nil {
			return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
		}
	}
	if err = writeUvarint(g.LastNode); err != nil {
		return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	if err = w.Flush(); err != nil {
		return fmt.Errorf("writing shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	return nil
}

// readShard mmaps path read-only and decodes it into a fresh Graph,
// copying node and edge data out of the mapping before unmapping it: the
// mapping's lifetime is scoped to this call, unlike the teacher's
// long-lived MappedFasta, since shard graphs are small enough to own
// outright once decoded.
func readShard(path string) (g *Graph, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	if stat.Size() == 0 {
		return nil, fmt.Errorf("shard spill file %s is empty: %w", path, gcsaerr.ErrIO)
	}
	data, err := unix.Mmap(int(file.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap shard spill file %s: %w: %v", path, gcsaerr.ErrIO, err)
	}
	defer func() {
		if uerr := unix.Munmap(data); err == nil {
			err = uerr
		}
	}()

	for i, b := range spillMagic {
		if i >= len(data) || data[i] != b {
			return nil, fmt.Errorf("%s is not a shard spill file - invalid magic bytes: %w", path, gcsaerr.ErrIO)
		}
	}
	pos := len(spillMagic)

	readUvarint := func() (uint64, error) {
		v, n := binary.Uvarint(data[pos:])
		if n <= 0 {
			return 0, fmt.Errorf("corrupt shard spill file %s: %w", path, gcsaerr.ErrIO)
		}
		pos += n
		return v, nil
	}

	numNodes, err := readUvarint()
	if err != nil {
		return nil, err
	}
	nodes := make([]Node, numNodes)
	for i := range nodes {
		if pos >= len(data) {
			return nil, fmt.Errorf("corrupt shard spill file %s: %w", path, gcsaerr.ErrIO)
		}
		lbl := Label(data[pos])
		pos++
		value, err := readUvarint()
		if err != nil {
			return nil, err
		}
		nodes[i] = Node{Label: lbl, Value: value}
	}

	numEdges, err := readUvarint()
	if err != nil {
		return nil, err
	}
	edges := make([]Edge, numEdges)
	for i := range edges {
		from, err := readUvarint()
		if err != nil {
			return nil, err
		}
		to, err := readUvarint()
		if err != nil {
			return nil, err
		}
		edges[i] = Edge{From: from, To: to}
	}

	lastNode, err := readUvarint()
	if err != nil {
		return nil, err
	}

	return &Graph{Nodes: nodes, Edges: edges, LastNode: lastNode}, nil
}
