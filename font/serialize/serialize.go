// github.com/bdenckla/harfbuzz - subsetting of CFF font tables
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package serialize provides output buffers for binary font tables.
//
// Encoders request writable memory with [Allocator.Allocate].  A [Buffer]
// has a fixed capacity which is chosen before encoding starts, so that
// running out of room is reported as an error rather than by growing the
// output.  [Grow] is an allocator without size limit.
package serialize

import "errors"

// ErrOutOfRoom is returned when an allocation does not fit into the
// remaining capacity of a [Buffer].
var ErrOutOfRoom = errors.New("serialize: out of room")

// Allocator hands out writable regions of an output buffer.
type Allocator interface {
	// Allocate returns n zeroed bytes at the current end of the output and
	// advances the output position by n.
	Allocate(n int) ([]byte, error)
}

// Buffer is an output buffer with fixed capacity.
// Once an allocation has failed, all further allocations fail.
type Buffer struct {
	data []byte
	err  error
}

// NewBuffer allocates a new Buffer which can hold up to capacity bytes.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{
		data: make([]byte, 0, capacity),
	}
}

// Allocate implements the [Allocator] interface.
func (b *Buffer) Allocate(n int) ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if n < 0 {
		panic("negative allocation size")
	}
	if n > b.Available() {
		b.err = ErrOutOfRoom
		return nil, b.err
	}

	start := len(b.data)
	b.data = b.data[:start+n]
	res := b.data[start:]
	clear(res)
	return res, nil
}

// Bytes returns the data written so far.
func (b *Buffer) Bytes() []byte {
	return b.data
}

// Len returns the number of bytes allocated so far.
func (b *Buffer) Len() int {
	return len(b.data)
}

// Available returns the number of bytes which can still be allocated.
func (b *Buffer) Available() int {
	return cap(b.data) - len(b.data)
}

// Err returns the error of the first failed allocation, if any.
func (b *Buffer) Err() error {
	return b.err
}

// Grow is an [Allocator] which extends the underlying slice as needed.
type Grow []byte

// Allocate implements the [Allocator] interface.
func (g *Grow) Allocate(n int) ([]byte, error) {
	if n < 0 {
		panic("negative allocation size")
	}
	start := len(*g)
	*g = append(*g, make([]byte, n)...)
	return (*g)[start:], nil
}
