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

package cff

import (
	"fmt"

	"seehuhn.de/go/sfnt/glyph"

	"github.com/bdenckla/harfbuzz/font/serialize"
)

// Serialize writes the FDSelect table described by the plan.
// The glyphs and src arguments must be the same as the ones passed to
// [PlanSubset].  Exactly p.Size bytes are allocated from a.
//
// Serialize must not be called if the plan is unchanged.
// For an empty subset, nothing is written.
func (p *Plan) Serialize(a serialize.Allocator, glyphs []glyph.ID, src *FDSelect) error {
	if p.unchanged {
		panic("cff: FDSelect of an unchanged subset serialized")
	}
	if p.Size == 0 {
		return nil
	}

	buf, err := a.Allocate(p.Size)
	if err != nil {
		return err
	}
	writeTable(buf, p.Format, len(glyphs), p.FirstGlyphs, func(i int) int {
		return p.FDMap[src.Fn(glyphs[i])]
	})
	return nil
}

// writeTable encodes an FDSelect table into buf, which must have exactly the
// size required for the given format.  The function fdOf gives the font DICT
// index for each glyph index in the output.
func writeTable(buf []byte, format, nGlyphs int, firstGlyphs []int, fdOf func(int) int) {
	buf[0] = byte(format)
	switch format {
	case 0:
		for i := 0; i < nGlyphs; i++ {
			buf[1+i] = byte(fdOf(i))
		}
	case 3:
		writeRanges(buf[1:], narrowRanges, nGlyphs, firstGlyphs, fdOf)
	case 4:
		writeRanges(buf[1:], wideRanges, nGlyphs, firstGlyphs, fdOf)
	default:
		panic(fmt.Sprintf("cff: unexpected FDSelect format %d", format))
	}
}

func writeRanges(buf []byte, layout rangeLayout, nGlyphs int, firstGlyphs []int, fdOf func(int) int) {
	pos := putUint(buf, 0, layout.count, len(firstGlyphs))
	for _, first := range firstGlyphs {
		pos = putUint(buf, pos, layout.first, first)
		pos = putUint(buf, pos, layout.fd, fdOf(first))
	}
	putUint(buf, pos, layout.first, nGlyphs) // sentinel
}

// putUint stores val as a big-endian integer with the given width at
// buf[pos:], and returns the position after the value.
func putUint(buf []byte, pos, width, val int) int {
	for i := width - 1; i >= 0; i-- {
		buf[pos+i] = byte(val)
		val >>= 8
	}
	return pos + width
}
