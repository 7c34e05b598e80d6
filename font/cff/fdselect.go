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
	"bytes"
	"fmt"
	"io"
	"sort"

	sfntcff "seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/parser"
)

// FDSelect maps the glyphs of a CID-keyed font to font DICTs.
type FDSelect struct {
	// Fn returns the font DICT index for a glyph.
	Fn sfntcff.FDSelectFn

	// Format is the FDSelect format the mapping was stored in (0, 3 or 4).
	// Only tables stored in format 4 can address more than 256 font DICTs.
	Format int
}

// SupportsWide reports whether the table may be written using the wide
// range records of format 4.  This is only the case for CFF2 fonts.
func (s *FDSelect) SupportsWide() bool {
	return s.Format == 4
}

// rangeLayout describes the field widths of FDSelect formats 3 and 4.
// The sentinel has the same width as the first-glyph fields.
type rangeLayout struct {
	count int
	first int
	fd    int
}

var (
	narrowRanges = rangeLayout{count: 2, first: 2, fd: 1} // format 3
	wideRanges   = rangeLayout{count: 4, first: 4, fd: 2} // format 4
)

// size returns the number of bytes of an FDSelect table with nRanges ranges,
// including the format byte.
func (l rangeLayout) size(nRanges int) int {
	return 1 + l.count + nRanges*(l.first+l.fd) + l.first
}

// format0Size returns the number of bytes of a format 0 FDSelect table,
// including the format byte.
func format0Size(nGlyphs int) int {
	return 1 + nGlyphs
}

// maxNarrowGlyphs is the largest glyph count format 3 can represent,
// since the sentinel holds the number of glyphs.
const maxNarrowGlyphs = 0xFFFF

// chooseFormat returns the most compact FDSelect format for the given numbers
// of glyphs and ranges, together with the table size in bytes.
// Format 0 is used whenever it is not larger than format 3.
//
// If there are more than maxNarrowGlyphs glyphs, format 3 cannot be used
// and the caller must make sure that format 4 is permitted.
func chooseFormat(nGlyphs, nRanges int, needWide bool) (format, size int) {
	if needWide {
		return 4, wideRanges.size(nRanges)
	}

	if nGlyphs > maxNarrowGlyphs {
		size0 := format0Size(nGlyphs)
		size4 := wideRanges.size(nRanges)
		if size0 <= size4 {
			return 0, size0
		}
		return 4, size4
	}

	size0 := format0Size(nGlyphs)
	size3 := narrowRanges.size(nRanges)
	if size0 <= size3 {
		return 0, size0
	}
	return 3, size3
}

// DecodeFDSelect decodes an FDSelect table stored in memory.
// Read errors are prefixed with the table name and offset.
func DecodeFDSelect(data []byte, nGlyphs, nFDs int) (*FDSelect, error) {
	p := parser.New(bytes.NewReader(data))
	fdSelect, err := ReadFDSelect(p, nGlyphs, nFDs)
	if err != nil {
		return nil, readError(p, err)
	}
	return fdSelect, nil
}

// ReadFDSelect reads an FDSelect table from p.  The font must have nGlyphs
// glyphs and nFDs font DICTs.
//
// Malformed tables give a [*parser.InvalidFontError], unknown formats a
// [*parser.NotSupportedError].
func ReadFDSelect(p *parser.Parser, nGlyphs, nFDs int) (*FDSelect, error) {
	format, err := p.ReadUint8()
	if err != nil {
		return nil, err
	}

	switch format {
	case 0:
		buf := make([]uint8, nGlyphs)
		_, err := io.ReadFull(p, buf)
		if err != nil {
			return nil, err
		}
		for i := range buf {
			if int(buf[i]) >= nFDs {
				return nil, invalidSince("FDSelect out of range")
			}
		}
		return &FDSelect{
			Fn:     func(gid glyph.ID) int { return int(buf[gid]) },
			Format: 0,
		}, nil

	case 3, 4:
		layout := narrowRanges
		if format == 4 {
			layout = wideRanges
		}
		fn, err := readRanges(p, layout, nGlyphs, nFDs)
		if err != nil {
			return nil, err
		}
		return &FDSelect{Fn: fn, Format: int(format)}, nil

	default:
		return nil, notSupported(fmt.Sprintf("FDSelect format %d", format))
	}
}

func readRanges(p *parser.Parser, layout rangeLayout, nGlyphs, nFDs int) (sfntcff.FDSelectFn, error) {
	nRanges, err := readUint(p, layout.count)
	if err != nil {
		return nil, err
	}
	if nGlyphs > 0 && nRanges == 0 {
		return nil, invalidSince("no FDSelect data found")
	} else if uint64(nRanges) > uint64(nGlyphs) {
		return nil, invalidSince("too many FDSelect ranges")
	}

	end := make([]int, 0, nRanges)
	fdIdx := make([]int, 0, nRanges)

	prev := 0
	for i := 0; i < int(nRanges); i++ {
		first, err := readUint(p, layout.first)
		if err != nil {
			return nil, err
		} else if i > 0 && int(first) <= prev || i == 0 && first != 0 {
			return nil, invalidSince("FDSelect is invalid")
		}
		fd, err := readUint(p, layout.fd)
		if err != nil {
			return nil, err
		} else if int(fd) >= nFDs {
			return nil, invalidSince("FDSelect out of range")
		}
		if i > 0 {
			end = append(end, int(first))
		}
		fdIdx = append(fdIdx, int(fd))
		prev = int(first)
	}
	sentinel, err := readUint(p, layout.first)
	if err != nil {
		return nil, err
	} else if int64(sentinel) != int64(nGlyphs) || nRanges > 0 && int(sentinel) <= prev {
		return nil, invalidSince("wrong FDSelect sentinel")
	}
	end = append(end, nGlyphs)

	return func(gid glyph.ID) int {
		idx := sort.SearchInts(end, int(gid)+1)
		return fdIdx[idx]
	}, nil
}

// Encode encodes the FDSelect table of a font with nGlyphs glyphs, using
// the most compact format.  The font DICT indices are written unchanged.
// Format 4 is only used if a font DICT index exceeds 255 or if there are
// more than 65535 glyphs; both require wide to be set.
func Encode(fdSelect sfntcff.FDSelectFn, nGlyphs int, wide bool) []byte {
	fdOf := func(i int) int {
		return fdSelect(glyph.ID(i))
	}

	var firstGlyphs []int
	maxFD := 0
	prevFD := -1
	for i := 0; i < nGlyphs; i++ {
		fd := fdOf(i)
		maxFD = max(maxFD, fd)
		if fd != prevFD {
			firstGlyphs = append(firstGlyphs, i)
			prevFD = fd
		}
	}

	needWide := maxFD > 0xFF
	if needWide && !wide {
		panic(fmt.Sprintf("cff: font DICT %d needs FDSelect format 4", maxFD))
	} else if nGlyphs > maxNarrowGlyphs && !wide {
		panic(fmt.Sprintf("cff: %d glyphs need FDSelect format 4", nGlyphs))
	}

	format, size := chooseFormat(nGlyphs, len(firstGlyphs), needWide)
	buf := make([]byte, size)
	writeTable(buf, format, nGlyphs, firstGlyphs, fdOf)
	return buf
}
