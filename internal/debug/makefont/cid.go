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

// Package makefont creates synthetic fonts for use in tests.
package makefont

import (
	"fmt"
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/funit"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyph"
)

// CID creates CID-keyed CFF outlines with nGlyphs glyphs and nFDs font
// DICTs.  Glyph gid uses font DICT fdSelect(gid).
//
// Each font DICT gets its own private dictionary, with stem widths which
// identify the font DICT index, see [PrivateIndex].  Glyph gid is a square
// of width 10*gid and has CID gid.
//
// CID panics if nGlyphs exceeds the number of distinct glyph IDs.
func CID(nGlyphs, nFDs int, fdSelect cff.FDSelectFn) *cff.Outlines {
	if nGlyphs > math.MaxUint16+1 {
		panic(fmt.Sprintf("makefont: %d glyphs is too many", nGlyphs))
	}
	outlines := &cff.Outlines{
		FDSelect: fdSelect,
		ROS: &cid.SystemInfo{
			Registry:   "Seehuhn",
			Ordering:   "Sonderbar",
			Supplement: 0,
		},
		GIDToCID: make([]cid.CID, nGlyphs),
	}

	for i := range nFDs {
		outlines.Private = append(outlines.Private, &type1.PrivateDict{
			BlueValues: []funit.Int16{-10, 0, 700, 710},
			BlueScale:  0.039625,
			BlueShift:  7,
			BlueFuzz:   1,
			StdHW:      float64(i + 1),
		})
		outlines.FontMatrices = append(outlines.FontMatrices, matrix.Identity)
	}

	for i := range nGlyphs {
		size := float64(10 * i)
		g := &cff.Glyph{
			Width: size + 100,
		}
		if i > 0 {
			g.MoveTo(50, 0)
			g.LineTo(50+size, 0)
			g.LineTo(50+size, size)
			g.LineTo(50, size)
		}
		outlines.Glyphs = append(outlines.Glyphs, g)
		outlines.GIDToCID[i] = cid.CID(i)
	}

	return outlines
}

// PrivateIndex returns the index of the font DICT a private dictionary
// created by [CID] belongs to.
func PrivateIndex(p *type1.PrivateDict) int {
	return int(p.StdHW) - 1
}

// Font wraps outlines created by [CID] into an sfnt font.
func Font(outlines *cff.Outlines) *sfnt.Font {
	return &sfnt.Font{
		FamilyName: fmt.Sprintf("Synthetic%d", len(outlines.Private)),
		UnitsPerEm: 1000,
		FontMatrix: matrix.Matrix{0.001, 0, 0, 0.001, 0, 0},
		Outlines:   outlines,
	}
}

// Stripes returns an FDSelect function where consecutive runs of
// runLength glyphs use the font DICTs 0, 1, ..., nFDs-1 in turn.
func Stripes(runLength, nFDs int) cff.FDSelectFn {
	return func(gid glyph.ID) int {
		return int(gid) / runLength % nFDs
	}
}
