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
)

// Plan describes the FDSelect table of a subsetted font.
type Plan struct {
	// FDCount is the number of font DICTs used by the subset.
	FDCount int

	// Format is the FDSelect format chosen for the subset (0, 3 or 4).
	Format int

	// Size is the size of the encoded FDSelect table in bytes.
	Size int

	// FirstGlyphs lists the subset glyph indices where a new range of
	// glyphs with a common font DICT starts.  This is nil for format 0.
	FirstGlyphs []int

	// FDMap maps original font DICT indices to indices in the subset.
	FDMap FDMap

	unchanged bool
}

// Unchanged reports whether all font DICTs of the original font are used by
// the subset.  In this case the FDArray does not need to be subsetted and
// no other fields of the plan are set, except for FDCount.
func (p *Plan) Unchanged() bool {
	return p.unchanged
}

// PlanSubset determines the FDSelect table for a subset of a CID-keyed font.
// The glyphs slice lists the original glyph IDs of the glyphs retained in the
// subset; the index of a glyph in this slice is its new glyph ID.
// The original font has fdCount font DICTs, and src gives the original
// FDSelect table.
//
// If the subset uses more than 255 font DICTs, the table must be written in
// format 4.  In this case src must be a format 4 table, otherwise
// PlanSubset panics.
//
// The returned error is a [*parser.InvalidFontError] if src maps one of the
// glyphs to a negative font DICT index, or if the FDArray needs subsetting
// and a glyph uses a font DICT index of fdCount or more.  The same error
// type is returned if a subset of more than 65535 glyphs is planned for a
// source which does not support format 4.
func PlanSubset(glyphs []glyph.ID, fdCount int, src *FDSelect) (*Plan, error) {
	plan := &Plan{}
	if len(glyphs) == 0 {
		return plan, nil
	}

	used := make([]bool, fdCount)
	var firstGlyphs []int
	prevFD := -1
	for i, gid := range glyphs {
		fd := src.Fn(gid)
		if fd < 0 {
			return nil, invalidSince(fmt.Sprintf("glyph %d uses font DICT %d", gid, fd))
		} else if fd >= len(used) {
			used = append(used, make([]bool, fd+1-len(used))...)
		}
		if !used[fd] {
			used[fd] = true
			plan.FDCount++
		}
		if fd != prevFD {
			firstGlyphs = append(firstGlyphs, i)
			prevFD = fd
		}
	}

	if plan.FDCount == fdCount {
		plan.unchanged = true
		return plan, nil
	}

	if len(used) > fdCount {
		return nil, invalidSince(
			fmt.Sprintf("font DICT %d used, only %d present", len(used)-1, fdCount))
	}
	plan.FDMap = newFDMap(used)

	needWide := plan.FDCount > 0xFF
	if needWide && !src.SupportsWide() {
		panic(fmt.Sprintf("cff: %d font DICTs need FDSelect format 4, source uses format %d",
			plan.FDCount, src.Format))
	}
	if len(glyphs) > maxNarrowGlyphs && !src.SupportsWide() {
		return nil, invalidSince(
			fmt.Sprintf("%d glyphs exceed the FDSelect format 3 limit", len(glyphs)))
	}
	plan.Format, plan.Size = chooseFormat(len(glyphs), len(firstGlyphs), needWide)
	if plan.Format != 0 {
		plan.FirstGlyphs = firstGlyphs
	}

	return plan, nil
}
