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

// Package subset reduces the FDArray and FDSelect data of CFF fonts to a
// subset of the glyphs.
package subset

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/postscript/cid"
	"seehuhn.de/go/postscript/type1"
	"seehuhn.de/go/sfnt"
	sfntcff "seehuhn.de/go/sfnt/cff"
	"seehuhn.de/go/sfnt/glyph"

	"github.com/bdenckla/harfbuzz/font/cff"
	"github.com/bdenckla/harfbuzz/font/serialize"
)

// Result describes a subsetted set of CFF outlines.
type Result struct {
	// Outlines are the outlines of the subset.  Glyph i of the subset is
	// glyph glyphs[i] of the original font.
	Outlines *sfntcff.Outlines

	// FDSelect is the encoded FDSelect table of the subset.
	FDSelect []byte

	// Plan is the FDSelect plan used to construct the subset.
	Plan *cff.Plan
}

// CIDOutlines restricts CFF outlines to the given glyphs.  The first glyph
// must be the .notdef glyph.  Only the private dictionaries and font
// matrices used by the retained glyphs are kept, and the FDSelect table is
// re-encoded in the most compact format.
func CIDOutlines(o *sfntcff.Outlines, glyphs []glyph.ID) (*Result, error) {
	if len(glyphs) == 0 || glyphs[0] != 0 {
		return nil, errors.New("subset does not start with .notdef")
	}
	for _, gid := range glyphs {
		if int(gid) >= len(o.Glyphs) {
			return nil, fmt.Errorf("glyph %d not in font", gid)
		}
	}
	if o.FDSelect == nil {
		return nil, errors.New("missing FDSelect")
	}
	glyphs = slices.Clone(glyphs)

	src := &cff.FDSelect{
		Fn:     o.FDSelect,
		Format: sourceFormat(len(o.Private)),
	}
	plan, err := cff.PlanSubset(glyphs, len(o.Private), src)
	if err != nil {
		return nil, err
	}

	o2 := &sfntcff.Outlines{}
	*o2 = *o
	o2.Glyphs = nil
	for _, gid := range glyphs {
		o2.Glyphs = append(o2.Glyphs, o.Glyphs[gid])
	}
	if o.GIDToCID != nil {
		o2.GIDToCID = make([]cid.CID, len(glyphs))
		for i, gid := range glyphs {
			o2.GIDToCID[i] = o.GIDToCID[gid]
		}
	}
	if o.Encoding != nil {
		o2.Encoding = reencode(o.Encoding, glyphs)
	}

	fdSel := make([]int, len(glyphs))
	res := &Result{
		Outlines: o2,
		Plan:     plan,
	}
	if plan.Unchanged() {
		for i, gid := range glyphs {
			fdSel[i] = o.FDSelect(gid)
		}
		o2.FDSelect = func(gid glyph.ID) int { return fdSel[gid] }
		res.FDSelect = cff.Encode(o2.FDSelect, len(glyphs), src.SupportsWide())
		return res, nil
	}

	used := plan.FDMap.Used()
	o2.Private = make([]*type1.PrivateDict, len(used))
	for i, fd := range used {
		o2.Private[i] = o.Private[fd]
	}
	if len(o.FontMatrices) == len(o.Private) {
		o2.FontMatrices = make([]matrix.Matrix, len(used))
		for i, fd := range used {
			o2.FontMatrices[i] = o.FontMatrices[fd]
		}
	}
	for i, gid := range glyphs {
		fdSel[i] = plan.FDMap[o.FDSelect(gid)]
	}
	o2.FDSelect = func(gid glyph.ID) int { return fdSel[gid] }

	buf := serialize.NewBuffer(plan.Size)
	err = plan.Serialize(buf, glyphs, src)
	if err != nil {
		return nil, err
	}
	res.FDSelect = buf.Bytes()

	return res, nil
}

// CIDFont constructs a subset of a CFF-based font.  The returned font shares
// all data except for the outlines with info.  The second return value is
// the encoded FDSelect table of the subset.
func CIDFont(info *sfnt.Font, glyphs []glyph.ID) (*sfnt.Font, []byte, error) {
	outlines, ok := info.Outlines.(*sfntcff.Outlines)
	if !ok {
		return nil, nil, errors.New("not a CFF font")
	}

	r, err := CIDOutlines(outlines, glyphs)
	if err != nil {
		return nil, nil, err
	}

	res := &sfnt.Font{}
	*res = *info
	res.Outlines = r.Outlines
	return res, r.FDSelect, nil
}

// sourceFormat returns the FDSelect format which an FDArray with nFDs
// font DICTs must have been stored in.  Only CFF2 fonts can have more than
// 256 font DICTs, and these use format 4.
func sourceFormat(nFDs int) int {
	if nFDs > 256 {
		return 4
	}
	return 3
}

// reencode maps the character codes of a simple CFF font to the glyph
// indices of the subset.  Codes for glyphs which are not in the subset are
// mapped to .notdef.
func reencode(encoding []glyph.ID, glyphs []glyph.ID) []glyph.ID {
	newGID := make(map[glyph.ID]glyph.ID, len(glyphs))
	for i, gid := range glyphs {
		if _, seen := newGID[gid]; !seen {
			newGID[gid] = glyph.ID(i)
		}
	}

	res := make([]glyph.ID, len(encoding))
	for code, gid := range encoding {
		res[code] = newGID[gid]
	}
	return res
}
