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

// FDMap maps font DICT indices of the original font to font DICT indices in
// a subset.  The map is indexed by the original font DICT index; font DICTs
// which are not used in the subset map to -1.
//
// Used font DICTs are numbered consecutively, in the order of their original
// indices.
type FDMap []int

const unusedFD = -1

// newFDMap creates an FDMap from a table of used font DICTs.
func newFDMap(used []bool) FDMap {
	m := make(FDMap, len(used))
	next := 0
	for fd, isUsed := range used {
		if isUsed {
			m[fd] = next
			next++
		} else {
			m[fd] = unusedFD
		}
	}
	return m
}

// Get returns the new index of the original font DICT fd.
// The second return value is false if fd is not part of the subset.
func (m FDMap) Get(fd int) (int, bool) {
	if fd < 0 || fd >= len(m) || m[fd] == unusedFD {
		return 0, false
	}
	return m[fd], true
}

// Count returns the number of font DICTs in the subset.
func (m FDMap) Count() int {
	n := 0
	for _, newFD := range m {
		if newFD != unusedFD {
			n++
		}
	}
	return n
}

// Used returns the original indices of the font DICTs in the subset,
// in increasing order.
func (m FDMap) Used() []int {
	var res []int
	for fd, newFD := range m {
		if newFD != unusedFD {
			res = append(res, fd)
		}
	}
	return res
}
