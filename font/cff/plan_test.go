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
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
	"seehuhn.de/go/sfnt/glyph"
	"seehuhn.de/go/sfnt/parser"

	"github.com/bdenckla/harfbuzz/font/serialize"
)

// fdList returns an FDSelect which maps glyph i to fds[i].
func fdList(format int, fds ...int) *FDSelect {
	return &FDSelect{
		Fn:     func(gid glyph.ID) int { return fds[gid] },
		Format: format,
	}
}

func identityGlyphs(n int) []glyph.ID {
	res := make([]glyph.ID, n)
	for i := range res {
		res[i] = glyph.ID(i)
	}
	return res
}

func TestPlanExample(t *testing.T) {
	src := fdList(3, 2, 2, 5, 5)
	glyphs := identityGlyphs(4)

	plan, err := PlanSubset(glyphs, 10, src)
	if err != nil {
		t.Fatal(err)
	}

	want := &Plan{
		FDCount: 2,
		Format:  0,
		Size:    1 + 4,
		FDMap:   FDMap{-1, -1, 0, -1, -1, 1, -1, -1, -1, -1},
	}
	if d := cmp.Diff(want, plan, cmp.AllowUnexported(Plan{})); d != "" {
		t.Errorf("wrong plan (-want +got):\n%s", d)
	}

	buf := serialize.NewBuffer(plan.Size)
	err = plan.Serialize(buf, glyphs, src)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{0, 0, 0, 1, 1}, buf.Bytes()); d != "" {
		t.Errorf("wrong FDSelect data (-want +got):\n%s", d)
	}
}

func TestPlanUnchanged(t *testing.T) {
	plan, err := PlanSubset([]glyph.ID{0}, 1, fdList(0, 3))
	if err != nil {
		t.Fatal(err)
	}
	if !plan.Unchanged() {
		t.Fatal("expected unchanged plan")
	}
	if plan.FDCount != 1 || plan.FDMap != nil || plan.FirstGlyphs != nil {
		t.Errorf("unexpected plan data %#v", plan)
	}

	defer func() {
		if recover() == nil {
			t.Error("serializing an unchanged plan did not panic")
		}
	}()
	plan.Serialize(&serialize.Grow{}, []glyph.ID{0}, fdList(0, 3))
}

func TestPlanEmpty(t *testing.T) {
	plan, err := PlanSubset(nil, 5, fdList(0))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(&Plan{}, plan, cmp.AllowUnexported(Plan{})); d != "" {
		t.Errorf("wrong plan (-want +got):\n%s", d)
	}

	buf := serialize.NewBuffer(0)
	err = plan.Serialize(buf, nil, fdList(0))
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("%d bytes written for empty subset", buf.Len())
	}
}

func TestPlanRanges(t *testing.T) {
	// original glyph 2*i uses font DICT i/10
	fds := make([]int, 200)
	for i := range fds {
		fds[i] = i / 20
	}
	src := fdList(3, fds...)

	var glyphs []glyph.ID
	for gid := 0; gid < 200; gid += 2 {
		glyphs = append(glyphs, glyph.ID(gid))
	}
	// drop font DICT 7
	glyphs = append(glyphs[:70], glyphs[80:]...)

	plan, err := PlanSubset(glyphs, 10, src)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Format != 3 {
		t.Fatalf("expected format 3, got %d", plan.Format)
	}
	wantFirst := []int{0, 10, 20, 30, 40, 50, 60, 70, 80}
	if d := cmp.Diff(wantFirst, plan.FirstGlyphs); d != "" {
		t.Errorf("wrong ranges (-want +got):\n%s", d)
	}
	if plan.Size != 5+3*9 {
		t.Errorf("wrong size %d", plan.Size)
	}

	buf := serialize.NewBuffer(plan.Size)
	err = plan.Serialize(buf, glyphs, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{3, 0, 9,
		0, 0, 0,
		0, 10, 1,
		0, 20, 2,
		0, 30, 3,
		0, 40, 4,
		0, 50, 5,
		0, 60, 6,
		0, 70, 7, // original font DICT 8
		0, 80, 8, // original font DICT 9
		0, 90}
	if d := cmp.Diff(want, buf.Bytes()); d != "" {
		t.Errorf("wrong FDSelect data (-want +got):\n%s", d)
	}
}

func TestPlanTieBreak(t *testing.T) {
	cases := []struct {
		nGlyphs    int
		wantFormat int
	}{
		{9, 0},  // 10 bytes vs. 11 bytes
		{10, 0}, // 11 bytes either way
		{11, 3}, // 12 bytes vs. 11 bytes
	}
	for _, c := range cases {
		fds := make([]int, c.nGlyphs)
		for i := range fds {
			if i >= c.nGlyphs/2 {
				fds[i] = 2
			}
		}
		plan, err := PlanSubset(identityGlyphs(c.nGlyphs), 3, fdList(3, fds...))
		if err != nil {
			t.Fatal(err)
		}
		if plan.Format != c.wantFormat {
			t.Errorf("%d glyphs: expected format %d, got %d",
				c.nGlyphs, c.wantFormat, plan.Format)
		}
		if c.wantFormat == 0 && plan.FirstGlyphs != nil {
			t.Errorf("%d glyphs: range list kept for format 0", c.nGlyphs)
		}
	}
}

func TestPlanWide(t *testing.T) {
	const n = 300
	src := &FDSelect{
		Fn:     func(gid glyph.ID) int { return int(gid) },
		Format: 4,
	}
	glyphs := identityGlyphs(n)

	plan, err := PlanSubset(glyphs, 400, src)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Format != 4 {
		t.Fatalf("expected format 4, got %d", plan.Format)
	}
	if plan.Size != 9+6*n {
		t.Errorf("wrong size %d", plan.Size)
	}

	buf := serialize.NewBuffer(plan.Size)
	err = plan.Serialize(buf, glyphs, src)
	if err != nil {
		t.Fatal(err)
	}
	if buf.Len() != plan.Size {
		t.Fatalf("%d bytes written, %d planned", buf.Len(), plan.Size)
	}
	if d := cmp.Diff([]byte{4, 0, 0, 1, 0x2C}, buf.Bytes()[:5]); d != "" {
		t.Errorf("wrong header (-want +got):\n%s", d)
	}

	decoded, err := DecodeFDSelect(buf.Bytes(), n, plan.FDCount)
	if err != nil {
		t.Fatal(err)
	}
	for gid := glyph.ID(0); gid < n; gid++ {
		if got := decoded.Fn(gid); got != int(gid) {
			t.Errorf("glyph %d: expected font DICT %d, got %d", gid, gid, got)
		}
	}
}

func TestPlanWideNotSupported(t *testing.T) {
	src := &FDSelect{
		Fn:     func(gid glyph.ID) int { return int(gid) },
		Format: 3,
	}
	defer func() {
		if recover() == nil {
			t.Error("format 4 for narrow source did not panic")
		}
	}()
	PlanSubset(identityGlyphs(256), 300, src)
}

func TestPlanInvalidFD(t *testing.T) {
	cases := []struct {
		name    string
		fds     []int
		fdCount int
	}{
		{"negative", []int{0, -1}, 2},
		{"too large", []int{0, 5}, 3},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := PlanSubset(identityGlyphs(len(c.fds)), c.fdCount, fdList(3, c.fds...))
			var invalid *parser.InvalidFontError
			if !errors.As(err, &invalid) {
				t.Errorf("expected InvalidFontError, got %v", err)
			}
		})
	}
}

// TestPlanTooManyGlyphs checks that subsets longer than 65535 glyphs are
// never written in format 3, where the glyph indices would overflow.
func TestPlanTooManyGlyphs(t *testing.T) {
	const nGlyphs = 70000
	glyphs := make([]glyph.ID, nGlyphs)
	for i := nGlyphs / 2; i < nGlyphs; i++ {
		glyphs[i] = 1
	}

	_, err := PlanSubset(glyphs, 3, fdList(3, 0, 1))
	var invalid *parser.InvalidFontError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFontError, got %v", err)
	}

	src := fdList(4, 0, 1)
	plan, err := PlanSubset(glyphs, 3, src)
	if err != nil {
		t.Fatal(err)
	}
	if plan.Format != 4 || plan.Size != 9+6*2 {
		t.Fatalf("expected format 4 with 21 bytes, got format %d with %d bytes",
			plan.Format, plan.Size)
	}
	buf := &serialize.Grow{}
	err = plan.Serialize(buf, glyphs, src)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{
		4, 0, 0, 0, 2,
		0, 0, 0, 0, 0, 0,
		0, 0, 0x88, 0xB8, 0, 1,
		0, 1, 0x11, 0x70,
	}
	if d := cmp.Diff(want, []byte(*buf)); d != "" {
		t.Errorf("unexpected table (-want +got):\n%s", d)
	}
}

func TestSerializeOutOfRoom(t *testing.T) {
	src := fdList(3, 2, 2, 5, 5)
	glyphs := identityGlyphs(4)
	plan, err := PlanSubset(glyphs, 10, src)
	if err != nil {
		t.Fatal(err)
	}

	buf := serialize.NewBuffer(plan.Size - 1)
	err = plan.Serialize(buf, glyphs, src)
	if !errors.Is(err, serialize.ErrOutOfRoom) {
		t.Errorf("expected ErrOutOfRoom, got %v", err)
	}
}

// TestPlanRandom checks the properties of random subsets.
func TestPlanRandom(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	for range 500 {
		nGlyphs := 1 + rng.IntN(400)
		fdCount := 1 + rng.IntN(20)
		runLength := 1 + rng.IntN(30)
		fds := make([]int, nGlyphs)
		fd := rng.IntN(fdCount)
		for i := range fds {
			if rng.IntN(runLength) == 0 {
				fd = rng.IntN(fdCount)
			}
			fds[i] = fd
		}
		src := fdList(3, fds...)

		var glyphs []glyph.ID
		for gid := range nGlyphs {
			if rng.IntN(3) == 0 {
				glyphs = append(glyphs, glyph.ID(gid))
			}
		}
		if len(glyphs) == 0 {
			continue
		}

		plan, err := PlanSubset(glyphs, fdCount, src)
		if err != nil {
			t.Fatal(err)
		}
		checkPlan(t, plan, glyphs, fdCount, src)
	}
}

func checkPlan(t *testing.T, plan *Plan, glyphs []glyph.ID, fdCount int, src *FDSelect) {
	t.Helper()

	distinct := make(map[int]bool)
	var wantFirst []int
	for i, gid := range glyphs {
		distinct[src.Fn(gid)] = true
		if i == 0 || src.Fn(gid) != src.Fn(glyphs[i-1]) {
			wantFirst = append(wantFirst, i)
		}
	}
	if plan.FDCount != len(distinct) {
		t.Fatalf("expected %d font DICTs, got %d", len(distinct), plan.FDCount)
	}
	if plan.FDCount == fdCount {
		if !plan.Unchanged() || plan.FDMap != nil {
			t.Fatal("identity case not detected")
		}
		return
	}

	// the remap is an order preserving bijection onto [0, FDCount)
	next := 0
	for fd := range fdCount {
		newFD, ok := plan.FDMap.Get(fd)
		if ok != distinct[fd] {
			t.Fatalf("font DICT %d: used=%t, mapped=%t", fd, distinct[fd], ok)
		}
		if ok {
			if newFD != next {
				t.Fatalf("font DICT %d: expected %d, got %d", fd, next, newFD)
			}
			next++
		}
	}

	size0 := 1 + len(glyphs)
	size3 := 5 + 3*len(wantFirst)
	if size0 <= size3 {
		if plan.Format != 0 || plan.Size != size0 || plan.FirstGlyphs != nil {
			t.Fatalf("expected format 0 with %d bytes, got format %d with %d bytes",
				size0, plan.Format, plan.Size)
		}
	} else {
		if plan.Format != 3 || plan.Size != size3 {
			t.Fatalf("expected format 3 with %d bytes, got format %d with %d bytes",
				size3, plan.Format, plan.Size)
		}
		if d := cmp.Diff(wantFirst, plan.FirstGlyphs); d != "" {
			t.Fatalf("wrong ranges (-want +got):\n%s", d)
		}
	}

	var out serialize.Grow
	err := plan.Serialize(&out, glyphs, src)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != plan.Size {
		t.Fatalf("%d bytes written, %d planned", len(out), plan.Size)
	}

	decoded, err := DecodeFDSelect(out, len(glyphs), plan.FDCount)
	if err != nil {
		t.Fatal(err)
	}
	for i, gid := range glyphs {
		want := plan.FDMap[src.Fn(gid)]
		if got := decoded.Fn(glyph.ID(i)); got != want {
			t.Fatalf("glyph %d: expected font DICT %d, got %d", i, want, got)
		}
	}
}
