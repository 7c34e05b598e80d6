// Package cff implements support for subsetting the FDSelect table of
// CID-keyed CFF and CFF2 fonts.
//
// The FDSelect table maps each glyph to one of the font DICTs in the FDArray.
// When a font is subsetted, typically only some of the font DICTs are still
// used.  [PlanSubset] determines which font DICTs remain, how they are
// renumbered, and which FDSelect format gives the smallest table.
// [Plan.Serialize] then writes the table.
package cff
