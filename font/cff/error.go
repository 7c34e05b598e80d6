package cff

import (
	"fmt"

	"seehuhn.de/go/sfnt/parser"
)

func notSupported(feature string) error {
	return &parser.NotSupportedError{
		SubSystem: "cff",
		Feature:   feature,
	}
}

func invalidSince(reason string) error {
	return &parser.InvalidFontError{
		SubSystem: "cff",
		Reason:    reason,
	}
}

// readError adds the table name and the read position to errors from the
// underlying reader.  Font format errors are returned unchanged.
func readError(p *parser.Parser, err error) error {
	switch err.(type) {
	case nil, *parser.InvalidFontError, *parser.NotSupportedError:
		return err
	}
	return fmt.Errorf("FDSelect%+d: %w", p.Pos(), err)
}

// readUint reads an unsigned big-endian integer which is width bytes long.
// Valid widths are 1, 2 and 4.
func readUint(p *parser.Parser, width int) (uint32, error) {
	switch width {
	case 1:
		val, err := p.ReadUint8()
		return uint32(val), err
	case 2:
		val, err := p.ReadUint16()
		return uint32(val), err
	case 4:
		return p.ReadUint32()
	default:
		panic(fmt.Sprintf("invalid field width %d", width))
	}
}
