package model

import "encoding/binary"

// Position is a single point in a text file. All three coordinates are
// 0-based; row and column refer to the text grid, byte to the UTF-8 offset.
type Position struct {
	Byte   int
	Row    int
	Column int
}

// NewPosition builds a Position.
func NewPosition(byteOffset, row, column int) Position {
	return Position{Byte: byteOffset, Row: row, Column: column}
}

// Less orders positions by byte offset.
func (p Position) Less(o Position) bool { return p.Byte < o.Byte }

func (p Position) bytes() []byte {
	var b [24]byte
	binary.BigEndian.PutUint64(b[0:8], uint64(p.Byte))
	binary.BigEndian.PutUint64(b[8:16], uint64(p.Row))
	binary.BigEndian.PutUint64(b[16:24], uint64(p.Column))
	return b[:]
}

// Span is a half-open-ish range between two Positions. Spans are ordered by
// start ascending, then end descending, so that an enclosing span is
// considered "less than" (and therefore sorts before) a span it encloses.
type Span struct {
	Start Position
	End   Position
}

// NewSpan builds a Span.
func NewSpan(start, end Position) Span {
	return Span{Start: start, End: end}
}

// Less implements the enclosing-sorts-first ordering described in the design
// spec: start ascending, then end descending.
func (s Span) Less(o Span) bool {
	if s.Start.Byte != o.Start.Byte {
		return s.Start.Byte < o.Start.Byte
	}
	return s.End.Byte > o.End.Byte
}

// ContainsByte reports whether the span covers the given byte offset, treating
// the span as inclusive on both ends (matching the sparse interval index's
// insertion semantics).
func (s Span) ContainsByte(b int) bool { return b >= s.Start.Byte && b <= s.End.Byte }

func (s Span) bytes() []byte {
	out := make([]byte, 0, 48)
	out = append(out, s.Start.bytes()...)
	out = append(out, s.End.bytes()...)
	return out
}

// PartialPositionKind distinguishes the two PartialPosition variants.
type PartialPositionKind int

const (
	// PartialPositionRow means only a line number is known (diff hunks know
	// line numbers, not byte offsets).
	PartialPositionRow PartialPositionKind = iota
	// PartialPositionWhole means a full Position (byte, row, column) is known.
	PartialPositionWhole
)

// PartialPosition is either a bare row (as produced by a diff hunk, which
// only knows line numbers) or a Whole Position.
type PartialPosition struct {
	Kind  PartialPositionKind
	Row   int
	Whole Position
}

// PartialPositionFromRow builds a Row-variant PartialPosition.
func PartialPositionFromRow(row int) PartialPosition {
	return PartialPosition{Kind: PartialPositionRow, Row: row}
}

// PartialPositionFromWhole builds a Whole-variant PartialPosition.
func PartialPositionFromWhole(p Position) PartialPosition {
	return PartialPosition{Kind: PartialPositionWhole, Whole: p}
}

// PartialSpanKind distinguishes the two PartialSpan variants.
type PartialSpanKind int

const (
	// PartialSpanRow is a pair of row numbers, as found in a diff hunk.
	PartialSpanRow PartialSpanKind = iota
	// PartialSpanWhole is a full Span.
	PartialSpanWhole
)

// PartialSpan is either a pair of row numbers (a diff hunk side) or a Whole Span.
type PartialSpan struct {
	Kind       PartialSpanKind
	StartRow   int
	EndRow     int
	WholeSpan  Span
}

// PartialSpanFromRows builds a Row-variant PartialSpan over the half-open row
// interval [startRow, endRow).
func PartialSpanFromRows(startRow, endRow int) PartialSpan {
	return PartialSpan{Kind: PartialSpanRow, StartRow: startRow, EndRow: endRow}
}

// PartialSpanFromWhole builds a Whole-variant PartialSpan.
func PartialSpanFromWhole(s Span) PartialSpan {
	return PartialSpan{Kind: PartialSpanWhole, WholeSpan: s}
}
