// Package textspan converts between protocol positions and flat offsets in
// a text buffer, and remaps positions across full-text replacements.
// Columns count runes, matching the wire protocol's line/column pairs.
package textspan

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// Mapper converts between positions and byte offsets for one fixed text.
type Mapper struct {
	content   string
	lineStart []int
}

// NewMapper builds a Mapper over the given text.
func NewMapper(content string) *Mapper {
	lineStart := make([]int, 1, strings.Count(content, "\n")+1)
	for offset, b := range []byte(content) {
		if b == '\n' {
			lineStart = append(lineStart, offset+1)
		}
	}
	return &Mapper{content: content, lineStart: lineStart}
}

// Len returns the text length in bytes.
func (m *Mapper) Len() int {
	return len(m.content)
}

// End returns the position just past the last character.
func (m *Mapper) End() protocol.Position {
	pos, _ := m.Position(len(m.content))
	return pos
}

// Offset converts a position to a byte offset. The position must lie within
// the text.
func (m *Mapper) Offset(p protocol.Position) (int, error) {
	if p.Line > uint32(len(m.lineStart)) {
		return 0, fmt.Errorf("line number %d out of range 0-%d", p.Line, len(m.lineStart))
	}
	if p.Line == uint32(len(m.lineStart)) {
		if p.Character == 0 {
			return len(m.content), nil
		}
		return 0, fmt.Errorf("column is beyond end of file")
	}

	offset := m.lineStart[p.Line]
	rest := m.content[offset:]
	for col := uint32(0); col < p.Character; col++ {
		r, sz := utf8.DecodeRuneInString(rest)
		if sz == 0 {
			return 0, fmt.Errorf("column is beyond end of file")
		}
		if r == '\n' {
			return 0, fmt.Errorf("column is beyond end of line")
		}
		rest = rest[sz:]
		offset += sz
	}
	return offset, nil
}

// RuneOffset converts a position to a rune offset, the unit the suggestion
// backend counts cursor positions in.
func (m *Mapper) RuneOffset(p protocol.Position) (int, error) {
	byteOffset, err := m.Offset(p)
	if err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(m.content[:byteOffset]), nil
}

// Position converts a byte offset to a position.
func (m *Mapper) Position(offset int) (protocol.Position, error) {
	if offset < 0 || offset > len(m.content) {
		return protocol.Position{}, fmt.Errorf("invalid offset %d (want 0-%d)", offset, len(m.content))
	}
	// Binary search returns a 1-based line index.
	line := sort.Search(len(m.lineStart), func(i int) bool {
		return offset < m.lineStart[i]
	})
	line--
	start := m.lineStart[line]
	column := utf8.RuneCountInString(m.content[start:offset])
	return protocol.Position{Line: uint32(line), Character: uint32(column)}, nil
}

// Clamp returns the nearest valid position for p. Lines past the end clamp
// to the final line; columns past a line's end clamp to the line's end.
func (m *Mapper) Clamp(p protocol.Position) protocol.Position {
	if int(p.Line) >= len(m.lineStart) {
		return m.End()
	}
	start := m.lineStart[p.Line]
	end := len(m.content)
	if int(p.Line)+1 < len(m.lineStart) {
		end = m.lineStart[p.Line+1] - 1
	}
	lineLen := utf8.RuneCountInString(m.content[start:end])
	if int(p.Character) > lineLen {
		return protocol.Position{Line: p.Line, Character: uint32(lineLen)}
	}
	return p
}
