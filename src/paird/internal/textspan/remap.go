package textspan

import (
	"github.com/sergi/go-diff/diffmatchpatch"
	"go.lsp.dev/protocol"
)

// Remap returns the position in newText equivalent to pos in oldText, so a
// caret survives a full-text replacement at its logical location. Positions
// inside deleted regions collapse to the deletion point; positions that
// cannot be resolved clamp to the nearest valid location.
func Remap(oldText, newText string, pos protocol.Position) protocol.Position {
	if oldText == newText {
		return pos
	}

	src := NewMapper(oldText)
	dst := NewMapper(newText)

	offset, err := src.Offset(src.Clamp(pos))
	if err != nil {
		return dst.End()
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(oldText, newText, false)
	shifted, _ := shiftOffset(diffs, offset)

	result, err := dst.Position(shifted)
	if err != nil {
		return dst.End()
	}
	return result
}

// shiftOffset returns the offset in the diff target equivalent to loc in the
// diff source, and whether loc fell in a deleted region. Same walk as the
// library's DiffXIndex, with the deletion made visible to callers.
func shiftOffset(diffs []diffmatchpatch.Diff, loc int) (int, bool) {
	chars1 := 0
	chars2 := 0
	lastChars1 := 0
	lastChars2 := 0
	lastDiff := diffmatchpatch.Diff{}
	for _, aDiff := range diffs {
		if aDiff.Type != diffmatchpatch.DiffInsert {
			chars1 += len(aDiff.Text)
		}
		if aDiff.Type != diffmatchpatch.DiffDelete {
			chars2 += len(aDiff.Text)
		}
		if chars1 > loc {
			lastDiff = aDiff
			break
		}
		lastChars1 = chars1
		lastChars2 = chars2
	}
	if lastDiff.Type == diffmatchpatch.DiffDelete {
		return lastChars2, true
	}
	return lastChars2 + (loc - lastChars1), false
}
