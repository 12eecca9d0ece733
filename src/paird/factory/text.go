package factory

import (
	"math/rand"

	"go.lsp.dev/protocol"
)

// Position returns a random protocol.Position.
func Position() protocol.Position {
	return protocol.Position{Line: uint32(rand.Intn(100)), Character: uint32(rand.Intn(100))}
}

// Range returns a random protocol.Range.
func Range() protocol.Range {
	start := Position()
	end := protocol.Position{Line: start.Line + uint32(rand.Intn(100)), Character: uint32(rand.Intn(100))}

	if start.Line == end.Line && start.Character > end.Character {
		end.Character = start.Character + uint32(rand.Intn(100))
	}

	return protocol.Range{
		Start: start,
		End:   end,
	}
}
