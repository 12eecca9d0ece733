package editor

import (
	"testing"

	"github.com/pairdev/paird/src/paird/entity"
	"github.com/pairdev/paird/src/paird/factory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.uber.org/goleak"
)

func TestMemoryBufferText(t *testing.T) {
	t.Run("Edit fires the text-changed handler", func(t *testing.T) {
		b := NewMemoryBuffer()
		var got []string
		b.OnTextChanged(func(text string) { got = append(got, text) })

		b.Edit("print(1)")
		assert.Equal(t, "print(1)", b.GetText())
		assert.Equal(t, []string{"print(1)"}, got)
	})

	t.Run("SetText does not fire the text-changed handler", func(t *testing.T) {
		b := NewMemoryBuffer()
		var calls int
		b.OnTextChanged(func(string) { calls++ })

		require.NoError(t, b.SetText("print(2)"))
		assert.Equal(t, "print(2)", b.GetText())
		assert.Zero(t, calls)
	})

	t.Run("Edit without a handler is safe", func(t *testing.T) {
		b := NewMemoryBuffer()
		assert.NotPanics(t, func() { b.Edit("x = 1") })
	})
}

func TestMemoryBufferCursor(t *testing.T) {
	sel := &protocol.Range{
		Start: protocol.Position{Line: 0, Character: 0},
		End:   protocol.Position{Line: 0, Character: 5},
	}

	t.Run("MoveCursor fires the cursor-changed handler", func(t *testing.T) {
		b := NewMemoryBuffer()
		var gotPos protocol.Position
		var gotSel *protocol.Range
		var calls int
		b.OnCursorChanged(func(pos protocol.Position, selection *protocol.Range) {
			gotPos, gotSel, calls = pos, selection, calls+1
		})

		b.MoveCursor(protocol.Position{Line: 2, Character: 7}, sel)
		assert.Equal(t, 1, calls)
		assert.Equal(t, protocol.Position{Line: 2, Character: 7}, gotPos)
		assert.Equal(t, sel, gotSel)
		assert.Equal(t, protocol.Position{Line: 2, Character: 7}, b.GetCursor())
	})

	t.Run("SetCursor does not fire the cursor-changed handler", func(t *testing.T) {
		b := NewMemoryBuffer()
		var calls int
		b.OnCursorChanged(func(protocol.Position, *protocol.Range) { calls++ })

		b.SetCursor(protocol.Position{Line: 1, Character: 3})
		assert.Zero(t, calls)
		assert.Equal(t, protocol.Position{Line: 1, Character: 3}, b.GetCursor())
	})
}

func TestDecorations(t *testing.T) {
	rng := protocol.Range{
		Start: protocol.Position{Line: 1, Character: 0},
		End:   protocol.Position{Line: 1, Character: 4},
	}
	style := entity.DecorationStyle{Color: "#FF6B6B"}

	t.Run("paint and release by handle", func(t *testing.T) {
		b := NewMemoryBuffer()
		h1 := b.PaintDecoration("4f2c1a9b", rng, style)
		h2 := b.PaintDecoration("4f2c1a9b", rng, entity.DecorationStyle{Color: "#FF6B6B", Highlight: true})
		require.NotEqual(t, h1, h2)
		assert.Len(t, b.DecorationsFor("4f2c1a9b"), 2)

		b.ReleaseDecorations([]entity.DecorationHandle{h1})
		assert.Len(t, b.DecorationsFor("4f2c1a9b"), 1)

		b.ReleaseDecorations([]entity.DecorationHandle{h2})
		assert.Empty(t, b.DecorationsFor("4f2c1a9b"))
	})

	t.Run("releasing unknown handles is a no-op", func(t *testing.T) {
		b := NewMemoryBuffer()
		h := b.PaintDecoration("4f2c1a9b", rng, style)
		b.ReleaseDecorations([]entity.DecorationHandle{h + 100})
		assert.Len(t, b.DecorationsFor("4f2c1a9b"), 1)
	})

	t.Run("owners do not see each other's markers", func(t *testing.T) {
		b := NewMemoryBuffer()
		b.PaintDecoration("4f2c1a9b", rng, style)
		b.PaintDecoration("9c81d3e0", factory.Range(), entity.DecorationStyle{Color: "#4ECDC4"})
		assert.Len(t, b.DecorationsFor("4f2c1a9b"), 1)
		assert.Len(t, b.DecorationsFor("9c81d3e0"), 1)
		assert.Empty(t, b.DecorationsFor("77aa02cd"))
	})

	t.Run("first registered style wins per owner", func(t *testing.T) {
		b := NewMemoryBuffer()
		b.PaintDecoration("4f2c1a9b", rng, entity.DecorationStyle{Color: "#FF6B6B"})
		b.PaintDecoration("4f2c1a9b", rng, entity.DecorationStyle{Color: "#000000"})

		for _, deco := range b.DecorationsFor("4f2c1a9b") {
			assert.Equal(t, "#FF6B6B", deco.Style.Color)
		}
	})

	t.Run("highlight styles register independently", func(t *testing.T) {
		b := NewMemoryBuffer()
		b.PaintDecoration("4f2c1a9b", rng, entity.DecorationStyle{Color: "#FF6B6B"})
		b.PaintDecoration("4f2c1a9b", rng, entity.DecorationStyle{Color: "#4ECDC4", Highlight: true})

		decos := b.DecorationsFor("4f2c1a9b")
		require.Len(t, decos, 2)
		colors := map[bool]string{}
		for _, d := range decos {
			colors[d.Style.Highlight] = d.Style.Color
		}
		assert.Equal(t, "#FF6B6B", colors[false])
		assert.Equal(t, "#4ECDC4", colors[true])
	})
}

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
