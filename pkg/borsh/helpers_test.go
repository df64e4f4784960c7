package borsh

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// testRegistry mirrors the layout of a small board game: a 9-cell board, a
// turn marker and two 32-byte player keys.
func testRegistry(t testing.TB) *Registry {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.Register("Key", FixedBytes(32)))
	require.NoError(t, b.Register("Cell", UnionOf(
		F("empty", RecordOf()),
		F("x", RecordOf()),
		F("o", RecordOf()),
	)))
	require.NoError(t, b.Register("Turn", UnionOf(
		F("none", RecordOf()),
		F("first", RecordOf()),
		F("second", RecordOf()),
		F("over", RecordOf()),
	)))
	require.NoError(t, b.Register("Command", UnionOf(
		F("reset", RecordOf(F("a", Ref("Key")), F("b", Ref("Key")))),
		F("move", RecordOf(F("row", U8()), F("col", U8()))),
	)))
	require.NoError(t, b.Register("Board", RecordOf(
		F("cells", FixedArray(Ref("Cell"), 9)),
		F("turn", Ref("Turn")),
		F("a", Ref("Key")),
		F("b", Ref("Key")),
	)))
	reg, err := b.Build()
	require.NoError(t, err)
	return reg
}

// boardSize is the encoded length of a Board: 9 cells, the turn tag and two keys.
const boardSize = 9 + 1 + 32 + 32

func key(fill byte) []byte {
	return bytes.Repeat([]byte{fill}, 32)
}

func emptyCells() []any {
	cells := make([]any, 9)
	for i := range cells {
		cells[i] = map[string]any{"empty": nil}
	}
	return cells
}
