package borsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticSize(t *testing.T) {
	reg := testRegistry(t)
	tests := []struct {
		desc Descriptor
		want int
	}{
		{U8(), 1},
		{I64(), 8},
		{Ref("Key"), 32},
		{Ref("Cell"), 1},
		{Ref("Board"), boardSize},
		{FixedArray(U32(), 0), 0},
		{RecordOf(), 0},
		// The default variant of Command is reset.
		{Ref("Command"), 65},
	}
	for _, tt := range tests {
		t.Run(tt.desc.String(), func(t *testing.T) {
			got, err := reg.StaticSize(tt.desc)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := reg.StaticSize(Ref("Nope"))
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestMaxSize(t *testing.T) {
	reg := testRegistry(t)
	shortFirst := UnionOf(F("small", U8()), F("big", FixedBytes(10)))

	n, err := reg.MaxSize(shortFirst)
	require.NoError(t, err)
	assert.Equal(t, 11, n)

	n, err = reg.StaticSize(shortFirst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reg.MaxSize(Ref("Board"))
	require.NoError(t, err)
	assert.Equal(t, boardSize, n)
}

func TestZero(t *testing.T) {
	reg := testRegistry(t)
	z, err := reg.Zero(Ref("Board"))
	require.NoError(t, err)

	rec := z.(*Record)
	cells, err := Get[[]any](rec, "cells")
	require.NoError(t, err)
	require.Len(t, cells, 9)
	for _, c := range cells {
		assert.Equal(t, "empty", c.(*Variant).Tag())
	}
	turn, err := Get[*Variant](rec, "turn")
	require.NoError(t, err)
	assert.Equal(t, "none", turn.Tag())
	a, err := Get[[]byte](rec, "a")
	require.NoError(t, err)
	assert.Equal(t, make([]byte, 32), a)
}

func BenchmarkEncodeBoard(b *testing.B) {
	reg := testRegistry(b)
	board, err := reg.Zero(Ref("Board"))
	require.NoError(b, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reg.Encode(board, Ref("Board")); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkDecodeBoard(b *testing.B) {
	reg := testRegistry(b)
	buf := make([]byte, boardSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, _, err := reg.DecodeType("Board", buf); err != nil {
			b.Fatal(err)
		}
	}
}

func TestMinSize(t *testing.T) {
	reg := testRegistry(t)
	shortFirst := UnionOf(F("small", U8()), F("big", FixedBytes(10)))

	n, err := reg.MinSize(shortFirst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = reg.MinSize(Ref("Command"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = reg.MinSize(Ref("Board"))
	require.NoError(t, err)
	assert.Equal(t, boardSize, n)

	_, err = reg.MaxSize(FixedArray(FixedBytes(1<<40), 1<<40))
	assert.ErrorIs(t, err, ErrInvalidDescriptor)
}
