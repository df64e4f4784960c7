// Package tictactoe describes the wire layout of the tic-tac-toe program:
// its instructions and the persisted game state, together with typed Go
// values for them and the game rules the program enforces.
//
// The wire layout matches the deployed on-chain program byte for byte. The
// rules are those of the in-process simulator and differ in two places: a
// full board with no winner ends the game so it can be reset, and turns
// outside the 3x3 grid are rejected. Replaying a drawn game against the
// on-chain program leaves its state in a turn status instead of gameEnd.
package tictactoe

import (
	"github.com/tictactoe-labs/tictactoe/pkg/borsh"
)

// Registered type identifiers.
const (
	TypePubkey      = "Pubkey"
	TypeGameCell    = "GameCell"
	TypeGameStatus  = "GameStatus"
	TypeInstruction = "GameInstruction"
	TypeGameState   = "GameState"
)

// Variant and field names, in declaration order where order matters.
const (
	cellEmpty = "empty"
	cellTic   = "tic"
	cellTac   = "tac"

	statusUninitialized = "uninitialized"
	statusPlayerOneTurn = "playerOneTurn"
	statusPlayerTwoTurn = "playerTwoTurn"
	statusGameEnd       = "gameEnd"

	instrGameReset = "gameReset"
	instrMakeTurn  = "makeTurn"

	fieldPlayerOne = "playerOne"
	fieldPlayerTwo = "playerTwo"
	fieldRow       = "row"
	fieldCol       = "col"
	fieldPlayField = "playField"
	fieldStatus    = "status"
)

// BoardCells is the number of cells on the play field.
const BoardCells = 9

var schema = newSchema()

func newSchema() *borsh.Registry {
	unit := borsh.RecordOf()
	b := borsh.NewBuilder()
	for _, t := range []struct {
		id   string
		desc borsh.Descriptor
	}{
		{TypePubkey, borsh.FixedBytes(PubkeySize)},
		{TypeGameCell, borsh.UnionOf(
			borsh.F(cellEmpty, unit),
			borsh.F(cellTic, unit),
			borsh.F(cellTac, unit),
		)},
		{TypeGameStatus, borsh.UnionOf(
			borsh.F(statusUninitialized, unit),
			borsh.F(statusPlayerOneTurn, unit),
			borsh.F(statusPlayerTwoTurn, unit),
			borsh.F(statusGameEnd, unit),
		)},
		{TypeInstruction, borsh.UnionOf(
			borsh.F(instrGameReset, borsh.RecordOf(
				borsh.F(fieldPlayerOne, borsh.Ref(TypePubkey)),
				borsh.F(fieldPlayerTwo, borsh.Ref(TypePubkey)),
			)),
			borsh.F(instrMakeTurn, borsh.RecordOf(
				borsh.F(fieldRow, borsh.U8()),
				borsh.F(fieldCol, borsh.U8()),
			)),
		)},
		{TypeGameState, borsh.RecordOf(
			borsh.F(fieldPlayField, borsh.FixedArray(borsh.Ref(TypeGameCell), BoardCells)),
			borsh.F(fieldStatus, borsh.Ref(TypeGameStatus)),
			borsh.F(fieldPlayerOne, borsh.Ref(TypePubkey)),
			borsh.F(fieldPlayerTwo, borsh.Ref(TypePubkey)),
		)},
	} {
		if err := b.Register(t.id, t.desc); err != nil {
			panic(err)
		}
	}
	return b.MustBuild()
}

// Schema returns the frozen registry describing the program's types.
func Schema() *borsh.Registry {
	return schema
}
