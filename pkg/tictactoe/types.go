package tictactoe

import "fmt"

// Cell is the content of one square of the play field.
type Cell uint8

const (
	CellEmpty Cell = iota
	CellTic
	CellTac
)

var cellNames = [...]string{cellEmpty, cellTic, cellTac}

func (c Cell) String() string {
	if int(c) < len(cellNames) {
		return cellNames[c]
	}
	return fmt.Sprintf("Cell(%d)", uint8(c))
}

// Mark is the board glyph for the cell: X for tic, 0 for tac, '.' when empty.
func (c Cell) Mark() byte {
	switch c {
	case CellTic:
		return 'X'
	case CellTac:
		return '0'
	default:
		return '.'
	}
}

func (c Cell) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Status is the lifecycle phase of a game.
type Status uint8

const (
	StatusUninitialized Status = iota
	StatusPlayerOneTurn
	StatusPlayerTwoTurn
	StatusGameEnd
)

var statusNames = [...]string{statusUninitialized, statusPlayerOneTurn, statusPlayerTwoTurn, statusGameEnd}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Instruction is a command sent to the game program. It is either a
// GameReset or a MakeTurn.
type Instruction interface {
	instructionName() string
}

// GameReset starts a new game between two players.
type GameReset struct {
	PlayerOne Pubkey `json:"playerOne" yaml:"playerOne"`
	PlayerTwo Pubkey `json:"playerTwo" yaml:"playerTwo"`
}

func (GameReset) instructionName() string { return instrGameReset }

// MakeTurn places the current player's mark at (Row, Col).
type MakeTurn struct {
	Row uint8 `json:"row" yaml:"row"`
	Col uint8 `json:"col" yaml:"col"`
}

func (MakeTurn) instructionName() string { return instrMakeTurn }

// InstructionName returns the wire variant name of ins.
func InstructionName(ins Instruction) string {
	return ins.instructionName()
}

// State is the persisted game account content. The zero value is an empty,
// uninitialized game.
type State struct {
	PlayField [BoardCells]Cell `json:"playField" yaml:"playField"`
	Status    Status           `json:"status" yaml:"status"`
	PlayerOne Pubkey           `json:"playerOne" yaml:"playerOne"`
	PlayerTwo Pubkey           `json:"playerTwo" yaml:"playerTwo"`
}

// Cell returns the content of the square at (row, col).
func (s *State) Cell(row, col int) Cell {
	return s.PlayField[row*3+col]
}
