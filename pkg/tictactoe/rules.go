package tictactoe

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGameInProgress   = errors.New("tictactoe: can't reset an in-progress game")
	ErrNotAPlayer       = errors.New("tictactoe: not a player of this game")
	ErrCellOccupied     = errors.New("tictactoe: cell is not empty")
	ErrNotInitialized   = errors.New("tictactoe: game is not initialized")
	ErrCellOutOfRange   = errors.New("tictactoe: cell out of range")
	ErrUnsupportedInstr = errors.New("tictactoe: unsupported instruction")
)

var winConditions = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Apply executes ins on behalf of player. On error s is left unchanged.
func (s *State) Apply(ins Instruction, player Pubkey) error {
	switch in := ins.(type) {
	case GameReset:
		return s.reset(in)
	case *GameReset:
		return s.reset(*in)
	case MakeTurn:
		return s.turn(in, player)
	case *MakeTurn:
		return s.turn(*in, player)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedInstr, ins)
	}
}

func (s *State) reset(in GameReset) error {
	if s.Status != StatusUninitialized && s.Status != StatusGameEnd {
		return ErrGameInProgress
	}
	s.PlayerOne = in.PlayerOne
	s.PlayerTwo = in.PlayerTwo
	s.PlayField = [BoardCells]Cell{}
	s.Status = StatusPlayerOneTurn
	return nil
}

func (s *State) turn(in MakeTurn, player Pubkey) error {
	if s.Status != StatusPlayerOneTurn && s.Status != StatusPlayerTwoTurn {
		return ErrNotInitialized
	}
	if in.Row >= 3 || in.Col >= 3 {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOutOfRange, in.Row, in.Col)
	}
	idx := int(in.Row)*3 + int(in.Col)
	if s.PlayField[idx] != CellEmpty {
		return fmt.Errorf("%w: (%d, %d)", ErrCellOccupied, in.Row, in.Col)
	}
	if s.Status == StatusPlayerOneTurn {
		if player != s.PlayerOne {
			return ErrNotAPlayer
		}
		s.PlayField[idx] = CellTic
		s.Status = StatusPlayerTwoTurn
		return nil
	}
	if player != s.PlayerTwo {
		return ErrNotAPlayer
	}
	s.PlayField[idx] = CellTac
	s.Status = StatusPlayerOneTurn
	return nil
}

// Winner returns the mark holding a complete line, or CellEmpty.
func (s *State) Winner() Cell {
	for _, line := range winConditions {
		x, y, z := s.PlayField[line[0]], s.PlayField[line[1]], s.PlayField[line[2]]
		if x != CellEmpty && x == y && y == z {
			return x
		}
	}
	return CellEmpty
}

// Full reports whether every cell holds a mark.
func (s *State) Full() bool {
	for _, c := range s.PlayField {
		if c == CellEmpty {
			return false
		}
	}
	return true
}

// CheckGameEnd moves the game to StatusGameEnd when a line is complete or
// no empty cell remains.
func (s *State) CheckGameEnd() {
	if s.Status == StatusUninitialized {
		return
	}
	if s.Winner() != CellEmpty || s.Full() {
		s.Status = StatusGameEnd
	}
}

// Board renders the play field as three lines of X, 0 and '.'.
func (s *State) Board() string {
	var sb strings.Builder
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sb.WriteByte(s.Cell(row, col).Mark())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
