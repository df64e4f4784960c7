package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGame(t *testing.T) (*State, Pubkey, Pubkey) {
	t.Helper()
	one, two := keyOf(1), keyOf(2)
	s := &State{}
	require.NoError(t, s.Apply(GameReset{PlayerOne: one, PlayerTwo: two}, one))
	return s, one, two
}

func play(t *testing.T, s *State, one, two Pubkey, moves ...[2]uint8) {
	t.Helper()
	for i, m := range moves {
		player := one
		if i%2 == 1 {
			player = two
		}
		require.NoError(t, s.Apply(MakeTurn{Row: m[0], Col: m[1]}, player), "move %d", i)
		s.CheckGameEnd()
	}
}

func TestReset(t *testing.T) {
	s, one, two := newGame(t)
	assert.Equal(t, StatusPlayerOneTurn, s.Status)
	assert.Equal(t, one, s.PlayerOne)
	assert.Equal(t, two, s.PlayerTwo)

	err := s.Apply(GameReset{PlayerOne: two, PlayerTwo: one}, one)
	assert.ErrorIs(t, err, ErrGameInProgress)
	assert.Equal(t, one, s.PlayerOne)
}

func TestMakeTurn_Alternates(t *testing.T) {
	s, one, two := newGame(t)

	require.NoError(t, s.Apply(MakeTurn{Row: 1, Col: 1}, one))
	assert.Equal(t, CellTic, s.Cell(1, 1))
	assert.Equal(t, StatusPlayerTwoTurn, s.Status)

	require.NoError(t, s.Apply(MakeTurn{Row: 0, Col: 2}, two))
	assert.Equal(t, CellTac, s.Cell(0, 2))
	assert.Equal(t, StatusPlayerOneTurn, s.Status)
}

func TestMakeTurn_Errors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(s *State)
		turn    MakeTurn
		player  func(one, two Pubkey) Pubkey
		wantErr error
	}{
		{
			name:    "wrong player",
			turn:    MakeTurn{Row: 0, Col: 0},
			player:  func(_, two Pubkey) Pubkey { return two },
			wantErr: ErrNotAPlayer,
		},
		{
			name:    "occupied",
			prepare: func(s *State) { s.PlayField[4] = CellTac },
			turn:    MakeTurn{Row: 1, Col: 1},
			player:  func(one, _ Pubkey) Pubkey { return one },
			wantErr: ErrCellOccupied,
		},
		{
			name:    "row out of range",
			turn:    MakeTurn{Row: 3, Col: 0},
			player:  func(one, _ Pubkey) Pubkey { return one },
			wantErr: ErrCellOutOfRange,
		},
		{
			name:    "col out of range",
			turn:    MakeTurn{Row: 0, Col: 3},
			player:  func(one, _ Pubkey) Pubkey { return one },
			wantErr: ErrCellOutOfRange,
		},
		{
			name:    "game ended",
			prepare: func(s *State) { s.Status = StatusGameEnd },
			turn:    MakeTurn{Row: 0, Col: 0},
			player:  func(one, _ Pubkey) Pubkey { return one },
			wantErr: ErrNotInitialized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, one, two := newGame(t)
			if tt.prepare != nil {
				tt.prepare(s)
			}
			before := *s
			err := s.Apply(tt.turn, tt.player(one, two))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, *s)
		})
	}
}

func TestMakeTurn_Uninitialized(t *testing.T) {
	s := &State{}
	err := s.Apply(MakeTurn{}, Pubkey{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestCheckGameEnd_Win(t *testing.T) {
	s, one, two := newGame(t)
	play(t, s, one, two, [2]uint8{0, 0}, [2]uint8{1, 0}, [2]uint8{1, 1}, [2]uint8{2, 0}, [2]uint8{2, 2})
	assert.Equal(t, StatusGameEnd, s.Status)
	assert.Equal(t, CellTic, s.Winner())

	err := s.Apply(MakeTurn{Row: 0, Col: 1}, two)
	assert.ErrorIs(t, err, ErrNotInitialized)

	// A finished game may be reset.
	require.NoError(t, s.Apply(GameReset{PlayerOne: two, PlayerTwo: one}, two))
	assert.Equal(t, StatusPlayerOneTurn, s.Status)
	assert.Equal(t, [BoardCells]Cell{}, s.PlayField)
}

func TestCheckGameEnd_Draw(t *testing.T) {
	s, one, two := newGame(t)
	play(t, s, one, two,
		[2]uint8{0, 0}, [2]uint8{0, 1}, [2]uint8{0, 2},
		[2]uint8{1, 1}, [2]uint8{1, 0}, [2]uint8{1, 2},
		[2]uint8{2, 1}, [2]uint8{2, 0}, [2]uint8{2, 2},
	)
	assert.Equal(t, CellEmpty, s.Winner())
	assert.True(t, s.Full())
	assert.Equal(t, StatusGameEnd, s.Status)

	// A drawn game is not stuck: it can be reset like a won one.
	require.NoError(t, s.Apply(GameReset{PlayerOne: one, PlayerTwo: two}, one))
	assert.Equal(t, StatusPlayerOneTurn, s.Status)
}

func TestCheckGameEnd_Uninitialized(t *testing.T) {
	s := &State{}
	s.CheckGameEnd()
	assert.Equal(t, StatusUninitialized, s.Status)
}

func TestBoard(t *testing.T) {
	s, one, two := newGame(t)
	play(t, s, one, two, [2]uint8{0, 0}, [2]uint8{1, 1}, [2]uint8{2, 2})
	assert.Equal(t, "X..\n.0.\n..X\n", s.Board())
	assert.Equal(t, "...\n...\n...\n", (&State{}).Board())
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "tac", CellTac.String())
	assert.Equal(t, "Cell(5)", Cell(5).String())
	assert.Equal(t, "playerTwoTurn", StatusPlayerTwoTurn.String())
	assert.Equal(t, "makeTurn", InstructionName(MakeTurn{}))
	assert.Equal(t, "gameReset", InstructionName(GameReset{}))
}
