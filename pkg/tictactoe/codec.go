package tictactoe

import (
	"fmt"
	"sync"

	"github.com/tictactoe-labs/tictactoe/pkg/borsh"
)

// CellValue converts c to its registry value.
func CellValue(c Cell) (*borsh.Variant, error) {
	if int(c) >= len(cellNames) {
		return nil, borsh.Errorf(borsh.ErrInvalidVariant, "unknown cell %d", uint8(c))
	}
	return schema.VariantOf(borsh.Ref(TypeGameCell), cellNames[c], nil)
}

// StatusValue converts s to its registry value.
func StatusValue(s Status) (*borsh.Variant, error) {
	if int(s) >= len(statusNames) {
		return nil, borsh.Errorf(borsh.ErrInvalidVariant, "unknown status %d", uint8(s))
	}
	return schema.VariantOf(borsh.Ref(TypeGameStatus), statusNames[s], nil)
}

// InstructionValue converts ins to its registry value.
func InstructionValue(ins Instruction) (*borsh.Variant, error) {
	switch in := ins.(type) {
	case GameReset:
		return schema.VariantOf(borsh.Ref(TypeInstruction), instrGameReset, map[string]any{
			fieldPlayerOne: in.PlayerOne.Bytes(),
			fieldPlayerTwo: in.PlayerTwo.Bytes(),
		})
	case *GameReset:
		return InstructionValue(*in)
	case MakeTurn:
		return schema.VariantOf(borsh.Ref(TypeInstruction), instrMakeTurn, map[string]any{
			fieldRow: in.Row,
			fieldCol: in.Col,
		})
	case *MakeTurn:
		return InstructionValue(*in)
	default:
		return nil, borsh.Errorf(borsh.ErrTypeMismatch, "unsupported instruction %T", ins)
	}
}

// StateValue converts s to its registry value.
func StateValue(s *State) (*borsh.Record, error) {
	cells := make([]any, BoardCells)
	for i, c := range s.PlayField {
		v, err := CellValue(c)
		if err != nil {
			return nil, fmt.Errorf("playField[%d]: %w", i, err)
		}
		cells[i] = v
	}
	status, err := StatusValue(s.Status)
	if err != nil {
		return nil, err
	}
	return schema.NewRecord(borsh.Ref(TypeGameState), map[string]any{
		fieldPlayField: cells,
		fieldStatus:    status,
		fieldPlayerOne: s.PlayerOne.Bytes(),
		fieldPlayerTwo: s.PlayerTwo.Bytes(),
	})
}

// EncodeInstruction returns the wire form of ins.
func EncodeInstruction(ins Instruction) ([]byte, error) {
	v, err := InstructionValue(ins)
	if err != nil {
		return nil, err
	}
	return schema.EncodeType(TypeInstruction, v)
}

// EncodeState returns the wire form of s.
func EncodeState(s *State) ([]byte, error) {
	v, err := StateValue(s)
	if err != nil {
		return nil, err
	}
	return schema.EncodeType(TypeGameState, v)
}

// DecodeInstruction reads an instruction from the start of buf.
func DecodeInstruction(buf []byte) (Instruction, error) {
	raw, _, err := schema.DecodeType(TypeInstruction, buf)
	if err != nil {
		return nil, err
	}
	v := raw.(*borsh.Variant)
	payload := v.Value().(*borsh.Record)
	switch v.Tag() {
	case instrGameReset:
		one, err := pubkeyField(payload, fieldPlayerOne)
		if err != nil {
			return nil, err
		}
		two, err := pubkeyField(payload, fieldPlayerTwo)
		if err != nil {
			return nil, err
		}
		return GameReset{PlayerOne: one, PlayerTwo: two}, nil
	case instrMakeTurn:
		row, err := borsh.Get[uint8](payload, fieldRow)
		if err != nil {
			return nil, err
		}
		col, err := borsh.Get[uint8](payload, fieldCol)
		if err != nil {
			return nil, err
		}
		return MakeTurn{Row: row, Col: col}, nil
	default:
		return nil, borsh.Errorf(borsh.ErrInvalidVariant, "unexpected instruction %q", v.Tag())
	}
}

// DecodeState reads a game state from the start of buf. Account data is
// usually exactly StateSize bytes; anything after that is ignored.
func DecodeState(buf []byte) (*State, error) {
	raw, _, err := schema.DecodeType(TypeGameState, buf)
	if err != nil {
		return nil, err
	}
	return stateFromRecord(raw.(*borsh.Record))
}

func stateFromRecord(rec *borsh.Record) (*State, error) {
	var s State
	cells, err := borsh.Get[[]any](rec, fieldPlayField)
	if err != nil {
		return nil, err
	}
	for i, c := range cells {
		s.PlayField[i] = Cell(c.(*borsh.Variant).Index())
	}
	status, err := borsh.Get[*borsh.Variant](rec, fieldStatus)
	if err != nil {
		return nil, err
	}
	s.Status = Status(status.Index())
	if s.PlayerOne, err = pubkeyField(rec, fieldPlayerOne); err != nil {
		return nil, err
	}
	if s.PlayerTwo, err = pubkeyField(rec, fieldPlayerTwo); err != nil {
		return nil, err
	}
	return &s, nil
}

func pubkeyField(rec *borsh.Record, name string) (Pubkey, error) {
	raw, err := borsh.Get[[]byte](rec, name)
	if err != nil {
		return Pubkey{}, err
	}
	return PubkeyFromBytes(raw)
}

var stateSize = sync.OnceValue(func() int {
	buf, err := EncodeState(&State{})
	if err != nil {
		panic(fmt.Sprintf("tictactoe: encode empty state: %v", err))
	}
	return len(buf)
})

// StateSize is the encoded length of a game state, measured by encoding an
// empty one. Game accounts are allocated with exactly this many bytes.
func StateSize() int {
	return stateSize()
}
