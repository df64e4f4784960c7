// Package program is the native tic-tac-toe program run by the ledger. It
// loads the game state from the game account, applies one instruction signed
// by a player and writes the new state back.
package program

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tictactoe-labs/tictactoe/internal/ledger"
	"github.com/tictactoe-labs/tictactoe/pkg/tictactoe"
)

var (
	ErrNotEnoughAccounts = errors.New("program: not enough account keys")
	ErrIncorrectProgram  = errors.New("program: game account does not have the correct program id")
	ErrPlayerNotSigner   = errors.New("program: player is not a signer")
	ErrGameNotWritable   = errors.New("program: game account is not writable")
	ErrInvalidData       = errors.New("program: invalid instruction data")
	ErrAccountDataSize   = errors.New("program: game account data too small")
)

// Program processes tic-tac-toe instructions.
type Program struct {
	logger *slog.Logger
}

// New returns a program that logs to logger. A nil logger uses slog.Default.
func New(logger *slog.Logger) *Program {
	if logger == nil {
		logger = slog.Default()
	}
	return &Program{logger: logger}
}

// Process expects accounts[0] to be the writable game account owned by
// programID and accounts[1] to be the signing player.
func (p *Program) Process(ctx context.Context, programID ledger.Address, accounts []*ledger.AccountInfo, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(accounts) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughAccounts, len(accounts))
	}
	game, player := accounts[0], accounts[1]
	log := p.logger.With("game", game.Address, "player", player.Address)

	if !player.IsSigner {
		log.Warn("player is not a signer")
		return ErrPlayerNotSigner
	}
	if game.Owner != programID {
		log.Warn("game account owner mismatch", "owner", game.Owner)
		return ErrIncorrectProgram
	}
	if !game.IsWritable {
		return ErrGameNotWritable
	}
	if len(game.Data) < tictactoe.StateSize() {
		return fmt.Errorf("%w: %d < %d", ErrAccountDataSize, len(game.Data), tictactoe.StateSize())
	}

	state, err := tictactoe.DecodeState(game.Data)
	if err != nil {
		return fmt.Errorf("%w: game state: %w", ErrInvalidData, err)
	}
	ins, err := tictactoe.DecodeInstruction(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	if err := state.Apply(ins, tictactoe.Pubkey(player.Address)); err != nil {
		log.Info("instruction rejected", "instruction", tictactoe.InstructionName(ins), "error", err)
		return err
	}
	state.CheckGameEnd()

	buf, err := tictactoe.EncodeState(state)
	if err != nil {
		return fmt.Errorf("encode game state: %w", err)
	}
	copy(game.Data, buf)
	log.Debug("instruction applied", "instruction", tictactoe.InstructionName(ins), "status", state.Status)
	return nil
}

var _ ledger.Program = (*Program)(nil)
