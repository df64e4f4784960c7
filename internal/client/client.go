// Package client drives the tic-tac-toe program on a ledger: it finds or
// creates the game account, sends instructions and reads the game back.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/tictactoe-labs/tictactoe/internal/ledger"
	"github.com/tictactoe-labs/tictactoe/pkg/tictactoe"
)

var (
	ErrGameAccountMissing   = errors.New("client: cannot find the game account")
	ErrAccountUninitialized = errors.New("client: game account data is shorter than a game state")
	ErrWrongOwner           = errors.New("client: game account is owned by another program")
)

// Client plays one game account derived from a payer and a seed.
type Client struct {
	ledger    *ledger.Ledger
	programID ledger.Address
	payer     ledger.Address
	seed      string
	game      ledger.Address
	logger    *slog.Logger
}

// New creates a client. The game account address is derived up front.
func New(l *ledger.Ledger, programID, payer ledger.Address, seed string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}
	game, err := ledger.DeriveAddress(payer, seed, programID)
	if err != nil {
		return nil, err
	}
	return &Client{
		ledger:    l,
		programID: programID,
		payer:     payer,
		seed:      seed,
		game:      game,
		logger:    logger.With("game", game),
	}, nil
}

// GameAddress returns the address of the game account.
func (c *Client) GameAddress() ledger.Address {
	return c.game
}

// EnsureGameAccount creates the game account, sized for one game state, if
// it does not exist yet.
func (c *Client) EnsureGameAccount(ctx context.Context) error {
	acct, err := c.ledger.Account(ctx, c.game)
	switch {
	case err == nil:
		if acct.Owner != c.programID {
			return fmt.Errorf("%w: %s", ErrWrongOwner, acct.Owner)
		}
		return nil
	case !errors.Is(err, ledger.ErrAccountNotFound):
		return err
	}
	c.logger.Info("creating game account", "space", tictactoe.StateSize())
	_, err = c.ledger.CreateAccountWithSeed(ctx, c.payer, c.seed, tictactoe.StateSize(), c.programID)
	return err
}

// Send signs ins with signer and submits it against the game account.
func (c *Client) Send(ctx context.Context, signer ledger.Address, ins tictactoe.Instruction) error {
	data, err := tictactoe.EncodeInstruction(ins)
	if err != nil {
		return fmt.Errorf("encode instruction: %w", err)
	}
	c.logger.Debug("sending instruction", "instruction", tictactoe.InstructionName(ins), "signer", signer)
	return c.ledger.Invoke(ctx, ledger.Instruction{
		ProgramID: c.programID,
		Accounts: []ledger.AccountMeta{
			{Address: c.game, IsWritable: true},
			{Address: signer, IsSigner: true},
		},
		Data: data,
	}, signer)
}

// Reset starts a new game between two players, signed by the payer.
func (c *Client) Reset(ctx context.Context, playerOne, playerTwo ledger.Address) error {
	return c.Send(ctx, c.payer, tictactoe.GameReset{
		PlayerOne: tictactoe.Pubkey(playerOne),
		PlayerTwo: tictactoe.Pubkey(playerTwo),
	})
}

// MakeTurn places player's mark at (row, col).
func (c *Client) MakeTurn(ctx context.Context, player ledger.Address, row, col uint8) error {
	return c.Send(ctx, player, tictactoe.MakeTurn{Row: row, Col: col})
}

// State reads and decodes the game account.
func (c *Client) State(ctx context.Context) (*tictactoe.State, error) {
	acct, err := c.ledger.Account(ctx, c.game)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, ErrGameAccountMissing
	}
	if err != nil {
		return nil, err
	}
	if len(acct.Data) < tictactoe.StateSize() {
		return nil, fmt.Errorf("%w: %d bytes", ErrAccountUninitialized, len(acct.Data))
	}
	return tictactoe.DecodeState(acct.Data)
}

// Report writes the play field to w.
func (c *Client) Report(ctx context.Context, w io.Writer) error {
	s, err := c.State(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s.Board())
	return err
}
