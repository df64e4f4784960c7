// Command tictactoe encodes and decodes tic-tac-toe program data and plays
// scripted games against a local ledger.
package main

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/tictactoe-labs/tictactoe/internal/client"
	"github.com/tictactoe-labs/tictactoe/internal/config"
	"github.com/tictactoe-labs/tictactoe/internal/ledger"
	"github.com/tictactoe-labs/tictactoe/internal/program"
	"github.com/tictactoe-labs/tictactoe/pkg/tictactoe"
)

// programID is where the play command deploys the game program.
var programID = ledger.AddressFromName("tictactoe-program")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return fmt.Errorf("missing command")
	}
	cmd, rest := args[0], args[1:]
	switch cmd {
	case "size":
		return sizeCmd(rest, stdout)
	case "encode":
		return encodeCmd(rest, stdout)
	case "decode":
		return decodeCmd(rest, stdout)
	case "play":
		return playCmd(rest, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage:
  tictactoe size
  tictactoe encode reset --player-one KEY --player-two KEY
  tictactoe encode turn --row N --col N
  tictactoe decode instruction|state HEX [--output text|json|yaml]
  tictactoe play [--player-one KEY] [--player-two KEY]

A KEY is a base58 public key, or name:NAME for a key derived from a player
name. Encoded data is hex.

Environment:
  TICTACTOE_STORE       memory (default) or a SQLite file path
  TICTACTOE_GAME_SEED   game account seed (default "hello")
  TICTACTOE_DEBUG       enable debug logging
  TICTACTOE_LOG_FORMAT  text (default) or json
`)
}

func sizeCmd(args []string, stdout io.Writer) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	fmt.Fprintln(stdout, tictactoe.StateSize())
	return nil
}

func encodeCmd(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("encode: expected reset or turn")
	}
	var ins tictactoe.Instruction
	switch args[0] {
	case "reset":
		var one, two string
		flagSet := pflag.NewFlagSet("encode reset", pflag.ContinueOnError)
		flagSet.StringVar(&one, "player-one", "", "first player key or name")
		flagSet.StringVar(&two, "player-two", "", "second player key or name")
		if err := flagSet.Parse(args[1:]); err != nil {
			return err
		}
		if one == "" || two == "" {
			return fmt.Errorf("encode reset: --player-one and --player-two are required")
		}
		p1, err := playerKey(one)
		if err != nil {
			return err
		}
		p2, err := playerKey(two)
		if err != nil {
			return err
		}
		ins = tictactoe.GameReset{PlayerOne: p1, PlayerTwo: p2}
	case "turn":
		var row, col uint8
		flagSet := pflag.NewFlagSet("encode turn", pflag.ContinueOnError)
		flagSet.Uint8Var(&row, "row", 0, "row, 0 to 2")
		flagSet.Uint8Var(&col, "col", 0, "column, 0 to 2")
		if err := flagSet.Parse(args[1:]); err != nil {
			return err
		}
		ins = tictactoe.MakeTurn{Row: row, Col: col}
	default:
		return fmt.Errorf("encode: unknown instruction %q", args[0])
	}
	buf, err := tictactoe.EncodeInstruction(ins)
	if err != nil {
		return err
	}
	fmt.Fprintln(stdout, hex.EncodeToString(buf))
	return nil
}

func decodeCmd(args []string, stdout io.Writer) error {
	var output string
	flagSet := pflag.NewFlagSet("decode", pflag.ContinueOnError)
	flagSet.StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	rest := flagSet.Args()
	if len(rest) != 2 {
		return fmt.Errorf("decode: expected KIND HEX")
	}
	buf, err := hex.DecodeString(strings.TrimPrefix(rest[1], "0x"))
	if err != nil {
		return fmt.Errorf("decode: invalid hex: %w", err)
	}

	var (
		value any
		text  string
	)
	switch rest[0] {
	case "instruction":
		ins, err := tictactoe.DecodeInstruction(buf)
		if err != nil {
			return err
		}
		value = map[string]tictactoe.Instruction{tictactoe.InstructionName(ins): ins}
		text = formatInstruction(ins)
	case "state":
		s, err := tictactoe.DecodeState(buf)
		if err != nil {
			return err
		}
		value = s
		text = formatState(s)
	default:
		return fmt.Errorf("decode: unknown kind %q", rest[0])
	}
	return writeOutput(stdout, output, value, text)
}

func writeOutput(w io.Writer, format string, value any, text string) error {
	switch format {
	case "text":
		_, err := io.WriteString(w, text)
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func formatInstruction(ins tictactoe.Instruction) string {
	switch in := ins.(type) {
	case tictactoe.GameReset:
		return fmt.Sprintf("gameReset playerOne=%s playerTwo=%s\n", in.PlayerOne, in.PlayerTwo)
	case tictactoe.MakeTurn:
		return fmt.Sprintf("makeTurn row=%d col=%d\n", in.Row, in.Col)
	default:
		return fmt.Sprintf("%v\n", ins)
	}
}

func formatState(s *tictactoe.State) string {
	return fmt.Sprintf("status: %s\nplayerOne: %s\nplayerTwo: %s\n%s", s.Status, s.PlayerOne, s.PlayerTwo, s.Board())
}

// namePrefix marks a player key derived from a name rather than given in
// base58.
const namePrefix = "name:"

// playerKey parses a base58 key or a name:NAME key.
func playerKey(s string) (tictactoe.Pubkey, error) {
	if name, ok := strings.CutPrefix(s, namePrefix); ok {
		if name == "" {
			return tictactoe.Pubkey{}, fmt.Errorf("empty player name in %q", s)
		}
		return tictactoe.Pubkey(ledger.AddressFromName(name)), nil
	}
	k, err := tictactoe.ParsePubkey(s)
	if err != nil {
		return tictactoe.Pubkey{}, fmt.Errorf("player key %q: %w (use %s%s for a name)", s, err, namePrefix, s)
	}
	return k, nil
}

func playCmd(args []string, stdout, stderr io.Writer) error {
	var one, two string
	flagSet := pflag.NewFlagSet("play", pflag.ContinueOnError)
	flagSet.StringVar(&one, "player-one", namePrefix+"alice", "first player key")
	flagSet.StringVar(&two, "player-two", namePrefix+"bob", "second player key")
	if err := flagSet.Parse(args); err != nil {
		return err
	}
	p1, err := playerKey(one)
	if err != nil {
		return err
	}
	p2, err := playerKey(two)
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()
	logger := cfg.NewLogger(stderr)
	store, err := cfg.OpenStore()
	if err != nil {
		return err
	}
	l := ledger.New(store, ledger.WithLogger(logger))
	defer l.Close()

	if err := l.Deploy(ctx, programID, program.New(logger)); err != nil {
		return err
	}
	playerOne := ledger.Address(p1)
	playerTwo := ledger.Address(p2)
	c, err := client.New(l, programID, playerOne, cfg.GameSeed, logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Using program %s\n", programID)
	fmt.Fprintf(stdout, "Game account %s\n", c.GameAddress())

	if err := c.EnsureGameAccount(ctx); err != nil {
		return err
	}
	if err := c.Reset(ctx, playerOne, playerTwo); err != nil {
		return fmt.Errorf("reset game: %w", err)
	}
	for _, turn := range []struct {
		player   ledger.Address
		row, col uint8
	}{
		{playerOne, 1, 1},
		{playerTwo, 1, 2},
	} {
		fmt.Fprintf(stdout, "Making turn at (%d, %d)\n", turn.row, turn.col)
		if err := c.MakeTurn(ctx, turn.player, turn.row, turn.col); err != nil {
			return fmt.Errorf("make turn: %w", err)
		}
		if err := c.Report(ctx, stdout); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, "Success")
	return nil
}
