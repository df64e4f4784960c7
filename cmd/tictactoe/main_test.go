package main

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tictactoe-labs/tictactoe/internal/ledger"
	"github.com/tictactoe-labs/tictactoe/pkg/tictactoe"
)

func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestSize(t *testing.T) {
	out, _, err := runCmd(t, "size")
	require.NoError(t, err)
	assert.Equal(t, "74\n", out)
}

func TestEncodeTurn(t *testing.T) {
	out, _, err := runCmd(t, "encode", "turn", "--row", "1", "--col", "2")
	require.NoError(t, err)
	assert.Equal(t, "010102\n", out)
}

func TestEncodeReset(t *testing.T) {
	out, _, err := runCmd(t, "encode", "reset", "--player-one", "name:alice", "--player-two", "name:bob")
	require.NoError(t, err)
	raw, err := hex.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Len(t, raw, 65)
	assert.Equal(t, byte(0), raw[0])
	alice := ledger.AddressFromName("alice")
	assert.Equal(t, alice[:], raw[1:33])

	out, _, err = runCmd(t, "encode", "reset", "--player-one", alice.String(), "--player-two", "name:bob")
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(raw)+"\n", out)

	_, _, err = runCmd(t, "encode", "reset", "--player-one", "name:alice")
	assert.Error(t, err)
}

func TestPlayerKey_RejectsMistypedKey(t *testing.T) {
	alice := ledger.AddressFromName("alice").String()
	mistyped := alice[:len(alice)-1] + "0" // '0' is not in the base58 alphabet

	for _, bad := range []string{mistyped, alice[:10], "alice", "name:"} {
		_, err := playerKey(bad)
		assert.Error(t, err, bad)
	}
	_, _, err := runCmd(t, "encode", "reset", "--player-one", mistyped, "--player-two", "name:bob")
	assert.ErrorContains(t, err, "name:")

	_, _, err = runCmd(t, "play", "--player-one", "alice")
	assert.Error(t, err)
}

func TestPureCommandsIgnoreRuntimeConfig(t *testing.T) {
	t.Setenv("TICTACTOE_LOG_FORMAT", "xml")

	out, _, err := runCmd(t, "size")
	require.NoError(t, err)
	assert.Equal(t, "74\n", out)
	_, _, err = runCmd(t, "decode", "instruction", "010102")
	require.NoError(t, err)

	_, _, err = runCmd(t, "play")
	assert.ErrorContains(t, err, "TICTACTOE_LOG_FORMAT")
}

func TestDecodeInstruction(t *testing.T) {
	out, _, err := runCmd(t, "decode", "instruction", "010102")
	require.NoError(t, err)
	assert.Equal(t, "makeTurn row=1 col=2\n", out)

	out, _, err = runCmd(t, "decode", "--output", "json", "instruction", "0x010102")
	require.NoError(t, err)
	assert.JSONEq(t, `{"makeTurn": {"row": 1, "col": 2}}`, out)
}

func TestDecodeState(t *testing.T) {
	s := &tictactoe.State{Status: tictactoe.StatusPlayerTwoTurn, PlayerOne: tictactoe.Pubkey(ledger.AddressFromName("alice")), PlayerTwo: tictactoe.Pubkey(ledger.AddressFromName("bob"))}
	s.PlayField[4] = tictactoe.CellTic
	buf, err := tictactoe.EncodeState(s)
	require.NoError(t, err)
	encoded := hex.EncodeToString(buf)

	out, _, err := runCmd(t, "decode", "state", encoded)
	require.NoError(t, err)
	assert.Contains(t, out, "status: playerTwoTurn\n")
	assert.Contains(t, out, "playerOne: "+s.PlayerOne.String())
	assert.True(t, strings.HasSuffix(out, "...\n.X.\n...\n"))

	out, _, err = runCmd(t, "decode", "state", encoded, "-o", "json")
	require.NoError(t, err)
	var decoded struct {
		PlayField []string `json:"playField"`
		Status    string   `json:"status"`
		PlayerTwo string   `json:"playerTwo"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "playerTwoTurn", decoded.Status)
	assert.Equal(t, "tic", decoded.PlayField[4])
	assert.Equal(t, s.PlayerTwo.String(), decoded.PlayerTwo)

	out, _, err = runCmd(t, "decode", "state", encoded, "--output", "yaml")
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "playerTwoTurn", doc["status"])
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad hex", []string{"decode", "state", "zz"}},
		{"truncated state", []string{"decode", "state", strings.Repeat("00", tictactoe.StateSize()-1)}},
		{"unknown discriminant", []string{"decode", "instruction", "05"}},
		{"unknown kind", []string{"decode", "board", "00"}},
		{"missing hex", []string{"decode", "state"}},
		{"bad format", []string{"decode", "-o", "xml", "instruction", "010000"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runCmd(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestUnknownCommand(t *testing.T) {
	_, stderr, err := runCmd(t, "dance")
	assert.Error(t, err)
	assert.Contains(t, stderr, "Usage:")

	_, _, err = runCmd(t)
	assert.Error(t, err)
}

func TestPlay(t *testing.T) {
	out, _, err := runCmd(t, "play")
	require.NoError(t, err)
	assert.Contains(t, out, "...\n.X.\n...\n")
	assert.Contains(t, out, "...\n.X0\n...\n")
	assert.True(t, strings.HasSuffix(out, "Success\n"))
}

func TestPlay_SQLite(t *testing.T) {
	t.Setenv("TICTACTOE_STORE", filepath.Join(t.TempDir(), "games.db"))
	t.Setenv("TICTACTOE_LOG_FORMAT", "json")
	t.Setenv("TICTACTOE_DEBUG", "1")

	out, stderr, err := runCmd(t, "play", "--player-one", "name:carol", "--player-two", "name:dave")
	require.NoError(t, err)
	assert.Contains(t, out, "Success")
	assert.Contains(t, stderr, `"msg":"account created"`)

	// The finished turns leave the stored game in progress.
	_, _, err = runCmd(t, "play", "--player-one", "name:carol", "--player-two", "name:dave")
	assert.ErrorIs(t, err, tictactoe.ErrGameInProgress)
}
