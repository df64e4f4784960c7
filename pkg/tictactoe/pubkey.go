package tictactoe

import (
	"fmt"

	"github.com/mr-tron/base58"
)

// PubkeySize is the length of a ledger public key.
const PubkeySize = 32

// Pubkey is a 32-byte ledger public key. It encodes as its raw bytes.
type Pubkey [PubkeySize]byte

// PubkeyFromBytes copies b into a Pubkey. b must be exactly 32 bytes.
func PubkeyFromBytes(b []byte) (Pubkey, error) {
	var k Pubkey
	if len(b) != PubkeySize {
		return k, fmt.Errorf("invalid pubkey length: expected %d, got %d", PubkeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// ParsePubkey decodes the base58 text form of a key.
func ParsePubkey(s string) (Pubkey, error) {
	raw, err := base58.Decode(s)
	if err != nil {
		return Pubkey{}, fmt.Errorf("invalid pubkey %q: %w", s, err)
	}
	return PubkeyFromBytes(raw)
}

// String returns the base58 form of the key.
func (k Pubkey) String() string {
	return base58.Encode(k[:])
}

// Bytes returns a copy of the raw key.
func (k Pubkey) Bytes() []byte {
	return append([]byte(nil), k[:]...)
}

// IsZero returns true if the key is all zeros
func (k Pubkey) IsZero() bool {
	return k == Pubkey{}
}

func (k Pubkey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Pubkey) UnmarshalText(text []byte) error {
	parsed, err := ParsePubkey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
