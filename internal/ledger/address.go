package ledger

import (
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/zeebo/blake3"
)

// MaxSeedLen is the longest seed accepted by DeriveAddress.
const MaxSeedLen = 32

// Address identifies an account on the ledger.
type Address [32]byte

// SystemAddress owns accounts that no program has claimed.
var SystemAddress Address

func (a Address) String() string {
	return base58.Encode(a[:])
}

// IsZero returns true if the address is all zeros
func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAddress decodes the base58 form of an address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw, err := base58.Decode(s)
	if err != nil {
		return a, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) != len(a) {
		return a, fmt.Errorf("invalid address %q: expected %d bytes, got %d", s, len(a), len(raw))
	}
	copy(a[:], raw)
	return a, nil
}

// DeriveAddress computes the address of an account created from base with
// seed on behalf of owner. The same inputs always give the same address, so
// clients can find their accounts again without storing them.
func DeriveAddress(base Address, seed string, owner Address) (Address, error) {
	if len(seed) > MaxSeedLen {
		return Address{}, fmt.Errorf("%w: %d bytes", ErrSeedTooLong, len(seed))
	}
	h := blake3.New()
	h.Write(base[:])
	h.Write([]byte(seed))
	h.Write(owner[:])
	var a Address
	copy(a[:], h.Sum(nil))
	return a, nil
}

// AddressFromName derives a stable local key from a human-readable name.
func AddressFromName(name string) Address {
	return blake3.Sum256([]byte("tictactoe:key:" + name))
}
