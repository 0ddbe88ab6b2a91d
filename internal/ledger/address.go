package ledger

import (
	"encoding/hex"
	"errors"
	"strings"

	"golang.org/x/crypto/sha3"

	"github.com/mcoot/memorygame-go/internal/model"
)

// AddressLength is the size of an address in bytes
const AddressLength = 20

// ErrInvalidAddress is returned when parsing a malformed address
var ErrInvalidAddress = errors.New("invalid address")

// Address identifies a ledger caller
type Address [AddressLength]byte

// AddressFor derives a stable address from a player identity: the last 20
// bytes of Keccak-256 over the identity string.
func AddressFor(player model.PlayerID) Address {
	var addr Address
	copy(addr[:], keccak256([]byte(player))[32-AddressLength:])
	return addr
}

// ParseAddress parses a 0x-prefixed hex address (case-insensitive)
func ParseAddress(s string) (Address, error) {
	var addr Address
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*AddressLength {
		return addr, ErrInvalidAddress
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return addr, ErrInvalidAddress
	}
	copy(addr[:], b)
	return addr, nil
}

// Hex returns the lowercase 0x-prefixed form
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

// String implements fmt.Stringer
func (a Address) String() string {
	return a.Hex()
}

// PlayerID is the engine identity used for games created through the ledger
func (a Address) PlayerID() model.PlayerID {
	return model.PlayerID(a.Hex())
}

// IsZero returns true for the all-zero address
func (a Address) IsZero() bool {
	return a == Address{}
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
