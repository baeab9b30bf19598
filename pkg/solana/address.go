package solana

import (
	"crypto/sha256"
	"errors"
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

const (
	PublicKeyLength = 32

	// LamportsPerSOL is the smallest-unit denomination of one SOL.
	LamportsPerSOL = 1_000_000_000

	maxSeeds      = 16
	maxSeedLength = 32
)

var (
	ErrInvalidAddress = errors.New("invalid base58 public key")
	ErrInvalidSeeds   = errors.New("seeds produce an on-curve address")
)

// pdaMarker is the domain separator the runtime appends when hashing
// program-derived addresses.
var pdaMarker = []byte("ProgramDerivedAddress")

type PublicKey [PublicKeyLength]byte

func ParsePublicKey(s string) (PublicKey, error) {
	var pk PublicKey
	raw, err := base58.Decode(s)
	if err != nil || len(raw) != PublicKeyLength {
		return pk, ErrInvalidAddress
	}
	copy(pk[:], raw)
	return pk, nil
}

func (p PublicKey) String() string {
	return base58.Encode(p[:])
}

func (p PublicKey) Bytes() []byte {
	return p[:]
}

// IsOnCurve reports whether the key decodes as a valid ed25519 point.
// Program-derived addresses must NOT be on the curve, so no private key can
// ever sign for them.
func (p PublicKey) IsOnCurve() bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}

// CreateProgramAddress hashes the seeds with the program id and the PDA
// domain separator. It fails when the result lands on the curve; callers
// normally go through FindProgramAddress instead.
func CreateProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, error) {
	var out PublicKey
	if len(seeds) > maxSeeds {
		return out, fmt.Errorf("too many seeds: %d", len(seeds))
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > maxSeedLength {
			return out, fmt.Errorf("seed too long: %d bytes", len(seed))
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write(pdaMarker)
	copy(out[:], h.Sum(nil))

	if out.IsOnCurve() {
		return PublicKey{}, ErrInvalidSeeds
	}
	return out, nil
}

// FindProgramAddress walks the bump seed down from 255 until the derived
// address falls off the curve, mirroring the runtime's derivation for the
// accounts the LMS program owns.
func FindProgramAddress(seeds [][]byte, program PublicKey) (PublicKey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		bumped := make([][]byte, 0, len(seeds)+1)
		bumped = append(bumped, seeds...)
		bumped = append(bumped, []byte{byte(bump)})

		addr, err := CreateProgramAddress(bumped, program)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.Is(err, ErrInvalidSeeds) {
			return PublicKey{}, 0, err
		}
	}
	return PublicKey{}, 0, errors.New("unable to find a viable program address bump seed")
}
