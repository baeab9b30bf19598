package solana

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"testing"

	"github.com/mr-tron/base58"
)

const testProgramID = "Fg6PaFpoGXkYsidMpWTK6W2BeZ7FEfcYkg476zPFsLnS"

func TestParsePublicKey(t *testing.T) {
	pk, err := ParsePublicKey(testProgramID)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if pk.String() != testProgramID {
		t.Errorf("roundtrip = %q, want %q", pk.String(), testProgramID)
	}
}

func TestParsePublicKeyRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"not base58", "0OIl+/"},
		{"too short", "abc"},
		{"too long", testProgramID + testProgramID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePublicKey(tt.in); !errors.Is(err, ErrInvalidAddress) {
				t.Fatalf("err = %v, want ErrInvalidAddress", err)
			}
		})
	}
}

func TestWalletAddressIsOnCurve(t *testing.T) {
	// A real wallet address is a valid ed25519 point.
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	wallet, err := ParsePublicKey(base58.Encode(pub))
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	if !wallet.IsOnCurve() {
		t.Error("wallet address reported off-curve")
	}
}

func TestFindProgramAddress(t *testing.T) {
	program, err := ParsePublicKey(testProgramID)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	seeds := [][]byte{[]byte("certificate"), []byte("cert_1740830400000_abc123def")}

	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}

	// Derived addresses must not be signable.
	if addr.IsOnCurve() {
		t.Error("derived address is on the curve")
	}

	// Determinism: same seeds and program yield the same address and bump.
	again, bump2, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("second FindProgramAddress: %v", err)
	}
	if addr != again || bump != bump2 {
		t.Errorf("derivation not deterministic: %v/%d vs %v/%d", addr, bump, again, bump2)
	}

	// Different seeds yield a different address.
	other, _, err := FindProgramAddress([][]byte{[]byte("certificate"), []byte("cert_other")}, program)
	if err != nil {
		t.Fatalf("FindProgramAddress with other seeds: %v", err)
	}
	if other == addr {
		t.Error("different seeds produced the same address")
	}
}

func TestFindProgramAddressMatchesCreateWithBump(t *testing.T) {
	program, err := ParsePublicKey(testProgramID)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	seeds := [][]byte{[]byte("certificate"), []byte("cert_1")}

	addr, bump, err := FindProgramAddress(seeds, program)
	if err != nil {
		t.Fatalf("FindProgramAddress: %v", err)
	}

	recreated, err := CreateProgramAddress(append(seeds, []byte{bump}), program)
	if err != nil {
		t.Fatalf("CreateProgramAddress with the found bump: %v", err)
	}
	if recreated != addr {
		t.Errorf("CreateProgramAddress(seeds, bump=%d) = %v, want %v", bump, recreated, addr)
	}
}

func TestCreateProgramAddressLimits(t *testing.T) {
	program, _ := ParsePublicKey(testProgramID)

	long := make([]byte, maxSeedLength+1)
	if _, err := CreateProgramAddress([][]byte{long}, program); err == nil {
		t.Error("accepted a seed over the length limit")
	}

	many := make([][]byte, maxSeeds+1)
	for i := range many {
		many[i] = []byte{byte(i)}
	}
	if _, err := CreateProgramAddress(many, program); err == nil {
		t.Error("accepted more seeds than the limit")
	}
}

func TestSOLToLamports(t *testing.T) {
	tests := []struct {
		sol  float64
		want uint64
	}{
		{1, 1_000_000_000},
		{0.5, 500_000_000},
		{0.000000001, 1},
		{0, 0},
	}
	for _, tt := range tests {
		if got := SOLToLamports(tt.sol); got != tt.want {
			t.Errorf("SOLToLamports(%v) = %d, want %d", tt.sol, got, tt.want)
		}
	}
}
