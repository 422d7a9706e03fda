package crypto

import (
	"testing"

	"github.com/evmhost/evmhost/core/types"
)

func TestCreateAddress(t *testing.T) {
	sender := types.HexToAddress("970e8128ab834e8eac17ab8e3812f010678cf791")
	tests := []struct {
		nonce uint64
		want  string
	}{
		{0, "0x333c3310824b7c685133f2bedb2ca4b8b4df633d"},
		{1, "0x8bda78331c916a08481428e4b07c96d3e916d165"},
		{2, "0xc9ddedf451bc62ce88bf9292afb13df35b670699"},
	}
	for _, tt := range tests {
		got := CreateAddress(sender, tt.nonce)
		if got.Hex() != tt.want {
			t.Errorf("CreateAddress(nonce=%d) = %s, want %s", tt.nonce, got.Hex(), tt.want)
		}
	}
}

func TestCreateAddressNonceSensitivity(t *testing.T) {
	sender := types.BytesToAddress([]byte{0xaa})
	if CreateAddress(sender, 5) == CreateAddress(sender, 6) {
		t.Error("different nonces produced the same address")
	}
}

func TestCreate2Address(t *testing.T) {
	// Test vectors from EIP-1014.
	tests := []struct {
		sender   string
		salt     string
		initCode []byte
		want     string
	}{
		{
			"0x0000000000000000000000000000000000000000",
			"0x0000000000000000000000000000000000000000000000000000000000000000",
			[]byte{0x00},
			"0x4d1a2e2bb4f88f0250f26ffff098b0b30b26bf38",
		},
		{
			"0xdeadbeef00000000000000000000000000000000",
			"0x0000000000000000000000000000000000000000000000000000000000000000",
			[]byte{0x00},
			"0xb928f69bb1d91cd65274e3c79d8986362984fda3",
		},
	}
	for i, tt := range tests {
		got := Create2Address(types.HexToAddress(tt.sender), types.HexToHash(tt.salt), tt.initCode)
		if got.Hex() != tt.want {
			t.Errorf("case %d: Create2Address = %s, want %s", i, got.Hex(), tt.want)
		}
	}
}

func TestCreate2AddressSaltSensitivity(t *testing.T) {
	sender := types.BytesToAddress([]byte{0xbb})
	code := []byte{0x60, 0x00}
	a := Create2Address(sender, types.BytesToHash([]byte{1}), code)
	b := Create2Address(sender, types.BytesToHash([]byte{2}), code)
	if a == b {
		t.Error("different salts produced the same address")
	}
}
