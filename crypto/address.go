// address.go implements contract address derivation for the two creation
// protocols: nonce-based (CREATE) and salt-based (CREATE2).
package crypto

import (
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/evmhost/evmhost/core/types"
)

// CreateAddress derives the address of a contract created by sender with the
// given nonce, per the Yellow Paper: keccak256(rlp([sender, nonce]))[12:].
func CreateAddress(sender types.Address, nonce uint64) types.Address {
	data, err := rlp.EncodeToBytes(struct {
		Sender types.Address
		Nonce  uint64
	}{sender, nonce})
	if err != nil {
		// [20]byte and uint64 always encode; an error here is a bug.
		panic(err)
	}
	return types.BytesToAddress(Keccak256(data)[12:])
}

// Create2Address derives the deterministic address of a contract created
// with a salt: keccak256(0xff ++ sender ++ salt ++ keccak256(initCode))[12:].
func Create2Address(sender types.Address, salt types.Hash, initCode []byte) types.Address {
	codeHash := Keccak256(initCode)
	data := make([]byte, 0, 1+types.AddressLength+types.HashLength+len(codeHash))
	data = append(data, 0xff)
	data = append(data, sender[:]...)
	data = append(data, salt[:]...)
	data = append(data, codeHash...)
	return types.BytesToAddress(Keccak256(data)[12:])
}
