// result.go defines the engine-facing contracts: the result of running one
// Message and the interfaces of the external collaborators.
package vm

import "github.com/evmhost/evmhost/core/types"

// ExecutionResult is the outcome of one nested frame. It is produced by the
// execution engine and consumed exactly once by the issuing dispatcher;
// ownership of its buffers transfers to the caller.
type ExecutionResult struct {
	// Status tags the frame outcome. StatusStop counts as success.
	Status Status

	// GasUsed is charged against the issuing frame's meter. The engine
	// never reports more than the message's gas limit.
	GasUsed uint64

	// ReturnData is the nested frame's output. Preserved by the caller on
	// success and on deliberate reverts.
	ReturnData []byte

	// Logs are appended to the caller's sequence regardless of status.
	Logs []*types.Log

	// CreatedAddress is set only for creations.
	CreatedAddress types.Address

	// SelfDestructs is the nested frame's set, merged into the caller's
	// only on non-exceptional completion.
	SelfDestructs *SelfDestructSet
}

// Runner is the execution engine: it interprets the nested bytecode for a
// Message and ultimately calls back into this host layer recursively. The
// call blocks until the nested frame completes.
type Runner interface {
	Run(msg *Message) *ExecutionResult
}

// BlockSource resolves historic block hashes for the BLOCKHASH query.
type BlockSource interface {
	BlockHash(number uint64) types.Hash
}
