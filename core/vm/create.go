// create.go implements the contract lifecycle manager: the two creation
// protocols over one shared algorithm. The sender nonce is incremented and
// persisted as soon as the preconditions pass, even if the deployment
// subsequently fails.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
)

// ContractCreator handles create and create2 on behalf of the interpreter.
type ContractCreator struct {
	host *Host
}

// NewContractCreator creates a lifecycle manager bound to the given host.
func NewContractCreator(host *Host) *ContractCreator {
	return &ContractCreator{host: host}
}

// Create starts a contract creation with a nonce-derived address. On
// success it returns the created address and result code 1; any failure
// returns the zero address and code 0.
func (c *ContractCreator) Create(value *uint256.Int, initCode []byte, gas uint64) (types.Address, int, error) {
	return c.create(NewCreateMessage(c.host.env, value, initCode, gas))
}

// Create2 starts a contract creation with a salt-derived deterministic
// address.
func (c *ContractCreator) Create2(value *uint256.Int, initCode []byte, salt types.Hash, gas uint64) (types.Address, int, error) {
	return c.create(NewCreate2Message(c.host.env, value, initCode, salt, gas))
}

// create is the shared creation algorithm:
//
//  1. Snapshot the self-destruct set; clear the return-data buffer.
//  2. Fail closed (zero result, no gas charged, no nonce change) at the
//     depth limit, on insufficient balance, when the sender nonce is at the
//     maximum representable value, or when the init code exceeds the
//     revision's ceiling.
//  3. Increment and persist the sender nonce. This is not rolled back by a
//     later failure in the same frame.
//  4. Run the engine; address derivation is delegated to it.
//  5. Append logs and charge gas like a call.
//  6. Preserve return data on deliberate reverts.
//  7. Merge bookkeeping on success or on a code-deposit-out-of-gas failure,
//     and surface the created address as the success value.
func (c *ContractCreator) create(msg *Message) (types.Address, int, error) {
	host := c.host
	msg.SelfDestructs = host.destructs.Set().Copy()
	host.clearReturnData()

	env := host.env
	store := host.accessor.Store()

	if env.Depth >= host.rules.MaxCallDepth {
		return types.Address{}, 0, nil
	}
	if !env.CanTransfer(msg.Value) {
		return types.Address{}, 0, nil
	}
	sender, _ := store.GetAccount(env.Address)
	if sender.Nonce >= host.rules.MaxNonce {
		return types.Address{}, 0, nil
	}
	if host.rules.MaxInitCodeSize > 0 && uint64(len(msg.Input)) > host.rules.MaxInitCodeSize {
		return types.Address{}, 0, nil
	}

	sender.Nonce++
	store.PutAccount(env.Address, sender)

	host.logger.Debug("dispatching creation",
		"kind", msg.Kind.String(), "depth", msg.Depth, "gas", msg.Gas, "initcode", len(msg.Input))

	res := host.runner.Run(msg)
	if res == nil {
		return types.Address{}, 0, ErrNoResult
	}

	host.logs.Append(res.Logs)

	if err := host.meter.Charge(res.GasUsed, msg.Kind.String()); err != nil {
		return types.Address{}, 0, err
	}

	if res.Status == StatusRevert && len(res.ReturnData) > 0 {
		host.setReturnData(res.ReturnData)
	}

	mergeable := res.Status.Succeeded() ||
		(res.Status == StatusCodeDepositOutOfGas && host.rules.CodeDepositMergeable)
	if mergeable {
		host.destructs.Merge(res.SelfDestructs)
		env.RefreshAccount(store)
		if !res.CreatedAddress.IsZero() {
			return res.CreatedAddress, 1, nil
		}
	}
	return types.Address{}, 0, nil
}
