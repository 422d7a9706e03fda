// environment.go defines the per-frame execution context. An Environment is
// created once per call frame before interpretation begins and is read-only
// to every component except the cached account snapshot, which is refreshed
// after state-mutating sub-calls.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
)

// Environment is the immutable-per-frame execution context.
type Environment struct {
	// Address is the account whose code is executing.
	Address types.Address

	// Caller is the account that issued this frame.
	Caller types.Address

	// AuthorizedOrigin is the delegated caller identity for authorized
	// calls. Zero when no authorization is in effect.
	AuthorizedOrigin types.Address

	// Value is the value this frame was invoked with. Delegate calls
	// inherit it unchanged.
	Value *uint256.Int

	// Depth is the nesting level of this frame, starting at zero.
	Depth int

	// Static disallows state-mutating operations when set.
	Static bool

	// account is the cached snapshot of the current account.
	account types.Account
}

// NewEnvironment creates the context for one call frame and loads the
// account snapshot for the executing address from the store.
func NewEnvironment(address, caller types.Address, value *uint256.Int, depth int, static bool, store StateStore) *Environment {
	if value == nil {
		value = new(uint256.Int)
	}
	env := &Environment{
		Address: address,
		Caller:  caller,
		Value:   value,
		Depth:   depth,
		Static:  static,
	}
	env.RefreshAccount(store)
	return env
}

// Account returns the cached snapshot of the executing account.
func (e *Environment) Account() types.Account {
	return e.account
}

// RefreshAccount reloads the account snapshot from the store. Called after
// every state-mutating sub-call that completed without an exception.
func (e *Environment) RefreshAccount(store StateStore) {
	acc, _ := store.GetAccount(e.Address)
	e.account = acc
}

// CanTransfer reports whether the cached balance covers the given value.
func (e *Environment) CanTransfer(value *uint256.Int) bool {
	if value == nil || value.IsZero() {
		return true
	}
	return e.account.Balance.Cmp(value.ToBig()) >= 0
}
