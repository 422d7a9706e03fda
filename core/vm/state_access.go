// state_access.go implements the thin contract over the external world
// state: account, storage, and code access for the executing frame. Exactly
// one store operation is in flight per frame, so no locking is needed here.
package vm

import (
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
)

// StateStore is the narrow get/put contract toward the persistent world
// state. Implementations may fetch from a backing trie; callers block until
// each operation completes.
type StateStore interface {
	// GetAccount returns the account at addr and whether it exists. Absent
	// accounts read as fresh empty accounts.
	GetAccount(addr types.Address) (types.Account, bool)

	// PutAccount stores the account at addr, creating it if absent.
	PutAccount(addr types.Address, acc types.Account)

	// GetStorage returns the current value of a storage slot.
	GetStorage(addr types.Address, key types.Hash) types.Hash

	// PutStorage writes a storage slot.
	PutStorage(addr types.Address, key, value types.Hash)

	// GetOriginalStorage returns the pre-transaction value of a slot.
	GetOriginalStorage(addr types.Address, key types.Hash) types.Hash

	// GetCode returns the code deployed at addr, or nil.
	GetCode(addr types.Address) []byte
}

// codeCacheSize bounds the per-frame code cache. Code is keyed by hash, so
// repeated lookups of hot contracts skip the store.
const codeCacheSize = 256

// StateAccessor mediates every state read and write of one frame. Balance
// lookups for the executing address short-circuit to the cached account
// snapshot in the Environment.
type StateAccessor struct {
	store     StateStore
	env       *Environment
	codeCache *lru.Cache[types.Hash, []byte]
}

// NewStateAccessor creates an accessor bound to the given store and frame
// environment.
func NewStateAccessor(store StateStore, env *Environment) *StateAccessor {
	cache, err := lru.New[types.Hash, []byte](codeCacheSize)
	if err != nil {
		panic(err) // only possible with a non-positive size
	}
	return &StateAccessor{store: store, env: env, codeCache: cache}
}

// Store returns the underlying state store.
func (a *StateAccessor) Store() StateStore {
	return a.store
}

// Balance returns the live balance of addr. When addr is the executing
// address the cached snapshot is authoritative and the store is not touched.
func (a *StateAccessor) Balance(addr types.Address) *uint256.Int {
	if addr == a.env.Address {
		return uint256.MustFromBig(a.env.Account().Balance)
	}
	acc, ok := a.store.GetAccount(addr)
	if !ok {
		return new(uint256.Int)
	}
	return uint256.MustFromBig(acc.Balance)
}

// Code returns the code deployed at addr, consulting the hash-keyed cache
// before the store.
func (a *StateAccessor) Code(addr types.Address) []byte {
	acc, ok := a.store.GetAccount(addr)
	if !ok || !acc.HasCode() {
		return nil
	}
	hash := types.BytesToHash(acc.CodeHash)
	if code, ok := a.codeCache.Get(hash); ok {
		return code
	}
	code := a.store.GetCode(addr)
	if len(code) > 0 {
		a.codeCache.Add(hash, code)
	}
	return code
}

// CodeSize returns the length of the code deployed at addr.
func (a *StateAccessor) CodeSize(addr types.Address) int {
	return len(a.Code(addr))
}

// StorageLoad reads a storage slot of the executing account.
func (a *StateAccessor) StorageLoad(key types.Hash) types.Hash {
	return a.store.GetStorage(a.env.Address, key)
}

// StorageLoadOriginal reads the pre-transaction value of a slot of the
// executing account.
func (a *StateAccessor) StorageLoadOriginal(key types.Hash) types.Hash {
	return a.store.GetOriginalStorage(a.env.Address, key)
}

// StorageStore writes a storage slot of the executing account.
func (a *StateAccessor) StorageStore(key, value types.Hash) {
	a.store.PutStorage(a.env.Address, key, value)
}

// Exists reports whether an account is present in the state.
func (a *StateAccessor) Exists(addr types.Address) bool {
	_, ok := a.store.GetAccount(addr)
	return ok
}

// Empty reports whether an account is empty: zero balance, zero nonce, and
// no code. Absent accounts are empty.
func (a *StateAccessor) Empty(addr types.Address) bool {
	acc, ok := a.store.GetAccount(addr)
	if !ok {
		return true
	}
	return acc.IsEmpty()
}
