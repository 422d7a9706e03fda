// Package state provides the in-memory backing store for the execution
// environment. It implements the narrow get/put contract the host layer
// consumes: accounts, storage slots with pre-transaction ("original")
// values, and code bytes.
package state

import (
	"math/big"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/evmhost/evmhost/core/types"
	"github.com/evmhost/evmhost/crypto"
)

// stateObject holds an account together with its code and storage. Dirty
// storage accumulates writes of the current transaction; committed storage
// holds the pre-transaction values served by GetOriginalStorage.
type stateObject struct {
	account          types.Account
	code             []byte
	dirtyStorage     map[types.Hash]types.Hash
	committedStorage map[types.Hash]types.Hash
}

func newStateObject() *stateObject {
	return &stateObject{
		account:          types.NewAccount(),
		dirtyStorage:     make(map[types.Hash]types.Hash),
		committedStorage: make(map[types.Hash]types.Hash),
	}
}

// MemoryStateDB is an in-memory state store. It is not safe for concurrent
// use; the execution model runs one frame at a time per transaction.
type MemoryStateDB struct {
	objects map[types.Address]*stateObject

	// dirty tracks the accounts touched since the last Commit.
	dirty mapset.Set[types.Address]
}

// NewMemoryStateDB creates an empty in-memory state store.
func NewMemoryStateDB() *MemoryStateDB {
	return &MemoryStateDB{
		objects: make(map[types.Address]*stateObject),
		dirty:   mapset.NewThreadUnsafeSet[types.Address](),
	}
}

func (s *MemoryStateDB) getObject(addr types.Address) *stateObject {
	return s.objects[addr]
}

func (s *MemoryStateDB) getOrNewObject(addr types.Address) *stateObject {
	if obj := s.objects[addr]; obj != nil {
		return obj
	}
	obj := newStateObject()
	s.objects[addr] = obj
	return obj
}

// GetAccount returns a copy of the account at addr and whether it exists.
func (s *MemoryStateDB) GetAccount(addr types.Address) (types.Account, bool) {
	if obj := s.getObject(addr); obj != nil {
		return obj.account.Copy(), true
	}
	return types.NewAccount(), false
}

// PutAccount stores the account at addr, creating it if absent.
func (s *MemoryStateDB) PutAccount(addr types.Address, acc types.Account) {
	obj := s.getOrNewObject(addr)
	obj.account = acc.Copy()
	s.dirty.Add(addr)
}

// GetStorage returns the current value of a storage slot. Writes of the
// current transaction shadow the committed value.
func (s *MemoryStateDB) GetStorage(addr types.Address, key types.Hash) types.Hash {
	obj := s.getObject(addr)
	if obj == nil {
		return types.Hash{}
	}
	if v, ok := obj.dirtyStorage[key]; ok {
		return v
	}
	return obj.committedStorage[key]
}

// PutStorage writes a storage slot for the current transaction.
func (s *MemoryStateDB) PutStorage(addr types.Address, key, value types.Hash) {
	obj := s.getOrNewObject(addr)
	obj.dirtyStorage[key] = value
	s.dirty.Add(addr)
}

// GetOriginalStorage returns the pre-transaction value of a storage slot,
// ignoring any writes made during the current transaction.
func (s *MemoryStateDB) GetOriginalStorage(addr types.Address, key types.Hash) types.Hash {
	obj := s.getObject(addr)
	if obj == nil {
		return types.Hash{}
	}
	return obj.committedStorage[key]
}

// GetCode returns the code deployed at addr, or nil.
func (s *MemoryStateDB) GetCode(addr types.Address) []byte {
	if obj := s.getObject(addr); obj != nil {
		return obj.code
	}
	return nil
}

// SetCode deploys code at addr and updates the account's code hash.
func (s *MemoryStateDB) SetCode(addr types.Address, code []byte) {
	obj := s.getOrNewObject(addr)
	obj.code = append([]byte(nil), code...)
	obj.account.CodeHash = crypto.Keccak256(code)
	s.dirty.Add(addr)
}

// SetBalance sets the balance of addr, creating the account if absent.
func (s *MemoryStateDB) SetBalance(addr types.Address, balance *big.Int) {
	obj := s.getOrNewObject(addr)
	obj.account.Balance = new(big.Int).Set(balance)
	s.dirty.Add(addr)
}

// SetNonce sets the nonce of addr, creating the account if absent.
func (s *MemoryStateDB) SetNonce(addr types.Address, nonce uint64) {
	obj := s.getOrNewObject(addr)
	obj.account.Nonce = nonce
	s.dirty.Add(addr)
}

// Exist reports whether an account is present in the store.
func (s *MemoryStateDB) Exist(addr types.Address) bool {
	return s.getObject(addr) != nil
}

// DirtyAccounts returns the addresses touched since the last Commit,
// in no particular order.
func (s *MemoryStateDB) DirtyAccounts() []types.Address {
	return s.dirty.ToSlice()
}

// Commit promotes all dirty storage writes to committed storage and clears
// the dirty-account set, establishing a new "original" baseline. Called at
// transaction boundaries by the layer above.
func (s *MemoryStateDB) Commit() {
	s.dirty.Each(func(addr types.Address) bool {
		obj := s.getObject(addr)
		if obj == nil {
			return false
		}
		for k, v := range obj.dirtyStorage {
			obj.committedStorage[k] = v
		}
		obj.dirtyStorage = make(map[types.Hash]types.Hash)
		return false
	})
	s.dirty.Clear()
}
