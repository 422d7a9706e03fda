// selfdestruct.go implements the per-transaction bookkeeping for accounts
// marked for deletion: the address-to-beneficiary set, the one-refund-per-
// address policy, and the balance sweep.
package vm

import (
	"math/big"

	"github.com/evmhost/evmhost/core/types"
)

// SelfDestructSet maps each self-destructed account to its beneficiary.
// Entries are never removed within a transaction: the first mark per address
// wins the refund, later marks only overwrite the beneficiary.
type SelfDestructSet struct {
	beneficiaries map[types.Address]types.Address
}

// NewSelfDestructSet creates an empty set.
func NewSelfDestructSet() *SelfDestructSet {
	return &SelfDestructSet{beneficiaries: make(map[types.Address]types.Address)}
}

// Mark records addr as destined for deletion with the given beneficiary.
// It returns true when this is the first mark for addr.
func (s *SelfDestructSet) Mark(addr, beneficiary types.Address) bool {
	_, seen := s.beneficiaries[addr]
	s.beneficiaries[addr] = beneficiary
	return !seen
}

// Contains reports whether addr has been marked.
func (s *SelfDestructSet) Contains(addr types.Address) bool {
	_, ok := s.beneficiaries[addr]
	return ok
}

// Beneficiary returns the recorded beneficiary for addr.
func (s *SelfDestructSet) Beneficiary(addr types.Address) (types.Address, bool) {
	b, ok := s.beneficiaries[addr]
	return b, ok
}

// Len returns the number of marked accounts.
func (s *SelfDestructSet) Len() int {
	return len(s.beneficiaries)
}

// Addresses returns the marked accounts in no particular order.
func (s *SelfDestructSet) Addresses() []types.Address {
	out := make([]types.Address, 0, len(s.beneficiaries))
	for addr := range s.beneficiaries {
		out = append(out, addr)
	}
	return out
}

// Copy returns an independent value-copy of the set, as attached to each
// outgoing nested Message.
func (s *SelfDestructSet) Copy() *SelfDestructSet {
	cpy := NewSelfDestructSet()
	for addr, b := range s.beneficiaries {
		cpy.beneficiaries[addr] = b
	}
	return cpy
}

// Merge absorbs another set. Later marks overwrite beneficiaries; entries
// are only ever added.
func (s *SelfDestructSet) Merge(other *SelfDestructSet) {
	if other == nil {
		return
	}
	for addr, b := range other.beneficiaries {
		s.beneficiaries[addr] = b
	}
}

// SelfDestructTracker integrates the set with the refund policy and the
// balance sweep. One tracker exists per frame; its set is seeded from the
// issuing Message and merged back on non-exceptional completion.
type SelfDestructTracker struct {
	set          *SelfDestructSet
	meter        *GasMeter
	refundAmount uint64
}

// NewSelfDestructTracker creates a tracker granting the given refund for the
// first self-destruct of each account.
func NewSelfDestructTracker(meter *GasMeter, refundAmount uint64) *SelfDestructTracker {
	return &SelfDestructTracker{
		set:          NewSelfDestructSet(),
		meter:        meter,
		refundAmount: refundAmount,
	}
}

// Set returns the tracker's current set.
func (t *SelfDestructTracker) Set() *SelfDestructSet {
	return t.set
}

// Adopt replaces the tracker's set with the snapshot inherited from the
// issuing frame's Message.
func (t *SelfDestructTracker) Adopt(set *SelfDestructSet) {
	if set != nil {
		t.set = set
	}
}

// Merge absorbs a nested frame's set after non-exceptional completion.
func (t *SelfDestructTracker) Merge(other *SelfDestructSet) {
	t.set.Merge(other)
}

// MarkForDestruction marks the executing account for deletion:
//
//  1. The fixed refund is granted if this is the account's first mark.
//  2. The beneficiary mapping is recorded (overwriting any earlier one).
//  3. The full balance moves to the beneficiary, creating it if absent,
//     and the executing account's balance is zeroed in place. Nonce and
//     code are untouched; trie removal is an end-of-transaction concern.
//
// It always returns ErrExecutionStopped: control never returns to the
// interpreter after a self-destruct.
func (t *SelfDestructTracker) MarkForDestruction(env *Environment, store StateStore, beneficiary types.Address) error {
	if t.set.Mark(env.Address, beneficiary) && t.refundAmount > 0 {
		t.meter.Refund(t.refundAmount, "self-destruct")
	}

	current, _ := store.GetAccount(env.Address)
	dest, _ := store.GetAccount(beneficiary)
	dest.Balance = new(big.Int).Add(dest.Balance, current.Balance)
	store.PutAccount(beneficiary, dest)

	current.Balance = new(big.Int)
	store.PutAccount(env.Address, current)

	return ErrExecutionStopped
}
