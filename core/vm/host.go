// host.go implements the interpreter-facing facade. The Host owns the
// per-frame Environment and the last-returned-data buffer and routes every
// interpreter request to the gas meter, state accessor, log collector,
// self-destruct tracker, dispatcher, and lifecycle manager.
package vm

import (
	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
	"github.com/evmhost/evmhost/log"
)

// Config carries the tunable parameters of a Host.
type Config struct {
	// Revision selects the protocol-parameter table.
	Revision Revision

	// MaxCallDepth overrides the revision's depth limit when positive.
	MaxCallDepth int

	// Logger receives frame-level debug events. Defaults to the package
	// default logger.
	Logger *log.Logger
}

// Host is the boundary between the bytecode interpreter and the execution
// environment. One Host exists per call frame; nested frames are created by
// the engine, which seeds them from the outgoing Message.
type Host struct {
	cfg   Config
	rules Rules

	env       *Environment
	meter     *GasMeter
	logs      *LogCollector
	destructs *SelfDestructTracker
	accessor  *StateAccessor
	runner    Runner
	blocks    BlockSource

	dispatcher *CallDispatcher
	creator    *ContractCreator

	returnData []byte
	logger     *log.Logger
}

// NewHost assembles the execution environment for one frame.
func NewHost(cfg Config, env *Environment, meter *GasMeter, store StateStore, runner Runner, blocks BlockSource) *Host {
	rules := RulesFor(cfg.Revision)
	if cfg.MaxCallDepth > 0 {
		rules.MaxCallDepth = cfg.MaxCallDepth
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	h := &Host{
		cfg:       cfg,
		rules:     rules,
		env:       env,
		meter:     meter,
		logs:      NewLogCollector(),
		destructs: NewSelfDestructTracker(meter, rules.SelfDestructRefund),
		accessor:  NewStateAccessor(store, env),
		runner:    runner,
		blocks:    blocks,
		logger:    logger.Module("vm"),
	}
	h.dispatcher = NewCallDispatcher(h)
	h.creator = NewContractCreator(h)
	return h
}

// Rules returns the resolved protocol parameters.
func (h *Host) Rules() Rules {
	return h.rules
}

// Environment returns the frame's execution context.
func (h *Host) Environment() *Environment {
	return h.env
}

// Accessor returns the frame's state accessor.
func (h *Host) Accessor() *StateAccessor {
	return h.accessor
}

// AdoptSelfDestructs seeds the frame's self-destruct set from the snapshot
// carried by the Message that created this frame.
func (h *Host) AdoptSelfDestructs(set *SelfDestructSet) {
	h.destructs.Adopt(set)
}

// --- Gas operations ---

// ChargeGas deducts gas; on exhaustion the frame must abort.
func (h *Host) ChargeGas(amount uint64, reason string) error {
	return h.meter.Charge(amount, reason)
}

// RefundGas credits the refund counter.
func (h *Host) RefundGas(amount uint64, reason string) {
	h.meter.Refund(amount, reason)
}

// SubRefund debits the refund counter; underflow aborts the frame.
func (h *Host) SubRefund(amount uint64, reason string) error {
	return h.meter.SubRefund(amount, reason)
}

// AddStipend grants extra gas alongside a value transfer.
func (h *Host) AddStipend(amount uint64) {
	h.meter.AddStipend(amount)
}

// GasRemaining returns the gas left in the frame's meter.
func (h *Host) GasRemaining() uint64 {
	return h.meter.Remaining()
}

// GasRefunded returns the accumulated refund counter.
func (h *Host) GasRefunded() uint64 {
	return h.meter.RefundCounter()
}

// --- State queries ---

// Balance returns the live balance of addr.
func (h *Host) Balance(addr types.Address) *uint256.Int {
	return h.accessor.Balance(addr)
}

// Code returns the code deployed at addr.
func (h *Host) Code(addr types.Address) []byte {
	return h.accessor.Code(addr)
}

// CodeSize returns the size of the code deployed at addr.
func (h *Host) CodeSize(addr types.Address) int {
	return h.accessor.CodeSize(addr)
}

// BlockHash forwards to the external block source.
func (h *Host) BlockHash(number uint64) types.Hash {
	if h.blocks == nil {
		return types.Hash{}
	}
	return h.blocks.BlockHash(number)
}

// AccountExists reports whether addr is present in the state.
func (h *Host) AccountExists(addr types.Address) bool {
	return h.accessor.Exists(addr)
}

// AccountEmpty reports whether addr is empty: zero balance, zero nonce,
// no code.
func (h *Host) AccountEmpty(addr types.Address) bool {
	return h.accessor.Empty(addr)
}

// --- Storage ---

// StorageLoad reads a slot of the executing account.
func (h *Host) StorageLoad(key types.Hash) types.Hash {
	return h.accessor.StorageLoad(key)
}

// StorageLoadOriginal reads the pre-transaction value of a slot of the
// executing account.
func (h *Host) StorageLoadOriginal(key types.Hash) types.Hash {
	return h.accessor.StorageLoadOriginal(key)
}

// StorageStore writes a slot of the executing account.
func (h *Host) StorageStore(key, value types.Hash) {
	h.accessor.StorageStore(key, value)
}

// --- Logs ---

// EmitLog validates and records one event tagged with the executing
// address.
func (h *Host) EmitLog(data []byte, topicCount int, topics []types.Hash) error {
	return h.logs.Record(h.env.Address, topicCount, topics, data)
}

// Logs returns the ordered log sequence of the transaction so far.
func (h *Host) Logs() []*types.Log {
	return h.logs.Logs()
}

// --- Self-destruct ---

// SelfDestruct marks the executing account for deletion and sweeps its
// balance to the beneficiary. Always returns ErrExecutionStopped.
func (h *Host) SelfDestruct(beneficiary types.Address) error {
	h.logger.Debug("self-destruct",
		"address", h.env.Address, "beneficiary", beneficiary)
	return h.destructs.MarkForDestruction(h.env, h.accessor.Store(), beneficiary)
}

// SelfDestructs returns the frame's current self-destruct set.
func (h *Host) SelfDestructs() *SelfDestructSet {
	return h.destructs.Set()
}

// --- Calls and creations ---

// Call issues an ordinary call. Returns 1 on success, 0 on failure.
func (h *Host) Call(target types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	return h.dispatcher.Call(target, value, input, gas)
}

// CallCode runs target's code against the executing account.
func (h *Host) CallCode(codeSource types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	return h.dispatcher.CallCode(codeSource, value, input, gas)
}

// DelegateCall runs codeSource's code with the outer caller and value.
func (h *Host) DelegateCall(codeSource types.Address, input []byte, gas uint64) (int, error) {
	return h.dispatcher.DelegateCall(codeSource, input, gas)
}

// StaticCall issues a read-only call.
func (h *Host) StaticCall(target types.Address, input []byte, gas uint64) (int, error) {
	return h.dispatcher.StaticCall(target, input, gas)
}

// AuthCall issues a call on behalf of the authorized origin.
func (h *Host) AuthCall(target types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	return h.dispatcher.AuthCall(target, value, input, gas)
}

// Create starts a nonce-derived contract creation.
func (h *Host) Create(value *uint256.Int, initCode []byte, gas uint64) (types.Address, int, error) {
	return h.creator.Create(value, initCode, gas)
}

// Create2 starts a salt-derived contract creation.
func (h *Host) Create2(value *uint256.Int, initCode []byte, salt types.Hash, gas uint64) (types.Address, int, error) {
	return h.creator.Create2(value, initCode, salt, gas)
}

// --- Return data ---

// ReturnData returns the output of the last completed call or creation.
func (h *Host) ReturnData() []byte {
	return h.returnData
}

func (h *Host) setReturnData(data []byte) {
	h.returnData = append([]byte(nil), data...)
}

func (h *Host) clearReturnData() {
	h.returnData = nil
}
