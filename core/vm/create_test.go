package vm

import (
	"errors"
	"math/big"
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/state"
	"github.com/evmhost/evmhost/core/types"
)

var (
	crSelf    = types.BytesToAddress([]byte{0xb1})
	crCaller  = types.BytesToAddress([]byte{0xb2})
	crCreated = types.BytesToAddress([]byte{0xb3})
)

func newCreateHost(t *testing.T, rev Revision, balance int64, runner Runner) (*Host, *state.MemoryStateDB) {
	t.Helper()
	store := state.NewMemoryStateDB()
	store.SetBalance(crSelf, big.NewInt(balance))
	env := NewEnvironment(crSelf, crCaller, nil, 0, false, store)
	return NewHost(Config{Revision: rev}, env, NewGasMeter(100000), store, runner, nil), store
}

func senderNonce(t *testing.T, store *state.MemoryStateDB) uint64 {
	t.Helper()
	acc, _ := store.GetAccount(crSelf)
	return acc.Nonce
}

func TestCreateSuccess(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusSuccess, GasUsed: 32000, CreatedAddress: crCreated}
	}}
	h, store := newCreateHost(t, Shanghai, 100, runner)

	addr, code, err := h.Create(uint256.NewInt(10), []byte{0x60, 0x00}, 50000)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if code != 1 || addr != crCreated {
		t.Errorf("result = (%v, %d), want (%v, 1)", addr, code, crCreated)
	}
	if senderNonce(t, store) != 1 {
		t.Errorf("sender nonce = %d, want 1", senderNonce(t, store))
	}
	if h.GasRemaining() != 100000-32000 {
		t.Errorf("remaining = %d, want %d", h.GasRemaining(), 100000-32000)
	}

	msg := runner.calls[0]
	if msg.Kind != CallKindCreate || msg.Target != nil {
		t.Errorf("message kind = %v target = %v", msg.Kind, msg.Target)
	}
}

func TestCreate2CarriesSalt(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusSuccess, CreatedAddress: crCreated}
	}}
	h, _ := newCreateHost(t, Shanghai, 100, runner)

	salt := types.BytesToHash([]byte{0x5a})
	if _, code, err := h.Create2(nil, []byte{0x00}, salt, 1000); err != nil || code != 1 {
		t.Fatalf("Create2: code = %d err = %v", code, err)
	}
	msg := runner.calls[0]
	if msg.Kind != CallKindCreate2 {
		t.Errorf("kind = %v", msg.Kind)
	}
	if msg.Salt == nil || *msg.Salt != salt {
		t.Error("salt not carried on the message")
	}
}

func TestCreatePreconditionsFailClosed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(h *Host, store *state.MemoryStateDB)
		value *uint256.Int
		init  []byte
	}{
		{
			name:  "depth limit",
			setup: func(h *Host, _ *state.MemoryStateDB) { h.Environment().Depth = MaxCallDepth },
		},
		{
			name:  "insufficient balance",
			value: uint256.NewInt(101),
		},
		{
			name: "nonce at maximum",
			setup: func(_ *Host, store *state.MemoryStateDB) {
				store.SetNonce(crSelf, MaxAccountNonce)
			},
		},
		{
			name: "init code over ceiling",
			init: make([]byte, MaxInitCodeSize+1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &stubRunner{}
			h, store := newCreateHost(t, Shanghai, 100, runner)
			if tt.setup != nil {
				tt.setup(h, store)
			}
			before := senderNonce(t, store)

			addr, code, err := h.Create(tt.value, tt.init, 1000)
			if err != nil || code != 0 || !addr.IsZero() {
				t.Errorf("result = (%v, %d, %v), want fail-closed zero", addr, code, err)
			}
			if len(runner.calls) != 0 {
				t.Error("engine invoked despite failed precondition")
			}
			if senderNonce(t, store) != before {
				t.Error("nonce changed on failed precondition")
			}
			if h.GasRemaining() != 100000 {
				t.Error("gas charged on failed precondition")
			}
		})
	}
}

func TestCreateInitCodeUnlimitedBeforeShanghai(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusSuccess, CreatedAddress: crCreated}
	}}
	h, _ := newCreateHost(t, Paris, 100, runner)

	big := make([]byte, MaxInitCodeSize+1)
	if _, code, err := h.Create(nil, big, 1000); err != nil || code != 1 {
		t.Errorf("pre-Shanghai oversized init code: code = %d err = %v, want 1 nil", code, err)
	}
}

func TestCreateNonceIncrementSurvivesFailure(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusOutOfGas, GasUsed: 100}
	}}
	h, store := newCreateHost(t, Shanghai, 100, runner)

	addr, code, err := h.Create(nil, []byte{0x00}, 1000)
	if err != nil || code != 0 || !addr.IsZero() {
		t.Errorf("result = (%v, %d, %v)", addr, code, err)
	}
	// The nonce bump persists even though the deployment failed.
	if senderNonce(t, store) != 1 {
		t.Errorf("nonce = %d, want 1 after failed deployment", senderNonce(t, store))
	}
}

func TestCreateCodeDepositOutOfGasStillMerges(t *testing.T) {
	nested := NewSelfDestructSet()
	nested.Mark(crCreated, crCaller)
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{
			Status:         StatusCodeDepositOutOfGas,
			GasUsed:        100,
			CreatedAddress: crCreated,
			SelfDestructs:  nested,
		}
	}}
	h, _ := newCreateHost(t, Shanghai, 100, runner)

	addr, code, err := h.Create(nil, []byte{0x00}, 1000)
	if err != nil {
		t.Fatal(err)
	}
	// The account exists without code; the address is still surfaced and the
	// bookkeeping of the partial frame is kept.
	if code != 1 || addr != crCreated {
		t.Errorf("result = (%v, %d), want (%v, 1)", addr, code, crCreated)
	}
	if !h.SelfDestructs().Contains(crCreated) {
		t.Error("self-destruct set of a code-deposit failure must be merged")
	}
}

func TestCreateRevertPreservesReturnData(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusRevert, GasUsed: 10, ReturnData: []byte("reason")}
	}}
	h, _ := newCreateHost(t, Shanghai, 100, runner)

	addr, code, err := h.Create(nil, []byte{0x00}, 1000)
	if err != nil || code != 0 || !addr.IsZero() {
		t.Errorf("result = (%v, %d, %v)", addr, code, err)
	}
	if string(h.ReturnData()) != "reason" {
		t.Errorf("return data = %q, want revert payload", h.ReturnData())
	}
}

func TestCreateGasChargeTrap(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusSuccess, GasUsed: 200000, CreatedAddress: crCreated}
	}}
	h, _ := newCreateHost(t, Shanghai, 100, runner)

	_, _, err := h.Create(nil, []byte{0x00}, 1000)
	if !errors.Is(err, ErrOutOfGas) {
		t.Errorf("err = %v, want ErrOutOfGas trap", err)
	}
}

func TestCreateSuccessWithoutAddressFails(t *testing.T) {
	runner := &stubRunner{respond: func(*Message) *ExecutionResult {
		return &ExecutionResult{Status: StatusSuccess}
	}}
	h, _ := newCreateHost(t, Shanghai, 100, runner)

	addr, code, err := h.Create(nil, []byte{0x00}, 1000)
	if err != nil || code != 0 || !addr.IsZero() {
		t.Errorf("success without address: result = (%v, %d, %v), want zero", addr, code, err)
	}
}
