package vm

import (
	"testing"

	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/state"
	"github.com/evmhost/evmhost/core/types"
)

var (
	msgSelf   = types.BytesToAddress([]byte{0x11})
	msgCaller = types.BytesToAddress([]byte{0x22})
	msgTarget = types.BytesToAddress([]byte{0x33})
	msgOrigin = types.BytesToAddress([]byte{0x44})
)

func msgEnv(static bool) *Environment {
	store := state.NewMemoryStateDB()
	env := NewEnvironment(msgSelf, msgCaller, uint256.NewInt(77), 4, static, store)
	return env
}

func TestNewCallMessage(t *testing.T) {
	m := NewCallMessage(msgEnv(false), msgTarget, uint256.NewInt(5), []byte{1}, 1000)
	if m.Kind != CallKindCall {
		t.Errorf("Kind = %v", m.Kind)
	}
	if m.Caller != msgSelf {
		t.Errorf("Caller = %v, want current address", m.Caller)
	}
	if *m.Target != msgTarget || *m.CodeSource != msgTarget {
		t.Error("target and code source must both be the call target")
	}
	if m.Depth != 5 {
		t.Errorf("Depth = %d, want issuer+1 = 5", m.Depth)
	}
	if m.Static {
		t.Error("static flag must be inherited (false)")
	}
	if !m.TransfersValue() {
		t.Error("call with value must transfer")
	}
}

func TestNewCallCodeMessage(t *testing.T) {
	m := NewCallCodeMessage(msgEnv(false), msgTarget, uint256.NewInt(5), nil, 1000)
	if *m.Target != msgSelf {
		t.Errorf("code-call target = %v, want current address", *m.Target)
	}
	if *m.CodeSource != msgTarget {
		t.Errorf("code source = %v, want %v", *m.CodeSource, msgTarget)
	}
	if m.Caller != msgSelf {
		t.Errorf("Caller = %v, want current address", m.Caller)
	}
}

func TestNewDelegateCallMessage(t *testing.T) {
	m := NewDelegateCallMessage(msgEnv(true), msgTarget, nil, 1000)
	// The outer frame's caller and value are preserved.
	if m.Caller != msgCaller {
		t.Errorf("Caller = %v, want outer caller %v", m.Caller, msgCaller)
	}
	if m.Value.Uint64() != 77 {
		t.Errorf("Value = %v, want inherited 77", m.Value)
	}
	if *m.Target != msgSelf {
		t.Errorf("target = %v, want current address", *m.Target)
	}
	if m.TransfersValue() {
		t.Error("delegate call must never transfer value")
	}
	if !m.Static {
		t.Error("static flag must be inherited (true)")
	}
}

func TestNewStaticCallMessage(t *testing.T) {
	m := NewStaticCallMessage(msgEnv(false), msgTarget, nil, 1000)
	if !m.Static {
		t.Error("static flag must be forced")
	}
	if !m.Value.IsZero() {
		t.Errorf("Value = %v, want zero", m.Value)
	}
}

func TestNewAuthCallMessage(t *testing.T) {
	env := msgEnv(false)
	env.AuthorizedOrigin = msgOrigin
	m := NewAuthCallMessage(env, msgTarget, uint256.NewInt(1), nil, 1000)
	if m.Caller != msgOrigin {
		t.Errorf("Caller = %v, want authorized origin %v", m.Caller, msgOrigin)
	}
	if m.AuthorizedOrigin == nil || *m.AuthorizedOrigin != msgOrigin {
		t.Error("authorized origin must be recorded on the message")
	}
}

func TestNewCreateMessages(t *testing.T) {
	env := msgEnv(false)
	code := []byte{0x60, 0x00}

	m := NewCreateMessage(env, uint256.NewInt(9), code, 1000)
	if m.Kind != CallKindCreate || !m.Kind.IsCreate() {
		t.Errorf("Kind = %v", m.Kind)
	}
	if m.Target != nil || m.CodeSource != nil {
		t.Error("creations carry no explicit target or code source")
	}
	if m.Salt != nil {
		t.Error("create must not carry a salt")
	}

	salt := types.BytesToHash([]byte{0xab})
	m2 := NewCreate2Message(env, nil, code, salt, 1000)
	if m2.Kind != CallKindCreate2 {
		t.Errorf("Kind = %v", m2.Kind)
	}
	if m2.Salt == nil || *m2.Salt != salt {
		t.Error("create2 must carry the salt")
	}
	if !m2.Value.IsZero() {
		t.Error("nil value must normalize to zero")
	}
}

func TestCallKindString(t *testing.T) {
	kinds := map[CallKind]string{
		CallKindCall:         "CALL",
		CallKindCallCode:     "CALLCODE",
		CallKindDelegateCall: "DELEGATECALL",
		CallKindStaticCall:   "STATICCALL",
		CallKindAuthCall:     "AUTHCALL",
		CallKindCreate:       "CREATE",
		CallKindCreate2:      "CREATE2",
	}
	for k, want := range kinds {
		if k.String() != want {
			t.Errorf("%d.String() = %q, want %q", k, k.String(), want)
		}
	}
}
