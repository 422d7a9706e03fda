// message.go defines the nested call/creation request and its variant
// constructors. Each call kind has its own constructor with exactly the
// fields that variant requires; dispatch never inspects optional fields to
// infer the kind.
package vm

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
)

// CallKind identifies the variant of a nested call or creation.
type CallKind uint8

const (
	// CallKindCall is an ordinary call to a target account.
	CallKindCall CallKind = iota

	// CallKindCallCode runs the target's code in the caller's context.
	CallKindCallCode

	// CallKindDelegateCall runs the target's code in the caller's context,
	// preserving the outer frame's caller and value.
	CallKindDelegateCall

	// CallKindStaticCall is a read-only call; the static flag is forced.
	CallKindStaticCall

	// CallKindAuthCall is a call issued on behalf of the authorized origin.
	CallKindAuthCall

	// CallKindCreate is a contract creation with a nonce-derived address.
	CallKindCreate

	// CallKindCreate2 is a contract creation with a salt-derived address.
	CallKindCreate2
)

// String returns the opcode-style name of the call kind.
func (k CallKind) String() string {
	switch k {
	case CallKindCall:
		return "CALL"
	case CallKindCallCode:
		return "CALLCODE"
	case CallKindDelegateCall:
		return "DELEGATECALL"
	case CallKindStaticCall:
		return "STATICCALL"
	case CallKindAuthCall:
		return "AUTHCALL"
	case CallKindCreate:
		return "CREATE"
	case CallKindCreate2:
		return "CREATE2"
	default:
		return fmt.Sprintf("CallKind(%d)", k)
	}
}

// IsCreate reports whether the kind is a contract creation.
func (k CallKind) IsCreate() bool {
	return k == CallKindCreate || k == CallKindCreate2
}

// Message is a call or creation request handed to the execution engine.
// It is constructed fresh per dispatch and never mutated after issue.
type Message struct {
	Kind CallKind

	// Caller is the effective caller the nested frame observes.
	Caller types.Address

	// Target is the account receiving the call. Nil for creations, whose
	// address derivation is delegated to the engine.
	Target *types.Address

	// CodeSource is the account whose code runs. Differs from Target for
	// code-calls and delegate-calls. Nil for creations.
	CodeSource *types.Address

	// Value is the amount transferred (or inherited, for delegate calls).
	Value *uint256.Int

	// Input is the call data, or the init code for creations.
	Input []byte

	// Gas is the limit granted to the nested frame.
	Gas uint64

	// Static marks the nested frame read-only.
	Static bool

	// Depth is the nested frame's depth: issuer depth plus one.
	Depth int

	// Salt derives the creation address for create2. Nil otherwise.
	Salt *types.Hash

	// AuthorizedOrigin is recorded on authorized calls. Nil otherwise.
	AuthorizedOrigin *types.Address

	// SelfDestructs is the value-copy snapshot of the issuer's set,
	// inherited by the nested frame.
	SelfDestructs *SelfDestructSet
}

// TransfersValue reports whether the message moves a non-zero value from
// the caller. Delegate calls never transfer.
func (m *Message) TransfersValue() bool {
	return m.Kind != CallKindDelegateCall && m.Value != nil && !m.Value.IsZero()
}

func valueOrZero(value *uint256.Int) *uint256.Int {
	if value == nil {
		return new(uint256.Int)
	}
	return value
}

// NewCallMessage builds an ordinary call: the target both receives the
// value and supplies the code; the static flag is inherited.
func NewCallMessage(env *Environment, target types.Address, value *uint256.Int, input []byte, gas uint64) *Message {
	t := target
	return &Message{
		Kind:       CallKindCall,
		Caller:     env.Address,
		Target:     &t,
		CodeSource: &t,
		Value:      valueOrZero(value),
		Input:      input,
		Gas:        gas,
		Static:     env.Static,
		Depth:      env.Depth + 1,
	}
}

// NewCallCodeMessage builds a code-call: the code of codeSource runs against
// the current account, which also receives the value.
func NewCallCodeMessage(env *Environment, codeSource types.Address, value *uint256.Int, input []byte, gas uint64) *Message {
	self := env.Address
	cs := codeSource
	return &Message{
		Kind:       CallKindCallCode,
		Caller:     env.Address,
		Target:     &self,
		CodeSource: &cs,
		Value:      valueOrZero(value),
		Input:      input,
		Gas:        gas,
		Static:     env.Static,
		Depth:      env.Depth + 1,
	}
}

// NewDelegateCallMessage builds a delegate-call: the code of codeSource runs
// against the current account while the outer frame's caller and value are
// preserved. No value is transferred.
func NewDelegateCallMessage(env *Environment, codeSource types.Address, input []byte, gas uint64) *Message {
	self := env.Address
	cs := codeSource
	return &Message{
		Kind:       CallKindDelegateCall,
		Caller:     env.Caller,
		Target:     &self,
		CodeSource: &cs,
		Value:      env.Value,
		Input:      input,
		Gas:        gas,
		Static:     env.Static,
		Depth:      env.Depth + 1,
	}
}

// NewStaticCallMessage builds a read-only call: the static flag is forced
// and the value is always zero.
func NewStaticCallMessage(env *Environment, target types.Address, input []byte, gas uint64) *Message {
	t := target
	return &Message{
		Kind:       CallKindStaticCall,
		Caller:     env.Address,
		Target:     &t,
		CodeSource: &t,
		Value:      new(uint256.Int),
		Input:      input,
		Gas:        gas,
		Static:     true,
		Depth:      env.Depth + 1,
	}
}

// NewAuthCallMessage builds an authorized call: the effective caller is the
// frame's authorized origin, which is also recorded on the message.
func NewAuthCallMessage(env *Environment, target types.Address, value *uint256.Int, input []byte, gas uint64) *Message {
	t := target
	origin := env.AuthorizedOrigin
	return &Message{
		Kind:             CallKindAuthCall,
		Caller:           origin,
		Target:           &t,
		CodeSource:       &t,
		Value:            valueOrZero(value),
		Input:            input,
		Gas:              gas,
		Static:           env.Static,
		Depth:            env.Depth + 1,
		AuthorizedOrigin: &origin,
	}
}

// NewCreateMessage builds a contract creation with a nonce-derived address.
func NewCreateMessage(env *Environment, value *uint256.Int, initCode []byte, gas uint64) *Message {
	return &Message{
		Kind:   CallKindCreate,
		Caller: env.Address,
		Value:  valueOrZero(value),
		Input:  initCode,
		Gas:    gas,
		Static: env.Static,
		Depth:  env.Depth + 1,
	}
}

// NewCreate2Message builds a contract creation with a salt-derived address.
func NewCreate2Message(env *Environment, value *uint256.Int, initCode []byte, salt types.Hash, gas uint64) *Message {
	s := salt
	return &Message{
		Kind:   CallKindCreate2,
		Caller: env.Address,
		Value:  valueOrZero(value),
		Input:  initCode,
		Gas:    gas,
		Static: env.Static,
		Depth:  env.Depth + 1,
		Salt:   &s,
	}
}
