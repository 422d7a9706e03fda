// dispatch.go implements the call dispatcher: the five call variants built
// on one shared baseCall algorithm. Preconditions fail closed with a zero
// result code and no gas charge; nested exceptions are swallowed into the
// result code and never propagate past the host boundary.
package vm

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/evmhost/evmhost/core/types"
)

// CallDispatcher builds and issues nested call messages on behalf of the
// interpreter.
type CallDispatcher struct {
	host *Host
}

// NewCallDispatcher creates a dispatcher bound to the given host.
func NewCallDispatcher(host *Host) *CallDispatcher {
	return &CallDispatcher{host: host}
}

// Call issues an ordinary call. Returns 1 on success, 0 on failure.
func (d *CallDispatcher) Call(target types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	return d.baseCall(NewCallMessage(d.host.env, target, value, input, gas))
}

// CallCode runs codeSource's code against the current account.
func (d *CallDispatcher) CallCode(codeSource types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	return d.baseCall(NewCallCodeMessage(d.host.env, codeSource, value, input, gas))
}

// DelegateCall runs codeSource's code against the current account with the
// outer frame's caller and value. The balance precondition does not apply.
func (d *CallDispatcher) DelegateCall(codeSource types.Address, input []byte, gas uint64) (int, error) {
	return d.baseCall(NewDelegateCallMessage(d.host.env, codeSource, input, gas))
}

// StaticCall issues a read-only call with a forced static flag.
func (d *CallDispatcher) StaticCall(target types.Address, input []byte, gas uint64) (int, error) {
	return d.baseCall(NewStaticCallMessage(d.host.env, target, input, gas))
}

// AuthCall issues a call whose effective caller is the frame's authorized
// origin. Fails closed when no authorization is in effect.
func (d *CallDispatcher) AuthCall(target types.Address, value *uint256.Int, input []byte, gas uint64) (int, error) {
	if d.host.env.AuthorizedOrigin.IsZero() {
		return 0, nil
	}
	return d.baseCall(NewAuthCallMessage(d.host.env, target, value, input, gas))
}

// baseCall is the shared dispatch algorithm:
//
//  1. Snapshot the self-destruct set onto the message.
//  2. Clear the return-data buffer.
//  3. Fail closed (zero result, no gas charged) at the depth limit, or when
//     the balance cannot cover the transferred value (delegate calls skip
//     the balance check).
//  4. Run the engine and await its result.
//  5. Append produced logs regardless of status.
//  6. Charge gas for the nested frame's usage.
//  7. Preserve return data on success or deliberate revert.
//  8. On success, merge the self-destruct set and refresh the cached
//     account snapshot.
func (d *CallDispatcher) baseCall(msg *Message) (int, error) {
	host := d.host
	msg.SelfDestructs = host.destructs.Set().Copy()
	host.clearReturnData()

	if host.env.Depth >= host.rules.MaxCallDepth {
		return 0, nil
	}
	if msg.Kind != CallKindDelegateCall && !host.env.CanTransfer(msg.Value) {
		return 0, nil
	}

	host.logger.Debug("dispatching call",
		"kind", msg.Kind.String(), "target", msg.Target, "depth", msg.Depth, "gas", msg.Gas)

	res := host.runner.Run(msg)
	if res == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoResult, msg.Kind)
	}

	host.logs.Append(res.Logs)

	if err := host.meter.Charge(res.GasUsed, msg.Kind.String()); err != nil {
		return 0, err
	}

	// An engine reporting a created address here is an internal-consistency
	// bug, not a recoverable contract failure.
	if !res.CreatedAddress.IsZero() {
		return 0, fmt.Errorf("%w: %s", ErrUnexpectedCreatedAddress, msg.Kind)
	}

	if len(res.ReturnData) > 0 && (res.Status.Succeeded() || res.Status == StatusRevert) {
		host.setReturnData(res.ReturnData)
	}

	if res.Status.Succeeded() {
		host.destructs.Merge(res.SelfDestructs)
		host.env.RefreshAccount(host.accessor.Store())
		return 1, nil
	}
	return 0, nil
}
