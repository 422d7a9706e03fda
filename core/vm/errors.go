// Package vm implements the execution environment ("host") layer of the
// virtual machine: gas accounting, account state access, the five call
// variants, the two contract creation protocols, self-destruct bookkeeping,
// and the log and return-data buffers. The bytecode interpreter and the
// recursive execution engine are external collaborators reached through the
// Host facade and the Runner interface.
package vm

import "errors"

// Status classifies the outcome of a frame. Dispatch logic pattern-matches
// on this tag instead of unwinding the stack.
type Status uint8

const (
	// StatusSuccess is a frame that completed normally.
	StatusSuccess Status = iota

	// StatusRevert is a deliberate abort that preserves return data but
	// discards the frame's state changes.
	StatusRevert

	// StatusStop is the normal halt raised by self-destruct. Not an error
	// from the caller's point of view.
	StatusStop

	// StatusOutOfGas is gas exhaustion; fatal to the frame, converted to a
	// zero result code by the issuing dispatcher.
	StatusOutOfGas

	// StatusCodeDepositOutOfGas is the soft creation failure where init code
	// succeeded but depositing the deployed code exhausted gas. Treated as
	// mergeable for bookkeeping purposes.
	StatusCodeDepositOutOfGas

	// StatusRefundExhausted is an underflow of the refund counter.
	StatusRefundExhausted

	// StatusOutOfRange signals malformed interpreter arguments, e.g. a log
	// topic count outside 0-4.
	StatusOutOfRange

	// StatusInternalError signals an internal-consistency violation. It
	// propagates past the frame-local handling since it indicates a caller
	// bug rather than a contract-level failure.
	StatusInternalError
)

// String returns the human-readable name of the status.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusRevert:
		return "revert"
	case StatusStop:
		return "stop"
	case StatusOutOfGas:
		return "out of gas"
	case StatusCodeDepositOutOfGas:
		return "code deposit out of gas"
	case StatusRefundExhausted:
		return "refund exhausted"
	case StatusOutOfRange:
		return "out of range"
	case StatusInternalError:
		return "internal error"
	default:
		return "unknown"
	}
}

// Succeeded reports whether a frame finished without an exception. Stop
// counts as success: it is the ordinary halt of a self-destructing frame.
func (s Status) Succeeded() bool {
	return s == StatusSuccess || s == StatusStop
}

// Host layer errors.
var (
	// ErrOutOfGas aborts the current frame when a charge exceeds the
	// remaining gas. The remaining counter is clamped to zero first.
	ErrOutOfGas = errors.New("gas: out of gas")

	// ErrRefundExhausted aborts the current frame when a refund subtraction
	// would drive the counter negative.
	ErrRefundExhausted = errors.New("gas: refund counter exhausted")

	// ErrExecutionReverted classifies a deliberate REVERT raised by the
	// engine; return data is preserved, state changes are not merged.
	ErrExecutionReverted = errors.New("execution reverted")

	// ErrExecutionStopped is returned by SelfDestruct; the interpreter
	// treats it as a normal halt of the current frame.
	ErrExecutionStopped = errors.New("execution stopped by self-destruct")

	// ErrTopicCountRange rejects a log with a topic count outside 0-4.
	ErrTopicCountRange = errors.New("log: topic count outside 0-4")

	// ErrTopicMismatch rejects a log whose topic slice length disagrees
	// with the declared topic count. This is an interpreter bug.
	ErrTopicMismatch = errors.New("log: topic slice length does not match declared count")

	// ErrUnexpectedCreatedAddress flags an engine result that carries a
	// created address for a non-creation call.
	ErrUnexpectedCreatedAddress = errors.New("call: engine returned a created address for a non-creation call")

	// ErrNoResult flags an engine that returned no result for a message.
	ErrNoResult = errors.New("call: engine returned no result")
)

// ErrorStatus maps an error raised at the host boundary to its Status tag.
func ErrorStatus(err error) Status {
	switch {
	case err == nil:
		return StatusSuccess
	case errors.Is(err, ErrExecutionStopped):
		return StatusStop
	case errors.Is(err, ErrExecutionReverted):
		return StatusRevert
	case errors.Is(err, ErrOutOfGas):
		return StatusOutOfGas
	case errors.Is(err, ErrRefundExhausted):
		return StatusRefundExhausted
	case errors.Is(err, ErrTopicCountRange):
		return StatusOutOfRange
	default:
		return StatusInternalError
	}
}
