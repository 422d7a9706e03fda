// gas_meter.go implements the gas and refund counters for one execution.
// Remaining gas is clamped at zero on exhaustion before the OutOfGas trap is
// raised; the refund counter is capped by the calling transaction logic, not
// here.
package vm

import "fmt"

// GasState holds the two metered counters. Both are non-negative after
// every operation; the clamp happens before the exhaustion signal.
type GasState struct {
	Remaining uint64
	Refund    uint64
}

// GasMeter owns a GasState and is the only component allowed to mutate it.
// All operations are synchronous and side-effect-free beyond the counters.
type GasMeter struct {
	state GasState
}

// NewGasMeter creates a meter with the given gas limit and a zero refund
// counter.
func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{state: GasState{Remaining: limit}}
}

// Charge decreases the remaining gas by amount. If the result would be
// negative, remaining is clamped to zero and ErrOutOfGas is returned; the
// caller must abort the current frame.
func (m *GasMeter) Charge(amount uint64, reason string) error {
	if amount > m.state.Remaining {
		m.state.Remaining = 0
		return fmt.Errorf("%w: charging %d for %s", ErrOutOfGas, amount, reason)
	}
	m.state.Remaining -= amount
	return nil
}

// Refund increases the refund counter unconditionally. The transaction-level
// refund cap is an external policy.
func (m *GasMeter) Refund(amount uint64, reason string) {
	m.state.Refund += amount
}

// SubRefund decreases the refund counter. If the result would be negative,
// the counter is clamped to zero and ErrRefundExhausted is returned; the
// caller must abort the current frame.
func (m *GasMeter) SubRefund(amount uint64, reason string) error {
	if amount > m.state.Refund {
		m.state.Refund = 0
		return fmt.Errorf("%w: subtracting %d for %s", ErrRefundExhausted, amount, reason)
	}
	m.state.Refund -= amount
	return nil
}

// AddStipend increases the remaining gas directly. Used only when a nested
// call is granted a minimum gas stipend alongside a value transfer.
func (m *GasMeter) AddStipend(amount uint64) {
	m.state.Remaining += amount
}

// Remaining returns the gas left in the meter.
func (m *GasMeter) Remaining() uint64 {
	return m.state.Remaining
}

// RefundCounter returns the accumulated refund.
func (m *GasMeter) RefundCounter() uint64 {
	return m.state.Refund
}

// State returns a copy of the current counters, for settlement by the layer
// above.
func (m *GasMeter) State() GasState {
	return m.state
}
