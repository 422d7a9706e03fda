// rules.go defines the protocol-parameter table consumed by the host layer,
// keyed by the active revision.
package vm

// Revision identifies a protocol revision (hard fork).
type Revision uint8

const (
	Frontier Revision = iota
	Homestead
	TangerineWhistle
	SpuriousDragon
	Byzantium
	Constantinople
	Petersburg
	Istanbul
	Berlin
	London
	Paris
	Shanghai
	Cancun
	Prague
)

// String returns the fork name of the revision.
func (r Revision) String() string {
	names := [...]string{
		"Frontier", "Homestead", "Tangerine Whistle", "Spurious Dragon",
		"Byzantium", "Constantinople", "Petersburg", "Istanbul",
		"Berlin", "London", "Paris", "Shanghai", "Cancun", "Prague",
	}
	if int(r) < len(names) {
		return names[r]
	}
	return "unknown"
}

// Protocol constants shared across revisions.
const (
	// MaxCallDepth is the call-stack depth limit. Calls and creations at
	// this depth fail closed without charging gas.
	MaxCallDepth = 1024

	// SelfDestructRefundGas is the refund granted for the first
	// self-destruct of an account within a transaction (zeroed by EIP-3529
	// from London on).
	SelfDestructRefundGas uint64 = 24000

	// CallStipend is the minimum gas granted to a nested call alongside a
	// value transfer (EIP-150 companion rule).
	CallStipend uint64 = 2300

	// MaxInitCodeSize is the init-code size ceiling enforced from Shanghai
	// on (EIP-3860).
	MaxInitCodeSize uint64 = 49152

	// MaxAccountNonce is the maximum representable account nonce. A
	// creation whose sender already carries it fails closed, so the
	// increment can never overflow.
	MaxAccountNonce = ^uint64(0)
)

// Rules is the resolved parameter set for one revision.
type Rules struct {
	Revision Revision

	// MaxCallDepth bounds the nesting of call frames.
	MaxCallDepth int

	// SelfDestructRefund is granted once per self-destructed account.
	SelfDestructRefund uint64

	// MaxNonce is the nonce ceiling checked before a creation.
	MaxNonce uint64

	// MaxInitCodeSize caps creation input data; zero means no ceiling.
	MaxInitCodeSize uint64

	// CallStipend is the stipend for value-bearing nested calls.
	CallStipend uint64

	// CodeDepositMergeable marks the code-deposit-out-of-gas creation
	// failure as a bookkeeping-recoverable case: the caller still merges
	// the nested self-destruct set and refreshes its account snapshot.
	CodeDepositMergeable bool
}

// RulesFor resolves the parameter table for the given revision.
func RulesFor(rev Revision) Rules {
	r := Rules{
		Revision:             rev,
		MaxCallDepth:         MaxCallDepth,
		MaxNonce:             MaxAccountNonce,
		CallStipend:          CallStipend,
		CodeDepositMergeable: true,
	}
	if rev < London {
		r.SelfDestructRefund = SelfDestructRefundGas
	}
	if rev >= Shanghai {
		r.MaxInitCodeSize = MaxInitCodeSize
	}
	return r
}
