// log.go defines the event log record emitted by contract execution.
package types

// MaxTopicsPerLog is the maximum number of indexed topics in a single log
// event. The LOG0..LOG4 opcodes allow 0-4 topics.
const MaxTopicsPerLog = 4

// Log represents a contract event emitted during execution. Logs are
// append-only for the lifetime of one transaction; block and receipt
// positions are filled in by layers above the execution environment.
type Log struct {
	Address Address
	Topics  []Hash
	Data    []byte
}

// Copy returns a deep copy of the log entry.
func (l *Log) Copy() *Log {
	cpy := &Log{Address: l.Address}
	if l.Topics != nil {
		cpy.Topics = append([]Hash(nil), l.Topics...)
	}
	if l.Data != nil {
		cpy.Data = append([]byte(nil), l.Data...)
	}
	return cpy
}
