// logs.go implements the transaction-scoped log collector: validation of
// emitted events and the append-only log sequence.
package vm

import (
	"fmt"

	"github.com/evmhost/evmhost/core/types"
)

// LogCollector records the events emitted during one transaction. Entries
// are append-only and never reordered.
type LogCollector struct {
	logs []*types.Log
}

// NewLogCollector creates an empty collector.
func NewLogCollector() *LogCollector {
	return &LogCollector{}
}

// Record validates and appends one event emitted by the given address.
// A topic count outside 0-4 fails with ErrTopicCountRange; a topic slice
// whose length disagrees with the declared count fails with ErrTopicMismatch.
func (c *LogCollector) Record(addr types.Address, topicCount int, topics []types.Hash, data []byte) error {
	if topicCount < 0 || topicCount > types.MaxTopicsPerLog {
		return fmt.Errorf("%w: got %d", ErrTopicCountRange, topicCount)
	}
	if len(topics) != topicCount {
		return fmt.Errorf("%w: declared %d, got %d", ErrTopicMismatch, topicCount, len(topics))
	}
	entry := &types.Log{Address: addr}
	if topicCount > 0 {
		entry.Topics = append([]types.Hash(nil), topics[:topicCount]...)
	}
	if len(data) > 0 {
		entry.Data = append([]byte(nil), data...)
	}
	c.logs = append(c.logs, entry)
	return nil
}

// Append absorbs the log sequence produced by a nested frame, preserving
// order. Ownership of the entries transfers to this collector.
func (c *LogCollector) Append(entries []*types.Log) {
	c.logs = append(c.logs, entries...)
}

// Logs returns the ordered log sequence collected so far.
func (c *LogCollector) Logs() []*types.Log {
	return c.logs
}

// Len returns the number of collected entries.
func (c *LogCollector) Len() int {
	return len(c.logs)
}
