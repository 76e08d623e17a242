package simulator

import (
	"sync"
	"time"

	"github.com/enginewatch/snmp-engine-monitor/internal/mib"
	"github.com/google/uuid"
)

// DefaultLogCapacity is the per-engine bound on retained exchange records
const DefaultLogCapacity = 100

// RecordKind classifies a protocol exchange record
type RecordKind string

const (
	RecordRequest  RecordKind = "request"
	RecordResponse RecordKind = "response"
	RecordError    RecordKind = "error"
)

// LogRecord is one entry in an engine's message log. Value is set on
// response records only; Error is set on error records only.
type LogRecord struct {
	ID           uuid.UUID  `json:"id"`
	Timestamp    time.Time  `json:"timestamp"`
	EngineID     string     `json:"engine_id"`
	Kind         RecordKind `json:"message_type"`
	OID          string     `json:"oid"`
	VariableName string     `json:"mib_name"`
	Value        *float64   `json:"value,omitempty"`
	Error        string     `json:"error,omitempty"`
	Port         uint16     `json:"port"`
	Community    string     `json:"community"`
	DataKind     mib.Kind   `json:"data_type"`
	Access       mib.Access `json:"access"`
}

// MessageLog is a fixed-capacity FIFO of exchange records. Appends come from
// a single writer (the engine's request path); snapshots may be taken from
// any goroutine at any time.
type MessageLog struct {
	mu       sync.RWMutex
	capacity int
	records  []LogRecord
}

// NewMessageLog creates a log bounded to capacity records. A capacity of
// zero or less falls back to DefaultLogCapacity.
func NewMessageLog(capacity int) *MessageLog {
	if capacity <= 0 {
		capacity = DefaultLogCapacity
	}
	return &MessageLog{
		capacity: capacity,
		records:  make([]LogRecord, 0, capacity),
	}
}

// Append adds a record at the tail, evicting the oldest record once the
// capacity is exceeded.
func (l *MessageLog) Append(record LogRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.records = append(l.records, record)
	if len(l.records) > l.capacity {
		// Shift instead of reslicing so the backing array does not grow
		// without bound across evictions.
		copy(l.records, l.records[1:])
		l.records = l.records[:l.capacity]
	}
}

// Snapshot returns a copy of the log, oldest first
func (l *MessageLog) Snapshot() []LogRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]LogRecord, len(l.records))
	copy(out, l.records)
	return out
}

// Len returns the current number of retained records
func (l *MessageLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
