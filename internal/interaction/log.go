package interaction

import (
	"strings"
	"sync"
	"time"
)

// DefaultCapacity bounds the in-memory interaction log when no explicit
// capacity is configured.
const DefaultCapacity = 1000

const outboundTruncateLen = 200

// Record is one customer turn captured for the analytics feed.
type Record struct {
	Timestamp      time.Time `json:"timestamp"`
	CustomerID     string    `json:"customer_id"`
	InboundText    string    `json:"inbound_text"`
	OutboundText   string    `json:"outbound_text"`
	Step           string    `json:"step"`
	DetectedType   string    `json:"detected_type"`
	ResponseTimeMS int64     `json:"response_time_ms"`
	SessionID      string    `json:"session_id"`
}

// Log is a bounded, append-only interaction buffer. When full, the oldest
// record is evicted so the window always holds the most recent turns.
type Log struct {
	mu       sync.Mutex
	records  []Record
	capacity int
}

// NewLog builds a log holding at most capacity records. Non-positive
// capacities fall back to DefaultCapacity.
func NewLog(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{capacity: capacity}
}

// Append stores one record, truncating the outbound text for storage and
// evicting the oldest record once the capacity is reached.
func (l *Log) Append(rec Record) {
	if len(rec.OutboundText) > outboundTruncateLen {
		rec.OutboundText = rec.OutboundText[:outboundTruncateLen]
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) >= l.capacity {
		drop := len(l.records) - l.capacity + 1
		l.records = l.records[drop:]
	}
	l.records = append(l.records, rec)
}

// Snapshot returns a copy of the current window, oldest first.
func (l *Log) Snapshot() []Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Len reports the number of records currently retained.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// DetectType buckets an inbound message by keyword for the analytics feed.
func DetectType(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "balance") || strings.Contains(m, "account"):
		return "account_inquiry"
	case strings.Contains(m, "complaint") || strings.Contains(m, "problem"):
		return "complaint"
	case strings.Contains(m, "consultation") || strings.Contains(m, "appointment"):
		return "booking"
	case strings.Contains(m, "contribution") || strings.Contains(m, "payment"):
		return "contributions"
	case strings.Contains(m, "agent") || strings.Contains(m, "human"):
		return "agent_request"
	default:
		return "general_inquiry"
	}
}
