package interaction

import (
	"fmt"
	"strings"
	"testing"
)

func TestAppendEvictsOldestAtCapacity(t *testing.T) {
	l := NewLog(1000)

	for i := 0; i < 1500; i++ {
		l.Append(Record{InboundText: fmt.Sprintf("msg-%d", i)})
	}

	if got := l.Len(); got != 1000 {
		t.Fatalf("Len = %d, want 1000", got)
	}

	snap := l.Snapshot()
	for i, rec := range snap {
		want := fmt.Sprintf("msg-%d", i+500)
		if rec.InboundText != want {
			t.Fatalf("records[%d] = %q, want %q (oldest-first order broken)", i, rec.InboundText, want)
		}
	}
}

func TestAppendTruncatesOutbound(t *testing.T) {
	l := NewLog(10)
	l.Append(Record{OutboundText: strings.Repeat("x", 500)})

	snap := l.Snapshot()
	if len(snap[0].OutboundText) != 200 {
		t.Errorf("outbound length = %d, want 200", len(snap[0].OutboundText))
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	l := NewLog(10)
	l.Append(Record{InboundText: "a"})

	snap := l.Snapshot()
	snap[0].InboundText = "mutated"

	if l.Snapshot()[0].InboundText != "a" {
		t.Error("snapshot mutation leaked into the log")
	}
}

func TestNewLogDefaultCapacity(t *testing.T) {
	l := NewLog(0)
	for i := 0; i < DefaultCapacity+10; i++ {
		l.Append(Record{})
	}
	if got := l.Len(); got != DefaultCapacity {
		t.Errorf("Len = %d, want %d", got, DefaultCapacity)
	}
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"what is my balance", "account_inquiry"},
		{"I have a problem with the service", "complaint"},
		{"book an appointment please", "booking"},
		{"increase my contribution", "contributions"},
		{"let me talk to a human", "agent_request"},
		{"hello", "general_inquiry"},
	}

	for _, tt := range tests {
		if got := DetectType(tt.message); got != tt.want {
			t.Errorf("DetectType(%q) = %q, want %q", tt.message, got, tt.want)
		}
	}
}
