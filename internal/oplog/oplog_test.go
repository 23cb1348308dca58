package oplog

import (
	"fmt"
	"sync"
	"testing"
)

func TestAppendNewestFirst(t *testing.T) {
	l := New()
	l.Append(SeverityInfo, "first")
	l.Append(SeveritySuccess, "second")
	l.Append(SeverityError, "third")

	got := l.Snapshot()
	if len(got) != 3 {
		t.Fatalf("Snapshot() returned %d entries, want 3", len(got))
	}
	wantOrder := []string{"third", "second", "first"}
	for i, msg := range wantOrder {
		if got[i].Message != msg {
			t.Errorf("entry %d message = %q, want %q", i, got[i].Message, msg)
		}
	}
	if got[0].Severity != SeverityError {
		t.Errorf("entry 0 severity = %v, want %v", got[0].Severity, SeverityError)
	}
}

func TestCapacityEviction(t *testing.T) {
	l := NewWithCapacity(3)
	for i := 1; i <= 5; i++ {
		l.Appendf(SeverityInfo, "entry %d", i)
	}

	got := l.Snapshot()
	if len(got) != 3 {
		t.Fatalf("Len after overflow = %d, want 3", len(got))
	}
	// Oldest two evicted; newest three retained in reverse insertion order.
	wantOrder := []string{"entry 5", "entry 4", "entry 3"}
	for i, msg := range wantOrder {
		if got[i].Message != msg {
			t.Errorf("entry %d message = %q, want %q", i, got[i].Message, msg)
		}
	}
}

func TestIDsMonotonic(t *testing.T) {
	l := NewWithCapacity(2)
	for i := 0; i < 4; i++ {
		l.Append(SeverityInfo, "x")
	}

	got := l.Snapshot()
	if got[0].ID != 4 || got[1].ID != 3 {
		t.Errorf("IDs = [%d %d], want [4 3]", got[0].ID, got[1].ID)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	l := New()
	l.Append(SeverityInfo, "original")

	snap := l.Snapshot()
	snap[0].Message = "mutated"

	if got := l.Snapshot()[0].Message; got != "original" {
		t.Errorf("log entry mutated through snapshot: %q", got)
	}
}

func TestConcurrentAppend(t *testing.T) {
	l := NewWithCapacity(50)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				l.Appendf(SeverityInfo, "worker %d op %d", n, j)
			}
		}(i)
	}
	wg.Wait()

	if got := l.Len(); got != 50 {
		t.Errorf("Len() = %d, want 50", got)
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		sev  Severity
		want string
	}{
		{SeverityInfo, "info"},
		{SeveritySuccess, "success"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.sev.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseSeverity(t *testing.T) {
	for _, sev := range []Severity{SeverityInfo, SeveritySuccess, SeverityWarning, SeverityError} {
		got, err := ParseSeverity(sev.String())
		if err != nil {
			t.Fatalf("ParseSeverity(%q) error: %v", sev.String(), err)
		}
		if got != sev {
			t.Errorf("ParseSeverity(%q) = %v, want %v", sev.String(), got, sev)
		}
	}

	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("ParseSeverity(\"fatal\") expected error, got nil")
	}
}

func TestMinimumCapacity(t *testing.T) {
	l := NewWithCapacity(0)
	l.Append(SeverityInfo, "a")
	l.Append(SeverityInfo, "b")

	got := l.Snapshot()
	if len(got) != 1 || got[0].Message != "b" {
		t.Errorf("Snapshot() = %v, want single entry %q", got, "b")
	}
}

func ExampleLog_Appendf() {
	l := NewWithCapacity(1)
	l.Appendf(SeveritySuccess, "downloaded %d files", 3)
	fmt.Println(l.Snapshot()[0].Message)
	// Output: downloaded 3 files
}
