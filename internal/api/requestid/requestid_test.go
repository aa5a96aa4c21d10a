package requestid

import (
	"context"
	"testing"
)

func TestInjectExtract(t *testing.T) {
	ctx := InjectRequestID(context.Background(), 1234)
	if got := ExtractRequestID(ctx); got != 1234 {
		t.Errorf("ExtractRequestID() = %d, want 1234", got)
	}
	if got := String(ctx); got != "1234" {
		t.Errorf("String() = %q, want %q", got, "1234")
	}
}

func TestExtractMissing(t *testing.T) {
	if got := ExtractRequestID(context.Background()); got != 0 {
		t.Errorf("ExtractRequestID() = %d, want 0", got)
	}
}

func TestNewIsUnique(t *testing.T) {
	seen := make(map[uint64]bool)
	for range 1000 {
		id := New()
		if seen[id] {
			t.Fatalf("New() returned %d twice", id)
		}
		seen[id] = true
	}
}
