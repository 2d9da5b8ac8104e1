package util

import "testing"

func TestHashBytes(t *testing.T) {
	data := []byte("quarterly report")
	got := HashBytes(data)
	if got != HashBytes(data) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if HashBytes([]byte("other")) == got {
		t.Fatalf("expected different inputs to hash differently")
	}
}
