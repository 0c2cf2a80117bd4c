package util

import "testing"

func TestHashUserKey(t *testing.T) {
	id := "browser-7f3c"
	got := HashUserKey(id)
	if got != HashUserKey(id) {
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
}

func TestHashUserKeyDistinguishesClients(t *testing.T) {
	if HashUserKey("client-a") == HashUserKey("client-b") {
		t.Fatalf("expected different hashes for different clients")
	}
}
