package providers

import (
	"encoding/json"
	"sort"
	"testing"
)

func TestPart_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		part Part
		want string
	}{
		{"text", TextPart("hi"), `{"text":"hi"}`},
		{"empty text keeps key", TextPart(""), `{"text":""}`},
		{"inline", InlinePart("image/png", "AAAA"), `{"inline_data":{"mime_type":"image/png","data":"AAAA"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.part)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(b) != tt.want {
				t.Errorf("got %s, want %s", b, tt.want)
			}
		})
	}
}

func TestPart_UnmarshalResponse(t *testing.T) {
	var c Content
	if err := json.Unmarshal([]byte(`{"role":"model","parts":[{"text":"hello"}]}`), &c); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if c.Role != RoleModel || len(c.Parts) != 1 || c.Parts[0].Text != "hello" {
		t.Errorf("unexpected content %+v", c)
	}
}

func TestKeyPool_Shuffled(t *testing.T) {
	keys := []string{"a", "b", "c", "d"}
	pool := NewKeyPool(keys)

	got := pool.Shuffled()
	got[0] = "mutated"
	again := pool.Shuffled()
	sort.Strings(again)
	if len(again) != 4 || again[0] != "a" || again[3] != "d" {
		t.Errorf("pool was mutated through a shuffled copy: %v", again)
	}

	keys[0] = "changed"
	for _, k := range pool.Shuffled() {
		if k == "changed" {
			t.Error("pool aliases the caller's slice")
		}
	}
}

func TestKeyPool_Ordered(t *testing.T) {
	pool := NewOrderedKeyPool([]string{"k1", "k2", "k3"})
	for i := 0; i < 3; i++ {
		got := pool.Shuffled()
		if got[0] != "k1" || got[1] != "k2" || got[2] != "k3" {
			t.Fatalf("expected stable order, got %v", got)
		}
	}
	if pool.Len() != 3 {
		t.Errorf("Len() = %d, want 3", pool.Len())
	}
}

func TestKeyPool_Nil(t *testing.T) {
	var pool *KeyPool
	if pool.Len() != 0 || pool.Shuffled() != nil {
		t.Error("nil pool should be empty")
	}
}

func TestFingerprint(t *testing.T) {
	if got := Fingerprint("AIzaSyABCDEFG"); got != "AIzaSy…" {
		t.Errorf("Fingerprint = %q", got)
	}
	if got := Fingerprint("abc"); got != "…(3)" {
		t.Errorf("Fingerprint short = %q", got)
	}
}

func TestContainsError(t *testing.T) {
	if !ContainsError(ErrorSentinel) {
		t.Error("sentinel must contain the error tag")
	}
	if !ContainsError("partial [Error: boom] text") {
		t.Error("expected substring match")
	}
	if ContainsError("error: lowercase") {
		t.Error("unexpected match")
	}
}
