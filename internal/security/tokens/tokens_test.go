package tokens

import (
	"strconv"
	"testing"
)

func TestNewWellnessToken(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok, err := NewWellnessToken()
		if err != nil {
			t.Fatalf("token: %v", err)
		}
		if len(tok) != 6 {
			t.Fatalf("token %q, want 6 dígitos", tok)
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 100000 || n > 999999 {
			t.Fatalf("token %q fuera de rango", tok)
		}
		seen[tok] = true
	}
	// 200 tokens sobre 900000 valores posibles: colisión total sería un
	// generador roto.
	if len(seen) < 100 {
		t.Fatalf("sólo %d tokens distintos en 200 muestras", len(seen))
	}
}
