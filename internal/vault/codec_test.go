package vault

import (
	"errors"
	"testing"
)

func TestEncodeDecode(t *testing.T) {
	in := map[string]any{
		"password": "hunter2",
		"recoveryMethods": map[string]any{
			"twoFactorBackups": []any{"12345678", "87654321"},
		},
	}

	payload, err := Encode(in, "mykey1234")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	// El hint se trunca a 4 caracteres.
	if payload[:9] != "enc_myke_" {
		t.Fatalf("payload prefix = %q", payload[:9])
	}

	out, err := Decode(payload)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["password"] != "hunter2" {
		t.Fatalf("password = %v", out["password"])
	}
}

func TestDecode_Malformed(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"enc_ab",               // sin cuerpo
		"xxx_abcd_aGVsbG8=",    // prefijo incorrecto
		"enc_abcd_%%%notb64%%", // base64 inválido
		"enc_abcd_aGVsbG8=",    // base64 válido pero no es JSON objeto
	}
	for _, payload := range cases {
		if _, err := Decode(payload); !errors.Is(err, ErrMalformedPayload) {
			t.Fatalf("Decode(%q) err = %v, want ErrMalformedPayload", payload, err)
		}
	}
}
