// Package vault maneja los payloads cifrados de los items y la extracción
// del material de recuperación para la divulgación.
package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// El payload usa el esquema placeholder del cliente web:
//
//	enc_<4 chars de la key>_<base64(json)>
//
// No es criptografía real y no pretende serlo; el formato se mantiene por
// compatibilidad con los payloads existentes.

var ErrMalformedPayload = errors.New("vault: malformed payload")

// Encode arma un payload en el formato placeholder. keyHint son los 4
// primeros caracteres de la key del cliente.
func Encode(data map[string]any, keyHint string) (string, error) {
	if len(keyHint) > 4 {
		keyHint = keyHint[:4]
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("vault: encode: %w", err)
	}
	return "enc_" + keyHint + "_" + base64.StdEncoding.EncodeToString(b), nil
}

// Decode abre un payload. El key hint viaja dentro del propio payload, así
// que no hace falta pasarlo.
func Decode(payload string) (map[string]any, error) {
	parts := strings.SplitN(payload, "_", 3)
	if len(parts) != 3 || parts[0] != "enc" {
		return nil, ErrMalformedPayload
	}
	raw, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	return out, nil
}
