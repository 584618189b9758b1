// Package tokens genera los tokens opacos de wellness.
package tokens

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

// NewWellnessToken genera un token numérico de 6 dígitos (100000-999999).
// La probabilidad de colisión entre usuarios es no-nula y aceptada: el token
// gatea un reset o una divulgación manual, no una sesión.
func NewWellnessToken() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
