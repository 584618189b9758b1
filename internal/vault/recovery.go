package vault

import (
	"fmt"

	"github.com/dropDatabas3/haven/internal/domain/repository"
)

// AggregateBackupCodes junta un backup code por item: el primer código de
// twoFactorBackups dentro del payload descifrado. La forma del payload es
// específica de cada proveedor; campos ausentes o malformados no aportan
// nada y nunca tiran error — la divulgación manda lo que haya.
func AggregateBackupCodes(items []repository.VaultItem) []string {
	var out []string
	for _, it := range items {
		if code, ok := firstBackupCode(it.EncryptedPayload); ok {
			out = append(out, code)
		}
	}
	return out
}

func firstBackupCode(payload string) (string, bool) {
	data, err := Decode(payload)
	if err != nil {
		return "", false
	}

	methods, ok := data["recoveryMethods"].(map[string]any)
	if !ok {
		return "", false
	}
	backups, ok := methods["twoFactorBackups"].([]any)
	if !ok || len(backups) == 0 {
		return "", false
	}

	switch v := backups[0].(type) {
	case string:
		return v, true
	case float64, int, int64:
		return fmt.Sprint(v), true
	default:
		return "", false
	}
}
