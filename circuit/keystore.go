package circuit

import "os"

// KeyPaths holds the on-disk locations of the Groth16 proving and verifying
// keys for one (transactionLen, recipientCount) relation shape, generalized
// from internal/zerocash's key-path conventions.
type KeyPaths struct {
	ProvingKeyPath   string
	VerifyingKeyPath string
}

const (
	envProvingKeyPath   = "TXE_PROVING_KEY_PATH"
	envVerifyingKeyPath = "TXE_VERIFYING_KEY_PATH"

	defaultProvingKeyPath   = "txe_relation.pk"
	defaultVerifyingKeyPath = "txe_relation.vk"
)

// DefaultKeyPaths returns the proving/verifying key paths, overridable via
// TXE_PROVING_KEY_PATH and TXE_VERIFYING_KEY_PATH.
func DefaultKeyPaths() KeyPaths {
	return KeyPaths{
		ProvingKeyPath:   getenvOr(envProvingKeyPath, defaultProvingKeyPath),
		VerifyingKeyPath: getenvOr(envVerifyingKeyPath, defaultVerifyingKeyPath),
	}
}

func getenvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
