package encryption

import (
	"fmt"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (dashboard.Encryptor, error) {
	switch cfg.Type {
	case "age", "":
		if cfg.RecipientPath == "" || cfg.IdentityPath == "" {
			return nil, fmt.Errorf("age encryption requires recipient_path and identity_path")
		}
		return NewAgeEncryptor(cfg), nil
	case "none":
		return NoneEncryptor{}, nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
