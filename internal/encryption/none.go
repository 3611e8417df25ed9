package encryption

import (
	"fmt"
	"io"

	"screentime-go/internal/dashboard"
)

// NoneEncryptor stores reports as plaintext JSON. It needs no keys.
type NoneEncryptor struct{}

var _ dashboard.Encryptor = NoneEncryptor{}

func (NoneEncryptor) Setup(string) error { return nil }

func (NoneEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	return nil
}

func (NoneEncryptor) Unlock(string) (dashboard.DecryptionContext, error) {
	return plaintext{}, nil
}

func (NoneEncryptor) IsConfigured() bool { return true }

func (NoneEncryptor) Extension() string { return "" }

type plaintext struct{}

func (plaintext) Decrypt(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying report: %w", err)
	}
	return nil
}
