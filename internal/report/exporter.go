package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"screentime-go/internal/dashboard"
)

// Exporter writes reports to a vault through an encryptor.
type Exporter struct {
	vault     dashboard.Vault
	encryptor dashboard.Encryptor
	logger    dashboard.Logger
}

// NewExporter creates an Exporter with the provided dependencies.
func NewExporter(vault dashboard.Vault, encryptor dashboard.Encryptor, logger dashboard.Logger) *Exporter {
	return &Exporter{vault: vault, encryptor: encryptor, logger: logger}
}

// Prefix returns the vault key prefix holding a parent's reports.
func Prefix(parentID string) string {
	return path.Join("reports", parentID) + "/"
}

// Key returns the vault key of a report:
// reports/<parentID>/<YYYY-MM-DD>.json<ext>.
func Key(parentID, weekEnding, ext string) string {
	return Prefix(parentID) + weekEnding + ".json" + ext
}

// Export encrypts the report and stores it, replacing any report for the
// same week. It returns the key written.
func (e *Exporter) Export(ctx context.Context, r *Report) (string, error) {
	if !e.encryptor.IsConfigured() {
		return "", fmt.Errorf("report encryption is not set up (run `screentime report keygen`)")
	}

	plain, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding report: %w", err)
	}

	var sealed bytes.Buffer
	if err := e.encryptor.Encrypt(bytes.NewReader(plain), &sealed); err != nil {
		return "", fmt.Errorf("encrypting report: %w", err)
	}

	key := Key(r.ParentID, r.WeekEnding, e.encryptor.Extension())
	size := int64(sealed.Len())
	if err := e.vault.Put(ctx, key, &sealed, size); err != nil {
		return "", fmt.Errorf("storing report: %w", err)
	}

	e.logger.Info("report exported", "key", key, "bytes", size, "children", len(r.Children))
	return key, nil
}

// Fetch reads the report stored under key and decrypts it with dc.
func (e *Exporter) Fetch(ctx context.Context, key string, dc dashboard.DecryptionContext) (*Report, error) {
	var sealed bytes.Buffer
	if err := e.vault.Get(ctx, key, &sealed); err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}

	var plain bytes.Buffer
	if err := dc.Decrypt(&sealed, &plain); err != nil {
		return nil, fmt.Errorf("decrypting report: %w", err)
	}

	var r Report
	if err := json.Unmarshal(plain.Bytes(), &r); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}
	return &r, nil
}

// List returns the keys of a parent's reports, oldest first.
func (e *Exporter) List(ctx context.Context, parentID string) ([]string, error) {
	keys, err := e.vault.List(ctx, Prefix(parentID))
	if err != nil {
		return nil, fmt.Errorf("listing reports: %w", err)
	}
	out := keys[:0]
	for _, k := range keys {
		if strings.HasSuffix(k, ".json"+e.encryptor.Extension()) {
			out = append(out, k)
		}
	}
	return out, nil
}

// Latest returns the key of the parent's most recent report, or an error
// wrapping ErrNotFound if none exists.
func (e *Exporter) Latest(ctx context.Context, parentID string) (string, error) {
	keys, err := e.List(ctx, parentID)
	if err != nil {
		return "", err
	}
	if len(keys) == 0 {
		return "", fmt.Errorf("reports for %s: %w", parentID, dashboard.ErrNotFound)
	}
	return keys[len(keys)-1], nil
}
