package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// DefaultParentID is the parent the CLI acts for when none is configured.
// It matches the parent of the demo dataset.
const DefaultParentID = "demo-parent"

// Config represents the main configuration for screentime.
type Config struct {
	BaseDir  string         `toml:"base_dir"`
	LogDir   string         `toml:"log_dir"`
	ParentID string         `toml:"parent_id" env:"SCREENTIME_PARENT_ID"`
	Provider ProviderConfig `toml:"provider"`
	Reports  ReportsConfig  `toml:"reports"`
	Server   ServerConfig   `toml:"server"`
}

// ProviderConfig selects where dashboard records come from.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ProviderConfig struct {
	Type string `toml:"type"` // "demo", "sqlite" or "postgres"

	// SQLite-specific fields (only used when Type == "sqlite")
	DataDir string `toml:"data_dir,omitempty"`

	// Postgres-specific fields (only used when Type == "postgres")
	DSN      string `toml:"dsn,omitempty" env:"SCREENTIME_DSN"`
	MaxConns int32  `toml:"max_conns,omitempty"`
	MinConns int32  `toml:"min_conns,omitempty"`

	// NotificationLimit bounds ListNotifications; zero means the default page size.
	NotificationLimit int `toml:"notification_limit,omitempty"`
}

// ReportsConfig represents configuration for the weekly report vault.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type ReportsConfig struct {
	Type string `toml:"type"` // "memory", "filesystem" or "s3"

	// FileSystem-specific fields (only used when Type == "filesystem")
	Root string `toml:"root,omitempty"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket string `toml:"s3_bucket,omitempty"`
	S3Prefix string `toml:"s3_prefix,omitempty"`
	S3Region string `toml:"s3_region,omitempty"`

	// S3Endpoint points at an S3-compatible service (MinIO, LocalStack).
	S3Endpoint string `toml:"s3_endpoint,omitempty"`

	// Static credentials; when empty the default AWS credential chain is used.
	S3AccessKeyID     string `toml:"-" env:"SCREENTIME_S3_ACCESS_KEY_ID"`
	S3SecretAccessKey string `toml:"-" env:"SCREENTIME_S3_SECRET_ACCESS_KEY"`

	Encryption EncryptionConfig `toml:"encryption"`
}

// EncryptionConfig holds paths to the age key pair used for report encryption.
type EncryptionConfig struct {
	Type          string `toml:"type"` // "age" (default) or "none"
	RecipientPath string `toml:"recipient_path,omitempty"`
	IdentityPath  string `toml:"identity_path,omitempty"`
}

// ServerConfig configures the JSON API.
type ServerConfig struct {
	Addr      string `toml:"addr" env:"SCREENTIME_ADDR"`
	JWTSecret string `toml:"jwt_secret,omitempty" env:"SCREENTIME_JWT_SECRET"`
}

// NewConfig creates a new Config rooted at baseDir with default paths.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		ParentID: DefaultParentID,
		Provider: ProviderConfig{
			Type:    "sqlite",
			DataDir: filepath.Join(baseDir, "db"),
		},
		Reports: ReportsConfig{
			Type: "filesystem",
			Root: filepath.Join(baseDir, "reports"),
			Encryption: EncryptionConfig{
				Type:          "age",
				RecipientPath: filepath.Join(baseDir, "keys", "reports.pub"),
				IdentityPath:  filepath.Join(baseDir, "keys", "reports.key"),
			},
		},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// ApplyEnv overrides config fields from SCREENTIME_* environment variables.
// Variables that are unset leave the field unchanged.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// applyEnvFrom is ApplyEnv with an explicit environment, for tests.
func applyEnvFrom(cfg *Config, environ map[string]string) error {
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	return nil
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to a new config file at path. It refuses to overwrite.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
