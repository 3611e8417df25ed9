package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"screentime-go/internal/config"
	"screentime-go/internal/dashboard"
	"screentime-go/internal/database"
	"screentime-go/internal/database/migrations"
	"screentime-go/internal/encryption"
	"screentime-go/internal/httpapi"
	"screentime-go/internal/model"
	"screentime-go/internal/provider"
	"screentime-go/internal/report"
	"screentime-go/internal/usage"
	"screentime-go/internal/vault"
)

// Options tune how an App is wired. Zero values select the real clock,
// UUIDs, os.Stderr and warning-level console logging.
type Options struct {
	Clock   dashboard.Clock
	IDGen   dashboard.IDGenerator
	Stderr  io.Writer
	Verbose bool
}

func (o *Options) defaults() {
	if o.Clock == nil {
		o.Clock = dashboard.RealClock{}
	}
	if o.IDGen == nil {
		o.IDGen = dashboard.UUIDGenerator{}
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
}

// App is the application layer between the CLI / JSON API and the dashboard
// Service. It constructs all dependencies from config, acts for the
// configured parent, and releases resources on Close.
type App struct {
	cfg       *config.Config
	clock     dashboard.Clock
	provider  dashboard.Provider
	service   *dashboard.Service
	encryptor dashboard.Encryptor
	vault     dashboard.Vault
	exporter  *report.Exporter
	logger    dashboard.Logger
	op        *Operation
	logFile   *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the command being run (e.g. "Overview", "Serve").
// The caller must call Close when done.
func NewApp(ctx context.Context, cfg *config.Config, operation string, opts Options) (*App, error) {
	opts.defaults()
	op := NewOperation(operation, opts.Clock.Now())

	level := slog.LevelWarn
	if opts.Verbose {
		level = slog.LevelDebug
	}
	sl, logFile, err := newLogger(cfg.LogDir, op.ID, opts.Stderr, level)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: sl}

	p, err := provider.NewProviderFromConfig(ctx, cfg.Provider, opts.Clock, opts.IDGen)
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("creating provider: %w", err)
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Reports.Encryption)
	if err != nil {
		p.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	v, err := vault.NewVaultFromConfig(ctx, cfg.Reports)
	if err != nil {
		p.Close()
		logFile.Close()
		return nil, fmt.Errorf("creating report vault: %w", err)
	}

	logger.Debug("app initialized", "operation", operation, "provider", cfg.Provider.Type, "reports", cfg.Reports.Type)

	return &App{
		cfg:       cfg,
		clock:     opts.Clock,
		provider:  p,
		service:   dashboard.NewService(p, usage.DefaultPalette(), logger, opts.Clock),
		encryptor: enc,
		vault:     v,
		exporter:  report.NewExporter(v, enc, logger),
		logger:    logger,
		op:        op,
		logFile:   logFile,
	}, nil
}

// Service returns the dashboard service, for the JSON API.
func (a *App) Service() *dashboard.Service { return a.service }

// Logger returns the app logger.
func (a *App) Logger() dashboard.Logger { return a.logger }

// ParentID is the parent the app acts for.
func (a *App) ParentID() string { return a.cfg.ParentID }

func (a *App) Overview(ctx context.Context) (*dashboard.Overview, error) {
	ov, err := a.service.Overview(ctx, a.cfg.ParentID)
	return ov, a.op.Fail(err)
}

func (a *App) ChildDetail(ctx context.Context, childID string) (*dashboard.ChildDetail, error) {
	d, err := a.service.ChildDetail(ctx, a.cfg.ParentID, childID)
	return d, a.op.Fail(err)
}

func (a *App) Notifications(ctx context.Context) (*dashboard.Feed, error) {
	feed, err := a.service.Notifications(ctx, a.cfg.ParentID)
	return feed, a.op.Fail(err)
}

// MarkAllRead loads the feed and marks every notification read.
func (a *App) MarkAllRead(ctx context.Context) (*dashboard.Feed, error) {
	feed, err := a.Notifications(ctx)
	if err != nil {
		return nil, err
	}
	feed, err = a.service.MarkAllRead(ctx, a.cfg.ParentID, feed)
	return feed, a.op.Fail(err)
}

func (a *App) SetRuleEnabled(ctx context.Context, ruleID string, enabled bool) error {
	return a.op.Fail(a.service.SetRuleEnabled(ctx, ruleID, enabled))
}

func (a *App) AddChild(ctx context.Context, child model.NewChild) (*model.Child, error) {
	c, err := a.service.AddChild(ctx, a.cfg.ParentID, child)
	return c, a.op.Fail(err)
}

func (a *App) Parent(ctx context.Context) (*model.Parent, error) {
	p, err := a.service.Parent(ctx, a.cfg.ParentID)
	return p, a.op.Fail(err)
}

// ExportReport builds this week's report and stores it encrypted.
// It returns the vault key written.
func (a *App) ExportReport(ctx context.Context) (string, *report.Report, error) {
	r, err := report.Generate(ctx, a.service, a.cfg.ParentID, a.clock.Now())
	if err != nil {
		return "", nil, a.op.Fail(err)
	}
	key, err := a.exporter.Export(ctx, r)
	if err != nil {
		return "", nil, a.op.Fail(err)
	}
	return key, r, nil
}

// ShowReport decrypts and returns a stored report. An empty key selects the
// parent's latest report.
func (a *App) ShowReport(ctx context.Context, key, passphrase string) (*report.Report, error) {
	if key == "" {
		latest, err := a.exporter.Latest(ctx, a.cfg.ParentID)
		if err != nil {
			return nil, a.op.Fail(err)
		}
		key = latest
	}
	dc, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return nil, a.op.Fail(fmt.Errorf("unlocking report key: %w", err))
	}
	r, err := a.exporter.Fetch(ctx, key, dc)
	return r, a.op.Fail(err)
}

// ListReports returns the keys of the parent's stored reports, oldest first.
func (a *App) ListReports(ctx context.Context) ([]string, error) {
	keys, err := a.exporter.List(ctx, a.cfg.ParentID)
	return keys, a.op.Fail(err)
}

// NeedsPassphrase reports whether reading reports requires unlocking a key.
func (a *App) NeedsPassphrase() bool {
	return a.encryptor.Extension() != ""
}

// Keygen generates the report key pair. For age encryption it returns the
// new recipient.
func (a *App) Keygen(passphrase string) (string, error) {
	if err := a.encryptor.Setup(passphrase); err != nil {
		return "", a.op.Fail(fmt.Errorf("generating report keys: %w", err))
	}
	a.logger.Info("report keys generated")
	if ae, ok := a.encryptor.(*encryption.AgeEncryptor); ok {
		return ae.Recipient()
	}
	return "", nil
}

// CheckVault verifies the report vault is reachable and writable.
func (a *App) CheckVault(ctx context.Context) error {
	if err := a.vault.ValidateSetup(ctx); err != nil {
		return a.op.Fail(fmt.Errorf("validating report vault: %w", err))
	}
	return nil
}

// IssueToken mints an API token for the configured parent.
func (a *App) IssueToken(ttl time.Duration) (string, error) {
	token, err := httpapi.IssueToken([]byte(a.cfg.Server.JWTSecret), a.cfg.ParentID, ttl, a.clock.Now())
	if err != nil {
		return "", a.op.Fail(fmt.Errorf("issuing token: %w", err))
	}
	return token, nil
}

// Serve runs the JSON API on the configured address until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	if a.cfg.Server.JWTSecret == "" {
		return a.op.Fail(errors.New("server.jwt_secret is not configured (set SCREENTIME_JWT_SECRET)"))
	}
	srv := httpapi.NewServer(a.service, []byte(a.cfg.Server.JWTSecret), a.logger)
	return a.op.Fail(httpapi.Run(ctx, a.cfg.Server.Addr, srv.Router(), a.logger))
}

// Fail records an error raised outside the App's own methods, such as an
// HTTP server failure, against the operation.
func (a *App) Fail(err error) error { return a.op.Fail(err) }

// Close logs the operation outcome and releases the provider and log file.
func (a *App) Close() error {
	a.op.Finish(a.logger, a.clock.Now())

	var firstErr error
	if err := a.provider.Close(); err != nil {
		firstErr = fmt.Errorf("closing provider: %w", err)
	}
	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}
	return firstErr
}

// MigrateDatabase applies pending schema migrations to the configured SQLite
// store and returns the resulting schema version.
func MigrateDatabase(cfg *config.Config) (uint, error) {
	p, err := database.NewSQLiteProviderFromConfig(cfg.Provider, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("opening database: %w", err)
	}
	defer p.Close()

	if err := p.Migrate(); err != nil {
		return 0, err
	}
	return migrations.LatestVersion()
}

// SeedDatabase replaces the configured parent's records in the SQLite store
// with the demo dataset, timestamped relative to clock.Now(). A parent other
// than the demo parent gets the dataset under IDs prefixed with its own.
func SeedDatabase(ctx context.Context, cfg *config.Config, clock dashboard.Clock) error {
	if clock == nil {
		clock = dashboard.RealClock{}
	}
	p, err := database.NewSQLiteProviderFromConfig(cfg.Provider, clock, nil)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer p.Close()

	if err := p.CheckMigrations(); err != nil {
		return fmt.Errorf("database schema out of date (run `screentime db migrate`): %w", err)
	}

	ds := provider.DemoDataset().Rehome(cfg.ParentID)
	return p.Seed(ctx, ds, clock.Now())
}
