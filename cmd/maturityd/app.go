package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/mind-engage/mindengage-maturity/internal/assessment"
	authmw "github.com/mind-engage/mindengage-maturity/internal/auth/middleware"
	"github.com/mind-engage/mindengage-maturity/internal/config"
	"github.com/mind-engage/mindengage-maturity/internal/db"
	"github.com/mind-engage/mindengage-maturity/internal/metrics"
	"github.com/mind-engage/mindengage-maturity/internal/playbook"
	"github.com/mind-engage/mindengage-maturity/internal/report"
	"github.com/mind-engage/mindengage-maturity/internal/storage"
	syncx "github.com/mind-engage/mindengage-maturity/internal/sync"
)

// app holds the wired services shared by the router and background jobs.
type app struct {
	cfg     config.Config
	log     *zap.Logger
	db      *sql.DB
	metrics *metrics.Manager
	auth    *authmw.AuthService

	events      *syncx.EventRepo
	assessments *assessment.Service
	playbook    *playbook.Library
	reports     *report.Service
	archive     *report.Archive // nil unless ARCHIVE_REPORTS
}

func newApp(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	m := metrics.New()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	events := syncx.NewEventRepo(dbh, "")

	var kv assessment.KV = assessment.NewSQLKV(dbh)
	if cfg.StoreBackend == "memory" {
		kv = assessment.NewMemoryKV()
	}
	store := assessment.NewStore(kv,
		assessment.WithKey(cfg.StorageKey),
		assessment.WithStoreLogger(log),
		assessment.WithStoreMetrics(m),
	)
	svc := assessment.NewService(store,
		assessment.WithEvents(events),
		assessment.WithMetrics(m),
		assessment.WithLogger(log),
	)

	lib, err := newLibrary(cfg.PlaybookPath,
		playbook.WithOverrideStore(playbook.NewSQLOverrideStore(dbh)),
		playbook.WithMetrics(m),
		playbook.WithLogger(log),
	)
	if err != nil {
		_ = dbh.Close()
		return nil, err
	}
	if err := lib.LoadOverrides(ctx); err != nil {
		_ = dbh.Close()
		return nil, err
	}

	var archive *report.Archive
	if cfg.ArchiveReports {
		bs, err := storage.NewFSStore(cfg.BlobBasePath)
		if err != nil {
			_ = dbh.Close()
			return nil, fmt.Errorf("blob store: %w", err)
		}
		archive = report.NewArchive(bs)
	}
	reports := report.NewService(lib,
		report.WithArchive(archive),
		report.WithEvents(events),
		report.WithMetrics(m),
		report.WithLogger(log),
	)

	return &app{
		cfg:         cfg,
		log:         log,
		db:          dbh,
		metrics:     m,
		auth:        authmw.NewAuthService(cfg.Secret(), cfg.TokenTTL),
		events:      events,
		assessments: svc,
		playbook:    lib,
		reports:     reports,
		archive:     archive,
	}, nil
}

// newLibrary starts from the content file when one is configured, else
// from the built-in content.
func newLibrary(path string, opts ...playbook.LibraryOption) (*playbook.Library, error) {
	var base *playbook.Catalog
	if path != "" {
		c, err := playbook.LoadFile(path)
		if err != nil {
			return nil, err
		}
		base = c
		opts = append(opts, playbook.WithFile(path))
	}
	return playbook.NewLibrary(base, opts...), nil
}

func (a *app) Close() error { return a.db.Close() }
