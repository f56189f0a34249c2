package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"post_syncer/internal/config"
	"post_syncer/internal/extension"
	"post_syncer/internal/extension/metafields"
	"post_syncer/internal/httpapi"
	"post_syncer/internal/metrics"
	"post_syncer/internal/publisher"
	"post_syncer/internal/service"
	"post_syncer/internal/source/wp"
	"post_syncer/internal/storage/memory"
	"post_syncer/internal/storage/objectstore"
	"post_syncer/internal/storage/postgres"
)

type metaStore interface {
	service.EntityStore
	metafields.MetaWriter
}

type blobStore interface {
	service.BlobStore
	httpapi.BlobReader
}

type mediaStore interface {
	service.MediaStore
	httpapi.MediaReader
}

type localStores struct {
	entities  metaStore
	media     mediaStore
	blobs     blobStore
	terms     service.TermStore
	journal   service.StepJournal
	txManager service.TransactionManager
}

// app holds everything a sync process needs, wired from config.
type app struct {
	cfg      *config.Config
	service  *service.SyncService
	stores   localStores
	registry *prometheus.Registry
	logger   *slog.Logger
	closers  []func() error
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, setupLogger(cfg.LogLevel), nil
}

func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		logger:   logger,
	}
	a.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(a.registry)

	stores, err := a.openStores(ctx)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.stores = stores

	var after *time.Time
	if t, ok := cfg.Source.After(); ok {
		after = &t
	}
	source := wp.New(wp.Config{
		BaseURL:           cfg.Source.BaseURL,
		Namespace:         cfg.Source.APINamespace,
		PerPage:           cfg.Source.PerPage,
		After:             after,
		Timeout:           cfg.Source.Timeout,
		RequestsPerSecond: cfg.Source.RequestsPerSecond,
	}, logger)

	registry, err := a.buildExtensions(source, m)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.service = service.NewSyncService(
		source,
		service.Stores{
			Entities:  stores.entities,
			Media:     stores.media,
			Blobs:     stores.blobs,
			Terms:     stores.terms,
			Journal:   stores.journal,
			TxManager: stores.txManager,
		},
		registry,
		m,
		logger,
		cfg.Source.Targets,
	)

	logger.Info("sync engine ready",
		"source", source.BaseURL(),
		"targets", cfg.Source.Targets,
		"storage", cfg.Storage.Driver,
		"extensions", registry.Names(),
	)
	return a, nil
}

func (a *app) openStores(ctx context.Context) (localStores, error) {
	if a.cfg.Storage.Driver == "memory" {
		db := memory.New()
		a.logger.Warn("using in-memory storage, synced content is lost on exit")
		return localStores{
			entities:  db.Entities(),
			media:     db.Media(),
			blobs:     db.Blobs(),
			terms:     db.Terms(),
			journal:   db.Journal(),
			txManager: db.TxManager(),
		}, nil
	}

	db, err := sqlx.Connect("postgres", a.cfg.Database.DSN())
	if err != nil {
		return localStores{}, fmt.Errorf("connect to database: %w", err)
	}
	a.closers = append(a.closers, db.Close)

	if err := db.PingContext(ctx); err != nil {
		return localStores{}, fmt.Errorf("ping database: %w", err)
	}
	a.logger.Info("connected to database")

	blobs, err := objectstore.New(objectstore.Config{
		Endpoint:  a.cfg.Media.Endpoint,
		AccessKey: a.cfg.Media.AccessKey,
		SecretKey: a.cfg.Media.SecretKey,
		Bucket:    a.cfg.Media.Bucket,
		UseSSL:    a.cfg.Media.UseSSL,
	}, a.logger)
	if err != nil {
		return localStores{}, fmt.Errorf("create object store: %w", err)
	}
	if err := blobs.EnsureBucket(ctx); err != nil {
		return localStores{}, fmt.Errorf("ensure media bucket: %w", err)
	}

	return localStores{
		entities:  postgres.NewEntityStore(db),
		media:     postgres.NewMediaStore(db),
		blobs:     blobs,
		terms:     postgres.NewTermStore(db),
		journal:   postgres.NewStepJournal(db),
		txManager: postgres.NewTransactionManager(db),
	}, nil
}

func (a *app) buildExtensions(source *wp.Client, m *metrics.Metrics) (*extension.Registry, error) {
	registry := extension.NewRegistry(m, a.logger)

	for _, name := range a.cfg.Source.Extensions {
		switch name {
		case metafields.Name:
			registry.Register(metafields.Name, metafields.New(source, a.stores.entities, a.logger))
		default:
			return nil, fmt.Errorf("unknown extension %q", name)
		}
	}

	if a.cfg.RabbitMQ.Enabled {
		pub, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        a.cfg.RabbitMQ.URL,
			Exchange:   a.cfg.RabbitMQ.Exchange,
			RoutingKey: a.cfg.RabbitMQ.RoutingKey,
			QueueName:  a.cfg.RabbitMQ.QueueName,
		}, a.logger)
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		a.closers = append(a.closers, pub.Close)
		registry.Register(publisher.Name, pub)
	}

	return registry, nil
}

// Close releases connections in reverse order of opening.
func (a *app) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, a.closers[i]())
	}
	return err
}
