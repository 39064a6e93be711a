package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/lovoo/goka"
	"github.com/niksmo/storefront/config"
	"github.com/niksmo/storefront/internal/adapter"
	"github.com/niksmo/storefront/internal/adapter/catalogdata"
	"github.com/niksmo/storefront/internal/adapter/httphandler"
	"github.com/niksmo/storefront/internal/adapter/kafka"
	"github.com/niksmo/storefront/internal/adapter/prefs"
	"github.com/niksmo/storefront/internal/adapter/sheets"
	"github.com/niksmo/storefront/internal/adapter/storage"
	"github.com/niksmo/storefront/internal/core/catalog"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/internal/core/service"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/redis/go-redis/v9"
)

type outbound struct {
	submitter port.Submitter
	prefs     port.PreferencesStore
	archive   port.OrderArchive
	orders    port.OrderEventsProducer
	requests  port.ProductRequestEmitter
}

type closers struct {
	redis *redis.Client
	sqldb *storage.SQLDB
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	catalog    *catalog.Catalog
	outbound   outbound
	closers    closers
	service    *service.Service
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initPrefs()
	app.initSubmitter()
	app.initArchive()
	app.initBroker()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	c := app.cfg.Catalog
	cat, err := catalogdata.Load(c.File, catalogdata.Defaults{
		Rate:           c.USDToDZDRate,
		ExternalOffset: c.ExternalOffset,
		LocalOffset:    c.LocalOffset,
	})
	if err != nil {
		app.fallDown(op, err)
	}

	external, local := cat.Len()
	slog.Info("catalog is loaded", "op", op, "external", external, "local", local)
	app.catalog = cat
}

func (app *App) initPrefs() {
	const op = "App.initPrefs"

	c := app.cfg.Prefs
	if c.RedisAddr == "" {
		slog.Info("redis is not configured, preferences are kept in memory", "op", op)
		app.outbound.prefs = prefs.NewMemoryStore()
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:     c.RedisAddr,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	})
	if err := client.Ping(app.ctx).Err(); err != nil {
		_ = client.Close()
		app.fallDown(op, err)
	}

	app.closers.redis = client
	app.outbound.prefs = prefs.NewRedisStore(client, c.KeyPrefix, c.RecentTTL)
}

func (app *App) initSubmitter() {
	const op = "App.initSubmitter"

	c := app.cfg.Submission
	client, err := sheets.New(
		c.Endpoint,
		sheets.TimeoutOpt(c.Timeout),
		sheets.BreakerOpt(c.BreakerMaxFailures, c.BreakerOpenInterval),
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.outbound.submitter = client
}

func (app *App) initArchive() {
	const op = "App.initArchive"
	log := slog.With("op", op)

	dsn := app.cfg.Archive.DSN
	if dsn == "" {
		log.Info("archive is disabled")
		return
	}

	db, err := storage.NewSQLDB(app.ctx, dsn)
	if err != nil {
		app.fallDown(op, err)
	}
	archive := storage.NewOrderArchive(db)

	n, err := archive.CountOrders(app.ctx)
	if err != nil {
		db.Close()
		app.fallDown(op, err)
	}
	log.Info("archive is ready", "orders", n)

	app.closers.sqldb = &db
	app.outbound.archive = archive
}

func (app *App) initBroker() {
	const op = "App.initBroker"

	b := app.cfg.Broker
	if !b.Enabled() {
		slog.Info("broker is disabled", "op", op)
		return
	}

	var tlsConfig *tls.Config
	if b.TLS.Enabled() {
		var err error
		tlsConfig, err = adapter.MakeTLSConfig(b.TLS.CA, b.TLS.Cert, b.TLS.Key)
		if err != nil {
			app.fallDown(op, err)
		}
	}

	identifier, err := schema.NewRegistryIdentifier(b.SchemaRegistryURLs...)
	if err != nil {
		app.fallDown(op, err)
	}

	orderSerde, err := schema.NewSerdeOrderV1(
		app.ctx,
		schema.SubjectOpt(b.Topics.Orders+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	requestSerde, err := schema.NewSerdeProductRequestV1(
		app.ctx,
		schema.SubjectOpt(b.Topics.ProductRequests+"-value"),
		schema.SchemaIdentifierOpt(identifier),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	orders, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(app.ctx, b.SeedBrokers, b.Topics.Orders, tlsConfig),
		kafka.ProducerEncoderOpt(orderSerde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	var emitterOpts []goka.EmitterOption
	if tlsConfig != nil {
		emitterOpts = append(emitterOpts, kafka.TLSEmitterOpt(tlsConfig))
	}
	requests, err := kafka.NewProductRequestEmitter(
		b.SeedBrokers, b.Topics.ProductRequests, requestSerde, emitterOpts...,
	)
	if err != nil {
		orders.Close()
		app.fallDown(op, err)
	}

	app.outbound.orders = orders
	app.outbound.requests = requests
}

func (app *App) initCoreService() {
	const op = "App.initCoreService"

	s := app.cfg.Storefront
	opts := []service.Opt{
		service.TimingsOpt(s.NotificationTimeout, s.UpdatePromptSnooze),
		service.RecentLimitOpt(s.RecentSearchLimit),
		service.SessionTTLOpt(s.SessionTTL),
	}
	if app.outbound.archive != nil {
		opts = append(opts, service.ArchiveOpt(app.outbound.archive))
	}
	if app.outbound.orders != nil {
		opts = append(opts, service.OrderEventsOpt(app.outbound.orders))
	}
	if app.outbound.requests != nil {
		opts = append(opts, service.ProductRequestsOpt(app.outbound.requests))
	}

	svc, err := service.New(
		app.catalog, app.outbound.submitter, app.outbound.prefs, opts...,
	)
	if err != nil {
		app.fallDown(op, err)
	}
	app.service = svc
}

func (app *App) initInboundAdapters() {
	mux := http.NewServeMux()
	httphandler.Register(mux, app.service)

	app.httpServer = httphandler.NewHTTPServer(
		app.cfg.HTTP.Addr, mux, app.cfg.HTTP.RequestTimeout,
	)
}

func (app *App) Run(stopFn context.CancelFunc) {
	go app.httpServer.Run(stopFn)

	slog.Info("application is running")
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	app.service.Close()
	if app.closers.sqldb != nil {
		app.closers.sqldb.Close()
	}
	if app.closers.redis != nil {
		if err := app.closers.redis.Close(); err != nil {
			slog.Error("failed to close redis client", "err", err)
		}
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
