package internal

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/multierr"

	"github.com/liftlog-app/backend/internal/auth"
	"github.com/liftlog-app/backend/internal/backup"
	"github.com/liftlog-app/backend/internal/config"
	"github.com/liftlog-app/backend/internal/db"
	"github.com/liftlog-app/backend/internal/geoip"
	"github.com/liftlog-app/backend/internal/middleware"
	"github.com/liftlog-app/backend/internal/misc"
	"github.com/liftlog-app/backend/internal/notifications"
	"github.com/liftlog-app/backend/internal/notifications/history"
	notificationsmcp "github.com/liftlog-app/backend/internal/notifications/mcp"
	"github.com/liftlog-app/backend/internal/telemetry/metrics"
	"github.com/liftlog-app/backend/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	appSecret         string // used by the mobile app when scheduling notifications
	versionInfo       string

	config        *config.Config
	dbPool        *pgxpool.Pool
	geoIp         *geoip.Api
	quotesManager *misc.QuotesManager

	redisClient  *redis.Client
	loginChecker *auth.LoginChecker
	authService  *auth.Service

	deliveryLog *history.Service
	scheduler   *notifications.Scheduler
	backupCron  *cron.Cron

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	IpInfoAPIKey            string
	AppSecret               string
	VersionInfo             string
	AdminUsername           string
	AdminPasswordHash       string
	RedisPassword           string
	PushGatewayClientSecret string
	BackupDriveShareEmail   string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": "liftlog_db"},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("backend", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0) // will be set to 1 when all is set and ran

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	authService := auth.NewAuthService(&auth.Admin{
		Username:     params.AdminUsername,
		PasswordHash: params.AdminPasswordHash,
	}, auth.DefaultTTL, rdb)
	go func() {
		for range time.Tick(time.Hour * 8) {
			authService.ScanAndClean(ctx)
		}
	}()

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "liftlog-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}

	deliveryLog := history.NewService(history.NewRepo(dbPool))

	deliveryMode := params.Config.NotificationsDeliveryMode
	modeFunc := func() notifications.Mode {
		if deliveryMode == string(notifications.ModePush) {
			return notifications.ModePush
		}
		return notifications.ModeLocal
	}

	gateway := notifications.NewHTTPPushGateway(
		params.Config.PushGatewayBaseURL,
		notifications.NewGatewayHTTPClient(
			params.Config.PushGatewayTokenURL,
			params.Config.PushGatewayClientID,
			params.PushGatewayClientSecret,
		),
	)

	display := notifications.NewRecordingDisplay(
		notifications.NewBeeepDisplay(),
		&firedRecorderAdapter{deliveryLog: deliveryLog},
	)

	s := &Server{
		config:    params.Config,
		dbPool:    dbPool,
		appSecret: params.AppSecret,
		geoIp: geoip.NewApi(
			params.IpInfoAPIKey,
			tracedHttpClient,
			rdb,
		),
		versionInfo: params.VersionInfo,

		redisClient:  rdb,
		authService:  authService,
		loginChecker: auth.NewLoginChecker(auth.DefaultTTL, rdb),

		deliveryLog: deliveryLog,
		scheduler:   notifications.NewScheduler(modeFunc, gateway, display, metricsManager),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	quotesCsvFile, err := os.Open(params.Config.QuotesCsvPath)
	if err != nil {
		return nil, fmt.Errorf("open quotes file: %w", err)
	}
	defer func() {
		if err := quotesCsvFile.Close(); err != nil {
			log.Warnf("close quotes csv file: %s", err)
		}
	}()

	s.quotesManager, err = misc.NewQuoteManager(csv.NewReader(quotesCsvFile))
	if err != nil {
		return nil, fmt.Errorf("failed to create quote manager: %s", err)
	}

	if params.Config.BackupEnabled {
		if err := s.setupBackupCron(ctx, params); err != nil {
			return nil, fmt.Errorf("setup backup cron: %w", err)
		}
	}

	return s, nil
}

// firedRecorderAdapter feeds locally fired notifications into the delivery log.
type firedRecorderAdapter struct {
	deliveryLog *history.Service
}

func (a *firedRecorderAdapter) RecordFired(ctx context.Context, handle notifications.Handle, title string) {
	a.deliveryLog.RecordFired(ctx, int64(handle), title)
}

func (s *Server) setupBackupCron(ctx context.Context, params NewServerParams) error {
	var sink backup.Sink
	switch s.config.BackupSink {
	case "drive":
		credsJson, err := os.ReadFile(s.config.BackupDriveCredsPath)
		if err != nil {
			return fmt.Errorf("read drive credentials: %w", err)
		}
		sink, err = backup.NewDriveSink(ctx, credsJson, params.BackupDriveShareEmail)
		if err != nil {
			return fmt.Errorf("new drive sink: %w", err)
		}
	case "s3":
		var err error
		sink, err = backup.NewS3Sink(ctx, backup.S3Config{
			Region: s.config.BackupS3Region,
			Bucket: s.config.BackupS3Bucket,
			Prefix: "delivery-log",
		})
		if err != nil {
			return fmt.Errorf("new s3 sink: %w", err)
		}
	default:
		return fmt.Errorf("unknown backup sink: %s", s.config.BackupSink)
	}

	backupService := backup.NewService(s.deliveryLog, sink)
	s.backupCron = cron.New()
	_, err := s.backupCron.AddFunc(s.config.BackupCronSchedule, func() {
		res, err := backupService.Run(ctx, time.Now())
		if err != nil {
			log.Errorf("delivery log backup: %s", err)
			return
		}
		s.metricsManager.CounterEventsBackups.Add(float64(res.Events))
		s.metricsManager.HistBackupDuration.Observe(res.Duration.Seconds())
		log.Infof("delivery log backup done, %d events in %s", res.Events, res.Duration)
	})
	if err != nil {
		return fmt.Errorf("add backup cron func [%s]: %w", s.config.BackupCronSchedule, err)
	}

	return nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	reqRateLimiter := redis_rate.NewLimiter(s.redisClient)
	miscHandler := misc.NewHandler(s.geoIp, s.quotesManager, s.versionInfo, s.authService)
	miscHandler.SetupRoutes(r, reqRateLimiter, s.metricsManager)

	notificationsHandler := notifications.NewHandler(s.scheduler, s.deliveryLog)
	notificationsHandler.SetupRoutes(r)

	historyHandler := history.NewHandler(s.deliveryLog)
	historyHandler.SetupRoutes(r)

	// the notifications MCP server, reachable over streamable HTTP;
	// the same server also runs over stdio via cmd/notifications_mcp
	mcpServer := notificationsmcp.NewServer(s.dbPool, s.deliveryLog)
	mcpHandler := mcpsdk.NewStreamableHTTPHandler(func(*http.Request) *mcpsdk.Server {
		return mcpServer
	}, nil)
	r.PathPrefix("/mcp").Handler(mcpHandler)

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(
		s.appSecret,
		s.loginChecker,
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors())
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) Serve(ctx context.Context, host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:    metricsAddr,
		Handler: metricsRouter,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	if s.backupCron != nil {
		s.backupCron.Start()
		log.Debugf("backup cron started: %s", s.config.BackupCronSchedule)
	}

	s.metricsManager.GaugeLifeSignal.Set(1)

	// delivery log backup reports unix socket
	s.setBackupReportUnixSocket(ctx)
}

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	var shutdownErr error

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.backupCron != nil {
		cronCtx := s.backupCron.Stop()
		select {
		case <-cronCtx.Done():
		case <-time.After(10 * time.Second):
			log.Errorln("backup cron jobs did not finish in time")
		}
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("close redis client: %w", err))
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	log.Debugln("removing backup report unix socket ...")
	if err := os.RemoveAll(s.config.BackupUnixSocketAddrDir); err != nil {
		shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("cleanup backup report unix socket dir: %w", err))
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown http server: %w", err))
	}
	log.Warnln("server shut down")

	if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
		shutdownErr = multierr.Append(shutdownErr, fmt.Errorf("shutdown metrics http server: %w", err))
	}
	log.Warnln("metrics server shut down")

	return shutdownErr
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}

func (s *Server) setBackupReportUnixSocket(ctx context.Context) {
	if err := os.MkdirAll(s.config.BackupUnixSocketAddrDir, os.ModePerm); err != nil {
		log.Errorf("failed to create backup report unix socket dir: %s", err)
		return
	}

	if addr, err := backup.ReportUnixSocketListenerSetup(
		ctx,
		s.config.BackupUnixSocketAddrDir,
		s.config.BackupUnixSocketFileName,
		s.metricsManager,
	); err != nil {
		log.Errorf("failed to create backup report unix socket: %s", err)
	} else {
		log.Debugf("backup report unix socket: %s", addr)
	}
}
