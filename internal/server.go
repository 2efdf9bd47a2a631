package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/gymplanner/internal/auth"
	"github.com/2beens/gymplanner/internal/config"
	"github.com/2beens/gymplanner/internal/db"
	"github.com/2beens/gymplanner/internal/gymstats/events"
	gymstatsmcp "github.com/2beens/gymplanner/internal/gymstats/mcp"
	"github.com/2beens/gymplanner/internal/gymstats/performance"
	"github.com/2beens/gymplanner/internal/gymstats/plans"
	"github.com/2beens/gymplanner/internal/gymstats/records"
	"github.com/2beens/gymplanner/internal/gymstats/session"
	"github.com/2beens/gymplanner/internal/middleware"
	"github.com/2beens/gymplanner/internal/misc"
	"github.com/2beens/gymplanner/internal/notify"
	"github.com/2beens/gymplanner/internal/telemetry/metrics"
	"github.com/2beens/gymplanner/internal/telemetry/tracing"
)

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	adminSecret       string
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	authService *auth.Service

	// gym planner
	plansService  *plans.Service
	recordsRepo   *records.CachedRepo
	eventsService *events.Service
	sessions      *session.Registry
	sweeper       *session.Sweeper
	sweeperCancel context.CancelFunc

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	AdminSecret             string
	DBPassword              string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	dbParams := db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	}
	dbPool, err := db.NewDBPool(ctx, dbParams)
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if err := db.RunMigrations(db.ConnString(dbParams), cfg.MigrationsPath); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("gymplanner", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "gymplanner-backend", rdb)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   15 * time.Second,
	}

	var sender notify.Sender = notify.LogSender{}
	if cfg.PushGatewayURL != "" {
		sender = notify.NewPushGatewaySender(cfg.PushGatewayURL, tracedHttpClient)
	} else {
		log.Warnln("push gateway url not set, session summaries will only be logged")
	}

	eventsService := events.NewService(events.NewRepo(dbPool))
	recordsRepo := records.NewCachedRepo(records.NewRepo(dbPool), cfg.RecordsCacheSizeMB)
	plansRepo := plans.NewRepo(dbPool)

	deadlines := session.NewRedisDeadlineStore(rdb)
	registry := session.NewRegistry(session.RegistryParams{
		Inactivity:        cfg.SessionInactivity(),
		MinNotifyDuration: cfg.SessionMinNotifyMinutes,
		FinalizeTimeout:   cfg.SessionFinalizeTimeout(),
		Clock:             session.RealClock(),
		DayStore:          plans.NewDayStore(plansRepo),
		Sender:            sender,
		Deadlines:         deadlines,
		Events:            eventsService,
		Metrics:           metricsManager,
	})

	plansService := plans.NewService(
		plansRepo,
		records.NewEvaluator(recordsRepo),
		registry,
		eventsService,
		metricsManager,
	)

	return &Server{
		config:      cfg,
		dbPool:      dbPool,
		adminSecret: params.AdminSecret,
		versionInfo: params.VersionInfo,

		redisClient: rdb,
		authService: auth.NewService(auth.DefaultTTL, rdb),

		plansService:  plansService,
		recordsRepo:   recordsRepo,
		eventsService: eventsService,
		sessions:      registry,
		sweeper:       session.NewSweeper(registry, deadlines, cfg.SessionSweepInterval()),

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("gymplanner-router"))

	miscHandler := misc.NewHandler(s.versionInfo, s.healthChecks())
	r.HandleFunc("/", miscHandler.HandleRoot).Methods("GET", "OPTIONS").Name("root")
	r.HandleFunc("/version", miscHandler.HandleVersion).Methods("GET", "OPTIONS").Name("version")
	r.HandleFunc("/health", miscHandler.HandleHealth).Methods("GET", "OPTIONS").Name("health")

	plansHandler := plans.NewHandler(s.plansService)
	r.HandleFunc("/plans", plansHandler.HandleCreate).Methods("POST", "OPTIONS").Name("create-plan")
	r.HandleFunc("/plans/{id}", plansHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-plan")
	r.HandleFunc("/plans/{id}/progression", plansHandler.HandleProgression).Methods("POST", "OPTIONS").Name("apply-progression")
	r.HandleFunc("/days/{dayId}", plansHandler.HandleGetDay).Methods("GET", "OPTIONS").Name("get-day")

	// edits come in on every keystroke the app debounces, so they are limited per user
	editLimiter := middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		s.metricsManager,
		"edit-day",
		s.config.EditRateLimitAllowedPerMin,
	)
	r.Handle(
		"/plans/{id}/weeks/{week}/days/{day}",
		editLimiter(http.HandlerFunc(plansHandler.HandleEditDay)),
	).Methods("PATCH", "OPTIONS").Name("edit-day")

	calcHandler := performance.NewHandler()
	r.HandleFunc("/calc/estimated-max", calcHandler.HandleEstimatedMax).Methods("GET", "OPTIONS").Name("calc-estimated-max")
	r.HandleFunc("/calc/backoff", calcHandler.HandleBackoff).Methods("GET", "OPTIONS").Name("calc-backoff")

	recordsHandler := records.NewHandler(s.recordsRepo)
	r.HandleFunc("/records", recordsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-records")
	r.HandleFunc("/records/{exercise}", recordsHandler.HandleGet).Methods("GET", "OPTIONS").Name("get-record")

	eventsHandler := events.NewHandler(s.eventsService)
	r.HandleFunc("/events/list/page/{page}/size/{size}", eventsHandler.HandleList).Methods("GET", "OPTIONS").Name("list-events")

	authHandler := auth.NewHandler(s.authService, s.adminSecret)
	r.HandleFunc("/a/token", authHandler.HandleIssueToken).Methods("POST", "OPTIONS").Name("issue-token")
	r.HandleFunc("/a/revoke", authHandler.HandleRevoke).Methods("POST", "OPTIONS").Name("revoke-tokens")

	r.PathPrefix("/mcp").Handler(
		gymstatsmcp.NewHTTPHandler(gymstatsmcp.NewPoolSchemaRepo(s.dbPool), s.plansService),
	).Methods("GET", "POST", "DELETE", "OPTIONS").Name("mcp")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "PATCH", "OPTIONS").Name("unknown")

	authMiddleware := middleware.NewAuthMiddlewareHandler(s.authService)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins...))
	r.Use(authMiddleware.AuthCheck())
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) healthChecks() map[string]misc.HealthCheck {
	checks := map[string]misc.HealthCheck{}
	if s.dbPool != nil {
		checks["postgres"] = s.dbPool.Ping
	}
	if s.redisClient != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.redisClient.Ping(ctx).Err()
		}
	}
	return checks
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
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{Registry: s.promRegistry}),
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

	// picks up sessions whose timers died with a previous process
	sweepCtx, sweepCancel := context.WithCancel(ctx)
	s.sweeperCancel = sweepCancel
	go s.sweeper.Run(sweepCtx)

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.sweeperCancel != nil {
		s.sweeperCancel()
	}

	// live sessions keep their deadlines in redis, the next sweep finalizes them
	log.Debugf("closing session registry, %d live sessions ...", s.sessions.ActiveCount())
	s.sessions.Close()

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}
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
