package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/2beens/mapty/internal/config"
	"github.com/2beens/mapty/internal/db"
	"github.com/2beens/mapty/internal/geoip"
	"github.com/2beens/mapty/internal/listview"
	"github.com/2beens/mapty/internal/mapview"
	"github.com/2beens/mapty/internal/middleware"
	"github.com/2beens/mapty/internal/misc"
	"github.com/2beens/mapty/internal/store"
	"github.com/2beens/mapty/internal/telemetry/metrics"
	"github.com/2beens/mapty/internal/telemetry/tracing"
	"github.com/2beens/mapty/internal/tracker"
	"github.com/2beens/mapty/internal/workout"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var ErrUnknownGeoProvider = errors.New("unknown geo provider")

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string

	config      *config.Config
	dbPool      *pgxpool.Pool
	redisClient *redis.Client
	locator     *geoip.Locator
	tracker     *tracker.Tracker
	// closed when the startup position request is done
	trackerStarted <-chan struct{}
	// nil when redis is not reachable, submissions are then not rate limited
	rateLimiter middleware.RequestRateLimiter

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	RedisPassword           string
	PostgresPassword        string
	IPBaseAPIKey            string
	IPInfoToken             string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: params.RedisPassword,
		DB:       0, // use default DB
	})
	if params.HoneycombTracingEnabled {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	var rateLimiter middleware.RequestRateLimiter
	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis, submissions will not be rate limited: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
		rateLimiter = redis_rate.NewLimiter(rdb)
	}

	var dbPool *pgxpool.Pool
	var extraCollectors []prometheus.Collector
	if cfg.StorageBackend == config.StoragePostgres {
		var err error
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBPassword:     params.PostgresPassword,
			TracingEnabled: params.HoneycombTracingEnabled,
		})
		if err != nil {
			return nil, fmt.Errorf("new db pool: %w", err)
		}
		if err := dbPool.Ping(ctx); err != nil {
			log.Warnf("failed to ping db: %s", err)
		}
		extraCollectors = append(extraCollectors, pgxpoolprometheus.NewCollector(
			dbPool,
			map[string]string{"db_name": cfg.PostgresDBName},
		))
	}

	promRegistry := metrics.SetupPrometheus(extraCollectors...)
	metricsManager := metrics.NewManager("mapty", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	// use honeycomb distro to setup OpenTelemetry SDK
	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled)
	if err != nil {
		return nil, err
	}

	tracedHttpClient := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   10 * time.Second,
	}

	workoutStore, err := newStore(ctx, cfg, rdb, dbPool)
	if err != nil {
		return nil, fmt.Errorf("new store: %w", err)
	}

	provider, err := newGeoProvider(cfg, params, tracedHttpClient)
	if err != nil {
		return nil, fmt.Errorf("new geo provider: %w", err)
	}

	s := &Server{
		config:         cfg,
		versionInfo:    params.VersionInfo,
		dbPool:         dbPool,
		redisClient:    rdb,
		locator:        geoip.NewLocator(provider, cfg.GeoIP, rdb),
		rateLimiter:    rateLimiter,
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	s.tracker = tracker.New(
		workoutStore,
		s.locator,
		mapview.New(),
		listview.New(),
		metricsManager,
		cfg.MapZoomLevel,
	)
	s.trackerStarted = s.tracker.Start(ctx)

	return s, nil
}

func newStore(
	ctx context.Context,
	cfg *config.Config,
	rdb *redis.Client,
	dbPool *pgxpool.Pool,
) (store.Store, error) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		return store.NewRedisStore(rdb, cfg.StorageKey), nil
	case config.StoragePostgres:
		psqlStore := store.NewPsqlStore(dbPool, cfg.StorageKey)
		if err := psqlStore.EnsureSchema(ctx); err != nil {
			log.Errorf("ensure psql store schema: %s", err)
		}
		return psqlStore, nil
	case config.StorageFile:
		return store.NewFileStore(cfg.StorageFilePath)
	case config.StorageMemory:
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownBackend, cfg.StorageBackend)
	}
}

func newGeoProvider(
	cfg *config.Config,
	params NewServerParams,
	httpClient *http.Client,
) (geoip.Provider, error) {
	switch cfg.GeoProvider {
	case config.GeoProviderIPBase:
		return geoip.NewIPBaseProvider(cfg.GeoIPBaseEndpoint, params.IPBaseAPIKey, httpClient), nil
	case config.GeoProviderIPInfo:
		return geoip.NewIPInfoProvider(params.IPInfoToken, httpClient), nil
	case config.GeoProviderStatic:
		return geoip.NewStaticProvider(workout.NewCoords(cfg.StaticLat, cfg.StaticLng)), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownGeoProvider, cfg.GeoProvider)
	}
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	miscHandler := misc.NewHandler(s.locator, s.versionInfo)
	miscHandler.SetupRoutes(r)

	trackerHandler := tracker.NewHandler(s.tracker)

	// registered first, so it is matched before the generic /workouts routes
	submitRouter := r.Path("/workouts").Methods("POST", "OPTIONS").Subrouter()
	submitRouter.HandleFunc("", trackerHandler.HandleSubmit).Name("new-workout")
	if s.rateLimiter != nil {
		submitRouter.Use(middleware.RateLimit(s.rateLimiter, "workouts", s.config.SubmitRateLimitPerMin, s.metricsManager))
	}

	r.HandleFunc("/workouts", trackerHandler.HandleList).Methods("GET").Name("list-workouts")
	r.HandleFunc("/workouts/list", trackerHandler.HandleListHTML).Methods("GET").Name("list-workouts-html")
	r.HandleFunc("/workouts/{id}", trackerHandler.HandleEdit).Methods("PUT", "OPTIONS").Name("edit-workout")
	r.HandleFunc("/workouts/{id}", trackerHandler.HandleDelete).Methods("DELETE", "OPTIONS").Name("delete-workout")
	r.HandleFunc("/workouts/{id}/select", trackerHandler.HandleSelect).Methods("POST", "OPTIONS").Name("select-workout")

	r.HandleFunc("/map", trackerHandler.HandleMap).Methods("GET").Name("map")
	r.HandleFunc("/map/click", trackerHandler.HandleMapClick).Methods("POST", "OPTIONS").Name("map-click")

	r.HandleFunc("/form", trackerHandler.HandleForm).Methods("GET").Name("form")
	r.HandleFunc("/form/type", trackerHandler.HandleFormType).Methods("POST", "OPTIONS").Name("form-type")
	r.HandleFunc("/form/cancel", trackerHandler.HandleFormCancel).Methods("POST", "OPTIONS").Name("form-cancel")

	r.HandleFunc("/reset", trackerHandler.HandleReset).Methods("POST", "OPTIONS").Name("reset")
	r.HandleFunc("/notices", trackerHandler.HandleNotices).Methods("GET").Name("notices")

	// all the rest - unhandled paths
	r.HandleFunc("/{unknown}", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}).Methods("GET", "POST", "PUT", "DELETE", "OPTIONS").Name("unknown")

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
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
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
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

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	// the position request is bound to the serve context, wait for it before closing its deps
	if s.trackerStarted != nil {
		select {
		case <-s.trackerStarted:
		case <-ctx.Done():
			log.Warnln("startup position request still running")
		}
	}

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
