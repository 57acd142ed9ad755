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
	"go.uber.org/multierr"

	"github.com/2beens/quillhub/internal/apperr"
	"github.com/2beens/quillhub/internal/auth"
	"github.com/2beens/quillhub/internal/blog"
	"github.com/2beens/quillhub/internal/cache"
	"github.com/2beens/quillhub/internal/comments"
	"github.com/2beens/quillhub/internal/config"
	"github.com/2beens/quillhub/internal/db"
	"github.com/2beens/quillhub/internal/media"
	"github.com/2beens/quillhub/internal/middleware"
	"github.com/2beens/quillhub/internal/social"
	"github.com/2beens/quillhub/internal/telemetry/metrics"
	"github.com/2beens/quillhub/internal/telemetry/tracing"
	"github.com/2beens/quillhub/internal/users"
	"github.com/2beens/quillhub/pkg"
)

const taxonomyCacheTTL = 10 * time.Minute

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server

	config  *config.Config
	secrets *config.Secrets
	dbPool  *pgxpool.Pool

	redisClient *redis.Client
	mediaStore  *media.DiskStore

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config  *config.Config
	Secrets *config.Secrets
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	cfg := params.Config
	secrets := params.Secrets
	if secrets.JWTSecret == "" {
		return nil, errors.New("jwt secret not set, use QUILLHUB_JWT_SECRET")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBUser:         cfg.PostgresUser,
		DBPassword:     secrets.PostgresPassword,
		TracingEnabled: secrets.HoneycombEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	}

	if cfg.MigrateOnStart {
		if err := db.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("migrate db: %w", err)
		}
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": cfg.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("quillhub", "main", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: secrets.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(secrets.HoneycombEnabled, secrets.OtelServiceName, rdb)
	if err != nil {
		return nil, err
	}

	mediaStore, err := media.NewDiskStore(cfg.MediaRootPath)
	if err != nil {
		return nil, fmt.Errorf("new media store: %w", err)
	}

	return &Server{
		config:      cfg,
		secrets:     secrets,
		dbPool:      dbPool,
		redisClient: rdb,
		mediaStore:  mediaStore,

		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}, nil
}

func (s *Server) routerSetup() *mux.Router {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("main-router"))

	pipeline := media.NewPipeline(s.config.MediaBaseURL)
	mediaService := media.NewService(media.NewValidator(), s.mediaStore, s.metricsManager)
	media.NewHandler(s.mediaStore).SetupRoutes(r)

	usersRepo := users.NewRepo(s.dbPool)
	usersService := users.NewService(usersRepo, mediaService, s.metricsManager, pkg.DefaultPasswordCost)
	usersService.OnCreated(users.ProfileHook(usersRepo))
	usersPresenter := users.NewPresenter(pipeline)
	users.NewHandler(usersService, usersPresenter).SetupRoutes(r)

	tokens := auth.NewTokenService(s.secrets.JWTSecret, s.config.AccessTokenTTL, s.config.RefreshTokenTTL)
	revocations := auth.NewRevocationStore(s.redisClient)
	authRouter := r.PathPrefix("/auth").Subrouter()
	authRouter.Use(middleware.RateLimit(
		redis_rate.NewLimiter(s.redisClient),
		"auth",
		s.config.AuthRateLimitAllowedPerMin,
		s.metricsManager,
	))
	auth.NewHandler(auth.NewService(usersService, tokens, revocations), usersPresenter).SetupRoutes(authRouter)

	commentsService := comments.NewService(comments.NewRepo(s.dbPool), s.metricsManager)
	comments.NewHandler(commentsService).SetupRoutes(r)

	blogRepo := blog.NewRepo(s.dbPool)
	blogService := blog.NewService(blogRepo, mediaService, s.metricsManager)
	blogPresenter := blog.NewPresenter(pipeline, blogRepo)
	taxonomyService := blog.NewTaxonomyService(
		blog.NewTaxonomyRepo(s.dbPool),
		cache.New(s.config.TaxonomyCacheBytes, taxonomyCacheTTL),
	)
	blog.NewHandler(blogService, taxonomyService, blogPresenter, commentsService).SetupRoutes(r)

	social.NewHandler(
		social.NewService(social.NewRepo(s.dbPool), blogService, s.metricsManager),
		blogPresenter,
	).SetupRoutes(r)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apperr.Write(w, r, apperr.NotFound("Not found."))
	})
	// mux skips the middleware chain on a method mismatch, so preflight
	// requests only reach Cors through this handler
	r.MethodNotAllowedHandler = middleware.Cors(s.config.CorsAllowedOrigins)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pkg.WriteJSON(w, map[string]string{"error": "Method not allowed."}, http.StatusMethodNotAllowed)
		}),
	)

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.CorsAllowedOrigins))
	r.Use(middleware.Identity(auth.NewChecker(tokens, revocations)))
	r.Use(blog.ReactionLoaderMiddleware(blogRepo))
	r.Use(middleware.DrainAndCloseRequest())

	return r
}

func (s *Server) Serve(host string, port int) {
	router := s.routerSetup()

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      otelhttp.NewHandler(router, "quillhub-http"),
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.InstrumentMetricHandler(
		s.promRegistry,
		promhttp.HandlerFor(s.promRegistry, promhttp.HandlerOpts{}),
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

func (s *Server) GracefulShutdown() error {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	var errs error
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown http server: %w", err))
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("shutdown metrics server: %w", err))
		}
		log.Warnln("metrics server shut down")
	}

	s.otelShutdown()
	log.Trace("otel shut down ...")

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("close redis client: %w", err))
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

	return errs
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
