package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"filelink-api/config"
	"filelink-api/internal/application/ports"
	"filelink-api/internal/application/services"
	"filelink-api/internal/domain/access"
	"filelink-api/internal/domain/file"
	"filelink-api/internal/domain/premium"
	"filelink-api/internal/domain/session"
	"filelink-api/internal/domain/user"
	"filelink-api/internal/infrastructure/cache"
	"filelink-api/internal/infrastructure/db/memory"
	"filelink-api/internal/infrastructure/db/postgres"
	pgfile "filelink-api/internal/infrastructure/db/postgres/file"
	pgpremium "filelink-api/internal/infrastructure/db/postgres/premium"
	pgsession "filelink-api/internal/infrastructure/db/postgres/session"
	pguser "filelink-api/internal/infrastructure/db/postgres/user"
	"filelink-api/internal/infrastructure/db/redis"
	redissession "filelink-api/internal/infrastructure/db/redis/session"
	"filelink-api/internal/infrastructure/jwt"
	"filelink-api/internal/infrastructure/landing"
	"filelink-api/internal/infrastructure/metrics"
	"filelink-api/internal/infrastructure/minter"
	"filelink-api/internal/infrastructure/mq"
	"filelink-api/internal/infrastructure/telegram"
	"filelink-api/internal/interface/api/rest"
	"filelink-api/internal/interface/api/rest/middleware"
	"filelink-api/pkg/logger"
	"filelink-api/pkg/rmqconsumer"
)

const (
	driverPostgres = "postgres"
	driverMemory   = "memory"
)

type (
	repositories struct {
		files    file.Repository
		users    user.Repository
		grants   premium.Repository
		sessions session.Repository
	}

	App struct {
		logger     *zap.Logger
		cfg        config.Config
		db         *pgxpool.Pool
		redis      *goredis.Client
		repos      repositories
		transport  ports.Transport
		handle     string
		httpSrv    *http.Server
		router     *gin.Engine
		mCounter   *prometheus.CounterVec
		mq         ports.RabbitMQ
		publisher  ports.EventPublisher
		mqConsumer ports.RMQConsumer
		amqpDSN    string
	}
)

func NewApp(ctx context.Context) (*App, error) {
	// config
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("error loading .env file: %v", err)
	}
	cfg := config.Load()

	// logger
	lg, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("cannot initialize zap logger: %v", err)
	}

	// metrics
	mCounter := metrics.NewCounter()
	reqDuration := metrics.NewRequestDuration()

	// router
	switch cfg.App.Env {
	case gin.ReleaseMode, "prod", "production":
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogGin(lg, mCounter, reqDuration))

	// httpServer
	httpSrv := &http.Server{
		Addr:              cfg.App.Host + ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a := &App{
		logger:    lg,
		cfg:       cfg,
		httpSrv:   httpSrv,
		router:    r,
		mCounter:  mCounter,
		publisher: mq.Discard{},
	}

	// store
	switch cfg.App.StoreDriver {
	case driverPostgres:
		dbDsn, err := cfg.DBDSN()
		if err != nil {
			lg.Fatal("DB config error", zap.Error(err))
		}
		if err = postgres.Migrate(lg, dbDsn); err != nil {
			lg.Fatal("failed to migrate database", zap.Error(err))
		}
		a.db, err = postgres.New(ctx, lg, dbDsn)
		if err != nil {
			lg.Fatal("failed to connect to database", zap.Error(err))
		}
		a.repos = repositories{
			files:    pgfile.NewRepository(a.db, cfg.DB.OpTimeout),
			users:    pguser.NewRepository(a.db, cfg.DB.OpTimeout),
			grants:   pgpremium.NewRepository(a.db, cfg.DB.OpTimeout),
			sessions: pgsession.NewRepository(a.db, cfg.DB.OpTimeout),
		}
	case driverMemory:
		lg.Warn("using in-memory store, records are lost on restart")
		store := memory.New(time.Now)
		a.repos = repositories{
			files:    store.Files(),
			users:    store.Users(),
			grants:   store.Grants(),
			sessions: store.Sessions(),
		}
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.App.StoreDriver)
	}

	// redis sessions
	if cfg.Redis.Addr != "" {
		a.redis, err = redis.New(ctx, lg, cfg.Redis)
		if err != nil {
			lg.Fatal("failed to connect to redis", zap.Error(err))
		}
		a.repos.sessions = redissession.NewRepository(a.redis, cfg.Redis.SessionTTL, cfg.DB.OpTimeout)
	}

	// transport
	a.handle = cfg.Bot.Username
	if cfg.Bot.Token != "" {
		tg, err := telegram.New(cfg.Bot, lg)
		if err != nil {
			lg.Fatal("failed to init telegram client", zap.Error(err))
		}
		a.transport = tg
		if a.handle == "" {
			a.handle, err = tg.ServiceHandle(ctx)
			if err != nil {
				lg.Fatal("failed to resolve bot handle", zap.Error(err))
			}
		}
	}
	if a.handle == "" {
		return nil, errors.New("bot handle unknown: set BOT_USERNAME or BOT_TOKEN")
	}
	lg.Info("bot handle resolved", zap.String("handle", a.handle))

	// rabbitMQ
	a.amqpDSN, err = cfg.AMQPDSN()
	if err != nil {
		lg.Warn("RabbitMQ not configured, domain events are discarded", zap.Error(err))
		return a, nil
	}
	rbMQ := mq.New(cfg.MQ, lg)
	if err = rbMQ.Connect(ctx, a.amqpDSN); err != nil {
		lg.Fatal("failed to connect to rabbitMQ", zap.Error(err))
	}
	if err = rbMQ.Init(); err != nil {
		lg.Fatal("failed init rabbitMQ", zap.Error(err))
	}
	a.mq = rbMQ
	a.publisher = rbMQ

	return a, nil
}

func (a *App) Close() {
	if a.mqConsumer != nil {
		a.mqConsumer.Close()
		a.mqConsumer = nil
	}
	if a.mq != nil && a.mq.GetConn() != nil {
		_ = a.mq.GetConn().Close()
		a.mq = nil
	}
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
	if a.db != nil {
		a.db.Close()
		a.db = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// Run - The central place to launch and manage our application and
// parallel processes through a single context.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGUSR1)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("starting "+a.cfg.App.Name, zap.String("addr", a.httpSrv.Addr))
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server "+a.cfg.App.Name+" error: %w", err)
		}

		return nil
	})

	if a.mq != nil {
		g.Go(func() error {
			a.mq.PublisherWorker(ctx)
			return nil
		})
	}

	if a.mqConsumer != nil {
		g.Go(func() error {
			a.mqConsumer.DeliveryWorker(ctx)
			return nil
		})
	}

	<-ctx.Done()

	a.logger.Info("shutting down " + a.cfg.App.Name + " gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if a.httpSrv != nil {
		if err := a.httpSrv.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown "+a.cfg.App.Name+" error", zap.Error(err))
			return err
		}
	}

	if err := g.Wait(); err != nil {
		a.logger.Error(a.cfg.App.Name+" returning an error", zap.Error(err))
		return err
	}

	a.logger.Info(a.cfg.App.Name + " gracefully stopped")

	return nil
}

func policies(g config.Gate) access.Policies {
	return access.Policies{
		access.OpLinkRetrieval: {
			RequireSubscription: g.LinkRequireSubscription,
			PremiumBypass:       g.LinkPremiumBypass,
		},
		access.OpUpload: {
			RequireSubscription: g.UploadRequireSubscription,
			RequirePremium:      g.UploadRequirePremium,
			PremiumBypass:       g.UploadPremiumBypass,
		},
	}
}

func (a *App) InitControllers() {
	landingEngine, err := landing.New(a.cfg.Landing)
	if err != nil {
		a.logger.Fatal("invalid landing config", zap.Error(err))
	}

	var membership ports.MembershipResolver
	if a.transport != nil {
		membership = a.transport
	}

	// services
	jwtService := jwt.New(a.cfg.App.JWTSecret)
	authService := services.NewAuthService(a.cfg.Admin, jwtService)
	premiumService := services.NewPremiumService(
		a.repos.grants,
		cache.NewGrants(a.cfg.Cache.Size, a.cfg.Cache.TTL),
		a.publisher,
		a.logger,
		a.mCounter,
	)
	gateService := services.NewGateService(premiumService, a.logger, a.mCounter)
	fileService := services.NewFileService(
		services.FileConfig{
			Handle:   a.handle,
			Channel:  a.cfg.Bot.ForceChannel,
			Policies: policies(a.cfg.Gate),
		},
		a.repos.files,
		a.repos.users,
		minter.New(),
		landingEngine,
		gateService,
		membership,
		a.publisher,
		a.logger,
		a.mCounter,
	)
	userService := services.NewUserService(a.repos.users, a.mCounter)
	sessionService := services.NewSessionService(a.repos.sessions, a.mCounter)

	// download reports from the transport side
	if a.amqpDSN != "" {
		consumer := rmqconsumer.New(a.cfg.MQ, a.logger, fileService)
		if err = consumer.Connect(a.amqpDSN); err != nil {
			a.logger.Fatal("failed to connect rabbitMQ consumer", zap.Error(err))
		}
		if err = consumer.Init(); err != nil {
			a.logger.Fatal("failed to init rabbitMQ consumer", zap.Error(err))
		}
		a.mqConsumer = consumer
	}

	// controllers
	rest.NewAuthController(a.router, a.logger, authService)
	rest.NewFileController(a.router, fileService, a.logger, jwtService)
	rest.NewUserController(a.router, userService, a.logger, jwtService)
	rest.NewPremiumController(a.router, premiumService, a.logger, jwtService)
	rest.NewSessionController(a.router, sessionService, a.logger, jwtService)

	// ops
	a.router.GET(rest.RouteHealth, func(c *gin.Context) { c.Status(http.StatusOK) })
	a.router.GET(rest.RouteMetrics, gin.WrapH(promhttp.Handler()))
}

func (a *App) Logger() *zap.Logger { return a.logger }
