package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"linkcook-go/internal/config"
	"linkcook-go/internal/db"
	activitydomain "linkcook-go/internal/domain/activity"
	engagementdomain "linkcook-go/internal/domain/engagement"
	groupbuydomain "linkcook-go/internal/domain/groupbuy"
	recipedomain "linkcook-go/internal/domain/recipe"
	sharedomain "linkcook-go/internal/domain/share"
	userdomain "linkcook-go/internal/domain/user"
	"linkcook-go/internal/metrics"
	"linkcook-go/internal/repository/inmemory"
	activityrepo "linkcook-go/internal/repository/postgres/activity"
	engagementrepo "linkcook-go/internal/repository/postgres/engagement"
	groupbuyrepo "linkcook-go/internal/repository/postgres/groupbuy"
	reciperepo "linkcook-go/internal/repository/postgres/recipe"
	sharerepo "linkcook-go/internal/repository/postgres/share"
	userrepo "linkcook-go/internal/repository/postgres/user"
	redisrepo "linkcook-go/internal/repository/redis"
	"linkcook-go/internal/transport/httpserver"
	"linkcook-go/internal/transport/httpserver/handler"
	commonhandler "linkcook-go/internal/transport/httpserver/handler/common"
	groupbuyshandler "linkcook-go/internal/transport/httpserver/handler/groupbuys"
	recipeshandler "linkcook-go/internal/transport/httpserver/handler/recipes"
	shareshandler "linkcook-go/internal/transport/httpserver/handler/shares"
	"linkcook-go/internal/transport/httpserver/live"
	authmw "linkcook-go/internal/transport/httpserver/middleware"
	"linkcook-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn, cfg.DB, log); err != nil {
		closeDB(dbConn)
		return nil, err
	}

	var authenticator authmw.Authenticator
	if !cfg.Auth.SkipAuth {
		log.Info("app: loading auth0 signing keys", "issuer", cfg.Auth.Issuer())
		jwtAuth, err := authmw.NewAuth0Authenticator(ctx, cfg.Auth)
		if err != nil {
			closeDB(dbConn)
			return nil, err
		}
		authenticator = jwtAuth
	} else {
		log.Warn("app: auth disabled, every request runs as the mock user", "user_id", cfg.Auth.MockUserID)
	}

	cache, redisClient := newGroupBuyCache(ctx, cfg.Cache, log)

	log.Info("app: initializing router")
	router := NewRouter(Deps{
		Config:        cfg,
		DB:            dbConn,
		Cache:         cache,
		Authenticator: authenticator,
		Metrics:       metrics.New(),
		Log:           log,
	})

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		redis:      redisClient,
	}, nil
}

// Deps are the pieces NewRouter assembles into a handler.
type Deps struct {
	Config        config.Config
	DB            *gorm.DB
	Cache         groupbuydomain.Cache
	Authenticator authmw.Authenticator
	Metrics       *metrics.Metrics
	Log           logger.Logger
	// Clock overrides the time source of the services when set.
	Clock func() time.Time
}

func NewRouter(d Deps) http.Handler {
	users := userdomain.NewService(userrepo.NewPostgres(d.DB))
	groupBuys := groupbuydomain.NewService(groupbuyrepo.NewPostgres(d.DB), d.Cache, d.Config.Cache.TTL)
	recipes := recipedomain.NewService(reciperepo.NewPostgres(d.DB))
	shares := sharedomain.NewService(sharerepo.NewPostgres(d.DB))
	activity := activitydomain.NewServiceWithCacheTTL(activityrepo.NewPostgres(d.DB), d.Config.Activity.CacheTTL)
	if d.Clock != nil {
		groupBuys.SetClock(d.Clock)
		shares.SetClock(d.Clock)
		activity.SetClock(d.Clock)
	}

	engagement := engagementdomain.NewService(engagementrepo.NewPostgres(d.DB))
	engagement.Register(engagementdomain.KindGroupBuyBookmark, groupBuys)
	engagement.Register(engagementdomain.KindRecipeLike, recipes)
	engagement.Register(engagementdomain.KindShareBookmark, shares)

	// Typed nil pointers must not leak into the optional interfaces.
	var groupBuyRecorder groupbuyshandler.Recorder
	var toggleRecorder recipeshandler.Recorder
	var observer live.Observer
	if d.Metrics != nil {
		groupBuyRecorder = d.Metrics
		toggleRecorder = d.Metrics
		observer = d.Metrics
	}

	var publisher groupbuyshandler.Publisher
	if d.Config.LiveEnabled {
		publisher = live.NewHub(d.Config.CORSOrigins, d.Log, observer)
	}

	handlers := handler.New(
		commonhandler.New(activity, d.Log),
		groupbuyshandler.New(groupBuys, engagement, publisher, groupBuyRecorder, d.Log),
		recipeshandler.New(recipes, engagement, toggleRecorder, d.Log),
		shareshandler.New(shares, engagement, toggleRecorder, d.Log),
	)
	auth := authmw.NewAuth(d.Config.Auth, d.Authenticator, users, d.Log)

	return httpserver.NewRouter(d.Config, handlers, auth, d.Metrics, d.Log)
}

func newGroupBuyCache(ctx context.Context, cfg config.CacheConfig, log logger.Logger) (groupbuydomain.Cache, *goredis.Client) {
	switch cfg.Backend {
	case config.CacheNone:
		log.Info("app: group buy cache disabled")
		return nil, nil
	case config.CacheRedis:
		client := redisrepo.NewClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := redisrepo.Ping(pingCtx, client); err != nil {
			log.Warn("app: redis unreachable, cache reads will miss until it recovers", "addr", cfg.RedisURL, "err", err)
		}
		return redisrepo.NewGroupBuyCache(client, log), client
	default:
		return inmemory.NewInMemoryGroupBuyCache(), nil
	}
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var firstErr error
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			firstErr = fmt.Errorf("close redis: %w", err)
		}
	}
	if a.db == nil {
		return firstErr
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func closeDB(gormDB *gorm.DB) {
	if sqlDB, err := gormDB.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
