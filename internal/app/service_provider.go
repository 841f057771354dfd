package app

import (
	"context"
	authAPI "cozytown_backend/internal/api/auth"
	"cozytown_backend/internal/api/live"
	pushAPI "cozytown_backend/internal/api/push"
	tileAPI "cozytown_backend/internal/api/tile"
	"cozytown_backend/internal/config"
	"cozytown_backend/internal/config/env"
	"cozytown_backend/internal/middleware"
	"cozytown_backend/internal/repository"
	"cozytown_backend/internal/repository/auth_repo"
	"cozytown_backend/internal/repository/push_repo"
	"cozytown_backend/internal/repository/tile_repo"
	"cozytown_backend/internal/repository/user_repo"
	"cozytown_backend/internal/service"
	"cozytown_backend/internal/service/auth"
	"cozytown_backend/internal/service/push"
	"cozytown_backend/internal/service/tile"
	"net/http"

	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/avito-tech/go-transaction-manager/trm/v2/manager"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klauspost/compress/gzhttp"
)

type ServiceProvider struct {
	configPath string

	//TXManager
	txManager trm.Manager

	// Database
	pgConfig config.PGConfig
	dbClient *pgxpool.Pool

	// Auth bits
	jwtCfg   config.JWTConfig
	authRepo repository.AuthRepository
	authServ service.AuthService
	authHand *authAPI.Handler

	// User bits
	userRepo repository.UserRepository

	// Map bits
	mapCfg   config.MapConfig
	retryCfg config.RetryConfig
	tileRepo repository.TileRepository
	tileServ service.TileService
	tileHand *tileAPI.Handler
	liveHub  *live.Hub

	// Push bits
	pushCfg  config.PushConfig
	pushRepo repository.PushRepository
	pushServ service.PushService
	pushHand *pushAPI.Handler

	// Router and HTTP config
	httpCfg config.HTTPConfig
	router  chi.Router
}

func newServiceProvider(configPath string) *ServiceProvider {
	return &ServiceProvider{configPath: configPath}
}

func (sp *ServiceProvider) PgConfig() config.PGConfig {
	if sp.pgConfig == nil {
		cfg, err := env.NewPGConfig()
		if err != nil {
			panic("failed to get database config: " + err.Error())
		}
		sp.pgConfig = cfg
	}
	return sp.pgConfig
}

func (sp *ServiceProvider) DBClient(ctx context.Context) *pgxpool.Pool {
	if sp.dbClient == nil {
		dbc, err := pgxpool.New(ctx, sp.PgConfig().DSN())
		if err != nil {
			panic("failed to create db pool: " + err.Error())
		}
		err = dbc.Ping(ctx)
		if err != nil {
			panic("failed to ping db: " + err.Error())
		}
		sp.dbClient = dbc
	}
	return sp.dbClient
}

func (sp *ServiceProvider) TXManager(ctx context.Context) trm.Manager {
	if sp.txManager == nil {
		m, err := manager.New(trmpgx.NewDefaultFactory(sp.DBClient(ctx)))
		if err != nil {
			panic("failed to create tx manager: " + err.Error())
		}

		sp.txManager = m
	}

	return sp.txManager
}

func (sp *ServiceProvider) JWTCfg() config.JWTConfig {
	if sp.jwtCfg == nil {
		cfg, err := env.NewJWTConfig()
		if err != nil {
			panic("failed to get jwt config: " + err.Error())
		}
		sp.jwtCfg = cfg
	}
	return sp.jwtCfg
}

func (sp *ServiceProvider) AuthRepo(ctx context.Context) repository.AuthRepository {
	if sp.authRepo == nil {
		sp.authRepo = auth_repo.NewAuthRepository(sp.DBClient(ctx))
	}
	return sp.authRepo
}

func (sp *ServiceProvider) UserRepo(ctx context.Context) repository.UserRepository {
	if sp.userRepo == nil {
		sp.userRepo = user_repo.NewUserRepository(sp.DBClient(ctx))
	}
	return sp.userRepo
}

func (sp *ServiceProvider) AuthService(ctx context.Context) service.AuthService {
	if sp.authServ == nil {
		sp.authServ = auth.NewAuthService(
			sp.TXManager(ctx),
			sp.UserRepo(ctx),
			sp.AuthRepo(ctx),
			sp.JWTCfg(),
			sp.MapCfg().StartingCoins(),
		)
	}
	return sp.authServ
}

func (sp *ServiceProvider) AuthHandler(ctx context.Context) *authAPI.Handler {
	if sp.authHand == nil {
		sp.authHand = authAPI.NewHandler(authAPI.HandlerDeps{
			Serv:         sp.AuthService(ctx),
			SecureCookie: sp.HTTPCfg().SecureCookies(),
		})
	}
	return sp.authHand
}

func (sp *ServiceProvider) loadMapConfig() {
	mapCfg, retryCfg, err := env.NewMapConfigFromYAML(sp.configPath)
	if err != nil {
		panic("failed to get map config: " + err.Error())
	}
	sp.mapCfg, sp.retryCfg = mapCfg, retryCfg
}

func (sp *ServiceProvider) MapCfg() config.MapConfig {
	if sp.mapCfg == nil {
		sp.loadMapConfig()
	}
	return sp.mapCfg
}

func (sp *ServiceProvider) RetryCfg() config.RetryConfig {
	if sp.retryCfg == nil {
		sp.loadMapConfig()
	}
	return sp.retryCfg
}

func (sp *ServiceProvider) TileRepo(ctx context.Context) repository.TileRepository {
	if sp.tileRepo == nil {
		sp.tileRepo = tile_repo.NewTileRepository(sp.DBClient(ctx))
	}
	return sp.tileRepo
}

func (sp *ServiceProvider) LiveHub() *live.Hub {
	if sp.liveHub == nil {
		sp.liveHub = live.NewHub(sp.HTTPCfg().AllowedOrigins())
	}
	return sp.liveHub
}

func (sp *ServiceProvider) TileService(ctx context.Context) service.TileService {
	if sp.tileServ == nil {
		sp.tileServ = tile.NewTileService(tile.Deps{
			TxManager: sp.TXManager(ctx),
			TileRepo:  sp.TileRepo(ctx),
			UserRepo:  sp.UserRepo(ctx),
			MapCfg:    sp.MapCfg(),
			RetryCfg:  sp.RetryCfg(),
			Notifier:  sp.PushService(ctx),
			Publisher: sp.LiveHub(),
		})
	}
	return sp.tileServ
}

func (sp *ServiceProvider) TileHandler(ctx context.Context) *tileAPI.Handler {
	if sp.tileHand == nil {
		sp.tileHand = tileAPI.NewHandler(tileAPI.HandlerDeps{Serv: sp.TileService(ctx)})
	}
	return sp.tileHand
}

func (sp *ServiceProvider) PushCfg() config.PushConfig {
	if sp.pushCfg == nil {
		cfg, err := env.NewPushConfig()
		if err != nil {
			panic("failed to get push config: " + err.Error())
		}
		sp.pushCfg = cfg
	}
	return sp.pushCfg
}

func (sp *ServiceProvider) PushRepo(ctx context.Context) repository.PushRepository {
	if sp.pushRepo == nil {
		sp.pushRepo = push_repo.NewPushRepository(sp.DBClient(ctx))
	}
	return sp.pushRepo
}

func (sp *ServiceProvider) PushService(ctx context.Context) service.PushService {
	if sp.pushServ == nil {
		sp.pushServ = push.NewPushService(
			sp.PushRepo(ctx),
			push.NewWebPushSender(sp.PushCfg()),
			sp.PushCfg().VAPIDPublicKey(),
		)
	}
	return sp.pushServ
}

func (sp *ServiceProvider) PushHandler(ctx context.Context) *pushAPI.Handler {
	if sp.pushHand == nil {
		sp.pushHand = pushAPI.NewHandler(pushAPI.HandlerDeps{Serv: sp.PushService(ctx)})
	}
	return sp.pushHand
}

func (sp *ServiceProvider) HTTPCfg() config.HTTPConfig {
	if sp.httpCfg == nil {
		cfg, err := env.NewHTTPConfig()
		if err != nil {
			panic("failed to get http config: " + err.Error())
		}
		sp.httpCfg = cfg
	}

	return sp.httpCfg
}

func (sp *ServiceProvider) Router(ctx context.Context) chi.Router {
	if sp.router == nil {
		r := chi.NewRouter()

		// CORS middleware
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   sp.HTTPCfg().AllowedOrigins(),
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
			ExposedHeaders:   []string{"Link"},
			AllowCredentials: true,
			MaxAge:           60 * 15,
		}))

		authMW := middleware.Auth(sp.JWTCfg())
		authHandler := sp.AuthHandler(ctx)
		tileHandler := sp.TileHandler(ctx)
		pushHandler := sp.PushHandler(ctx)

		// Auth endpoints
		r.Route("/auth", func(ar chi.Router) {
			ar.Use(gzipMiddleware)
			ar.Post("/register", authHandler.Register)
			ar.Post("/login", authHandler.Login)
			ar.Post("/refresh", authHandler.Refresh)
			ar.Post("/logout", authHandler.Logout)
		})
		r.With(authMW, gzipMiddleware).Get("/users", authHandler.ListUsers)

		// Map endpoints
		r.Route("/map", func(mr chi.Router) {
			mr.Use(authMW)

			// websocket не сжимаем, gzip обертка ломает Hijack
			mr.Get("/live", sp.LiveHub().ServeHTTP)

			mr.Group(func(gr chi.Router) {
				gr.Use(gzipMiddleware)
				gr.Get("/tiles", tileHandler.List)
				gr.Get("/tiles/{id}", tileHandler.Get)
				gr.Get("/tiles/{id}/suggestion", tileHandler.Suggestion)
				gr.Post("/tiles/{id}/contribute", tileHandler.Contribute)
				gr.Get("/progress", tileHandler.Progress)
			})
		})

		// Push endpoints
		r.Route("/push", func(pr chi.Router) {
			pr.Use(gzipMiddleware)
			pr.Get("/public-key", pushHandler.PublicKey)
			pr.With(authMW).Post("/subscribe", pushHandler.Subscribe)
			pr.With(authMW).Post("/send", pushHandler.Send)
		})

		sp.router = r
	}

	return sp.router
}

func gzipMiddleware(next http.Handler) http.Handler {
	return gzhttp.GzipHandler(next)
}
