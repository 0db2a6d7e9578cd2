package initialize

import (
	"account-service/backend/app/cache"
	"account-service/backend/app/controllers"
	"account-service/backend/app/db"
	jwtutil "account-service/backend/app/jwt"
	"account-service/backend/app/middleware"
	"account-service/backend/app/models"
	"account-service/backend/app/password"
	"account-service/backend/app/repo"
	"account-service/backend/app/services"
	"account-service/backend/config"
	"account-service/backend/global"
	"account-service/backend/router"
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	Cfg      *config.Config
	DB       *gorm.DB
	Redis    *redis.Client
	Router   http.Handler
	Auth     *controllers.AuthController
	Profile  *controllers.ProfileController
	Accounts *services.AccountService
}

// New wires the credential store, token signer, identity cache and HTTP routes
// for an already loaded configuration.
func New(cfg *config.Config) (*App, error) {
	global.Config = cfg

	// Signer first: a missing secret must fail before anything is opened.
	signer, err := jwtutil.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.ExpHours)*time.Hour)
	if err != nil {
		return nil, err
	}

	// Connect DB
	gdb, err := db.Connect(db.Config{Driver: cfg.DB.Driver, Host: cfg.DB.Host, Port: cfg.DB.Port, User: cfg.DB.User, Password: cfg.DB.Pass, DBName: cfg.DB.Name, Path: cfg.DB.Path})
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	global.Mdb = gdb

	// Migrate
	if err := gdb.AutoMigrate(&models.User{}); err != nil {
		closeDB(gdb)
		return nil, fmt.Errorf("migrate: %w", err)
	}

	rdb := connectRedis(cfg.Redis)
	global.Rdb = rdb
	identities := cache.NewIdentityCache(rdb, time.Duration(cfg.Redis.TTLSec)*time.Second, global.Logger)

	// Services
	userRepo := repo.NewUserRepository(gdb)
	accounts := services.NewAccountService(userRepo, password.NewHasher(cfg.PasswordCost), signer, identities)

	// Controllers
	httpCtrl := controllers.NewHTTPController()
	authCtrl := controllers.NewAuthController(accounts)
	profileCtrl := controllers.NewProfileController(accounts)
	mw := &middleware.Auth{Tokens: signer, Users: userRepo, Cache: identities}

	h := router.NewRouter(httpCtrl, authCtrl, profileCtrl, mw)

	return &App{Cfg: cfg, DB: gdb, Redis: rdb, Router: h, Auth: authCtrl, Profile: profileCtrl, Accounts: accounts}, nil
}

// connectRedis returns nil when no address is configured. An unreachable server
// is logged but not fatal; the cache then degrades to misses.
func connectRedis(cfg config.Redis) *redis.Client {
	if cfg.Addr == "" {
		return nil
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Pass,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		global.Logger.Warn().Err(err).Str("addr", cfg.Addr).Msg("redis unavailable, identity cache degraded")
	}
	return rdb
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (a *App) Close() error {
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
