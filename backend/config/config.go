package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrMissingSecret is returned by Load when no JWT signing secret is configured.
var ErrMissingSecret = errors.New("backend.jwt.secret is required")

type DB struct {
	Driver string
	Host   string
	Port   int
	User   string
	Pass   string
	Name   string
	Path   string
}

type Redis struct {
	Addr   string
	Pass   string
	DB     int
	TTLSec int
}

type Log struct {
	Level string
	Path  string
}

type Config struct {
	Host  string
	Port  int
	DB    DB
	Redis Redis
	JWT   struct {
		Secret   string
		Issuer   string
		ExpHours int
	}
	PasswordCost int
	Log          Log
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("account")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.host", "127.0.0.1")
	v.SetDefault("backend.port", 9400)
	v.SetDefault("backend.db.driver", "sqlite")
	v.SetDefault("backend.db.host", "127.0.0.1")
	v.SetDefault("backend.db.port", 3306)
	v.SetDefault("backend.db.user", "root")
	v.SetDefault("backend.db.pass", "")
	v.SetDefault("backend.db.name", "accounts")
	v.SetDefault("backend.db.path", "accounts.db")
	v.SetDefault("backend.redis.addr", "")
	v.SetDefault("backend.redis.db", 0)
	v.SetDefault("backend.redis.ttl_sec", 300)
	v.SetDefault("backend.jwt.issuer", "account-service")
	v.SetDefault("backend.jwt.exp_hours", 24)
	v.SetDefault("backend.password.cost", 10)
	v.SetDefault("backend.log.level", "info")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{
		Host: v.GetString("backend.host"),
		Port: v.GetInt("backend.port"),
		DB: DB{
			Driver: strings.ToLower(v.GetString("backend.db.driver")),
			Host:   v.GetString("backend.db.host"),
			Port:   v.GetInt("backend.db.port"),
			User:   v.GetString("backend.db.user"),
			Pass:   v.GetString("backend.db.pass"),
			Name:   v.GetString("backend.db.name"),
			Path:   v.GetString("backend.db.path"),
		},
		Redis: Redis{
			Addr:   v.GetString("backend.redis.addr"),
			Pass:   v.GetString("backend.redis.pass"),
			DB:     v.GetInt("backend.redis.db"),
			TTLSec: v.GetInt("backend.redis.ttl_sec"),
		},
		PasswordCost: v.GetInt("backend.password.cost"),
		Log:          Log{Level: v.GetString("backend.log.level"), Path: v.GetString("backend.log.path")},
	}
	cfg.JWT.Secret = v.GetString("backend.jwt.secret")
	if cfg.JWT.Secret == "" {
		return nil, ErrMissingSecret
	}
	cfg.JWT.Issuer = v.GetString("backend.jwt.issuer")
	cfg.JWT.ExpHours = v.GetInt("backend.jwt.exp_hours")
	if cfg.JWT.ExpHours <= 0 {
		cfg.JWT.ExpHours = 24
	}
	if cfg.DB.Driver != "mysql" && cfg.DB.Driver != "sqlite" {
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DB.Driver)
	}
	return cfg, nil
}
