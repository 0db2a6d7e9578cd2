package global

import (
	"account-service/backend/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

var (
	Config *config.Config
	Logger zerolog.Logger = zerolog.Nop()
	Mdb    *gorm.DB
	Rdb    *redis.Client
)
