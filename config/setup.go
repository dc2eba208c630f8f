package config

import (
	"context"
	"log/slog"
	"time"

	"MusicStore/logger"
	"MusicStore/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func SetupMySQLConnection(config Config) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(config.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(logger.GormLevel(config.Log.Level)),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := models.AutoMigrate(db); err != nil {
		return nil, err
	}

	slog.Info("mysql connected", "host", config.Database.Host, "database", config.Database.Database)
	return db, nil
}

func SetupRedisConnection(config Config) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.Redis.Addr,
		Password: config.Redis.Password,
		DB:       config.Redis.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		_ = redisClient.Close()
		return nil, err
	}

	slog.Info("redis connected", "addr", config.Redis.Addr)
	return redisClient, nil
}
