package repository

import (
	"context"
	"fmt"
	"time"

	"yqms/pkg/log"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type Repository struct {
	mdb    *mongo.Database
	rdb    *redis.Client
	logger *log.Logger
}

func NewRepository(logger *log.Logger, mdb *mongo.Database, rdb *redis.Client) *Repository {
	return &Repository{
		mdb:    mdb,
		rdb:    rdb,
		logger: logger,
	}
}

func NewMongo(conf *viper.Viper, logger *log.Logger) (*mongo.Database, func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(conf.GetString("data.mongo.uri")))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(conf.GetString("data.mongo.db"))
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.Error("failed to disconnect mongo", zap.Error(err))
		}
	}
	return db, cleanup, nil
}

func NewRedis(conf *viper.Viper) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.GetString("data.redis.addr"),
		Password: conf.GetString("data.redis.password"),
		DB:       conf.GetInt("data.redis.db"),
	})
}
