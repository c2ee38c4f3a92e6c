// Package global global shared variables
package global

import (
	"context"

	gconfig "github.com/Laisky/go-config/v2"
	"github.com/Laisky/zap"
	minioLib "github.com/minio/minio-go/v7"
	redisLib "github.com/redis/go-redis/v9"

	"github.com/Laisky/storage-manager/library/db/minio"
	"github.com/Laisky/storage-manager/library/db/mongo"
	"github.com/Laisky/storage-manager/library/db/redis"
	"github.com/Laisky/storage-manager/library/log"
)

var (
	FilesDB  mongo.DB
	MinioCli *minioLib.Client
	RedisDB  *redis.DB
)

func SetupDB(ctx context.Context) {
	setupMongo(ctx)
	setupMinio(ctx)
	setupRedis(ctx)
}

func setupMongo(ctx context.Context) {
	defer log.Logger.Info("connected mongodb")

	var err error
	if FilesDB, err = mongo.NewDB(ctx, mongo.DialInfo{
		Addr:   gconfig.Shared.GetString("settings.db.files.addr"),
		DBName: gconfig.Shared.GetString("settings.db.files.db"),
		User:   gconfig.Shared.GetString("settings.db.files.user"),
		Pwd:    gconfig.Shared.GetString("settings.db.files.pwd"),
	}); err != nil {
		log.Logger.Panic("connect to files db", zap.Error(err))
	}
}

func setupMinio(ctx context.Context) {
	defer log.Logger.Info("connected object storage")

	var err error
	if MinioCli, err = minio.NewClient(ctx, minio.DialInfo{
		Endpoint:  gconfig.Shared.GetString("settings.storage.endpoint"),
		AccessKey: gconfig.Shared.GetString("settings.storage.access_key"),
		SecretKey: gconfig.Shared.GetString("settings.storage.secret_key"),
		UseSSL:    gconfig.Shared.GetBool("settings.storage.use_ssl"),
	}); err != nil {
		log.Logger.Panic("connect to object storage", zap.Error(err))
	}
}

func setupRedis(ctx context.Context) {
	defer log.Logger.Info("connected redis")

	var err error
	if RedisDB, err = redis.NewDB(ctx, &redisLib.Options{
		Addr:     gconfig.Shared.GetString("settings.redis.addr"),
		Password: gconfig.Shared.GetString("settings.redis.pwd"),
		DB:       gconfig.Shared.GetInt("settings.redis.db"),
	}); err != nil {
		log.Logger.Panic("connect to redis", zap.Error(err))
	}
}
