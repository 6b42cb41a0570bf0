package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"timetracker/config"
	"timetracker/models"
	"timetracker/store"
	"timetracker/store/memory"
	"timetracker/store/sheetdb"
	"timetracker/store/workbook"
)

var (
	DB      *gorm.DB
	Redis   *redis.Client
	closers []func() error
)

// Init opens the configured table backend and snapshot cache, creates any
// missing table and returns the store on top of them.
func Init(ctx context.Context, cfg *config.Config, log *zap.Logger) (*store.Store, error) {
	backend, err := openBackend(cfg)
	if err != nil {
		return nil, err
	}
	cache, err := openCache(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	st := store.New(backend, store.Options{
		Cache:     cache,
		ReadPause: cfg.StoreReadPause,
		Logger:    log,
	})

	seed, err := seedDefaultAdmin(cfg)
	if err != nil {
		return nil, err
	}
	if err := st.Init(ctx, seed); err != nil {
		return nil, fmt.Errorf("initialise tables: %w", err)
	}
	log.Info("store ready",
		zap.String("driver", cfg.StoreDriver),
		zap.String("cache", cfg.CacheDriver))
	return st, nil
}

func openBackend(cfg *config.Config) (store.Backend, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	if !cfg.IsProduction() {
		gormCfg.Logger = logger.Default.LogMode(logger.Info)
	}

	switch cfg.StoreDriver {
	case config.StorePostgres:
		db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		return useDB(db)
	case config.StoreSQLite:
		db, err := gorm.Open(sqlite.Open(cfg.SQLitePath), gormCfg)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		return useDB(db)
	case config.StoreXLSX:
		b, err := workbook.Open(cfg.WorkbookPath)
		if err != nil {
			return nil, err
		}
		closers = append(closers, b.Close)
		return b, nil
	case config.StoreMemory:
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}

func useDB(db *gorm.DB) (store.Backend, error) {
	DB = db
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	closers = append(closers, sqlDB.Close)
	return sheetdb.New(db)
}

func openCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Cache, error) {
	switch cfg.CacheDriver {
	case config.CacheRedis:
		Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := Redis.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		closers = append(closers, Redis.Close)
		return store.NewRedisCache(Redis, "timetracker:", cfg.CacheTTL, log), nil
	case config.CacheMemory:
		return store.NewMemoryCache(cfg.CacheTTL), nil
	}
	return store.NoCache{}, nil
}

// seedDefaultAdmin is written as the only user when the Users table is first
// created.
func seedDefaultAdmin(cfg *config.Config) (store.Record, error) {
	admin := models.User{
		ID:        1,
		Name:      "Administrator",
		Username:  cfg.AdminUsername,
		Role:      models.RoleAdmin,
		DateAdded: time.Now().Format("2006-01-02"),
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		return nil, err
	}
	return admin.Record(), nil
}

// Ping checks the connections opened by Init.
func Ping(ctx context.Context) error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}
	if Redis != nil {
		if err := Redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

func Close() error {
	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	closers = nil
	DB, Redis = nil, nil
	return errors.Join(errs...)
}

func GetDB() *gorm.DB {
	return DB
}
