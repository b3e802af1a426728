package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
	config "github.com/techstore/storefront-backend/internal/cfg"
	v1Http "github.com/techstore/storefront-backend/internal/delivery/v1/http"
	"github.com/techstore/storefront-backend/internal/infrastructure/kafka"
	"github.com/techstore/storefront-backend/internal/infrastructure/payment"
	"github.com/techstore/storefront-backend/internal/repository/memory"
	s3Repo "github.com/techstore/storefront-backend/internal/repository/minio"
	"github.com/techstore/storefront-backend/internal/repository/pgdb"
	pgdbConv "github.com/techstore/storefront-backend/internal/repository/pgdb/converter"
	"github.com/techstore/storefront-backend/internal/repository/redis"
	redisConv "github.com/techstore/storefront-backend/internal/repository/redis/converter"
	"github.com/techstore/storefront-backend/internal/usecase"
	"github.com/techstore/storefront-backend/pkg/clients"
	"github.com/techstore/storefront-backend/pkg/closer"
	"github.com/techstore/storefront-backend/pkg/e"
	"github.com/techstore/storefront-backend/pkg/logger"
	"github.com/techstore/storefront-backend/pkg/postgres"
)

const shutdownTimeout = 10 * time.Second

// Run собирает зависимости, запускает HTTP-сервер и блокируется
// до сигнала остановки или фатальной ошибки сервера.
func Run(cfg *config.Config, logger logger.Logger) error {
	cl := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(logger, cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	cl.Add(func(ctx context.Context) error {
		db.Close()
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	catConv := pgdbConv.NewCategoryConverterImpl()
	cacheConv := redisConv.NewProductConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	categoryRepo := pgdb.NewCategoryRepo(db.Pool, catConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(redisCtx); err != nil {
		redisCancel()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	redisCancel()
	cl.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, logger)

	minioClient, err := clients.NewMinIOClient(cfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		minioCancel()
		return e.Wrap(whereami.WhereAmI(), err)
	}
	minioCancel()

	imageRepo := s3Repo.NewImageRepo(minioClient, cfg.Minio)

	cartRepo := memory.NewCartRepo(cfg.Session.CartTTL, logger)
	cartRepo.StartSweeper(cfg.Session.SweepInterval)
	cl.Add(cartRepo.Stop)

	producer, err := kafka.NewProducer(logger, cfg.Kafka)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		logger.Warnf("kafka topic check failed, events may be dropped: %v", err)
	}
	cl.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	gateway := payment.NewGateway(cfg.Payment, logger)

	catalogUC := usecase.NewCatalogUC(productRepo, categoryRepo, cacheRepo, imageRepo, db.Pool, logger)
	cartUC := usecase.NewCartUC(cartRepo, productRepo, cacheRepo, logger)
	checkoutUC := usecase.NewCheckoutUC(cartRepo, gateway, producer, logger, cfg.Payment.Timeout)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, logger)
	router.Init(catalogUC, cartUC, checkoutUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	cl.Add(httpSrv.Stop)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server started on port %s", cfg.Http.Port)
		if err := httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := cl.Close(shutdownCtx); err != nil {
		logger.Warnf("shutdown finished with errors: %v", err)
	} else {
		logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
