package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"employeeManagement/internal/config"
	"employeeManagement/internal/db"
	grpcserver "employeeManagement/internal/grpc"
	"employeeManagement/internal/httpapi"
	"employeeManagement/internal/logging"
	"employeeManagement/internal/metrics"
	"employeeManagement/internal/service"
	"employeeManagement/internal/session"
	"employeeManagement/internal/storage"
)

func main() {
	dev := flag.Bool("dev", false, "use development defaults (insecure JWT secret)")
	rollback := flag.Bool("rollback", false, "roll back the newest migration and exit")
	flag.Parse()

	// Load configuration
	load := config.Load
	if *dev {
		load = config.LoadWithDefaults
	}
	cfg, err := load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.Stringer("config", cfg))

	// Open DB
	d, err := db.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("open db", zap.Error(err))
	}
	defer func() {
		if err := d.Close(); err != nil {
			logger.Warn("close db", zap.Error(err))
		}
	}()

	if *rollback {
		if err := db.RollbackLast(d, cfg.Database.Driver); err != nil {
			logger.Fatal("rollback migration", zap.Error(err))
		}
		logger.Info("rolled back newest migration")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var revoker session.Revoker = session.Nop{}
	if cfg.Redis.Addr != "" {
		rdb, err := session.Connect(ctx, cfg.Redis)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		defer func() { _ = rdb.Close() }()
		revoker = session.NewRedisRevoker(rdb)
		logger.Info("session revocation enabled", zap.String("redis", cfg.Redis.Addr))
	} else {
		logger.Warn("REDIS_ADDR not set; logout will not revoke tokens before expiry")
	}

	m := metrics.New()
	authSvc := service.NewAuthService(d, cfg.Auth, revoker, logger)
	if cfg.Auth.AdminUsername != "" && cfg.Auth.AdminPassword != "" {
		if err := authSvc.EnsureAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			logger.Fatal("bootstrap admin", zap.Error(err))
		}
	}

	deps := httpapi.NewDeps(d, authSvc, logger)
	deps.Metrics = m
	deps.CORSOrigins = cfg.HTTP.CORSOrigins
	if cfg.Storage.Endpoint != "" {
		store, err := storage.Connect(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatal("connect object storage", zap.Error(err))
		}
		deps.Payslips = store
	} else {
		logger.Warn("MINIO_ENDPOINT not set; payslip uploads are disabled")
	}

	// Start HTTP
	stopHTTP, err := httpapi.StartHTTP(cfg.HTTP.Address, httpapi.NewRouter(deps), logger)
	if err != nil {
		logger.Fatal("start http", zap.Error(err))
	}
	logger.Info("http server listening", zap.String("addr", cfg.HTTP.Address))

	// Start gRPC health
	stopGRPC := func(context.Context) error { return nil }
	if cfg.GRPC.Address != "" {
		stopGRPC, err = grpcserver.StartGRPC(cfg.GRPC.Address, d, m, logger)
		if err != nil {
			logger.Fatal("start grpc", zap.Error(err))
		}
		logger.Info("grpc health server listening", zap.String("addr", cfg.GRPC.Address))
	}

	// Wait for signal
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigc
	logger.Info("shutting down", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := stopHTTP(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := stopGRPC(shutdownCtx); err != nil {
		logger.Warn("grpc shutdown", zap.Error(err))
	}
}
