package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mineq-data/internal/config"
	"mineq-data/internal/httpapi"
	"mineq-data/internal/logger"
	"mineq-data/internal/repository"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	var (
		db        *sql.DB
		usersRepo repository.UsersRepo
		eqRepo    repository.EquipmentRepo
		logsRepo  repository.LogsRepo
	)

	if cfg.DBEnabled {
		if d, errOpen := openPostgres(cfg); errOpen == nil {
			db = d
			log.Info("DB enabled for mineq-data")
		} else {
			log.Warn("DB enabled but connection failed, falling back to memory repos", zap.Error(errOpen))
		}
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := repository.EnsureSchema(ctx, db); err != nil {
			log.Fatal("failed to ensure schema", zap.Error(err))
		}
		if err := repository.SeedDefaultUsers(ctx, db); err != nil {
			log.Warn("failed to seed default users", zap.Error(err))
		}
		cancel()

		usersRepo = repository.NewPostgresUsersRepo(db)
		eqRepo = repository.NewPostgresEquipmentRepo(db)
		logsRepo = repository.NewPostgresLogsRepo(db)
	} else {
		// DB 未就绪：内存仓库支撑本地联测（带种子账号）
		mem := repository.NewMemoryRepos()
		usersRepo = mem
		eqRepo = mem.EquipmentView()
		logsRepo = mem.LogsView()
	}

	handler := httpapi.NewHandler(usersRepo, eqRepo, logsRepo, log)
	router := httpapi.NewRouter(log)
	router.Register(handler)

	srv := httpapi.NewServer(cfg.HTTP.Addr, router, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
	case err := <-errCh:
		log.Error("server exited", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if db != nil {
		_ = db.Close()
	}
}

func openPostgres(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.Database.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConns)
	}
	if cfg.Database.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
