// mineq-backup 台账数据备份工具
// 从配置的持久化端（Redis 或远程 API）装载全量数据，
// 在输出目录生成快照 JSON 与设备台账/检验到期 Excel。
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"mineq-data/internal/config"
	"mineq-data/internal/logger"
	"mineq-data/internal/persist"
	"mineq-data/internal/report"
	"mineq-data/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func main() {
	outDir := flag.String("out", ".", "备份输出目录")
	withinDays := flag.Int("within", 90, "检验到期提醒窗口（天）")
	restoreFile := flag.String("restore", "", "从快照文件恢复（留空则执行备份）")
	flag.Parse()

	cfg := config.Load()
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	backend := buildBackend(cfg, log)
	s := store.New(backend, log)
	s.Load(ctx)

	if *restoreFile != "" {
		restore(ctx, s, *restoreFile, log)
		return
	}
	backup(s, *outDir, *withinDays, log)
}

// buildBackend 选择持久策略：配置了远程地址走 API，否则走本地 Redis
func buildBackend(cfg *config.Config, log *zap.Logger) persist.Backend {
	if cfg.RemoteBaseURL != "" {
		log.Info("using remote persistence", zap.String("base_url", cfg.RemoteBaseURL))
		return persist.NewRemoteBackend(cfg.RemoteBaseURL, log)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	log.Info("using local KV persistence", zap.String("addr", cfg.Redis.Addr))
	return persist.NewKVBackend(persist.NewRedisKV(client), log)
}

func backup(s *store.Store, outDir string, withinDays int, log *zap.Logger) {
	stamp := time.Now().Format("20060102-150405")

	snapPath := filepath.Join(outDir, fmt.Sprintf("mineq-backup-%s.json", stamp))
	if err := os.WriteFile(snapPath, []byte(s.FullState()), 0o644); err != nil {
		log.Fatal("failed to write snapshot", zap.Error(err))
	}
	log.Info("snapshot written", zap.String("path", snapPath))

	ledger, err := report.ExportEquipmentLedger(s.Equipment())
	if err != nil {
		log.Fatal("failed to build equipment ledger", zap.Error(err))
	}
	ledgerPath := filepath.Join(outDir, fmt.Sprintf("设备台账-%s.xlsx", stamp))
	if err := os.WriteFile(ledgerPath, ledger, 0o644); err != nil {
		log.Fatal("failed to write equipment ledger", zap.Error(err))
	}
	log.Info("equipment ledger written",
		zap.String("path", ledgerPath), zap.Int("count", len(s.Equipment())))

	due := s.InspectionDue(withinDays, time.Now())
	rows := make([]report.InspectionRow, 0, len(due))
	for _, d := range due {
		rows = append(rows, report.InspectionRow{Equipment: d.Equipment, DaysLeft: d.DaysLeft})
	}
	inspection, err := report.ExportInspectionDue(rows)
	if err != nil {
		log.Fatal("failed to build inspection ledger", zap.Error(err))
	}
	duePath := filepath.Join(outDir, fmt.Sprintf("检验到期台账-%s.xlsx", stamp))
	if err := os.WriteFile(duePath, inspection, 0o644); err != nil {
		log.Fatal("failed to write inspection ledger", zap.Error(err))
	}
	log.Info("inspection ledger written", zap.String("path", duePath), zap.Int("count", len(rows)))
}

func restore(ctx context.Context, s *store.Store, path string, log *zap.Logger) {
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatal("failed to read snapshot file", zap.Error(err))
	}
	if !s.LoadFullState(ctx, string(raw)) {
		log.Fatal("snapshot file is not a valid backup document", zap.String("path", path))
	}
	log.Info("restore complete",
		zap.Int("users", len(s.Users())),
		zap.Int("equipment", len(s.Equipment())),
		zap.Int("logs", len(s.Logs())))

	// 恢复后打一条概览，便于人工核对
	stats := s.Stats()
	log.Info("equipment overview",
		zap.Int("total", stats.Total),
		zap.Int("in_use", stats.InUse),
		zap.Int("repairing", stats.Repairing),
		zap.Int("scrapped", stats.Scrapped))
}
