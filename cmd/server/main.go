package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"sandbox-server/internal/agent"
	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine"
	"sandbox-server/internal/infrastructure/audit"
	"sandbox-server/internal/server"
	"sandbox-server/internal/tuning"
	"sandbox-server/internal/version"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		seed        int64
		mode        string
		difficulty  string
		multiplayer bool
		tuningPath  string
		auditDSN    string
		autoplay    int
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Default world seed (0 for random)")
	flag.StringVar(&mode, "mode", "survival", "Default mode: survival | creative | zombie")
	flag.StringVar(&difficulty, "difficulty", "normal", "Default difficulty: peaceful | easy | normal | hard | nomobs")
	flag.BoolVar(&multiplayer, "multiplayer", false, "Spawn simulated companion bots by default")
	flag.StringVar(&tuningPath, "tuning", "", "Path to tuning.yaml (empty for built-in defaults)")
	flag.StringVar(&auditDSN, "audit-dsn", audit.MemoryDSN, "SQLite DSN for the block audit index")
	flag.IntVar(&autoplay, "autoplay", 0, "Start N headless agent sessions (smoke load)")
	flag.Parse()

	logger.Log.Info("Starting sandbox server...")
	logger.Log.Info(version.String())

	// Формируем конфиг
	cfg := engine.NewConfig()
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("Using explicit default seed: %d", seed)
	} else {
		logger.Log.Infof("Using random default seed: %d", cfg.Seed)
	}

	var ok bool
	if cfg.Mode, ok = domain.ParseMode(mode); !ok {
		logger.Log.Fatalf("Unknown mode %q", mode)
	}
	if cfg.Difficulty, ok = domain.ParseDifficulty(difficulty); !ok {
		logger.Log.Fatalf("Unknown difficulty %q", difficulty)
	}
	cfg.Multiplayer = multiplayer

	tn, err := tuning.Load(tuningPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load tuning")
	}

	index, err := audit.Open(auditDSN, tn.AuditBuffer)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to open audit index")
	}

	port := os.Getenv("SBX_PORT")
	if port == "" {
		port = "8080"
	}

	// 2. Инициализация ядра с конфигом
	gameService := engine.NewService(cfg, tn, index)

	srv, err := server.New(gameService, index, port)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to init server")
	}

	// Graceful Shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Фоновые агенты
	var agents sync.WaitGroup
	for i := 0; i < autoplay; i++ {
		bot, err := agent.NewBot(gameService, api.StartPayload{}, 200, cfg.Seed+int64(i))
		if err != nil {
			logger.Log.WithError(err).Error("Failed to start agent")
			break
		}
		agents.Add(1)
		go func() {
			defer agents.Done()
			bot.Run()
		}()
	}

	// 4. Запуск сервера
	if err := srv.Run(ctx); err != nil {
		logger.Log.WithError(err).Error("Server stopped with error")
	}

	logger.Log.Info("Shutting down...")

	gameService.Shutdown()
	agents.Wait()

	if err := index.Close(); err != nil {
		logger.Log.WithError(err).Warn("Failed to close audit index")
	}

	logger.Log.WithFields(logrus.Fields{
		"audit_dropped": index.Dropped(),
		"hub_dropped":   gameService.Hub.Dropped(),
	}).Info("Done.")
}
