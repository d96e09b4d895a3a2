// @title ФССП Test Bot API
// @version 1.0
// @description Backend для Telegram Mini App тестирования сотрудников ФССП.

// @host localhost:8000
// @BasePath /api

package main

import (
	"flag"
	"log"

	"testbot_backend/internal/app"
	"testbot_backend/internal/config"
	"testbot_backend/pkg/configwatcher"
	"testbot_backend/pkg/logger"
)

func main() {
	// Флаги командной строки
	migrateOnly := flag.Bool("migrate-only", false, "только выполнить миграцию БД и выйти")
	migrate := flag.Bool("migrate", false, "принудительно выполнить миграцию БД при старте")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Миграция БД завершена, выход")
		return
	}

	// Горячая перезагрузка конфигурации
	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
