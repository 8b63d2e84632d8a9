package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"pong_web/internal/api"
	"pong_web/internal/models"
	"pong_web/internal/repository"
	"pong_web/internal/service"
	"pong_web/internal/storage"
	"pong_web/pkg/config"
)

func main() {
	// 載入應用程式配置
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化資料庫連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構：用戶與戰績紀錄
	if err := db.AutoMigrate(&models.User{}, &models.GameLog{}); err != nil {
		log.Fatalf("Failed to auto migrate database: %v", err)
	}

	// 初始化 repositories 與 services
	repos := repository.NewRepositories(db)
	services := service.NewServices(
		repos,
		time.Duration(cfg.Game.TickMs)*time.Millisecond,
		cfg.Game.ReadyDelayFrames,
	)

	// 啟動比賽引擎：排程器推進所有比賽，事件消費端負責
	// 廣播與戰績收尾
	go services.Scheduler.Run()
	go services.Game.Run(context.Background())

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	if err := r.Run(cfg.Server.Address); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
