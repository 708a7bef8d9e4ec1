package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/unstoppable/internal/config"
	"github.com/unstoppable/internal/db"
	"github.com/unstoppable/internal/router"
)

func main() {
	// 加载本地 .env，文件不存在时忽略
	_ = godotenv.Load()

	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// 初始化数据库
	if err := db.Init(cfg.DatabasePath); err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	// 设置并运行 Gin 服务器
	r, err := router.SetupRouter(db.DB, cfg.SessionSecret, cfg.AppPIN)
	if err != nil {
		log.Fatalf("failed to set up router: %v", err)
	}
	if err := r.Run(cfg.ListenAddr); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}
