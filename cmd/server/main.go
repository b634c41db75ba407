package main

import (
	"chatserver/internal/chat"
	"chatserver/internal/config"
	"chatserver/internal/db"
	clog "chatserver/internal/log"
	"chatserver/internal/server"
	"chatserver/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	// main 函数负责加载配置、初始化日志、连接数据库并启动 Gin 服务。
	cfg := config.Load()
	clog.Init(cfg.Env)

	gdb, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	if err := db.Migrate(gdb); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	if err := db.Seed(gdb); err != nil {
		log.Fatal().Err(err).Msg("db seed")
	}

	store := service.NewChatStore(gdb)
	coord := chat.NewCoordinator(store, cfg.MaxMessageBytes, cfg.HistoryLimit)

	r := server.SetupRouter(cfg, gdb, coord)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
