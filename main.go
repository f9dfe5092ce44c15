package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"snakearena/server"
)

// SnakeArena 入口：加载配置，启动 HTTP + WebSocket 服务，并初始化房间管理器
func main() {
	var addr, envFile string
	flag.StringVar(&addr, "addr", "", "server listen address, overrides SNAKE_ADDR, e.g. :4001")
	flag.StringVar(&envFile, "env", ".env", "optional dotenv file")
	flag.Parse()

	cfg, err := server.LoadConfig(envFile)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	// 使用第三方 zap 日志库写入日志文件（带滚动）
	if err := server.InitLogger(cfg.LogFile, cfg.LogLevel, cfg.LogConsole); err != nil {
		panic(err)
	}
	defer server.SyncLogger()

	rm := server.NewRoomManager(cfg)
	// 先预创建默认房间，便于快速试跑
	_ = rm.GetOrCreateRoom(cfg.DefaultRoom)

	srv := &http.Server{Addr: cfg.Addr, Handler: server.NewRouter(rm, cfg.StaticDir)}

	go func() {
		server.Log.Infof("SnakeArena listening on %s; grid=%dx%d tps=%d wrap=%v",
			cfg.Addr, cfg.GridWidth, cfg.GridHeight, cfg.TickRate, cfg.Wrap)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.Log.Fatalf("listen: %v", err)
		}
	}()

	// 优雅退出（Ctrl+C）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	server.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		server.Log.Warnf("shutdown: %v", err)
	}
	rm.Shutdown()
}
