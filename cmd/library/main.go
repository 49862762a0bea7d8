package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

// main 主程序入口
// 加载配置 → Wire组装依赖 → 导入初始数据 → 输出摘要后退出
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. 加载配置（config/config.yaml，可选；LIBRARY_*环境变量覆盖）
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 2. 依赖注入（wire_gen.go）
	app, cleanup, err := InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatalf("初始化失败: %v", err)
	}

	// 3. 运行
	if _, err := app.Run(ctx); err != nil {
		cleanup()
		log.Fatalf("启动失败: %v", err)
	}
	cleanup()
}
