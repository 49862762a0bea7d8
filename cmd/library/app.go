package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

const tracerName = "github.com/xiebiao/library/cmd/library"

// App 启动流程：导入初始数据，输出目录与统计摘要
type App struct {
	cfg           *config.Config
	logger        *slog.Logger
	seeder        *circulation.Seeder
	seed          circulation.SeedRequest
	listAvailable *circulation.ListAvailableBooksUseCase
	stats         *circulation.StatsUseCase
	metrics       *metrics.Collector
}

func NewApp(
	cfg *config.Config,
	logger *slog.Logger,
	seeder *circulation.Seeder,
	seed circulation.SeedRequest,
	listAvailable *circulation.ListAvailableBooksUseCase,
	stats *circulation.StatsUseCase,
	collector *metrics.Collector,
) *App {
	return &App{
		cfg:           cfg,
		logger:        logger,
		seeder:        seeder,
		seed:          seed,
		listAvailable: listAvailable,
		stats:         stats,
		metrics:       collector,
	}
}

// Run 执行一次启动流程后返回，不监听端口
// 整个流程在一个根Span下，各用例的Span是它的子Span
func (a *App) Run(ctx context.Context) (stats *circulation.StatsResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "app.run")
	defer func() {
		tracing.RecordError(span, err)
		span.End()
	}()

	a.logger.InfoContext(ctx, "图书馆启动",
		"app", a.cfg.App.Name,
		"env", a.cfg.App.Env,
		"tracing", a.cfg.Tracing.Enabled,
	)

	result, err := a.seeder.Seed(ctx, a.seed)
	if err != nil {
		return nil, err
	}
	a.logger.InfoContext(ctx, "初始数据导入完成",
		"books", result.Books,
		"members", result.Members,
		"loans", result.Loans,
	)

	available, err := a.listAvailable.Execute(ctx)
	if err != nil {
		return nil, err
	}
	for _, b := range available {
		a.logger.DebugContext(ctx, "可借图书", "book_id", b.ID, "title", b.Title, "author", b.Author)
	}

	stats, err = a.stats.Execute(ctx)
	if err != nil {
		return nil, err
	}

	families, err := a.metrics.Registry().Gather()
	if err != nil {
		return nil, fmt.Errorf("收集指标失败: %w", err)
	}

	a.logger.InfoContext(ctx, "目录摘要",
		"books", stats.Books,
		"available", stats.Available,
		"on_loan", stats.OnLoan,
		"members", stats.Members,
		"loans", stats.Loans,
		"metric_families", len(families),
	)
	return stats, nil
}
