package main

import (
	"context"
	"log/slog"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/library/internal/application/circulation"
	"github.com/xiebiao/library/internal/infrastructure/config"
	"github.com/xiebiao/library/pkg/logger"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// ========================================
// Custom Providers
// ========================================
// 构造函数需要的参数要从Config中提取时，在这里写Provider

// provideLogger 按log配置创建Logger，cleanup关闭日志文件
func provideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	l, closeFn, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, err
	}
	l = l.With("app", cfg.App.Name)
	return l, func() { _ = closeFn() }, nil
}

// provideTracerProvider 创建TracerProvider并设置为全局Provider
// tracing.enabled为false时采样率为0，Span不会被记录
func provideTracerProvider(ctx context.Context, cfg *config.Config) (*sdktrace.TracerProvider, func(), error) {
	opts := tracing.Options{
		ServiceName: cfg.Tracing.ServiceName,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	}
	if !cfg.Tracing.Enabled {
		opts.Endpoint = ""
		opts.SampleRatio = 0
	}

	tp, shutdown, err := tracing.InitTracer(ctx, opts)
	if err != nil {
		return nil, nil, err
	}
	return tp, func() { _ = shutdown(context.Background()) }, nil
}

func provideTracer(tp *sdktrace.TracerProvider) trace.Tracer {
	return tp.Tracer("github.com/xiebiao/library/internal/application/circulation")
}

func provideCollector(cfg *config.Config) *metrics.Collector {
	return metrics.NewCollector(cfg.Metrics.Namespace)
}

// provideSeedRequest 配置中的seed转换为导入请求
func provideSeedRequest(cfg *config.Config) circulation.SeedRequest {
	req := circulation.SeedRequest{
		Books:   make([]circulation.AddBookRequest, 0, len(cfg.Seed.Books)),
		Members: make([]circulation.RegisterMemberRequest, 0, len(cfg.Seed.Members)),
		Loans:   make([]circulation.BorrowBookRequest, 0, len(cfg.Seed.Loans)),
	}
	for _, b := range cfg.Seed.Books {
		req.Books = append(req.Books, circulation.AddBookRequest{
			ID:              b.ID,
			Title:           b.Title,
			Author:          b.Author,
			PublicationYear: b.Year,
		})
	}
	for _, m := range cfg.Seed.Members {
		req.Members = append(req.Members, circulation.RegisterMemberRequest{ID: m.ID, Name: m.Name})
	}
	for _, l := range cfg.Seed.Loans {
		req.Loans = append(req.Loans, circulation.BorrowBookRequest{BookID: l.BookID, MemberID: l.MemberID})
	}
	return req
}
