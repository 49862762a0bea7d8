// Package circulation 图书流通应用层
//
// 用例编排领域服务library.Library，并负责领域层不关心的横切关注点：
// 链路追踪、指标、结构化日志、借还记录。
package circulation

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/xiebiao/library/internal/domain/library"
	apperrors "github.com/xiebiao/library/pkg/errors"
	"github.com/xiebiao/library/pkg/metrics"
	"github.com/xiebiao/library/pkg/tracing"
)

// Instrumentation 用例共用的观测组件
// 每次执行：一个Span、一次操作计数和耗时、一条日志；修改类操作之后刷新目录Gauge
type Instrumentation struct {
	lib     *library.Library
	tracer  trace.Tracer
	metrics *metrics.Collector
	logger  *slog.Logger
}

// NewInstrumentation 创建观测组件
func NewInstrumentation(lib *library.Library, tracer trace.Tracer, collector *metrics.Collector, logger *slog.Logger) *Instrumentation {
	return &Instrumentation{
		lib:     lib,
		tracer:  tracer,
		metrics: collector,
		logger:  logger.With("component", "circulation"),
	}
}

// command 执行修改类操作，成功日志为Info
func (in *Instrumentation) command(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	return in.observe(ctx, op, true, attrs, fn)
}

// query 执行查询类操作，成功日志为Debug
func (in *Instrumentation) query(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	return in.observe(ctx, op, false, attrs, fn)
}

func (in *Instrumentation) observe(ctx context.Context, op string, write bool, attrs []attribute.KeyValue, fn func(ctx context.Context) error) error {
	ctx, span := in.tracer.Start(ctx, "circulation."+op, trace.WithAttributes(attrs...))
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)

	in.metrics.ObserveOperation(op, metrics.ResultOf(err), elapsed)
	if write {
		in.refreshInventory()
	}

	args := make([]any, 0, 2*len(attrs)+6)
	args = append(args, slog.String("operation", op))
	for _, kv := range attrs {
		args = append(args, slog.String(string(kv.Key), kv.Value.Emit()))
	}
	args = append(args, slog.Duration("elapsed", elapsed))

	switch kind := apperrors.KindOf(err); kind {
	case apperrors.KindNone:
		span.SetStatus(codes.Ok, "")
		level := slog.LevelDebug
		if write {
			level = slog.LevelInfo
		}
		in.logger.Log(ctx, level, "操作成功", args...)
	case apperrors.KindInternal:
		tracing.RecordError(span, err)
		in.logger.ErrorContext(ctx, "操作失败", append(args, slog.Any("error", err))...)
	default:
		// 业务规则拒绝
		appErr := apperrors.GetAppError(err)
		tracing.RecordError(span, err)
		span.SetAttributes(
			attribute.Int("error.code", appErr.Code),
			attribute.String("error.kind", kind.String()),
		)
		in.logger.WarnContext(ctx, "操作被拒绝",
			append(args,
				slog.Int("code", appErr.Code),
				slog.String("kind", kind.String()),
				slog.String("error", err.Error()),
			)...,
		)
	}
	return err
}

func (in *Instrumentation) refreshInventory() {
	s := in.lib.Stats()
	in.metrics.SetInventory(s.Books, s.Available, s.OnLoan, s.Members)
}

func bookAttr(id string) attribute.KeyValue   { return attribute.String("book.id", id) }
func memberAttr(id string) attribute.KeyValue { return attribute.String("member.id", id) }
