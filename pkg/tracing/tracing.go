// Package tracing 提供基于OpenTelemetry的链路追踪
//
// # 核心概念
//
//   - Trace（追踪）：一次完整的调用链路，如一次借书
//   - Span（跨度）：链路中的一个操作单元，包含名称、耗时、状态和属性
//   - SpanContext：TraceID/SpanID，用于关联日志
//
// # 使用示例
//
//	tp, err := tracing.NewProvider(ctx, tracing.Options{
//	    ServiceName: "library",
//	    Endpoint:    "localhost:4317", // 为空时不导出
//	    SampleRatio: 1,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tp.Shutdown(context.Background())
//
//	ctx, span := tp.Tracer("circulation").Start(ctx, "BorrowBook")
//	defer span.End()
//	if err := lib.BorrowBook(bookID, memberID); err != nil {
//	    tracing.RecordError(span, err)
//	}
package tracing

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
)

// Options 追踪配置
type Options struct {
	ServiceName string
	Endpoint    string  // OTLP gRPC端点（host:port），为空时不创建exporter
	SampleRatio float64 // 0~1，>=1 时全部采样
}

// NewProvider 创建TracerProvider
//
// 1. Endpoint非空时创建OTLP gRPC exporter（批量发送）
// 2. 采样策略：ParentBased(TraceIDRatioBased(SampleRatio))
// 3. extra用于追加SpanProcessor等选项（测试中挂载SpanRecorder）
//
// 调用方负责在退出前调用Shutdown，否则可能丢失最后一批Span
func NewProvider(ctx context.Context, opts Options, extra ...sdktrace.TracerProviderOption) (*sdktrace.TracerProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(opts.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("创建资源属性失败: %w", err)
	}

	tpOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sampler(opts.SampleRatio)),
		sdktrace.WithResource(res),
	}

	if opts.Endpoint != "" {
		dialCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		exporter, err := otlptracegrpc.New(dialCtx,
			otlptracegrpc.WithEndpoint(opts.Endpoint),
			otlptracegrpc.WithInsecure(), // 禁用TLS（生产环境应启用）
		)
		if err != nil {
			return nil, fmt.Errorf("创建OTLP exporter失败: %w", err)
		}
		tpOpts = append(tpOpts, sdktrace.WithBatcher(exporter))
	}

	tpOpts = append(tpOpts, extra...)
	return sdktrace.NewTracerProvider(tpOpts...), nil
}

// InitTracer 创建TracerProvider并设置为全局Provider，同时安装W3C传播器
// 返回的shutdown必须在程序退出前调用
func InitTracer(ctx context.Context, opts Options) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	tp, err := NewProvider(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(
		propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{}, // W3C Trace Context
			propagation.Baggage{},
		),
	)

	shutdown := func(ctx context.Context) error {
		// 设置5秒超时，防止shutdown阻塞过久
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return tp.Shutdown(ctx)
	}
	return tp, shutdown, nil
}

func sampler(ratio float64) sdktrace.Sampler {
	if ratio >= 1 {
		return sdktrace.AlwaysSample()
	}
	return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
}

// StartSpan 使用全局Provider创建Span
func StartSpan(ctx context.Context, tracerName, spanName string) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, spanName)
}

// RecordError 记录错误并把Span标记为失败
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ExtractTraceID 从Context提取TraceID（用于关联日志），没有有效Span时返回空串
func ExtractTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.TraceID().String()
}

// ExtractSpanID 从Context提取SpanID
func ExtractSpanID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return ""
	}
	return sc.SpanID().String()
}
