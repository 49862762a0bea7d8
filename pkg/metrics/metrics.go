// Package metrics 提供基于Prometheus的指标收集
//
// # 指标类型
//
//   - Counter（计数器）：只增不减，如借书总次数
//   - Gauge（仪表盘）：可增可减的瞬时值，如当前借出图书数
//   - Histogram（直方图）：观测值分布，如操作耗时
//
// # 使用示例
//
//	c := metrics.NewCollector("library")
//
//	start := time.Now()
//	err := lib.BorrowBook(bookID, memberID)
//	c.ObserveOperation("borrow_book", metrics.ResultOf(err), time.Since(start))
//
//	// 暴露指标时使用c.Registry()（而不是全局DefaultRegisterer）
//
// Collector使用独立的Registry，同一进程内可以创建多个（测试中互不干扰）。
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	apperrors "github.com/xiebiao/library/pkg/errors"
)

// 操作结果标签取值
const (
	ResultSuccess  = "success"
	ResultRejected = "rejected" // 业务规则拒绝（参数错误、不存在、冲突）
	ResultError    = "error"    // 系统错误
)

// ResultOf 按错误类别返回result标签
func ResultOf(err error) string {
	switch apperrors.KindOf(err) {
	case apperrors.KindNone:
		return ResultSuccess
	case apperrors.KindInternal:
		return ResultError
	default:
		return ResultRejected
	}
}

// Collector 图书馆指标集合
type Collector struct {
	registry *prometheus.Registry

	// OperationsTotal 操作总数（Counter）
	// 标签：operation（borrow_book/return_book/...）、result（success/rejected/error）
	OperationsTotal *prometheus.CounterVec

	// OperationDuration 操作耗时（Histogram）
	// 标签：operation
	OperationDuration *prometheus.HistogramVec

	// 目录与名册（Gauge），每次操作后按Stats快照更新
	Books          prometheus.Gauge
	BooksAvailable prometheus.Gauge
	BooksOnLoan    prometheus.Gauge
	Members        prometheus.Gauge
}

// NewCollector 创建指标集合并注册到新的Registry
// namespace为指标名前缀，如library → library_operations_total
func NewCollector(namespace string) *Collector {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Collector{
		registry: reg,

		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "图书馆操作总数",
			},
			[]string{"operation", "result"},
		),

		// 内存操作，桶从10µs开始
		OperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "图书馆操作耗时（秒）",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
			[]string{"operation"},
		),

		Books: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "books",
			Help:      "目录中的图书数",
		}),
		BooksAvailable: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "books_available",
			Help:      "可借图书数",
		}),
		BooksOnLoan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "books_on_loan",
			Help:      "已借出图书数",
		}),
		Members: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "members",
			Help:      "注册会员数",
		}),
	}
}

// Registry 返回指标所在的Registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ObserveOperation 记录一次操作的结果和耗时
func (c *Collector) ObserveOperation(operation, result string, d time.Duration) {
	c.OperationsTotal.WithLabelValues(operation, result).Inc()
	c.OperationDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetInventory 更新目录与名册Gauge
func (c *Collector) SetInventory(books, available, onLoan, members int) {
	c.Books.Set(float64(books))
	c.BooksAvailable.Set(float64(available))
	c.BooksOnLoan.Set(float64(onLoan))
	c.Members.Set(float64(members))
}
