// Package metrics 提供基于Prometheus的指标收集
//
// 指标设计：
// - Counter：只增不减（HTTP请求总数、借阅单总数、缓存命中数）
// - Gauge：瞬时值（处理中请求数、熔断器状态）
// - Histogram：分布（请求耗时、借阅单创建耗时）
//
// /metrics端点由Prometheus Server定期抓取；业务侧只管打点。
// 指标在包加载时注册到默认Registry，进程内注册一次。
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP请求相关指标
var (
	// HTTPRequestsTotal HTTP请求总数
	// 标签：method（GET/POST）、path（/api/v1/orders）、status（200/500）
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP请求总数",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration HTTP请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP请求耗时（秒）",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 10},
		},
		[]string{"method", "path"},
	)

	// HTTPRequestsInProgress 正在处理的HTTP请求数
	HTTPRequestsInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_progress",
			Help: "正在处理的HTTP请求数",
		},
	)
)

// 借阅业务指标
var (
	// OrdersCreatedTotal 借阅单创建总数
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_orders_created_total",
			Help: "借阅单创建总数",
		},
	)

	// OrdersFailedTotal 借阅单创建失败总数
	OrdersFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_orders_failed_total",
			Help: "借阅单创建失败总数",
		},
	)

	// OrdersCompletedTotal 全部归还完成的借阅单总数
	OrdersCompletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_orders_completed_total",
			Help: "全部归还完成的借阅单总数",
		},
	)

	// OrderCreationDuration 借阅单创建耗时（含重试）
	OrderCreationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookshop_order_creation_duration_seconds",
			Help:    "借阅单创建耗时（秒，含重试）",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	// PaymentsAccruedTotal 累计入账的租金（分）
	PaymentsAccruedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_payments_accrued_cents_total",
			Help: "累计入账租金（分）",
		},
	)
)

// 缓存与熔断器指标
var (
	// CacheHitsTotal 缓存命中总数
	CacheHitsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_cache_hits_total",
			Help: "缓存命中总数",
		},
	)

	// CacheMissesTotal 缓存未命中总数（含Redis不可用时的降级）
	CacheMissesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookshop_cache_misses_total",
			Help: "缓存未命中总数",
		},
	)

	// CircuitBreakerState 熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bookshop_circuit_breaker_state",
			Help: "熔断器状态（0=CLOSED, 1=OPEN, 2=HALF_OPEN）",
		},
		[]string{"name"},
	)
)

// 事件指标
var (
	// EventsPublishedTotal 领域事件发布总数
	// 标签：routing_key（order.created/order.completed）、result（success/failure）
	EventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookshop_events_published_total",
			Help: "领域事件发布总数",
		},
		[]string{"routing_key", "result"},
	)
)
