package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/author"
	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	"github.com/thilan/bookshop/pkg/metrics"
	"github.com/thilan/bookshop/pkg/response"
)

// 性能接口认定慢查询的阈值
const slowQueryThreshold = 200 * time.Millisecond

// SystemHandler 健康检查与性能统计HTTP处理器
type SystemHandler struct {
	db           *gorm.DB
	bookRepo     book.Repository
	authorRepo   author.Repository
	customerRepo customer.Repository
	monitor      *metrics.QueryMonitor
	cache        *redis.CacheStore
}

// NewSystemHandler 创建系统处理器
func NewSystemHandler(
	db *gorm.DB,
	bookRepo book.Repository,
	authorRepo author.Repository,
	customerRepo customer.Repository,
	monitor *metrics.QueryMonitor,
	cache *redis.CacheStore,
) *SystemHandler {
	return &SystemHandler{
		db:           db,
		bookRepo:     bookRepo,
		authorRepo:   authorRepo,
		customerRepo: customerRepo,
		monitor:      monitor,
		cache:        cache,
	}
}

// Health 健康检查
// @Summary      健康检查
// @Description  数据库连通性 + 各业务表行数
// @Tags         系统模块
// @Produce      json
// @Success      200 {object} response.Response "服务正常"
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	var one int
	if err := h.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		response.ErrorWithCode(c, 50001, "数据库不可用")
		return
	}

	books, _ := h.bookRepo.Count(ctx)
	authors, _ := h.authorRepo.Count(ctx)
	customers, _ := h.customerRepo.Count(ctx)

	var orders int64
	h.db.WithContext(ctx).Table("orders").Count(&orders)

	response.Success(c, gin.H{
		"status":    "healthy",
		"books":     books,
		"authors":   authors,
		"customers": customers,
		"orders":    orders,
	})
}

// Performance 性能统计
// @Summary      性能统计
// @Description  数据库查询监控(总数/平均/最大/慢查询)与缓存命中率
// @Tags         系统模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "查询成功"
// @Router       /performance [get]
func (h *SystemHandler) Performance(c *gin.Context) {
	stats := h.monitor.GetStats()

	response.Success(c, gin.H{
		"database": gin.H{
			"total_queries":       stats.TotalQueries,
			"average_duration_ms": float64(stats.AverageDuration.Microseconds()) / 1000,
			"max_duration_ms":     float64(stats.MaxDuration.Microseconds()) / 1000,
			"slow_queries":        h.monitor.SlowQueries(slowQueryThreshold),
		},
		"cache": h.cache.Stats(),
	})
}

// ClearPerformance 清空性能统计
// @Summary      清空性能统计
// @Description  重置查询监控记录并清空缓存
// @Tags         系统模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "清空成功"
// @Router       /performance/clear [post]
func (h *SystemHandler) ClearPerformance(c *gin.Context) {
	h.monitor.Reset()
	h.cache.Clear(c.Request.Context())

	response.Success(c, gin.H{"cleared": true})
}
