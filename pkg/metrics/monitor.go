package metrics

import (
	"sort"
	"sync"
	"time"
)

// QueryRecord 一次数据库查询的耗时记录
type QueryRecord struct {
	Query     string        `json:"query"`    // SQL摘要（表名+操作，不含参数）
	Duration  time.Duration `json:"duration"` // 耗时
	Timestamp time.Time     `json:"timestamp"`
}

// QueryMonitor 进程内查询监控器
// 设计说明：
// 1. 环形缓冲，只保留最近maxRecords条记录（防止内存无限增长）
// 2. 由GORM回调打点，性能接口读取
// 3. Prometheus指标面向长期趋势，这里面向"最近发生了什么"的现场排查
type QueryMonitor struct {
	mu         sync.Mutex
	records    []QueryRecord
	maxRecords int
}

// NewQueryMonitor 创建查询监控器
func NewQueryMonitor(maxRecords int) *QueryMonitor {
	if maxRecords <= 0 {
		maxRecords = 1000
	}
	return &QueryMonitor{
		records:    make([]QueryRecord, 0, maxRecords),
		maxRecords: maxRecords,
	}
}

// Record 记录一次查询
func (m *QueryMonitor) Record(query string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, QueryRecord{
		Query:     query,
		Duration:  duration,
		Timestamp: time.Now(),
	})

	// 超出容量时丢弃最旧的记录
	if len(m.records) > m.maxRecords {
		m.records = m.records[len(m.records)-m.maxRecords:]
	}
}

// SlowQueries 返回耗时超过threshold的查询（按耗时降序）
func (m *QueryMonitor) SlowQueries(threshold time.Duration) []QueryRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	slow := make([]QueryRecord, 0)
	for _, r := range m.records {
		if r.Duration > threshold {
			slow = append(slow, r)
		}
	}
	sort.Slice(slow, func(i, j int) bool {
		return slow[i].Duration > slow[j].Duration
	})
	return slow
}

// Stats 查询统计快照
type Stats struct {
	TotalQueries    int           `json:"total_queries"`
	AverageDuration time.Duration `json:"average_duration"`
	MaxDuration     time.Duration `json:"max_duration"`
}

// GetStats 返回当前统计快照
func (m *QueryMonitor) GetStats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{TotalQueries: len(m.records)}
	if len(m.records) == 0 {
		return stats
	}

	var total time.Duration
	for _, r := range m.records {
		total += r.Duration
		if r.Duration > stats.MaxDuration {
			stats.MaxDuration = r.Duration
		}
	}
	stats.AverageDuration = total / time.Duration(len(m.records))
	return stats
}

// Reset 清空所有记录（性能接口的clear操作）
func (m *QueryMonitor) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = m.records[:0]
}
