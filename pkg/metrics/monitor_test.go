package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueryMonitor_RecordAndStats(t *testing.T) {
	m := NewQueryMonitor(100)

	m.Record("SELECT books", 10*time.Millisecond)
	m.Record("SELECT orders", 30*time.Millisecond)
	m.Record("UPDATE books", 20*time.Millisecond)

	stats := m.GetStats()
	assert.Equal(t, 3, stats.TotalQueries)
	assert.Equal(t, 20*time.Millisecond, stats.AverageDuration)
	assert.Equal(t, 30*time.Millisecond, stats.MaxDuration)
}

func TestQueryMonitor_SlowQueries(t *testing.T) {
	m := NewQueryMonitor(100)

	m.Record("fast", 5*time.Millisecond)
	m.Record("slow-1", 1200*time.Millisecond)
	m.Record("slow-2", 2500*time.Millisecond)

	slow := m.SlowQueries(time.Second)
	assert.Len(t, slow, 2)
	// 按耗时降序
	assert.Equal(t, "slow-2", slow[0].Query)
	assert.Equal(t, "slow-1", slow[1].Query)
}

func TestQueryMonitor_CapacityBound(t *testing.T) {
	m := NewQueryMonitor(10)

	for i := 0; i < 25; i++ {
		m.Record(fmt.Sprintf("q-%d", i), time.Millisecond)
	}

	stats := m.GetStats()
	assert.Equal(t, 10, stats.TotalQueries, "只保留最近10条")

	// 剩下的应是最后写入的10条（q-15..q-24）
	kept := make(map[string]bool)
	for _, r := range m.SlowQueries(0) {
		kept[r.Query] = true
	}
	assert.True(t, kept["q-24"])
	assert.False(t, kept["q-0"])
	assert.False(t, kept["q-14"])
}

func TestQueryMonitor_Reset(t *testing.T) {
	m := NewQueryMonitor(100)
	m.Record("q", time.Millisecond)
	m.Reset()

	assert.Equal(t, 0, m.GetStats().TotalQueries)
}
