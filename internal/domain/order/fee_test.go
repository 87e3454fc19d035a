package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// afterDays 返回借出日之后第n天的同一时刻(借出当天n=0)
func afterDays(orderDate time.Time, n int) time.Time {
	return orderDate.Add(time.Duration(n) * 24 * time.Hour)
}

func TestDaysSince(t *testing.T) {
	orderDate := NoonDate(time.Date(2026, 3, 1, 9, 30, 0, 0, time.Local))

	// 借出当天算第1天
	assert.Equal(t, 1, DaysSince(orderDate, orderDate))
	// 不足24小时仍算第1天
	assert.Equal(t, 1, DaysSince(orderDate, orderDate.Add(23*time.Hour)))
	// 满24小时进入第2天
	assert.Equal(t, 2, DaysSince(orderDate, orderDate.Add(24*time.Hour)))
	assert.Equal(t, 14, DaysSince(orderDate, afterDays(orderDate, 13)))
	assert.Equal(t, 15, DaysSince(orderDate, afterDays(orderDate, 14)))
}

func TestTariff_FeePerBook(t *testing.T) {
	tariff := DefaultTariff()
	orderDate := NoonDate(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))

	tests := []struct {
		name    string
		daysOut int // 借出后经过的整天数
		want    int64
	}{
		{"借出当天收基础租金", 0, 5000},
		{"第14天仍是基础租金", 13, 5000},
		{"第15天加收一周", 14, 8000},
		{"第21天仍是一周超期", 20, 8000},
		{"第22天加收两周", 21, 11000},
		{"第28天仍是两周超期", 27, 11000},
		{"第29天加收三周", 28, 14000},
		{"第35天仍是三周超期", 34, 14000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tariff.FeePerBook(orderDate, afterDays(orderDate, tt.daysOut))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTariff_FeePerBook_Monotonic(t *testing.T) {
	tariff := DefaultTariff()
	orderDate := NoonDate(time.Now())

	// 租金随天数单调不减
	prev := int64(0)
	for d := 0; d < 100; d++ {
		fee := tariff.FeePerBook(orderDate, afterDays(orderDate, d))
		assert.GreaterOrEqual(t, fee, prev, "day %d", d)
		prev = fee
	}
}

func TestTariff_TotalPending(t *testing.T) {
	tariff := DefaultTariff()
	orderDate := NoonDate(time.Now())

	assert.Equal(t, int64(15000), tariff.TotalPending(orderDate, orderDate, 3))
	assert.Equal(t, int64(0), tariff.TotalPending(orderDate, orderDate, 0))
	assert.Equal(t, int64(0), tariff.TotalPending(orderDate, orderDate, -1))
}

func TestCurrentPayment(t *testing.T) {
	// 按归还比例分摊,整数除法向下取整
	assert.Equal(t, int64(5000), CurrentPayment(15000, 1, 3))
	assert.Equal(t, int64(10000), CurrentPayment(15000, 2, 3))
	assert.Equal(t, int64(15000), CurrentPayment(15000, 3, 3))

	// 不能整除时向下取整,余数留到后续归还
	assert.Equal(t, int64(3333), CurrentPayment(10000, 1, 3))

	// 没有未归还图书时应收为0
	assert.Equal(t, int64(0), CurrentPayment(0, 1, 0))
	assert.Equal(t, int64(0), CurrentPayment(15000, 0, 0))
}

func TestTariff_QuoteFor(t *testing.T) {
	tariff := DefaultTariff()
	orderDate := NoonDate(time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local))

	o := &Order{
		OrderDate: orderDate,
		Details: []OrderDetail{
			{Status: DetailStatusPending},
			{Status: DetailStatusPending},
			{Status: DetailStatusReturned},
		},
	}

	// 第20天:单本8000,两本未归还共16000
	quote := tariff.QuoteFor(o, afterDays(orderDate, 19))
	assert.Equal(t, 2, quote.PendingCount)
	assert.Equal(t, int64(8000), quote.FeePerBook)
	assert.Equal(t, int64(16000), quote.TotalPayment)
}
