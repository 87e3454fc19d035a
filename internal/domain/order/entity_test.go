package order

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoonDate(t *testing.T) {
	morning := time.Date(2026, 3, 1, 8, 15, 30, 0, time.Local)
	evening := time.Date(2026, 3, 1, 23, 59, 59, 0, time.Local)

	noon := time.Date(2026, 3, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, noon, NoonDate(morning))
	assert.Equal(t, noon, NoonDate(evening))
}

func TestNewOrder(t *testing.T) {
	details := []OrderDetail{
		{BookID: 1, BookName: "Madol Doova", Quantity: 1},
		{BookID: 2, BookName: "Gamperaliya", Quantity: 1},
	}
	o := NewOrder(7, "Nimal Perera", 14, details)

	assert.Equal(t, uint(7), o.CustomerID)
	assert.Equal(t, "Nimal Perera", o.CustomerName)
	assert.Equal(t, StatusPending, o.Status)
	assert.Equal(t, 12, o.OrderDate.Hour())
	assert.Equal(t, o.OrderDate.AddDate(0, 0, 14), o.ReturnDate)
	assert.Len(t, o.Details, 2)
}

func TestOrder_Complete(t *testing.T) {
	o := NewOrder(1, "Nimal Perera", 14, nil)

	// 完结时应还日期被实际归还日期覆盖
	returnedAt := time.Date(2026, 3, 20, 16, 45, 0, 0, time.Local)
	err := o.Complete(returnedAt)
	assert.NoError(t, err)
	assert.Equal(t, StatusCompleted, o.Status)
	assert.Equal(t, NoonDate(returnedAt), o.ReturnDate)

	// 已完结不能再次完结
	err = o.Complete(returnedAt)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestOrder_PendingCount(t *testing.T) {
	o := &Order{
		Details: []OrderDetail{
			{Status: DetailStatusPending},
			{Status: DetailStatusReturned},
			{Status: DetailStatusPending},
		},
	}
	assert.Equal(t, 2, o.PendingCount())
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "借出中", StatusPending.String())
	assert.Equal(t, "已完成", StatusCompleted.String())
	assert.Equal(t, "未知状态", Status(99).String())
}
