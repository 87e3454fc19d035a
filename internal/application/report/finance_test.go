package report

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thilan/bookshop/internal/domain/payment"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, mysql.AutoMigrate(db))
	return db
}

func seedPayment(t *testing.T, repo payment.Repository, orderID, customerID uint, amount int64, returnDate time.Time) {
	t.Helper()
	orderDate := returnDate.AddDate(0, 0, -14)
	require.NoError(t, repo.Accrue(context.Background(), orderID, customerID, "客户", orderDate, amount, returnDate))
}

func TestFinance_Daily(t *testing.T) {
	db := newTestDB(t)
	repo := mysql.NewPaymentRepository(db)
	uc := NewFinanceUseCase(repo)
	ctx := context.Background()

	day15 := time.Date(2026, 8, 15, 12, 0, 0, 0, time.Local)
	day20 := time.Date(2026, 8, 20, 12, 0, 0, 0, time.Local)
	// 9月的付款不应计入8月
	sept := time.Date(2026, 9, 1, 12, 0, 0, 0, time.Local)

	seedPayment(t, repo, 1, 1, 5000, day15)
	seedPayment(t, repo, 2, 2, 8000, day15)
	seedPayment(t, repo, 3, 1, 3000, day20)
	seedPayment(t, repo, 4, 3, 9000, sept)

	got, err := uc.Daily(ctx, 2026, time.August)
	require.NoError(t, err)

	assert.Equal(t, int64(16000), got.TotalAmount)
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 2, got.CustomerCount)

	require.Len(t, got.Buckets, 2)
	assert.Equal(t, "2026-08-15", got.Buckets[0].Period)
	assert.Equal(t, int64(13000), got.Buckets[0].TotalAmount)
	assert.Equal(t, 2, got.Buckets[0].OrderCount)
	assert.Equal(t, 2, got.Buckets[0].CustomerCount)
	assert.Equal(t, "2026-08-20", got.Buckets[1].Period)
	assert.Equal(t, int64(3000), got.Buckets[1].TotalAmount)
}

func TestFinance_Monthly(t *testing.T) {
	db := newTestDB(t)
	repo := mysql.NewPaymentRepository(db)
	uc := NewFinanceUseCase(repo)

	seedPayment(t, repo, 1, 1, 5000, time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local))
	seedPayment(t, repo, 2, 1, 7000, time.Date(2026, 3, 25, 12, 0, 0, 0, time.Local))
	seedPayment(t, repo, 3, 2, 4000, time.Date(2026, 11, 2, 12, 0, 0, 0, time.Local))
	// 2025年的付款不应计入
	seedPayment(t, repo, 4, 2, 9000, time.Date(2025, 12, 31, 12, 0, 0, 0, time.Local))

	got, err := uc.Monthly(context.Background(), 2026)
	require.NoError(t, err)

	assert.Equal(t, int64(16000), got.TotalAmount)
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, 2, got.CustomerCount)

	require.Len(t, got.Buckets, 2)
	assert.Equal(t, "2026-03", got.Buckets[0].Period)
	assert.Equal(t, int64(12000), got.Buckets[0].TotalAmount)
	assert.Equal(t, 1, got.Buckets[0].CustomerCount)
	assert.Equal(t, "2026-11", got.Buckets[1].Period)
}

func TestFinance_InvalidYear(t *testing.T) {
	uc := NewFinanceUseCase(mysql.NewPaymentRepository(newTestDB(t)))

	_, err := uc.Monthly(context.Background(), 1990)
	require.Error(t, err)
}
