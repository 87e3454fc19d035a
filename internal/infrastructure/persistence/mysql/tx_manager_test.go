package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thilan/bookshop/internal/domain/book"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestIsTransientDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"锁等待超时", errors.New("Error 1205: Lock wait timeout exceeded; try restarting transaction"), true},
		{"死锁", errors.New("Error 1213: Deadlock found when trying to get lock"), true},
		{"SQLite库锁", errors.New("database is locked"), true},
		{"事务超时", context.DeadlineExceeded, true},
		{"唯一索引冲突", errors.New("Error 1062: Duplicate entry 'C0001' for key 'no'"), false},
		{"业务错误", book.ErrInsufficientStock, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isTransientDBError(tt.err))
		})
	}
}

// 仓储把底层错误统一包装为内部错误,争用类错误必须在事务管理器
// 出口处重新归类,否则调用方的重试循环一次都不会重试。
func TestTransaction_ClassifiesLockContention(t *testing.T) {
	txManager := NewTxManager(newTestDB(t), 5*time.Second)

	driverErr := errors.New("Error 1205: Lock wait timeout exceeded; try restarting transaction")
	err := txManager.Transaction(context.Background(), func(ctx context.Context) error {
		return apperrors.Wrap(driverErr, "创建借阅单失败")
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.ErrorIs(t, err, driverErr)
}

func TestTransaction_KeepsBusinessError(t *testing.T) {
	txManager := NewTxManager(newTestDB(t), 5*time.Second)

	err := txManager.Transaction(context.Background(), func(ctx context.Context) error {
		return book.ErrInsufficientStock
	})

	require.ErrorIs(t, err, book.ErrInsufficientStock)
	assert.False(t, apperrors.IsTransient(err))
}
