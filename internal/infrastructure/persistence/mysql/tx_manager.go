package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// TxManager 事务管理器
// 设计说明:
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 嵌套事务由GORM自动使用Savepoint
type TxManager struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTxManager 创建事务管理器
// timeout限制单个事务的最长执行时间,<=0时不限制。
func NewTxManager(db *gorm.DB, timeout time.Duration) *TxManager {
	return &TxManager{db: db, timeout: timeout}
}

// Transaction 执行事务
// fn函数内的所有Repository操作都会在同一事务中执行:
// fn返回error时自动ROLLBACK,返回nil时自动COMMIT。
// 超时后context取消,事务回滚。
//
// 使用示例:
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    book, err := bookRepo.LockByID(ctx, bookID)
//	    if err != nil {
//	        return err
//	    }
//	    if err := orderRepo.CreateDetail(ctx, detail); err != nil {
//	        return err // 自动回滚
//	    }
//	    return bookRepo.UpdateStock(ctx, bookID, -quantity)
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Repository的getDB方法会从context提取事务DB
		txCtx := context.WithValue(ctx, "tx", tx)
		return fn(txCtx)
	})

	// 锁等待超时、死锁、事务超时统一归类为暂时性错误,
	// 调用方(创建借阅单的重试循环、级联删除的Saga降级)据此决定是否重试
	if err != nil && isTransientDBError(err) {
		return apperrors.WrapTransient(err, "数据库繁忙,请稍后重试")
	}
	return err
}

// getDB 从context获取事务DB,如果没有则使用传入的默认DB
// 各Repository共用的事务传递机制。
func getDB(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value("tx").(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
