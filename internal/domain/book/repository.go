package book

import (
	"context"
)

// Repository 图书仓储接口(依赖倒置原则)
// 由domain层定义接口,infrastructure层实现,便于Mock测试。
type Repository interface {
	// Create 创建图书
	Create(ctx context.Context, book *Book) error

	// FindByID 根据ID查找图书
	FindByID(ctx context.Context, id uint) (*Book, error)

	// FindByISBN 根据ISBN查找图书
	FindByISBN(ctx context.Context, isbn string) (*Book, error)

	// Update 更新图书信息
	Update(ctx context.Context, book *Book) error

	// Delete 删除图书
	Delete(ctx context.Context, id uint) error

	// List 分页查询图书列表(书名/作者/ISBN模糊搜索)
	List(ctx context.Context, params ListParams) ([]*Book, int64, error)

	// LockByID 悲观锁查询图书(借出时锁定库存)
	// MySQL下使用SELECT FOR UPDATE锁定行,防止并发超借。
	LockByID(ctx context.Context, id uint) (*Book, error)

	// UpdateStock 更新库存(原子操作)
	// delta为正数表示回补,负数表示借出扣减。
	// 扣减时SQL层校验库存充足,不足则返回ErrInsufficientStock。
	UpdateStock(ctx context.Context, id uint, delta int) error

	// Count 图书总数(健康检查用)
	Count(ctx context.Context) (int64, error)

	// CountByAuthor 统计作者名下的图书数量(删除作者前检查)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(书名、作者、ISBN,不区分大小写)
}
