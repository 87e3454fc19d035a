package order

import (
	"context"
	"time"
)

// Repository 借阅单仓储接口(依赖倒置原则)
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 支持事务操作(通过context传递事务)
type Repository interface {
	// Create 创建借阅单(不含明细,明细由CreateDetail逐条创建)
	Create(ctx context.Context, order *Order) error

	// CreateDetail 创建借阅明细
	// 创建借阅单时逐本锁库存、逐本落明细,必须与Create在同一事务中。
	CreateDetail(ctx context.Context, detail *OrderDetail) error

	// FindByID 根据ID查找借阅单(包含明细)
	FindByID(ctx context.Context, id uint) (*Order, error)

	// Update 更新借阅单(主要用于状态与完结日期)
	Update(ctx context.Context, order *Order) error

	// List 分页查询借阅单列表
	List(ctx context.Context, params ListParams) ([]*Order, int64, error)

	// ListByCustomerID 查询客户的全部借阅单(含明细,用于客户历史)
	ListByCustomerID(ctx context.Context, customerID uint) ([]*Order, error)

	// MarkDetailReturned 把明细从未归还翻转为已归还(幂等保护)
	// 只在明细仍为未归还时更新,返回是否真正翻转。
	// 重复归还同一本书不会二次回补库存、二次计费。
	MarkDetailReturned(ctx context.Context, detailID uint, returnedAt time.Time) (bool, error)

	// CountPendingDetails 统计借阅单的未归还明细数量
	CountPendingDetails(ctx context.Context, orderID uint) (int64, error)

	// CountPendingByCustomer 统计客户未完结的借阅单数量(删除客户前检查)
	CountPendingByCustomer(ctx context.Context, customerID uint) (int64, error)

	// CountPendingByBook 统计引用图书的未归还明细数量(删除图书前检查)
	CountPendingByBook(ctx context.Context, bookID uint) (int64, error)

	// DeleteByCustomerID 删除客户的全部借阅单与明细(级联删除用)
	DeleteByCustomerID(ctx context.Context, customerID uint) error
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int     // 页码(从1开始)
	PageSize int     // 每页数量
	Status   *Status // 状态过滤,nil表示全部
	Keyword  string  // 客户姓名模糊搜索
}
