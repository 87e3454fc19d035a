package payment

import (
	"context"
	"time"
)

// Repository 付款记录仓储接口
type Repository interface {
	// Accrue 累加付款(upsert)
	// 记录不存在时创建(写入客户姓名与借出日期快照),
	// 已存在时金额累加、归还日期覆盖。必须在归还事务内调用。
	Accrue(ctx context.Context, orderID, customerID uint, customerName string, orderDate time.Time, amount int64, returnDate time.Time) error

	// FindByOrderID 查询借阅单的付款记录
	FindByOrderID(ctx context.Context, orderID uint) (*Payment, error)

	// ListByCustomerID 查询客户的全部付款记录(客户历史用)
	ListByCustomerID(ctx context.Context, customerID uint) ([]*Payment, error)

	// ListByReturnDateRange 按归还日期区间查询付款记录(财务统计用)
	ListByReturnDateRange(ctx context.Context, from, to time.Time) ([]*Payment, error)

	// DeleteByCustomerID 删除客户的全部付款记录(级联删除用)
	DeleteByCustomerID(ctx context.Context, customerID uint) error
}
