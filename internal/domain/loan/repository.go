package loan

import (
	"context"
)

// Repository 借款台账仓储接口
type Repository interface {
	// Accrue 累加借款金额(upsert)
	// 客户没有台账时创建,已有时金额累加。
	Accrue(ctx context.Context, customerID uint, amount int64) error

	// FindByCustomerID 查询客户的借款台账
	// 没有记录时返回nil而不是错误(客户从未借款)。
	FindByCustomerID(ctx context.Context, customerID uint) (*Loan, error)

	// DeleteByCustomerID 删除客户的借款台账(级联删除用)
	DeleteByCustomerID(ctx context.Context, customerID uint) error
}
