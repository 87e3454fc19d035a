package customer

import (
	"context"
)

// Repository 客户仓储接口
type Repository interface {
	// Create 创建客户
	Create(ctx context.Context, customer *Customer) error

	// FindByID 根据ID查找客户
	FindByID(ctx context.Context, id uint) (*Customer, error)

	// FindByRegistrationNo 根据登记号查找客户
	FindByRegistrationNo(ctx context.Context, registrationNo string) (*Customer, error)

	// Update 更新客户信息
	Update(ctx context.Context, customer *Customer) error

	// Delete 删除客户
	Delete(ctx context.Context, id uint) error

	// List 分页查询客户列表(姓名/电话/登记号模糊搜索)
	List(ctx context.Context, params ListParams) ([]*Customer, int64, error)

	// Count 客户总数(健康检查用)
	Count(ctx context.Context) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 搜索关键词(姓名、电话、登记号)
}
