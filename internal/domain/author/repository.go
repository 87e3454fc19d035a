package author

import (
	"context"
)

// Repository 作者仓储接口
type Repository interface {
	// Create 创建作者
	Create(ctx context.Context, author *Author) error

	// FindByID 根据ID查找作者
	FindByID(ctx context.Context, id uint) (*Author, error)

	// Update 更新作者信息
	Update(ctx context.Context, author *Author) error

	// Delete 删除作者
	Delete(ctx context.Context, id uint) error

	// List 分页查询作者列表(姓名模糊搜索)
	List(ctx context.Context, params ListParams) ([]*Author, int64, error)

	// Count 作者总数(健康检查用)
	Count(ctx context.Context) (int64, error)
}

// ListParams 列表查询参数
type ListParams struct {
	Page     int    // 页码(从1开始)
	PageSize int    // 每页数量
	Keyword  string // 姓名搜索关键词
}
