package staff

import (
	"context"
)

// Repository 店员仓储接口
type Repository interface {
	// Create 创建店员账号
	Create(ctx context.Context, staff *Staff) error

	// FindByID 根据ID查找店员
	FindByID(ctx context.Context, id uint) (*Staff, error)

	// FindByUsername 根据登录名查找店员
	FindByUsername(ctx context.Context, username string) (*Staff, error)
}
