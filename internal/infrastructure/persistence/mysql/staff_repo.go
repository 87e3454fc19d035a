package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/staff"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// staffRepository 店员仓储实现(MySQL)
type staffRepository struct {
	db *gorm.DB
}

// NewStaffRepository 创建店员仓储
func NewStaffRepository(db *gorm.DB) staff.Repository {
	return &staffRepository{db: db}
}

// Create 创建店员账号
func (r *staffRepository) Create(ctx context.Context, s *staff.Staff) error {
	model := &StaffModel{
		Username: s.Username,
		Password: s.Password,
		Nickname: s.Nickname,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return staff.ErrUsernameDuplicate
		}
		return apperrors.Wrap(err, "创建店员账号失败")
	}

	s.ID = model.ID
	s.CreatedAt = model.CreatedAt
	s.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找店员
func (r *staffRepository) FindByID(ctx context.Context, id uint) (*staff.Staff, error) {
	var model StaffModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "查询店员失败")
	}

	return toStaffEntity(&model), nil
}

// FindByUsername 根据登录名查找店员
func (r *staffRepository) FindByUsername(ctx context.Context, username string) (*staff.Staff, error) {
	var model StaffModel
	err := getDB(ctx, r.db).Where("username = ?", username).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, apperrors.Wrap(err, "查询店员失败")
	}

	return toStaffEntity(&model), nil
}

// toStaffEntity GORM模型 → 领域实体
func toStaffEntity(model *StaffModel) *staff.Staff {
	return &staff.Staff{
		ID:        model.ID,
		Username:  model.Username,
		Password:  model.Password,
		Nickname:  model.Nickname,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
