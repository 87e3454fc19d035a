package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/customer"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// customerRepository 客户仓储实现(MySQL)
type customerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository 创建客户仓储
func NewCustomerRepository(db *gorm.DB) customer.Repository {
	return &customerRepository{db: db}
}

// Create 创建客户
func (r *customerRepository) Create(ctx context.Context, c *customer.Customer) error {
	model := &CustomerModel{
		RegistrationNo: c.RegistrationNo,
		Name:           c.Name,
		Contact:        c.Contact,
		Address:        c.Address,
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return customer.ErrRegistrationNoDuplicate
		}
		return apperrors.Wrap(err, "创建客户失败")
	}

	c.ID = model.ID
	c.CreatedAt = model.CreatedAt
	c.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找客户
func (r *customerRepository) FindByID(ctx context.Context, id uint) (*customer.Customer, error) {
	var model CustomerModel
	err := getDB(ctx, r.db).First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}

	return toCustomerEntity(&model), nil
}

// FindByRegistrationNo 根据登记号查找客户
func (r *customerRepository) FindByRegistrationNo(ctx context.Context, registrationNo string) (*customer.Customer, error) {
	var model CustomerModel
	err := getDB(ctx, r.db).Where("registration_no = ?", registrationNo).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, apperrors.Wrap(err, "查询客户失败")
	}

	return toCustomerEntity(&model), nil
}

// Update 更新客户信息
func (r *customerRepository) Update(ctx context.Context, c *customer.Customer) error {
	model := &CustomerModel{
		ID:             c.ID,
		RegistrationNo: c.RegistrationNo,
		Name:           c.Name,
		Contact:        c.Contact,
		Address:        c.Address,
		CreatedAt:      c.CreatedAt,
	}

	if err := getDB(ctx, r.db).Save(model).Error; err != nil {
		if isDuplicateError(err) {
			return customer.ErrRegistrationNoDuplicate
		}
		return apperrors.Wrap(err, "更新客户失败")
	}

	c.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete 删除客户
func (r *customerRepository) Delete(ctx context.Context, id uint) error {
	result := getDB(ctx, r.db).Delete(&CustomerModel{}, id)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除客户失败")
	}

	if result.RowsAffected == 0 {
		return customer.ErrCustomerNotFound
	}

	return nil
}

// List 分页查询客户列表
func (r *customerRepository) List(ctx context.Context, params customer.ListParams) ([]*customer.Customer, int64, error) {
	var models []CustomerModel
	var total int64

	query := getDB(ctx, r.db).Model(&CustomerModel{})

	if params.Keyword != "" {
		keyword := "%" + params.Keyword + "%"
		query = query.Where("name LIKE ? OR contact LIKE ? OR registration_no LIKE ?", keyword, keyword, keyword)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询客户总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("created_at DESC").Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询客户列表失败")
	}

	customers := make([]*customer.Customer, len(models))
	for i := range models {
		customers[i] = toCustomerEntity(&models[i])
	}

	return customers, total, nil
}

// Count 客户总数
func (r *customerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := getDB(ctx, r.db).Model(&CustomerModel{}).Count(&total).Error; err != nil {
		return 0, apperrors.Wrap(err, "统计客户总数失败")
	}
	return total, nil
}

// toCustomerEntity GORM模型 → 领域实体
func toCustomerEntity(model *CustomerModel) *customer.Customer {
	return &customer.Customer{
		ID:             model.ID,
		RegistrationNo: model.RegistrationNo,
		Name:           model.Name,
		Contact:        model.Contact,
		Address:        model.Address,
		CreatedAt:      model.CreatedAt,
		UpdatedAt:      model.UpdatedAt,
	}
}
