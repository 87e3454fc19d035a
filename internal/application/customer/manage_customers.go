package customer

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/customer"
)

// ManageCustomersUseCase 客户管理用例(注册、更新、查询)
type ManageCustomersUseCase struct {
	customerRepo customer.Repository
}

// NewManageCustomersUseCase 创建客户管理用例
func NewManageCustomersUseCase(customerRepo customer.Repository) *ManageCustomersUseCase {
	return &ManageCustomersUseCase{customerRepo: customerRepo}
}

// CustomerDTO 客户DTO
type CustomerDTO struct {
	ID             uint   `json:"id"`
	RegistrationNo string `json:"registration_no"`
	Name           string `json:"name"`
	Contact        string `json:"contact"`
	Address        string `json:"address"`
	CreatedAt      string `json:"created_at"`
}

// RegisterCustomerRequest 客户注册请求
type RegisterCustomerRequest struct {
	RegistrationNo string
	Name           string
	Contact        string
	Address        string
}

// Register 登记新客户
// 登记号重复时返回Conflict(仓储层由唯一索引转换)。
func (uc *ManageCustomersUseCase) Register(ctx context.Context, req RegisterCustomerRequest) (*CustomerDTO, error) {
	c := customer.NewCustomer(req.RegistrationNo, req.Name, req.Contact, req.Address)
	if err := uc.customerRepo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerDTO(c), nil
}

// Update 更新客户信息
// 客户改名后历史借阅单上的姓名快照不变。
func (uc *ManageCustomersUseCase) Update(ctx context.Context, id uint, name, contact, address string) (*CustomerDTO, error) {
	c, err := uc.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.UpdateInfo(name, contact, address)
	if err := uc.customerRepo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerDTO(c), nil
}

// Get 客户详情
func (uc *ManageCustomersUseCase) Get(ctx context.Context, id uint) (*CustomerDTO, error) {
	c, err := uc.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toCustomerDTO(c), nil
}

// List 分页查询客户列表(姓名/电话/登记号搜索)
func (uc *ManageCustomersUseCase) List(ctx context.Context, page, pageSize int, keyword string) ([]CustomerDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	customers, total, err := uc.customerRepo.List(ctx, customer.ListParams{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]CustomerDTO, len(customers))
	for i, c := range customers {
		items[i] = *toCustomerDTO(c)
	}
	return items, total, nil
}

// toCustomerDTO 领域实体 → DTO
func toCustomerDTO(c *customer.Customer) *CustomerDTO {
	return &CustomerDTO{
		ID:             c.ID,
		RegistrationNo: c.RegistrationNo,
		Name:           c.Name,
		Contact:        c.Contact,
		Address:        c.Address,
		CreatedAt:      c.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
