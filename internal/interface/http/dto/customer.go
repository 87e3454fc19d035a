package dto

// RegisterCustomerRequest HTTP客户登记请求
type RegisterCustomerRequest struct {
	RegistrationNo string `json:"registration_no" binding:"required,max=32" example:"C20260001"`
	Name           string `json:"name" binding:"required,max=100" example:"李四"`
	Contact        string `json:"contact" binding:"max=50" example:"13800138000"`
	Address        string `json:"address" binding:"max=200" example:"朝阳区某街道1号"`
}

// UpdateCustomerRequest HTTP客户更新请求
// 登记号不可修改
type UpdateCustomerRequest struct {
	Name    string `json:"name" binding:"required,max=100" example:"李四"`
	Contact string `json:"contact" binding:"max=50" example:"13800138000"`
	Address string `json:"address" binding:"max=200" example:"朝阳区某街道1号"`
}

// ListCustomersRequest HTTP客户列表请求
type ListCustomersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"李四"`
}
