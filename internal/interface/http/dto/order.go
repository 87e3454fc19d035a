package dto

// OrderItemRequest 借阅单条目
type OrderItemRequest struct {
	BookID   uint `json:"book_id" binding:"required" example:"1"`
	Quantity int  `json:"quantity" binding:"required,min=1,max=99" example:"1"`
}

// CreateOrderRequest HTTP创建借阅单请求
// LoanAmount是随单登记的借款金额(分)，可为0；
// ReturnDays用于计算期望归还日期，0取配置默认值。
type CreateOrderRequest struct {
	CustomerID uint               `json:"customer_id" binding:"required" example:"1"`
	Items      []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	LoanAmount int64              `json:"loan_amount" binding:"min=0" example:"0"`
	ReturnDays int                `json:"return_days" binding:"min=0,max=365" example:"14"`
}

// CompleteOrderRequest HTTP归还/完结请求
// SelectedBookIDs是本次归还的图书，CurrentPayment是本次实收租金(分)。
type CompleteOrderRequest struct {
	SelectedBookIDs []uint `json:"selected_book_ids" binding:"required,min=1"`
	CurrentPayment  int64  `json:"current_payment" binding:"min=0" example:"5000"`
}

// ListOrdersRequest HTTP借阅单列表请求
type ListOrdersRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Status   *int   `form:"status" binding:"omitempty,oneof=0 1" example:"0"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"李四"`
}
