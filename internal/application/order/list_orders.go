package order

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/order"
)

// ListOrdersUseCase 借阅单列表用例
type ListOrdersUseCase struct {
	orderRepo order.Repository
}

// NewListOrdersUseCase 创建列表用例
func NewListOrdersUseCase(orderRepo order.Repository) *ListOrdersUseCase {
	return &ListOrdersUseCase{orderRepo: orderRepo}
}

// ListOrdersRequest 列表请求DTO
type ListOrdersRequest struct {
	Page     int
	PageSize int
	Status   *int   // 状态过滤,nil表示全部
	Keyword  string // 客户姓名模糊搜索
}

// OrderSummaryDTO 列表项DTO(不含明细)
type OrderSummaryDTO struct {
	ID           uint   `json:"id"`
	CustomerID   uint   `json:"customer_id"`
	CustomerName string `json:"customer_name"`
	OrderDate    string `json:"order_date"`
	ReturnDate   string `json:"return_date,omitempty"`
	Status       int    `json:"status"`
	StatusText   string `json:"status_text"`
}

// Execute 分页查询借阅单列表
func (uc *ListOrdersUseCase) Execute(ctx context.Context, req ListOrdersRequest) ([]OrderSummaryDTO, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 10
	}

	params := order.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	}
	if req.Status != nil {
		s := order.Status(*req.Status)
		params.Status = &s
	}

	orders, total, err := uc.orderRepo.List(ctx, params)
	if err != nil {
		return nil, 0, err
	}

	items := make([]OrderSummaryDTO, len(orders))
	for i, o := range orders {
		items[i] = OrderSummaryDTO{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: o.CustomerName,
			OrderDate:    o.OrderDate.Format("2006-01-02"),
			Status:       int(o.Status),
			StatusText:   o.Status.String(),
		}
		if !o.ReturnDate.IsZero() {
			items[i].ReturnDate = o.ReturnDate.Format("2006-01-02")
		}
	}

	return items, total, nil
}
