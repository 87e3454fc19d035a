package order

import (
	"context"
	"time"

	"github.com/thilan/bookshop/internal/domain/order"
)

// GetOrderUseCase 借阅单详情用例
// 返回借阅单与截至当前时刻的租金报价,前端据此展示应收金额。
type GetOrderUseCase struct {
	orderRepo order.Repository
	tariff    order.Tariff

	// now可注入,测试时固定时钟
	now func() time.Time
}

// NewGetOrderUseCase 创建详情用例
func NewGetOrderUseCase(orderRepo order.Repository, tariff order.Tariff) *GetOrderUseCase {
	return &GetOrderUseCase{
		orderRepo: orderRepo,
		tariff:    tariff,
		now:       time.Now,
	}
}

// WithClock 替换时钟(测试用)
func (uc *GetOrderUseCase) WithClock(now func() time.Time) *GetOrderUseCase {
	uc.now = now
	return uc
}

// OrderDetailDTO 明细DTO
type OrderDetailDTO struct {
	ID         uint   `json:"id"`
	BookID     uint   `json:"book_id"`
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	Quantity   int    `json:"quantity"`
	Status     int    `json:"status"`
	Returned   bool   `json:"returned"`
}

// GetOrderResponse 详情响应DTO
type GetOrderResponse struct {
	ID           uint             `json:"id"`
	CustomerID   uint             `json:"customer_id"`
	CustomerName string           `json:"customer_name"`
	OrderDate    string           `json:"order_date"`
	ReturnDate   string           `json:"return_date,omitempty"`
	Status       int              `json:"status"`
	StatusText   string           `json:"status_text"`
	Details      []OrderDetailDTO `json:"details"`

	// 租金报价(按当前时刻计算)
	PendingCount int   `json:"pending_count"`
	FeePerBook   int64 `json:"fee_per_book"`  // 单本租金(分)
	TotalPayment int64 `json:"total_payment"` // 未归还部分应收总额(分)
}

// Execute 查询借阅单详情与租金报价
func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID uint) (*GetOrderResponse, error) {
	o, err := uc.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	quote := uc.tariff.QuoteFor(o, uc.now())

	resp := &GetOrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate.Format("2006-01-02"),
		Status:       int(o.Status),
		StatusText:   o.Status.String(),
		PendingCount: quote.PendingCount,
		FeePerBook:   quote.FeePerBook,
		TotalPayment: quote.TotalPayment,
	}
	if !o.ReturnDate.IsZero() {
		resp.ReturnDate = o.ReturnDate.Format("2006-01-02")
	}

	resp.Details = make([]OrderDetailDTO, len(o.Details))
	for i, d := range o.Details {
		resp.Details[i] = OrderDetailDTO{
			ID:         d.ID,
			BookID:     d.BookID,
			BookName:   d.BookName,
			AuthorName: d.AuthorName,
			Quantity:   d.Quantity,
			Status:     int(d.Status),
			Returned:   d.Status == order.DetailStatusReturned,
		}
	}

	return resp, nil
}
