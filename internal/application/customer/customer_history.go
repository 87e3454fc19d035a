package customer

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/domain/loan"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/domain/payment"
)

// CustomerHistoryUseCase 客户历史用例
// 汇总单个客户的借阅单、付款记录与借款台账。
type CustomerHistoryUseCase struct {
	customerRepo customer.Repository
	orderRepo    order.Repository
	paymentRepo  payment.Repository
	loanRepo     loan.Repository
}

// NewCustomerHistoryUseCase 创建客户历史用例
func NewCustomerHistoryUseCase(
	customerRepo customer.Repository,
	orderRepo order.Repository,
	paymentRepo payment.Repository,
	loanRepo loan.Repository,
) *CustomerHistoryUseCase {
	return &CustomerHistoryUseCase{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		loanRepo:     loanRepo,
	}
}

// HistoryOrderDTO 历史借阅单DTO
type HistoryOrderDTO struct {
	ID           uint                  `json:"id"`
	OrderDate    string                `json:"order_date"`
	ReturnDate   string                `json:"return_date,omitempty"`
	Status       int                   `json:"status"`
	StatusText   string                `json:"status_text"`
	PendingCount int                   `json:"pending_count"`
	Details      []HistoryOrderItemDTO `json:"details"`
}

// HistoryOrderItemDTO 历史明细DTO
type HistoryOrderItemDTO struct {
	BookID     uint   `json:"book_id"`
	BookName   string `json:"book_name"`
	AuthorName string `json:"author_name"`
	Returned   bool   `json:"returned"`
}

// HistoryPaymentDTO 历史付款DTO
type HistoryPaymentDTO struct {
	OrderID    uint   `json:"order_id"`
	Amount     int64  `json:"amount"`
	OrderDate  string `json:"order_date"`
	ReturnDate string `json:"return_date,omitempty"`
}

// CustomerHistoryResponse 客户历史响应
type CustomerHistoryResponse struct {
	Customer      CustomerDTO         `json:"customer"`
	Orders        []HistoryOrderDTO   `json:"orders"`
	Payments      []HistoryPaymentDTO `json:"payments"`
	LoanAmount    int64               `json:"loan_amount"`    // 累计借款(分)
	TotalPaid     int64               `json:"total_paid"`     // 累计已付租金(分)
	PendingOrders int                 `json:"pending_orders"` // 未完结借阅单数
}

// Execute 查询客户历史
func (uc *CustomerHistoryUseCase) Execute(ctx context.Context, customerID uint) (*CustomerHistoryResponse, error) {
	c, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	orders, err := uc.orderRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	payments, err := uc.paymentRepo.ListByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	ln, err := uc.loanRepo.FindByCustomerID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	resp := &CustomerHistoryResponse{
		Customer: *toCustomerDTO(c),
		Orders:   make([]HistoryOrderDTO, len(orders)),
		Payments: make([]HistoryPaymentDTO, len(payments)),
	}
	if ln != nil {
		resp.LoanAmount = ln.Amount
	}

	for i, o := range orders {
		dto := HistoryOrderDTO{
			ID:           o.ID,
			OrderDate:    o.OrderDate.Format("2006-01-02"),
			Status:       int(o.Status),
			StatusText:   o.Status.String(),
			PendingCount: o.PendingCount(),
			Details:      make([]HistoryOrderItemDTO, len(o.Details)),
		}
		if !o.ReturnDate.IsZero() {
			dto.ReturnDate = o.ReturnDate.Format("2006-01-02")
		}
		if o.Status == order.StatusPending {
			resp.PendingOrders++
		}
		for j, d := range o.Details {
			dto.Details[j] = HistoryOrderItemDTO{
				BookID:     d.BookID,
				BookName:   d.BookName,
				AuthorName: d.AuthorName,
				Returned:   d.Status == order.DetailStatusReturned,
			}
		}
		resp.Orders[i] = dto
	}

	for i, p := range payments {
		dto := HistoryPaymentDTO{
			OrderID:   p.OrderID,
			Amount:    p.Amount,
			OrderDate: p.OrderDate.Format("2006-01-02"),
		}
		if !p.ReturnDate.IsZero() {
			dto.ReturnDate = p.ReturnDate.Format("2006-01-02")
		}
		resp.TotalPaid += p.Amount
		resp.Payments[i] = dto
	}

	return resp, nil
}
