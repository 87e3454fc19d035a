package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/thilan/bookshop/internal/domain/payment"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// FinanceUseCase 财务统计用例
// 按归还日期对付款记录做日度/月度聚合。
type FinanceUseCase struct {
	paymentRepo payment.Repository
}

// NewFinanceUseCase 创建财务统计用例
func NewFinanceUseCase(paymentRepo payment.Repository) *FinanceUseCase {
	return &FinanceUseCase{paymentRepo: paymentRepo}
}

// FinanceBucket 一个聚合区间的统计值
type FinanceBucket struct {
	Period        string `json:"period"`         // "2026-08-15" 或 "2026-08"
	TotalAmount   int64  `json:"total_amount"`   // 租金合计(分)
	OrderCount    int    `json:"order_count"`    // 付款笔数
	CustomerCount int    `json:"customer_count"` // 去重客户数
}

// FinanceReportResponse 财务统计响应
type FinanceReportResponse struct {
	Buckets       []FinanceBucket `json:"buckets"`
	TotalAmount   int64           `json:"total_amount"`
	OrderCount    int             `json:"order_count"`
	CustomerCount int             `json:"customer_count"`
}

// Daily 月内按归还日期逐日聚合
func (uc *FinanceUseCase) Daily(ctx context.Context, year int, month time.Month) (*FinanceReportResponse, error) {
	if year < 2000 || year > 2100 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "年份超出范围")
	}

	from := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, 0)

	payments, err := uc.paymentRepo.ListByReturnDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return aggregate(payments, func(t time.Time) string {
		return t.Format("2006-01-02")
	}), nil
}

// Monthly 年内按月聚合
func (uc *FinanceUseCase) Monthly(ctx context.Context, year int) (*FinanceReportResponse, error) {
	if year < 2000 || year > 2100 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "年份超出范围")
	}

	from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(1, 0, 0)

	payments, err := uc.paymentRepo.ListByReturnDateRange(ctx, from, to)
	if err != nil {
		return nil, err
	}

	return aggregate(payments, func(t time.Time) string {
		return fmt.Sprintf("%04d-%02d", t.Year(), int(t.Month()))
	}), nil
}

// aggregate 按periodKey分桶统计，桶按时间升序返回
func aggregate(payments []*payment.Payment, periodKey func(time.Time) string) *FinanceReportResponse {
	type bucket struct {
		amount    int64
		orders    int
		customers map[uint]struct{}
	}

	buckets := make(map[string]*bucket)
	allCustomers := make(map[uint]struct{})
	resp := &FinanceReportResponse{}

	for _, p := range payments {
		key := periodKey(p.ReturnDate)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{customers: make(map[uint]struct{})}
			buckets[key] = b
		}
		b.amount += p.Amount
		b.orders++
		b.customers[p.CustomerID] = struct{}{}

		resp.TotalAmount += p.Amount
		resp.OrderCount++
		allCustomers[p.CustomerID] = struct{}{}
	}
	resp.CustomerCount = len(allCustomers)

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	resp.Buckets = make([]FinanceBucket, len(keys))
	for i, k := range keys {
		b := buckets[k]
		resp.Buckets[i] = FinanceBucket{
			Period:        k,
			TotalAmount:   b.amount,
			OrderCount:    b.orders,
			CustomerCount: len(b.customers),
		}
	}

	return resp
}
