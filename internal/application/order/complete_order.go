package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/domain/payment"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	redisinfra "github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	"github.com/thilan/bookshop/pkg/metrics"
	"github.com/thilan/bookshop/pkg/mq"
)

// CompleteOrderUseCase 归还用例
// 支持部分归还:客户可以分多次归还借出的图书,
// 最后一本归还时借阅单完结。
type CompleteOrderUseCase struct {
	orderRepo   order.Repository
	bookRepo    book.Repository
	paymentRepo payment.Repository
	txManager   *mysql.TxManager
	cache       *redisinfra.CacheStore
	publisher   mq.EventPublisher
}

// NewCompleteOrderUseCase 创建归还用例
func NewCompleteOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	paymentRepo payment.Repository,
	txManager *mysql.TxManager,
	cache *redisinfra.CacheStore,
	publisher mq.EventPublisher,
) *CompleteOrderUseCase {
	return &CompleteOrderUseCase{
		orderRepo:   orderRepo,
		bookRepo:    bookRepo,
		paymentRepo: paymentRepo,
		txManager:   txManager,
		cache:       cache,
		publisher:   publisher,
	}
}

// CompleteOrderRequest 归还请求DTO
type CompleteOrderRequest struct {
	OrderID         uint   // 借阅单ID
	SelectedBookIDs []uint // 本次归还的图书ID
	CurrentPayment  int64  // 本次应收金额(分),由前端按报价提交
}

// CompleteOrderResponse 归还响应DTO
type CompleteOrderResponse struct {
	OrderID          uint   `json:"order_id"`
	ReturnedBookIDs  []uint `json:"returned_book_ids"` // 本次真正翻转的图书
	RemainingPending int    `json:"remaining_pending"` // 剩余未归还数量
	FullyCompleted   bool   `json:"fully_completed"`   // 借阅单是否完结
	AmountAccrued    int64  `json:"amount_accrued"`    // 本次入账金额(分)
}

// Execute 执行归还用例
//
// 单事务内:
//  1. 查借阅单,校验存在
//  2. 逐本翻转明细0→1,只翻转仍未归还的(幂等保护:
//     重复提交同一本书不会二次回补、二次收费)
//  3. 每翻转一本回补1件库存
//  4. 统计剩余未归还,为0时完结借阅单并记完结日期
//  5. 累加付款记录,金额为0也建档;本次没有任何明细翻转时完全跳过收费
func (uc *CompleteOrderUseCase) Execute(ctx context.Context, req CompleteOrderRequest) (*CompleteOrderResponse, error) {
	if len(req.SelectedBookIDs) == 0 {
		return nil, order.ErrNoSelection
	}

	now := time.Now()
	resp := &CompleteOrderResponse{OrderID: req.OrderID}

	err := uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		o, err := uc.orderRepo.FindByID(txCtx, req.OrderID)
		if err != nil {
			return err
		}

		selected := make(map[uint]bool, len(req.SelectedBookIDs))
		for _, id := range req.SelectedBookIDs {
			selected[id] = true
		}

		// 逐本翻转明细,记录真正翻转成功的图书
		resp.ReturnedBookIDs = resp.ReturnedBookIDs[:0]
		for _, d := range o.Details {
			if !selected[d.BookID] {
				continue
			}

			flipped, err := uc.orderRepo.MarkDetailReturned(txCtx, d.ID, now)
			if err != nil {
				return err
			}
			if !flipped {
				// 已经归还过,跳过(不二次回补库存)
				continue
			}

			// 每翻转一本回补1件库存
			if err := uc.bookRepo.UpdateStock(txCtx, d.BookID, 1); err != nil {
				return err
			}

			resp.ReturnedBookIDs = append(resp.ReturnedBookIDs, d.BookID)
		}

		remaining, err := uc.orderRepo.CountPendingDetails(txCtx, req.OrderID)
		if err != nil {
			return err
		}
		resp.RemainingPending = int(remaining)

		if remaining == 0 && o.Status == order.StatusPending {
			if err := o.Complete(now); err != nil {
				return err
			}
			if err := uc.orderRepo.Update(txCtx, o); err != nil {
				return err
			}
			resp.FullyCompleted = true
		}

		// 本次没有任何明细翻转时跳过收费:
		// 重复提交归还请求不会重复入账
		if len(resp.ReturnedBookIDs) == 0 {
			return nil
		}

		// 只要有明细翻转就入账,金额为0也建档,
		// 首次归还时写入客户姓名/借出日期快照
		err = uc.paymentRepo.Accrue(txCtx, o.ID, o.CustomerID, o.CustomerName,
			o.OrderDate, req.CurrentPayment, order.NoonDate(now))
		if err != nil {
			return err
		}
		resp.AmountAccrued = req.CurrentPayment

		return nil
	})
	if err != nil {
		return nil, err
	}

	if resp.AmountAccrued > 0 {
		metrics.PaymentsAccruedTotal.Add(float64(resp.AmountAccrued))
	}
	if resp.FullyCompleted {
		metrics.OrdersCompletedTotal.Inc()
	}

	uc.invalidateCaches(ctx)
	uc.publishCompleted(ctx, resp)

	return resp, nil
}

// invalidateCaches 失效受归还影响的缓存
func (uc *CompleteOrderUseCase) invalidateCaches(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.cache.DeletePattern(ctx, uc.cache.Key("books")+":*")
	uc.cache.DeletePattern(ctx, uc.cache.Key("orders")+":*")
}

// publishCompleted 发布order.completed事件(尽力而为)
func (uc *CompleteOrderUseCase) publishCompleted(ctx context.Context, resp *CompleteOrderResponse) {
	if uc.publisher == nil || len(resp.ReturnedBookIDs) == 0 {
		return
	}

	event := map[string]interface{}{
		"order_id":          resp.OrderID,
		"returned_book_ids": resp.ReturnedBookIDs,
		"remaining_pending": resp.RemainingPending,
		"fully_completed":   resp.FullyCompleted,
		"amount_accrued":    resp.AmountAccrued,
	}

	if err := uc.publisher.Publish(ctx, "order.completed", event); err != nil {
		zap.L().Warn("发布归还事件失败", zap.Uint("order_id", resp.OrderID), zap.Error(err))
		metrics.EventsPublishedTotal.WithLabelValues("order.completed", "failure").Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("order.completed", "success").Inc()
}
