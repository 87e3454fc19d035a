package order

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/domain/loan"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	redisinfra "github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/metrics"
	"github.com/thilan/bookshop/pkg/mq"
)

const (
	// maxCreateAttempts 创建借阅单的最大尝试次数
	maxCreateAttempts = 3

	// retryBaseDelay 重试基础延迟,第n次重试等待baseDelay*2^(n-1)
	retryBaseDelay = 50 * time.Millisecond
)

// CreateOrderUseCase 创建借阅单用例
// 这是整个项目最核心的用例:事务处理、悲观锁防超借、
// 暂时性错误重试、事务外的尽力而为副作用。
type CreateOrderUseCase struct {
	orderRepo    order.Repository
	bookRepo     book.Repository
	customerRepo customer.Repository
	loanRepo     loan.Repository
	txManager    *mysql.TxManager
	cache        *redisinfra.CacheStore
	publisher    mq.EventPublisher

	defaultReturnDays int
}

// NewCreateOrderUseCase 创建借阅单用例
func NewCreateOrderUseCase(
	orderRepo order.Repository,
	bookRepo book.Repository,
	customerRepo customer.Repository,
	loanRepo loan.Repository,
	txManager *mysql.TxManager,
	cache *redisinfra.CacheStore,
	publisher mq.EventPublisher,
) *CreateOrderUseCase {
	return &CreateOrderUseCase{
		orderRepo:         orderRepo,
		bookRepo:          bookRepo,
		customerRepo:      customerRepo,
		loanRepo:          loanRepo,
		txManager:         txManager,
		cache:             cache,
		publisher:         publisher,
		defaultReturnDays: 14,
	}
}

// WithDefaultReturnDays 覆盖默认应还期限(来自配置)
func (uc *CreateOrderUseCase) WithDefaultReturnDays(days int) *CreateOrderUseCase {
	if days > 0 {
		uc.defaultReturnDays = days
	}
	return uc
}

// CreateOrderRequest 借出请求DTO
type CreateOrderRequest struct {
	CustomerID uint              // 客户ID
	Items      []CreateOrderItem // 借出明细
	LoanAmount int64             // 本次记账的借款金额(分),0表示不记账
	ReturnDays int               // 应还期限(天),<=0时取默认14天
}

// CreateOrderItem 借出明细项
type CreateOrderItem struct {
	BookID   uint // 图书ID
	Quantity int  // 借出数量
}

// CreateOrderResponse 借出响应DTO
type CreateOrderResponse struct {
	OrderID            uint   `json:"order_id"`
	CustomerID         uint   `json:"customer_id"`
	CustomerName       string `json:"customer_name"`
	OrderDate          string `json:"order_date"`
	ExpectedReturnDate string `json:"expected_return_date"`
	Status             string `json:"status"`
	Warning            string `json:"warning,omitempty"` // 借款记账失败等非致命问题
}

// Execute 执行借出用例
//
// 流程:
//  1. 事务外校验客户存在(快速失败,不占事务)
//  2. 事务内:创建借阅单 → 逐本SELECT FOR UPDATE锁定图书 →
//     校验库存 → 创建明细 → 扣减库存
//  3. 暂时性错误(锁等待超时、死锁)指数退避重试,最多3次;
//     业务错误(客户/图书不存在、库存不足)立即失败
//  4. 提交后尽力而为:累加借款台账(失败只留警告)、发布order.created事件
func (uc *CreateOrderUseCase) Execute(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	start := time.Now()

	if len(req.Items) == 0 {
		return nil, order.ErrEmptyItems
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, order.ErrInvalidQuantity
		}
	}
	returnDays := req.ReturnDays
	if returnDays <= 0 {
		returnDays = uc.defaultReturnDays
	}

	// 客户校验放在事务外:客户不存在时不必开启事务
	cust, err := uc.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		metrics.OrdersFailedTotal.Inc()
		return nil, err
	}

	var created *order.Order
	err = uc.executeWithRetry(ctx, func(txCtx context.Context) error {
		o, err := uc.createInTx(txCtx, cust, req.Items, returnDays)
		if err != nil {
			return err
		}
		created = o
		return nil
	})
	if err != nil {
		metrics.OrdersFailedTotal.Inc()
		return nil, err
	}

	metrics.OrdersCreatedTotal.Inc()
	metrics.OrderCreationDuration.Observe(time.Since(start).Seconds())

	resp := &CreateOrderResponse{
		OrderID:            created.ID,
		CustomerID:         created.CustomerID,
		CustomerName:       created.CustomerName,
		OrderDate:          created.OrderDate.Format("2006-01-02"),
		ExpectedReturnDate: created.ReturnDate.Format("2006-01-02"),
		Status:             created.Status.String(),
	}

	// 借款记账在事务提交后尽力而为:
	// 失败不回滚借阅单,只记日志并在响应中附带警告
	if req.LoanAmount > 0 {
		if err := uc.loanRepo.Accrue(ctx, req.CustomerID, req.LoanAmount); err != nil {
			zap.L().Error("借款记账失败",
				zap.Uint("customer_id", req.CustomerID),
				zap.Int64("amount", req.LoanAmount),
				zap.Error(err))
			resp.Warning = "借阅单已创建,但借款记账失败,请人工核对"
		}
	}

	uc.invalidateCaches(ctx)
	uc.publishCreated(ctx, created)

	return resp, nil
}

// executeWithRetry 带重试的事务执行
// 只重试暂时性错误,每次重试延迟翻倍。
func (uc *CreateOrderUseCase) executeWithRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= maxCreateAttempts; attempt++ {
		lastErr = uc.txManager.Transaction(ctx, fn)
		if lastErr == nil {
			return nil
		}
		if !apperrors.IsTransient(lastErr) {
			return lastErr
		}
		if attempt == maxCreateAttempts {
			break
		}

		delay := retryBaseDelay * (1 << (attempt - 1))
		zap.L().Warn("创建借阅单遇到暂时性错误,准备重试",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return apperrors.WrapTransient(ctx.Err(), "创建借阅单超时")
		}
	}
	return lastErr
}

// createInTx 事务内的创建流程
// 借阅单落库时一并写入应还日期,列表与详情无需重新推算。
func (uc *CreateOrderUseCase) createInTx(txCtx context.Context, cust *customer.Customer, items []CreateOrderItem, returnDays int) (*order.Order, error) {
	o := order.NewOrder(cust.ID, cust.Name, returnDays, nil)
	if err := uc.orderRepo.Create(txCtx, o); err != nil {
		return nil, err
	}

	for _, item := range items {
		// SELECT FOR UPDATE锁定图书行,其他事务必须等待
		// 当前事务COMMIT或ROLLBACK后才能访问,防止并发超借
		b, err := uc.bookRepo.LockByID(txCtx, item.BookID)
		if err != nil {
			return nil, err
		}

		// 锁定后检查库存,锁定前检查会有并发扣减窗口
		if b.Quantity < item.Quantity {
			return nil, book.ErrInsufficientStock
		}

		detail := &order.OrderDetail{
			OrderID:    o.ID,
			BookID:     b.ID,
			CustomerID: cust.ID,
			BookName:   b.Name,
			AuthorName: b.AuthorName,
			Quantity:   item.Quantity,
			Status:     order.DetailStatusPending,
		}
		if err := uc.orderRepo.CreateDetail(txCtx, detail); err != nil {
			return nil, err
		}

		if err := uc.bookRepo.UpdateStock(txCtx, b.ID, -item.Quantity); err != nil {
			return nil, err
		}

		o.Details = append(o.Details, *detail)
	}

	return o, nil
}

// invalidateCaches 失效受借出影响的缓存(图书库存、列表)
func (uc *CreateOrderUseCase) invalidateCaches(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.cache.DeletePattern(ctx, uc.cache.Key("books")+":*")
	uc.cache.DeletePattern(ctx, uc.cache.Key("orders")+":*")
}

// publishCreated 发布order.created事件(尽力而为)
func (uc *CreateOrderUseCase) publishCreated(ctx context.Context, o *order.Order) {
	if uc.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"order_id":      o.ID,
		"customer_id":   o.CustomerID,
		"customer_name": o.CustomerName,
		"order_date":    o.OrderDate.Format(time.RFC3339),
		"item_count":    len(o.Details),
	}

	if err := uc.publisher.Publish(ctx, "order.created", event); err != nil {
		zap.L().Warn("发布借出事件失败", zap.Uint("order_id", o.ID), zap.Error(err))
		metrics.EventsPublishedTotal.WithLabelValues("order.created", "failure").Inc()
		return
	}
	metrics.EventsPublishedTotal.WithLabelValues("order.created", "success").Inc()
}
