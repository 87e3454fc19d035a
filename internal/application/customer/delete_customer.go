package customer

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thilan/bookshop/internal/domain/customer"
	"github.com/thilan/bookshop/internal/domain/loan"
	"github.com/thilan/bookshop/internal/domain/order"
	"github.com/thilan/bookshop/internal/domain/payment"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/mysql"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/saga"
)

// 降级路径整体超时
const sagaTimeout = 30 * time.Second

// DeleteCustomerUseCase 删除客户用例
//
// 设计说明：
// 1. 存在未完结借阅单时拒绝删除（历史借阅单和付款记录随客户一起级联删除）
// 2. 级联删除首选单个数据库事务
// 3. 事务因瞬时故障失败时，降级为Saga逐表删除：每一步先捕获行再删除，
//    失败时逆序写回已删除的行
type DeleteCustomerUseCase struct {
	customerRepo customer.Repository
	orderRepo    order.Repository
	paymentRepo  payment.Repository
	loanRepo     loan.Repository
	txManager    *mysql.TxManager
}

// NewDeleteCustomerUseCase 创建删除客户用例
func NewDeleteCustomerUseCase(
	customerRepo customer.Repository,
	orderRepo order.Repository,
	paymentRepo payment.Repository,
	loanRepo loan.Repository,
	txManager *mysql.TxManager,
) *DeleteCustomerUseCase {
	return &DeleteCustomerUseCase{
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		paymentRepo:  paymentRepo,
		loanRepo:     loanRepo,
		txManager:    txManager,
	}
}

// Execute 删除客户及其全部关联数据
func (uc *DeleteCustomerUseCase) Execute(ctx context.Context, customerID uint) error {
	c, err := uc.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	pending, err := uc.orderRepo.CountPendingByCustomer(ctx, customerID)
	if err != nil {
		return err
	}
	if pending > 0 {
		return customer.ErrHasPendingOrders
	}

	err = uc.txManager.Transaction(ctx, func(txCtx context.Context) error {
		return uc.cascade(txCtx, customerID)
	})
	if err == nil {
		zap.L().Info("客户已删除",
			zap.Uint("customer_id", customerID),
			zap.String("name", c.Name))
		return nil
	}

	if !apperrors.IsTransient(err) {
		return err
	}

	// 事务瞬时失败，走Saga降级路径
	zap.L().Warn("级联删除事务失败，降级为Saga逐表删除",
		zap.Uint("customer_id", customerID),
		zap.Error(err))
	return uc.cascadeSaga(ctx, c)
}

// cascade 在单个事务内逐表删除
// 外键顺序：付款记录 → 借阅单(含明细) → 借款台账 → 客户
func (uc *DeleteCustomerUseCase) cascade(ctx context.Context, customerID uint) error {
	if err := uc.paymentRepo.DeleteByCustomerID(ctx, customerID); err != nil {
		return err
	}
	if err := uc.orderRepo.DeleteByCustomerID(ctx, customerID); err != nil {
		return err
	}
	if err := uc.loanRepo.DeleteByCustomerID(ctx, customerID); err != nil {
		return err
	}
	return uc.customerRepo.Delete(ctx, customerID)
}

// cascadeSaga 无事务的降级删除
// 每一步先捕获待删除的行，补偿时写回。
func (uc *DeleteCustomerUseCase) cascadeSaga(ctx context.Context, c *customer.Customer) error {
	var (
		payments []*payment.Payment
		orders   []*order.Order
		ln       *loan.Loan
	)

	s := saga.NewSaga(sagaTimeout)

	s.AddStep("删除付款记录",
		func(ctx context.Context) error {
			var err error
			payments, err = uc.paymentRepo.ListByCustomerID(ctx, c.ID)
			if err != nil {
				return err
			}
			return uc.paymentRepo.DeleteByCustomerID(ctx, c.ID)
		},
		func(ctx context.Context) error {
			for _, p := range payments {
				if err := uc.paymentRepo.Accrue(ctx, p.OrderID, p.CustomerID, p.CustomerName, p.OrderDate, p.Amount, p.ReturnDate); err != nil {
					return err
				}
			}
			return nil
		})

	s.AddStep("删除借阅单",
		func(ctx context.Context) error {
			var err error
			orders, err = uc.orderRepo.ListByCustomerID(ctx, c.ID)
			if err != nil {
				return err
			}
			return uc.orderRepo.DeleteByCustomerID(ctx, c.ID)
		},
		func(ctx context.Context) error {
			for _, o := range orders {
				if err := uc.orderRepo.Create(ctx, o); err != nil {
					return err
				}
				// 写回后重新生成了主键，明细要挂到新的借阅单上
				for i := range o.Details {
					o.Details[i].OrderID = o.ID
					if err := uc.orderRepo.CreateDetail(ctx, &o.Details[i]); err != nil {
						return err
					}
				}
			}
			return nil
		})

	s.AddStep("删除借款台账",
		func(ctx context.Context) error {
			var err error
			ln, err = uc.loanRepo.FindByCustomerID(ctx, c.ID)
			if err != nil {
				return err
			}
			return uc.loanRepo.DeleteByCustomerID(ctx, c.ID)
		},
		func(ctx context.Context) error {
			if ln == nil {
				return nil
			}
			return uc.loanRepo.Accrue(ctx, ln.CustomerID, ln.Amount)
		})

	s.AddStep("删除客户",
		func(ctx context.Context) error {
			return uc.customerRepo.Delete(ctx, c.ID)
		},
		func(ctx context.Context) error {
			return uc.customerRepo.Create(ctx, c)
		})

	if err := s.Execute(ctx); err != nil {
		return err
	}
	zap.L().Info("客户已删除（Saga路径）",
		zap.Uint("customer_id", c.ID),
		zap.String("name", c.Name))
	return nil
}
