package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/payment"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// paymentRepository 付款记录仓储实现(MySQL)
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository 创建付款记录仓储
func NewPaymentRepository(db *gorm.DB) payment.Repository {
	return &paymentRepository{db: db}
}

// Accrue 累加付款(upsert)
// 先查再写,(order_id, customer_id)唯一索引兜底并发创建。
// 必须在归还事务内调用,与明细翻转、库存回补一起提交或回滚。
func (r *paymentRepository) Accrue(ctx context.Context, orderID, customerID uint, customerName string, orderDate time.Time, amount int64, returnDate time.Time) error {
	db := getDB(ctx, r.db)

	var model PaymentModel
	err := db.Where("order_id = ? AND customer_id = ?", orderID, customerID).First(&model).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		model = PaymentModel{
			OrderID:      orderID,
			CustomerID:   customerID,
			CustomerName: customerName,
			Amount:       amount,
			OrderDate:    orderDate,
			ReturnDate:   &returnDate,
		}
		if err := db.Create(&model).Error; err != nil {
			return apperrors.Wrap(err, "创建付款记录失败")
		}
		return nil
	}
	if err != nil {
		return apperrors.Wrap(err, "查询付款记录失败")
	}

	// 金额累加,归还日期覆盖,快照字段不动
	result := db.Model(&PaymentModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"amount":      gorm.Expr("amount + ?", amount),
			"return_date": returnDate,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "累加付款金额失败")
	}

	return nil
}

// FindByOrderID 查询借阅单的付款记录
func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID uint) (*payment.Payment, error) {
	var model PaymentModel
	err := getDB(ctx, r.db).Where("order_id = ?", orderID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, payment.ErrPaymentNotFound
		}
		return nil, apperrors.Wrap(err, "查询付款记录失败")
	}

	return toPaymentEntity(&model), nil
}

// ListByCustomerID 查询客户的全部付款记录
func (r *paymentRepository) ListByCustomerID(ctx context.Context, customerID uint) ([]*payment.Payment, error) {
	var models []PaymentModel
	err := getDB(ctx, r.db).
		Where("customer_id = ?", customerID).
		Order("updated_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询客户付款记录失败")
	}

	payments := make([]*payment.Payment, len(models))
	for i := range models {
		payments[i] = toPaymentEntity(&models[i])
	}

	return payments, nil
}

// ListByReturnDateRange 按归还日期区间查询付款记录(财务统计用)
func (r *paymentRepository) ListByReturnDateRange(ctx context.Context, from, to time.Time) ([]*payment.Payment, error) {
	var models []PaymentModel
	err := getDB(ctx, r.db).
		Where("return_date >= ? AND return_date < ?", from, to).
		Order("return_date ASC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询付款记录失败")
	}

	payments := make([]*payment.Payment, len(models))
	for i := range models {
		payments[i] = toPaymentEntity(&models[i])
	}

	return payments, nil
}

// DeleteByCustomerID 删除客户的全部付款记录
func (r *paymentRepository) DeleteByCustomerID(ctx context.Context, customerID uint) error {
	if err := getDB(ctx, r.db).Where("customer_id = ?", customerID).Delete(&PaymentModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除付款记录失败")
	}
	return nil
}

// toPaymentEntity GORM模型 → 领域实体
func toPaymentEntity(model *PaymentModel) *payment.Payment {
	p := &payment.Payment{
		ID:           model.ID,
		OrderID:      model.OrderID,
		CustomerID:   model.CustomerID,
		CustomerName: model.CustomerName,
		Amount:       model.Amount,
		OrderDate:    model.OrderDate,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.ReturnDate != nil {
		p.ReturnDate = *model.ReturnDate
	}
	return p
}
