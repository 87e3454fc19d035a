package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/loan"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// loanRepository 借款台账仓储实现(MySQL)
type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository 创建借款台账仓储
func NewLoanRepository(db *gorm.DB) loan.Repository {
	return &loanRepository{db: db}
}

// Accrue 累加借款金额(upsert)
// 先尝试原子UPDATE,没有台账时创建,customer_id唯一索引兜底并发。
func (r *loanRepository) Accrue(ctx context.Context, customerID uint, amount int64) error {
	db := getDB(ctx, r.db)

	result := db.Model(&LoanModel{}).
		Where("customer_id = ?", customerID).
		Update("amount", gorm.Expr("amount + ?", amount))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "累加借款金额失败")
	}
	if result.RowsAffected > 0 {
		return nil
	}

	model := &LoanModel{CustomerID: customerID, Amount: amount}
	if err := db.Create(model).Error; err != nil {
		if isDuplicateError(err) {
			// 并发创建冲突,重试一次UPDATE
			retry := db.Model(&LoanModel{}).
				Where("customer_id = ?", customerID).
				Update("amount", gorm.Expr("amount + ?", amount))
			if retry.Error != nil {
				return apperrors.Wrap(retry.Error, "累加借款金额失败")
			}
			return nil
		}
		return apperrors.Wrap(err, "创建借款台账失败")
	}

	return nil
}

// FindByCustomerID 查询客户的借款台账
// 客户从未借款时返回nil而不是错误。
func (r *loanRepository) FindByCustomerID(ctx context.Context, customerID uint) (*loan.Loan, error) {
	var model LoanModel
	err := getDB(ctx, r.db).Where("customer_id = ?", customerID).First(&model).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "查询借款台账失败")
	}

	return &loan.Loan{
		ID:         model.ID,
		CustomerID: model.CustomerID,
		Amount:     model.Amount,
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}, nil
}

// DeleteByCustomerID 删除客户的借款台账
func (r *loanRepository) DeleteByCustomerID(ctx context.Context, customerID uint) error {
	if err := getDB(ctx, r.db).Where("customer_id = ?", customerID).Delete(&LoanModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除借款台账失败")
	}
	return nil
}
