package customer

import (
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 客户领域错误定义
var (
	// ErrCustomerNotFound 客户不存在
	ErrCustomerNotFound = apperrors.New(apperrors.ErrCodeCustomerNotFound, "客户不存在")

	// ErrRegistrationNoDuplicate 登记号已存在
	ErrRegistrationNoDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "会员登记号已存在")

	// ErrHasPendingOrders 客户有未完结的借阅单,不能删除
	ErrHasPendingOrders = apperrors.New(apperrors.ErrCodeConflict, "客户有未完结的借阅单,不能删除")
)
