package order

import (
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 借阅单领域错误定义
var (
	// ErrOrderNotFound 借阅单不存在
	ErrOrderNotFound = apperrors.New(apperrors.ErrCodeOrderNotFound, "借阅单不存在")

	// ErrAlreadyCompleted 借阅单已完结
	ErrAlreadyCompleted = apperrors.New(apperrors.ErrCodeBusinessError, "借阅单已完结")

	// ErrEmptyItems 借阅单没有明细
	ErrEmptyItems = apperrors.New(apperrors.ErrCodeInvalidParams, "借阅单必须至少包含一本图书")

	// ErrInvalidQuantity 无效的借出数量
	ErrInvalidQuantity = apperrors.New(apperrors.ErrCodeInvalidParams, "借出数量必须大于0")

	// ErrNoSelection 归还时未选择图书
	ErrNoSelection = apperrors.New(apperrors.ErrCodeInvalidParams, "请选择要归还的图书")
)
