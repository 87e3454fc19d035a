package payment

import (
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 付款记录领域错误定义
// 没有付款记录的借阅单说明还没有任何一次归还,调用方按需处理。
var (
	// ErrPaymentNotFound 付款记录不存在
	ErrPaymentNotFound = apperrors.New(apperrors.ErrCodeNotFound, "付款记录不存在")
)
