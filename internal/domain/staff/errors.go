package staff

import (
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 店员领域错误定义
var (
	// ErrStaffNotFound 店员账号不存在
	ErrStaffNotFound = apperrors.New(apperrors.ErrCodeStaffNotFound, "员工账号不存在")

	// ErrUsernameDuplicate 登录名已存在
	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "登录名已存在")

	// ErrWeakPassword 密码强度不足
	ErrWeakPassword = apperrors.New(apperrors.ErrCodeInvalidParams, "密码长度应为8-20位,且包含字母和数字")
)
