package author

import (
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// 作者领域错误定义
var (
	// ErrAuthorNotFound 作者不存在
	ErrAuthorNotFound = apperrors.New(apperrors.ErrCodeAuthorNotFound, "作者不存在")

	// ErrAuthorInUse 作者名下还有图书,不能删除
	ErrAuthorInUse = apperrors.New(apperrors.ErrCodeConflict, "作者名下还有图书,不能删除")
)
