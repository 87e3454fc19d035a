package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap(t *testing.T) {
	inner := errors.New("connection refused")
	err := Wrap(inner, "数据库错误")

	assert.Equal(t, ErrCodeInternal, err.Code)
	assert.ErrorIs(t, err, inner)
}

func TestWrapTransient(t *testing.T) {
	inner := errors.New("Error 1205: Lock wait timeout exceeded")
	err := WrapTransient(inner, "数据库繁忙")

	assert.Equal(t, ErrCodeTransientStore, err.Code)
	assert.ErrorIs(t, err, inner)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"暂时性错误", WrapTransient(errors.New("Error 1213: Deadlock found"), "数据库繁忙"), true},
		{"数据库错误", ErrDatabaseError, true},
		{"未分类的内部错误", Wrap(errors.New("disk full"), "系统内部错误"), false},
		{"业务规则错误", ErrInsufficientStock, false},
		{"资源不存在", ErrOrderNotFound, false},
		{"裸error", errors.New("connection refused"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestCode(t *testing.T) {
	assert.Equal(t, ErrCodeInsufficientStock, Code(ErrInsufficientStock))
	assert.Equal(t, ErrCodeInternal, Code(errors.New("unknown")))
}
