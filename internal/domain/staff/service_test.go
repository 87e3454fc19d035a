package staff

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// fakeRepo 内存仓储,只为服务层测试服务
type fakeRepo struct {
	byUsername map[string]*Staff
	nextID     uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byUsername: make(map[string]*Staff), nextID: 1}
}

func (r *fakeRepo) Create(_ context.Context, st *Staff) error {
	if _, ok := r.byUsername[st.Username]; ok {
		return ErrUsernameDuplicate
	}
	st.ID = r.nextID
	r.nextID++
	r.byUsername[st.Username] = st
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id uint) (*Staff, error) {
	for _, st := range r.byUsername {
		if st.ID == id {
			return st, nil
		}
	}
	return nil, ErrStaffNotFound
}

func (r *fakeRepo) FindByUsername(_ context.Context, username string) (*Staff, error) {
	st, ok := r.byUsername[username]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return st, nil
}

func TestService_Register(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	st, err := svc.Register(ctx, "zhangsan", "bookshop123", "张三")
	require.NoError(t, err)
	assert.NotZero(t, st.ID)
	assert.Equal(t, "zhangsan", st.Username)
	// 密码已加密,不等于明文
	assert.NotEqual(t, "bookshop123", st.Password)
}

func TestService_RegisterValidation(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"登录名太短", "ab", "bookshop123", nil},
		{"登录名含非法字符", "zhang-san", "bookshop123", nil},
		{"密码太短", "zhangsan", "abc1", ErrWeakPassword},
		{"密码缺少数字", "zhangsan", "abcdefgh", ErrWeakPassword},
		{"密码缺少字母", "zhangsan", "12345678", ErrWeakPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.username, tt.password, "")
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "zhangsan", "bookshop123", "张三")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "zhangsan", "bookshop456", "李四")
	require.ErrorIs(t, err, ErrUsernameDuplicate)
}

func TestService_Login(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "zhangsan", "bookshop123", "张三")
	require.NoError(t, err)

	st, err := svc.Login(ctx, "zhangsan", "bookshop123")
	require.NoError(t, err)
	assert.Equal(t, "张三", st.Nickname)

	// 密码错误
	_, err = svc.Login(ctx, "zhangsan", "wrongpass1")
	require.ErrorIs(t, err, apperrors.ErrInvalidPassword)

	// 账号不存在时返回同样的错误,不泄露账号是否存在
	_, err = svc.Login(ctx, "nobody", "bookshop123")
	require.ErrorIs(t, err, apperrors.ErrInvalidPassword)
}
