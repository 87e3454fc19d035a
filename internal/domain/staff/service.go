package staff

import (
	"context"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// Service 店员领域服务
// 设计说明:
// 1. 封装不属于单个实体的业务逻辑(密码加密、验证)
// 2. 依赖Repository接口,不依赖具体实现
type Service interface {
	// Register 创建店员账号
	Register(ctx context.Context, username, password, nickname string) (*Staff, error)

	// Login 店员登录
	Login(ctx context.Context, username, password string) (*Staff, error)

	// ValidatePassword 验证密码
	ValidatePassword(hashedPassword, plainPassword string) error
}

type service struct {
	repo Repository
}

// NewService 创建店员服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Register 创建店员账号
// 业务规则:
// 1. 登录名3-32位,字母数字下划线
// 2. 密码强度校验(8-20位,包含字母和数字)
// 3. 密码bcrypt加密(cost=12)
// 4. 登录名唯一性由数据库UNIQUE索引保证
func (s *service) Register(ctx context.Context, username, password, nickname string) (*Staff, error) {
	if !isValidUsername(username) {
		return nil, apperrors.New(apperrors.ErrCodeInvalidParams, "登录名应为3-32位字母、数字或下划线")
	}

	if err := validatePasswordStrength(password); err != nil {
		return nil, err
	}

	// bcrypt自动加盐,cost=12平衡安全与性能
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, apperrors.Wrap(err, "密码加密失败")
	}

	st := NewStaff(username, string(hashedPassword), nickname)
	if err := s.repo.Create(ctx, st); err != nil {
		return nil, err // Repository已转换为业务错误
	}

	return st, nil
}

// Login 店员登录
func (s *service) Login(ctx context.Context, username, password string) (*Staff, error) {
	st, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// 统一返回"用户名或密码错误",不泄露账号是否存在
		if err == ErrStaffNotFound {
			return nil, apperrors.ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(st.Password, password); err != nil {
		return nil, err
	}

	return st, nil
}

// ValidatePassword 验证明文密码与哈希值是否匹配
func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if err == bcrypt.ErrMismatchedHashAndPassword {
			return apperrors.ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

// isValidUsername 登录名格式校验
func isValidUsername(username string) bool {
	matched, _ := regexp.MatchString(`^[a-zA-Z0-9_]{3,32}$`, username)
	return matched
}

// validatePasswordStrength 密码强度校验
// 规则:8-20位,必须包含字母和数字。
func validatePasswordStrength(password string) error {
	if len(password) < 8 || len(password) > 20 {
		return ErrWeakPassword
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)

	if !hasLetter || !hasDigit {
		return ErrWeakPassword
	}

	return nil
}
