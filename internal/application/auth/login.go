package auth

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/thilan/bookshop/internal/domain/staff"
	"github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	"github.com/thilan/bookshop/pkg/jwt"
)

// LoginUseCase 店员登录用例
// 设计说明:
// 1. 验证用户名密码(领域服务负责bcrypt校验)
// 2. 生成JWT Token对
// 3. 保存会话到Redis(失败不影响登录,只记日志)
type LoginUseCase struct {
	staffService staff.Service
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(
	staffService staff.Service,
	jwtManager *jwt.Manager,
	sessionStore *redis.SessionStore,
) *LoginUseCase {
	return &LoginUseCase{
		staffService: staffService,
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
	ClientIP string
}

// StaffInfo 店员信息
type StaffInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Staff        StaffInfo `json:"staff"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"` // Access Token过期时间(秒)
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	st, err := uc.staffService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	tokenPair, err := uc.jwtManager.GenerateToken(st.ID, st.Username)
	if err != nil {
		return nil, err
	}

	sessionData := map[string]interface{}{
		"staff_id": st.ID,
		"username": st.Username,
		"login_at": time.Now().Unix(),
		"ip":       req.ClientIP,
	}

	// 会话有效期 = Refresh Token有效期
	if uc.sessionStore != nil {
		if err := uc.sessionStore.SaveSession(ctx, st.ID, sessionData, 7*24*time.Hour); err != nil {
			zap.L().Warn("保存登录会话失败", zap.Uint("staff_id", st.ID), zap.Error(err))
		}
	}

	return &LoginResponse{
		Staff: StaffInfo{
			ID:       st.ID,
			Username: st.Username,
			Nickname: st.Nickname,
		},
		AccessToken:  tokenPair.AccessToken,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresIn:    tokenPair.ExpiresIn,
	}, nil
}

// LogoutUseCase 店员登出用例
type LogoutUseCase struct {
	sessionStore *redis.SessionStore
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(sessionStore *redis.SessionStore) *LogoutUseCase {
	return &LogoutUseCase{sessionStore: sessionStore}
}

// Execute 执行登出
// 删除会话并把Access Token加入黑名单,防止Token在过期前继续使用。
func (uc *LogoutUseCase) Execute(ctx context.Context, staffID uint, accessToken string) error {
	if uc.sessionStore == nil {
		return nil
	}

	if err := uc.sessionStore.DeleteSession(ctx, staffID); err != nil {
		return err
	}

	return uc.sessionStore.AddToBlacklist(ctx, accessToken, 2*time.Hour)
}

// RegisterUseCase 店员注册用例
type RegisterUseCase struct {
	staffService staff.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(staffService staff.Service) *RegisterUseCase {
	return &RegisterUseCase{staffService: staffService}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Password string
	Nickname string
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*StaffInfo, error) {
	st, err := uc.staffService.Register(ctx, req.Username, req.Password, req.Nickname)
	if err != nil {
		return nil, err
	}

	return &StaffInfo{
		ID:       st.ID,
		Username: st.Username,
		Nickname: st.Nickname,
	}, nil
}
