package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/jwt"
	"github.com/thilan/bookshop/pkg/response"
)

// AuthMiddleware JWT认证中间件
// 设计说明：
// 1. 从Header提取Token
// 2. 检查Token黑名单(登出后的Token立即失效)
// 3. 验证Token并将店员信息注入Context
type AuthMiddleware struct {
	jwtManager   *jwt.Manager
	sessionStore *redis.SessionStore
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, sessionStore *redis.SessionStore) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:   jwtManager,
		sessionStore: sessionStore,
	}
}

// RequireAuth 要求登录
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 格式：Authorization: Bearer <token>
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.ErrorWithCode(c, apperrors.ErrCodeUnauthorized, "请先登录")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.ErrorWithCode(c, apperrors.ErrCodeInvalidToken, "Token格式错误")
			c.Abort()
			return
		}

		tokenString := parts[1]

		// 黑名单检查容错：Redis不可用时放行，由Token本身的过期时间兜底
		isBlacklisted, err := m.sessionStore.IsInBlacklist(c.Request.Context(), tokenString)
		if err == nil && isBlacklisted {
			response.ErrorWithCode(c, apperrors.ErrCodeTokenExpired, "Token已失效，请重新登录")
			c.Abort()
			return
		}

		claims, err := m.jwtManager.ParseToken(tokenString)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set("staff_id", claims.StaffID)
		c.Set("username", claims.Username)
		c.Set("access_token", tokenString)

		c.Next()
	}
}

// GetStaffID 从Context获取当前登录店员ID，未登录返回0
func GetStaffID(c *gin.Context) uint {
	if v, exists := c.Get("staff_id"); exists {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// GetUsername 从Context获取当前登录店员用户名
func GetUsername(c *gin.Context) string {
	if v, exists := c.Get("username"); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetAccessToken 从Context获取原始Token(登出时写入黑名单)
func GetAccessToken(c *gin.Context) string {
	if v, exists := c.Get("access_token"); exists {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// MustGetStaffID 获取店员ID，仅用于已通过RequireAuth的Handler
func MustGetStaffID(c *gin.Context) uint {
	id := GetStaffID(c)
	if id == 0 {
		panic("staff_id not found in context")
	}
	return id
}
