package handler

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/thilan/bookshop/internal/application/auth"
	"github.com/thilan/bookshop/internal/interface/http/dto"
	"github.com/thilan/bookshop/internal/interface/http/middleware"
	apperrors "github.com/thilan/bookshop/pkg/errors"
	"github.com/thilan/bookshop/pkg/response"
)

// AuthHandler 认证HTTP处理器
type AuthHandler struct {
	loginUseCase    *appauth.LoginUseCase
	logoutUseCase   *appauth.LogoutUseCase
	registerUseCase *appauth.RegisterUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	loginUseCase *appauth.LoginUseCase,
	logoutUseCase *appauth.LogoutUseCase,
	registerUseCase *appauth.RegisterUseCase,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:    loginUseCase,
		logoutUseCase:   logoutUseCase,
		registerUseCase: registerUseCase,
	}
}

// Login 店员登录
// @Summary      店员登录
// @Description  用户名密码登录，返回JWT Token
// @Tags         认证模块
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response "登录成功"
// @Failure      40103 {object} response.Response "用户名或密码错误"
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appauth.LoginRequest{
		Username: req.Username,
		Password: req.Password,
		ClientIP: c.ClientIP(),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Logout 店员登出
// @Summary      店员登出
// @Description  删除会话并将当前Token加入黑名单
// @Tags         认证模块
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.Response "登出成功"
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	staffID := middleware.MustGetStaffID(c)
	token := middleware.GetAccessToken(c)

	if err := h.logoutUseCase.Execute(c.Request.Context(), staffID, token); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, nil)
}

// Register 注册店员账号
// @Summary      注册店员账号
// @Description  创建新的店员账号（需要登录）
// @Tags         认证模块
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.RegisterStaffRequest true "账号信息"
// @Success      200 {object} response.Response "注册成功"
// @Failure      40003 {object} response.Response "用户名已存在"
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithCode(c, apperrors.ErrCodeBindError, "参数错误: "+err.Error())
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appauth.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
		Nickname: req.Nickname,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}
