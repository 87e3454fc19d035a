package dto

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"admin"`
	Password string `json:"password" binding:"required" example:"bookshop123"`
}

// RegisterStaffRequest HTTP店员注册请求
// 用户名/密码的具体规则在领域层校验，这里只做必填检查
type RegisterStaffRequest struct {
	Username string `json:"username" binding:"required,max=32" example:"zhangsan"`
	Password string `json:"password" binding:"required,max=20" example:"bookshop123"`
	Nickname string `json:"nickname" binding:"max=50" example:"张三"`
}
