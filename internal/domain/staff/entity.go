package staff

import (
	"time"
)

// Staff 店员账号实体
// 后台操作全部要求登录,店员账号由管理员在库中预置或注册接口创建。
type Staff struct {
	ID        uint
	Username  string // 登录名(业务唯一)
	Password  string // bcrypt哈希,永远不序列化明文
	Nickname  string // 显示名
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStaff 创建店员账号(工厂方法)
// password必须是已经过bcrypt加密的哈希值。
func NewStaff(username, hashedPassword, nickname string) *Staff {
	now := time.Now()
	return &Staff{
		Username:  username,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
