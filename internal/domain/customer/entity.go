package customer

import (
	"time"
)

// Customer 客户实体(聚合根)
// RegistrationNo是业务唯一标识(会员登记号),数据库层保证唯一性。
type Customer struct {
	ID             uint
	RegistrationNo string // 会员登记号(业务唯一)
	Name           string // 客户姓名
	Contact        string // 联系电话
	Address        string // 地址
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewCustomer 创建客户(工厂方法)
func NewCustomer(registrationNo, name, contact, address string) *Customer {
	now := time.Now()
	return &Customer{
		RegistrationNo: registrationNo,
		Name:           name,
		Contact:        contact,
		Address:        address,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// UpdateInfo 更新客户信息
// 客户改名后历史借阅单上的姓名快照不变。
func (c *Customer) UpdateInfo(name, contact, address string) {
	if name != "" {
		c.Name = name
	}
	if contact != "" {
		c.Contact = contact
	}
	if address != "" {
		c.Address = address
	}
	c.UpdatedAt = time.Now()
}
