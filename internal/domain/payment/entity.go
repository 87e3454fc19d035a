package payment

import (
	"time"
)

// Payment 付款记录实体
// 设计说明:
// 1. 以(OrderID, CustomerID)为业务主键,一张借阅单一条付款记录
// 2. 分批归还时金额单调累加,没有退款
// 3. CustomerName/OrderDate冗余存储(首次归还时的快照)
type Payment struct {
	ID           uint
	OrderID      uint
	CustomerID   uint
	CustomerName string    // 客户姓名快照
	Amount       int64     // 累计已收金额(分)
	OrderDate    time.Time // 借出日期快照
	ReturnDate   time.Time // 最近一次归还日期(每次归还覆盖)
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Accrue 累加付款金额并刷新归还日期
func (p *Payment) Accrue(amount int64, returnDate time.Time) {
	p.Amount += amount
	p.ReturnDate = returnDate
	p.UpdatedAt = time.Now()
}
