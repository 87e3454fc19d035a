package order

import (
	"time"
)

// Status 借阅单状态
// 设计说明:
// 1. 使用int类型而非string(节省存储空间,便于索引)
// 2. 状态只能向前流转:Pending→Completed,没有取消或回退
type Status int

const (
	StatusPending   Status = 0 // 借出中(还有未归还的图书)
	StatusCompleted Status = 1 // 已完成(全部图书已归还)
)

// String 实现Stringer接口(方便日志输出)
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "借出中"
	case StatusCompleted:
		return "已完成"
	default:
		return "未知状态"
	}
}

// DetailStatus 借阅明细状态
type DetailStatus int

const (
	DetailStatusPending  DetailStatus = 0 // 未归还
	DetailStatusReturned DetailStatus = 1 // 已归还
)

// Order 借阅单实体(聚合根)
// 设计说明:
// 1. Order是聚合根,OrderDetail是子实体,必须通过Order访问
// 2. CustomerName冗余存储(下单时的快照,客户改名后历史单据不变)
// 3. OrderDate统一归一化到当天中午12点(见NoonDate)
// 4. ReturnDate创建时写入应还日期,完结时被实际归还日期覆盖
type Order struct {
	ID           uint
	CustomerID   uint
	CustomerName string    // 客户姓名快照
	OrderDate    time.Time // 借出日期(中午12点)
	ReturnDate   time.Time // 借出中=应还日期;已完成=最后一本的归还日期
	Status       Status
	Details      []OrderDetail
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// OrderDetail 借阅明细(单本图书一条记录)
// 设计说明:
// 1. BookName/AuthorName冗余存储(借出时的快照)
// 2. CustomerID冗余到明细上,便于按客户直接查询明细
type OrderDetail struct {
	ID         uint
	OrderID    uint
	BookID     uint
	CustomerID uint
	BookName   string // 书名快照
	AuthorName string // 作者名快照
	Quantity   int    // 借出数量
	Status     DetailStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewOrder 创建借阅单(工厂方法)
// 借出日期取当天中午12点,应还日期为借出日期加returnDays天,
// 初始状态为借出中。
func NewOrder(customerID uint, customerName string, returnDays int, details []OrderDetail) *Order {
	now := time.Now()
	orderDate := NoonDate(now)
	return &Order{
		CustomerID:   customerID,
		CustomerName: customerName,
		OrderDate:    orderDate,
		ReturnDate:   orderDate.AddDate(0, 0, returnDays),
		Status:       StatusPending,
		Details:      details,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NoonDate 把时间归一化到当天中午12点(本地时区)
// 借阅单只关心"哪一天",用中午12点避免跨时区序列化时日期漂移。
func NoonDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, t.Location())
}

// Complete 完结借阅单(领域行为)
// 业务规则:只能从借出中转为已完成,同时记录完结日期。
func (o *Order) Complete(returnDate time.Time) error {
	if o.Status != StatusPending {
		return ErrAlreadyCompleted
	}
	o.Status = StatusCompleted
	o.ReturnDate = NoonDate(returnDate)
	o.UpdatedAt = time.Now()
	return nil
}

// PendingCount 未归还的明细数量
func (o *Order) PendingCount() int {
	count := 0
	for _, d := range o.Details {
		if d.Status == DetailStatusPending {
			count++
		}
	}
	return count
}

// IsOwnedBy 检查借阅单是否属于指定客户
func (o *Order) IsOwnedBy(customerID uint) bool {
	return o.CustomerID == customerID
}
