package loan

import (
	"time"
)

// Loan 客户借款台账(按客户一条记录)
// 设计说明:
// 1. 以CustomerID为业务主键,金额单调累加
// 2. 创建借阅单提交后尽力而为地累加,失败只记日志并在响应中
//    附带警告,不影响借阅单本身
type Loan struct {
	ID         uint
	CustomerID uint
	Amount     int64 // 累计借款金额(分)
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
