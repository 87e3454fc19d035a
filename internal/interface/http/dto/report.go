package dto

// FinanceDailyRequest HTTP日度财务统计请求
type FinanceDailyRequest struct {
	Year  int `form:"year" binding:"required,min=2000,max=2100" example:"2026"`
	Month int `form:"month" binding:"required,min=1,max=12" example:"8"`
}

// FinanceMonthlyRequest HTTP月度财务统计请求
type FinanceMonthlyRequest struct {
	Year int `form:"year" binding:"required,min=2000,max=2100" example:"2026"`
}

// ExportReportRequest HTTP报表导出请求
// From/To为"2006-01-02"格式，空表示不限；Status过滤借阅单状态
type ExportReportRequest struct {
	From   string `form:"from" binding:"omitempty,datetime=2006-01-02" example:"2026-08-01"`
	To     string `form:"to" binding:"omitempty,datetime=2006-01-02" example:"2026-09-01"`
	Status *int   `form:"status" binding:"omitempty,oneof=0 1" example:"1"`
}
