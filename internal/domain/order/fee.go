package order

import (
	"time"
)

// Tariff 租金费率
// 设计说明:
// 1. 金额使用int64存储"分"为单位(避免浮点数精度问题)
// 2. 前BaseDays天收基础租金,之后每满/不满WeekDays天加收一周租金
type Tariff struct {
	BaseFee   int64 // 基础租金(分),覆盖前BaseDays天
	WeeklyFee int64 // 超期周租金(分)
	BaseDays  int   // 基础租期天数
	WeekDays  int   // 超期计费周期天数
}

// DefaultTariff 默认费率:前14天50元,之后每周30元
func DefaultTariff() Tariff {
	return Tariff{
		BaseFee:   5000,
		WeeklyFee: 3000,
		BaseDays:  14,
		WeekDays:  7,
	}
}

// DaysSince 计算借出天数
// 规则:借出当天算第1天,按24小时整天向下取整。
func DaysSince(orderDate, asOf time.Time) int {
	diff := asOf.Sub(orderDate)
	return int(diff.Hours()/24) + 1
}

// FeePerBook 计算单本图书截至asOf的租金(分)
// 前BaseDays天收BaseFee;超期部分按WeekDays天为一周向上取整,
// 每周加收WeeklyFee。
func (t Tariff) FeePerBook(orderDate, asOf time.Time) int64 {
	days := DaysSince(orderDate, asOf)
	if days <= t.BaseDays {
		return t.BaseFee
	}
	extraDays := days - t.BaseDays
	extraWeeks := (extraDays + t.WeekDays - 1) / t.WeekDays
	return t.BaseFee + t.WeeklyFee*int64(extraWeeks)
}

// TotalPending 计算全部未归还图书截至asOf的应收租金(分)
func (t Tariff) TotalPending(orderDate, asOf time.Time, pendingCount int) int64 {
	if pendingCount <= 0 {
		return 0
	}
	return t.FeePerBook(orderDate, asOf) * int64(pendingCount)
}

// CurrentPayment 计算本次归还应收金额(分)
// 按归还本数占未归还总数的比例分摊,整数除法向下取整,
// 余数留到最后一次归还时结清。totalPending为0时返回0。
func CurrentPayment(totalPendingFee int64, selected, totalPending int) int64 {
	if totalPending <= 0 {
		return 0
	}
	return totalPendingFee * int64(selected) / int64(totalPending)
}

// Quote 租金报价(getOrder接口返回给前端展示)
type Quote struct {
	PendingCount int   // 未归还数量
	FeePerBook   int64 // 单本租金(分)
	TotalPayment int64 // 应收总额(分)
}

// QuoteFor 生成截至asOf的租金报价
func (t Tariff) QuoteFor(o *Order, asOf time.Time) Quote {
	pending := o.PendingCount()
	fee := t.FeePerBook(o.OrderDate, asOf)
	return Quote{
		PendingCount: pending,
		FeePerBook:   fee,
		TotalPayment: fee * int64(pending),
	}
}
