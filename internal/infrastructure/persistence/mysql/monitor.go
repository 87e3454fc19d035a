package mysql

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/pkg/metrics"
)

const monitorStartKey = "monitor:start"

// RegisterQueryMonitor 注册GORM回调,把每条SQL的耗时写入查询监控器
// 只记录"表名+操作"摘要,不记录完整SQL(避免参数泄露到性能接口)。
func RegisterQueryMonitor(db *gorm.DB, monitor *metrics.QueryMonitor) error {
	start := func(d *gorm.DB) {
		d.Set(monitorStartKey, time.Now())
	}
	finish := func(op string) func(*gorm.DB) {
		return func(d *gorm.DB) {
			v, ok := d.Get(monitorStartKey)
			if !ok {
				return
			}
			startedAt, ok := v.(time.Time)
			if !ok {
				return
			}
			monitor.Record(fmt.Sprintf("%s %s", op, d.Statement.Table), time.Since(startedAt))
		}
	}

	callbacks := []struct {
		name   string
		op     string
		before func(string, func(*gorm.DB)) error
		after  func(string, func(*gorm.DB)) error
	}{
		{"query", "SELECT", db.Callback().Query().Before("gorm:query").Register, db.Callback().Query().After("gorm:query").Register},
		{"create", "INSERT", db.Callback().Create().Before("gorm:create").Register, db.Callback().Create().After("gorm:create").Register},
		{"update", "UPDATE", db.Callback().Update().Before("gorm:update").Register, db.Callback().Update().After("gorm:update").Register},
		{"delete", "DELETE", db.Callback().Delete().Before("gorm:delete").Register, db.Callback().Delete().After("gorm:delete").Register},
		{"row", "ROW", db.Callback().Row().Before("gorm:row").Register, db.Callback().Row().After("gorm:row").Register},
	}

	for _, cb := range callbacks {
		if err := cb.before("monitor:before_"+cb.name, start); err != nil {
			return err
		}
		if err := cb.after("monitor:after_"+cb.name, finish(cb.op)); err != nil {
			return err
		}
	}

	return nil
}
