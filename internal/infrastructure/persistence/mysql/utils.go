package mysql

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateError 判断是否为唯一索引冲突错误
// MySQL错误码1062: Duplicate entry 'xxx' for key 'yyy'
// SQLite(测试环境): UNIQUE constraint failed
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// isTransientDBError 判断是否为争用类错误(重试后可能成功)
// MySQL错误码1205: Lock wait timeout exceeded; 1213: Deadlock found
// SQLite(测试环境): database is locked
// 事务超时(context deadline)同样归为可重试。
func isTransientDBError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1205") ||
		strings.Contains(msg, "Error 1213") ||
		strings.Contains(msg, "database is locked")
}

// supportsRowLock 判断当前方言是否支持SELECT FOR UPDATE
// 测试用的SQLite是库级锁,不支持行锁语法。
func supportsRowLock(db *gorm.DB) bool {
	return db.Dialector.Name() != "sqlite"
}
