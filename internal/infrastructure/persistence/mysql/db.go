package mysql

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/thilan/bookshop/internal/infrastructure/config"
	"github.com/thilan/bookshop/pkg/metrics"
)

// NewDB 创建数据库连接
// 设计说明:
// 1. 使用GORM v2作为ORM框架
// 2. 配置连接池参数(MaxOpenConns、MaxIdleConns、ConnMaxLifetime)
// 3. 开发环境开启SQL日志,生产环境关闭
// 4. 自动迁移表结构(AutoMigrate)
// 5. 注册查询耗时回调,写入查询监控器(/performance接口读取)
func NewDB(cfg *config.Config, monitor *metrics.QueryMonitor) (*gorm.DB, error) {
	dsn := cfg.Database.DSN()

	logLevel := gormlogger.Silent
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	zap.L().Info("数据库连接成功", zap.String("addr", cfg.Database.Host))

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}

	if monitor != nil {
		if err := RegisterQueryMonitor(db, monitor); err != nil {
			return nil, fmt.Errorf("注册查询监控回调失败: %w", err)
		}
	}

	return db, nil
}

// AutoMigrate 自动迁移表结构
// AutoMigrate只会创建表、添加字段,不会删除或修改现有字段。
// 生产环境应使用版本化的迁移脚本。
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&StaffModel{},
		&AuthorModel{},
		&BookModel{},
		&CustomerModel{},
		&OrderModel{},
		&OrderDetailModel{},
		&PaymentModel{},
		&LoanModel{},
	)
}

// StaffModel GORM店员模型
// 设计说明:
// 1. 这是infrastructure层的数据模型,包含GORM tag
// 2. domain层实体不依赖GORM,Repository负责两者转换
type StaffModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:32;not null;comment:登录名"`
	Password  string    `gorm:"size:255;not null;comment:密码(bcrypt加密)"`
	Nickname  string    `gorm:"size:50;comment:显示名"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (StaffModel) TableName() string {
	return "staffs"
}

// AuthorModel GORM作者模型
type AuthorModel struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"index;size:100;not null;comment:作者姓名"`
	Biography string    `gorm:"type:text;comment:作者简介"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (AuthorModel) TableName() string {
	return "authors"
}

// BookModel GORM图书模型
// 设计说明:
// 1. ISBN有唯一索引,防止重复
// 2. AuthorName是写入时的快照,作者改名不回填
// 3. Quantity是在库可借数量,扣减时SQL层保证不为负
type BookModel struct {
	ID         uint      `gorm:"primaryKey"`
	ISBN       string    `gorm:"uniqueIndex;size:20;not null;comment:ISBN号"`
	Name       string    `gorm:"index:idx_search;size:200;not null;comment:书名"`
	AuthorID   uint      `gorm:"index;not null;comment:作者ID"`
	AuthorName string    `gorm:"index:idx_search;size:100;not null;comment:作者姓名快照"`
	Quantity   int       `gorm:"default:0;comment:在库可借数量"`
	CreatedAt  time.Time `gorm:"index;comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (BookModel) TableName() string {
	return "books"
}

// CustomerModel GORM客户模型
type CustomerModel struct {
	ID             uint      `gorm:"primaryKey"`
	RegistrationNo string    `gorm:"uniqueIndex;size:32;not null;comment:会员登记号"`
	Name           string    `gorm:"index;size:100;not null;comment:客户姓名"`
	Contact        string    `gorm:"index;size:32;comment:联系电话"`
	Address        string    `gorm:"size:255;comment:地址"`
	CreatedAt      time.Time `gorm:"comment:创建时间"`
	UpdatedAt      time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (CustomerModel) TableName() string {
	return "customers"
}

// OrderModel GORM借阅单模型
// 与OrderDetailModel是一对多关系。
type OrderModel struct {
	ID           uint               `gorm:"primaryKey"`
	CustomerID   uint               `gorm:"index;not null;comment:客户ID"`
	CustomerName string             `gorm:"index;size:100;not null;comment:客户姓名快照"`
	OrderDate    time.Time          `gorm:"index;not null;comment:借出日期"`
	ReturnDate   *time.Time         `gorm:"comment:应还日期(完结时覆盖为归还日期)"`
	Status       int                `gorm:"index;type:tinyint;default:0;comment:状态(0借出中1已完成)"`
	Details      []OrderDetailModel `gorm:"foreignKey:OrderID"`
	CreatedAt    time.Time          `gorm:"index;comment:创建时间"`
	UpdatedAt    time.Time          `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderModel) TableName() string {
	return "orders"
}

// OrderDetailModel GORM借阅明细模型
// 记录借出时的书名与作者名快照。
type OrderDetailModel struct {
	ID         uint      `gorm:"primaryKey"`
	OrderID    uint      `gorm:"index;not null;comment:借阅单ID"`
	BookID     uint      `gorm:"index;not null;comment:图书ID"`
	CustomerID uint      `gorm:"index;not null;comment:客户ID"`
	BookName   string    `gorm:"size:200;not null;comment:书名快照"`
	AuthorName string    `gorm:"size:100;comment:作者名快照"`
	Quantity   int       `gorm:"not null;comment:借出数量"`
	Status     int       `gorm:"index;type:tinyint;default:0;comment:状态(0未归还1已归还)"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (OrderDetailModel) TableName() string {
	return "order_details"
}

// PaymentModel GORM付款记录模型
// (OrderID, CustomerID)唯一,分批归还时金额累加。
type PaymentModel struct {
	ID           uint       `gorm:"primaryKey"`
	OrderID      uint       `gorm:"uniqueIndex:idx_order_customer;not null;comment:借阅单ID"`
	CustomerID   uint       `gorm:"uniqueIndex:idx_order_customer;index;not null;comment:客户ID"`
	CustomerName string     `gorm:"size:100;comment:客户姓名快照"`
	Amount       int64      `gorm:"not null;default:0;comment:累计已收金额(分)"`
	OrderDate    time.Time  `gorm:"comment:借出日期快照"`
	ReturnDate   *time.Time `gorm:"index;comment:最近归还日期"`
	CreatedAt    time.Time  `gorm:"comment:创建时间"`
	UpdatedAt    time.Time  `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (PaymentModel) TableName() string {
	return "payments"
}

// LoanModel GORM借款台账模型
// 按客户一条记录,金额单调累加。
type LoanModel struct {
	ID         uint      `gorm:"primaryKey"`
	CustomerID uint      `gorm:"uniqueIndex;not null;comment:客户ID"`
	Amount     int64     `gorm:"not null;default:0;comment:累计借款金额(分)"`
	CreatedAt  time.Time `gorm:"comment:创建时间"`
	UpdatedAt  time.Time `gorm:"comment:更新时间"`
}

// TableName 指定表名
func (LoanModel) TableName() string {
	return "loans"
}
