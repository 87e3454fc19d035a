package mysql

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/thilan/bookshop/internal/domain/order"
	apperrors "github.com/thilan/bookshop/pkg/errors"
)

// orderRepository 借阅单仓储实现(MySQL)
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建借阅单仓储
func NewOrderRepository(db *gorm.DB) order.Repository {
	return &orderRepository{db: db}
}

// Create 创建借阅单(不含明细)
func (r *orderRepository) Create(ctx context.Context, o *order.Order) error {
	model := &OrderModel{
		CustomerID:   o.CustomerID,
		CustomerName: o.CustomerName,
		OrderDate:    o.OrderDate,
		Status:       int(o.Status),
	}
	if !o.ReturnDate.IsZero() {
		model.ReturnDate = &o.ReturnDate
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅单失败")
	}

	o.ID = model.ID
	o.CreatedAt = model.CreatedAt
	o.UpdatedAt = model.UpdatedAt

	return nil
}

// CreateDetail 创建借阅明细
func (r *orderRepository) CreateDetail(ctx context.Context, d *order.OrderDetail) error {
	model := &OrderDetailModel{
		OrderID:    d.OrderID,
		BookID:     d.BookID,
		CustomerID: d.CustomerID,
		BookName:   d.BookName,
		AuthorName: d.AuthorName,
		Quantity:   d.Quantity,
		Status:     int(d.Status),
	}

	if err := getDB(ctx, r.db).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建借阅明细失败")
	}

	d.ID = model.ID
	d.CreatedAt = model.CreatedAt
	d.UpdatedAt = model.UpdatedAt

	return nil
}

// FindByID 根据ID查找借阅单(包含明细)
func (r *orderRepository) FindByID(ctx context.Context, id uint) (*order.Order, error) {
	var model OrderModel
	err := getDB(ctx, r.db).Preload("Details").First(&model, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, order.ErrOrderNotFound
		}
		return nil, apperrors.Wrap(err, "查询借阅单失败")
	}

	return toOrderEntity(&model), nil
}

// Update 更新借阅单(状态与完结日期)
func (r *orderRepository) Update(ctx context.Context, o *order.Order) error {
	updates := map[string]interface{}{
		"status": int(o.Status),
	}
	if !o.ReturnDate.IsZero() {
		updates["return_date"] = o.ReturnDate
	}

	result := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("id = ?", o.ID).
		Updates(updates)

	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新借阅单失败")
	}

	if result.RowsAffected == 0 {
		return order.ErrOrderNotFound
	}

	return nil
}

// List 分页查询借阅单列表(不含明细)
func (r *orderRepository) List(ctx context.Context, params order.ListParams) ([]*order.Order, int64, error) {
	var models []OrderModel
	var total int64

	query := getDB(ctx, r.db).Model(&OrderModel{})

	if params.Status != nil {
		query = query.Where("status = ?", int(*params.Status))
	}
	if params.Keyword != "" {
		query = query.Where("customer_name LIKE ?", "%"+params.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅单总数失败")
	}

	offset := (params.Page - 1) * params.PageSize
	if err := query.Order("order_date DESC, id DESC").Limit(params.PageSize).Offset(offset).Find(&models).Error; err != nil {
		return nil, 0, apperrors.Wrap(err, "查询借阅单列表失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, total, nil
}

// ListByCustomerID 查询客户的全部借阅单(含明细)
func (r *orderRepository) ListByCustomerID(ctx context.Context, customerID uint) ([]*order.Order, error) {
	var models []OrderModel
	err := getDB(ctx, r.db).Preload("Details").
		Where("customer_id = ?", customerID).
		Order("order_date DESC, id DESC").
		Find(&models).Error
	if err != nil {
		return nil, apperrors.Wrap(err, "查询客户借阅单失败")
	}

	orders := make([]*order.Order, len(models))
	for i := range models {
		orders[i] = toOrderEntity(&models[i])
	}

	return orders, nil
}

// MarkDetailReturned 把明细翻转为已归还(幂等保护)
// UPDATE ... WHERE id = ? AND status = 0:只有仍未归还的明细会被翻转,
// 重复归还同一本书时RowsAffected为0,调用方跳过回补库存与计费。
func (r *orderRepository) MarkDetailReturned(ctx context.Context, detailID uint, returnedAt time.Time) (bool, error) {
	result := getDB(ctx, r.db).Model(&OrderDetailModel{}).
		Where("id = ? AND status = ?", detailID, int(order.DetailStatusPending)).
		Updates(map[string]interface{}{
			"status":     int(order.DetailStatusReturned),
			"updated_at": returnedAt,
		})

	if result.Error != nil {
		return false, apperrors.Wrap(result.Error, "更新借阅明细失败")
	}

	return result.RowsAffected > 0, nil
}

// CountPendingDetails 统计借阅单的未归还明细数量
func (r *orderRepository) CountPendingDetails(ctx context.Context, orderID uint) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&OrderDetailModel{}).
		Where("order_id = ? AND status = ?", orderID, int(order.DetailStatusPending)).
		Count(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计未归还明细失败")
	}
	return total, nil
}

// CountPendingByCustomer 统计客户未完结的借阅单数量
func (r *orderRepository) CountPendingByCustomer(ctx context.Context, customerID uint) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&OrderModel{}).
		Where("customer_id = ? AND status = ?", customerID, int(order.StatusPending)).
		Count(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计客户未完结借阅单失败")
	}
	return total, nil
}

// CountPendingByBook 统计引用图书的未归还明细数量
func (r *orderRepository) CountPendingByBook(ctx context.Context, bookID uint) (int64, error) {
	var total int64
	err := getDB(ctx, r.db).Model(&OrderDetailModel{}).
		Where("book_id = ? AND status = ?", bookID, int(order.DetailStatusPending)).
		Count(&total).Error
	if err != nil {
		return 0, apperrors.Wrap(err, "统计图书借阅明细失败")
	}
	return total, nil
}

// DeleteByCustomerID 删除客户的全部借阅单与明细
// 先删明细再删单,必须在级联删除事务内调用。
func (r *orderRepository) DeleteByCustomerID(ctx context.Context, customerID uint) error {
	db := getDB(ctx, r.db)

	if err := db.Where("customer_id = ?", customerID).Delete(&OrderDetailModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除借阅明细失败")
	}

	if err := db.Where("customer_id = ?", customerID).Delete(&OrderModel{}).Error; err != nil {
		return apperrors.Wrap(err, "删除借阅单失败")
	}

	return nil
}

// toOrderEntity GORM模型 → 领域实体
func toOrderEntity(model *OrderModel) *order.Order {
	o := &order.Order{
		ID:           model.ID,
		CustomerID:   model.CustomerID,
		CustomerName: model.CustomerName,
		OrderDate:    model.OrderDate,
		Status:       order.Status(model.Status),
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
	if model.ReturnDate != nil {
		o.ReturnDate = *model.ReturnDate
	}

	o.Details = make([]order.OrderDetail, len(model.Details))
	for i, d := range model.Details {
		o.Details[i] = order.OrderDetail{
			ID:         d.ID,
			OrderID:    d.OrderID,
			BookID:     d.BookID,
			CustomerID: d.CustomerID,
			BookName:   d.BookName,
			AuthorName: d.AuthorName,
			Quantity:   d.Quantity,
			Status:     order.DetailStatus(d.Status),
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		}
	}

	return o
}
