package book

import (
	"time"
)

// Book 图书实体(聚合根)
// 设计说明:
// 1. Quantity是在库可借数量,借出扣减,归还回补,任何时刻不为负
// 2. AuthorName从Author聚合冗余而来(写入时快照,作者改名不回填)
// 3. ISBN作为业务唯一标识(数据库层保证唯一性)
type Book struct {
	ID         uint
	ISBN       string // ISBN号
	Name       string // 书名
	AuthorID   uint   // 作者ID
	AuthorName string // 作者姓名快照
	Quantity   int    // 在库可借数量
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewBook 创建新图书(工厂方法)
func NewBook(isbn, name string, authorID uint, authorName string, quantity int) *Book {
	now := time.Now()
	return &Book{
		ISBN:       isbn,
		Name:       name,
		AuthorID:   authorID,
		AuthorName: authorName,
		Quantity:   quantity,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Reserve 借出扣减库存(领域行为)
// 业务规则:扣减后库存不能为负数。
func (b *Book) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if b.Quantity < quantity {
		return ErrInsufficientStock
	}
	b.Quantity -= quantity
	b.UpdatedAt = time.Now()
	return nil
}

// Restock 归还回补库存(领域行为)
func (b *Book) Restock(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	b.Quantity += quantity
	b.UpdatedAt = time.Now()
	return nil
}

// UpdateInfo 更新图书基本信息
// 调用方负责在作者变更时同时传入新的作者姓名快照。
func (b *Book) UpdateInfo(isbn, name string, authorID uint, authorName string, quantity int) error {
	if quantity < 0 {
		return ErrInvalidStock
	}
	if isbn != "" {
		b.ISBN = isbn
	}
	if name != "" {
		b.Name = name
	}
	if authorID != 0 {
		b.AuthorID = authorID
		b.AuthorName = authorName
	}
	b.Quantity = quantity
	b.UpdatedAt = time.Now()
	return nil
}
