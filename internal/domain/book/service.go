package book

import (
	"context"
	"regexp"
)

// Service 图书领域服务接口
// 设计说明:
// 1. 领域服务封装业务规则校验(ISBN格式、重复检查)
// 2. 不依赖具体的Repository实现(依赖倒置)
type Service interface {
	// CreateBook 新书入库
	// 业务规则:
	// - ISBN格式必须合法(10位或13位数字)
	// - 库存必须>=0
	// - ISBN不能重复
	CreateBook(ctx context.Context, isbn, name string, authorID uint, authorName string, quantity int) (*Book, error)

	// GetBookByID 根据ID获取图书详情
	GetBookByID(ctx context.Context, id uint) (*Book, error)

	// UpdateBook 更新图书信息
	UpdateBook(ctx context.Context, id uint, isbn, name string, authorID uint, authorName string, quantity int) (*Book, error)

	// ListBooks 分页查询图书列表
	ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error)
}

// service 领域服务实现
type service struct {
	repo Repository
}

// NewService 创建图书领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateBook 新书入库
func (s *service) CreateBook(ctx context.Context, isbn, name string, authorID uint, authorName string, quantity int) (*Book, error) {
	if !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}
	if quantity < 0 {
		return nil, ErrInvalidStock
	}

	// ISBN重复检查(数据库唯一索引兜底)
	existing, err := s.repo.FindByISBN(ctx, isbn)
	if err == nil && existing != nil {
		return nil, ErrISBNDuplicate
	}
	if err != nil && err != ErrBookNotFound {
		return nil, err
	}

	b := NewBook(isbn, name, authorID, authorName, quantity)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// GetBookByID 根据ID获取图书
func (s *service) GetBookByID(ctx context.Context, id uint) (*Book, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdateBook 更新图书信息
func (s *service) UpdateBook(ctx context.Context, id uint, isbn, name string, authorID uint, authorName string, quantity int) (*Book, error) {
	if isbn != "" && !isValidISBN(isbn) {
		return nil, ErrInvalidISBN
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := b.UpdateInfo(isbn, name, authorID, authorName, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks 分页查询图书列表
func (s *service) ListBooks(ctx context.Context, params ListParams) ([]*Book, int64, error) {
	return s.repo.List(ctx, params)
}

// isValidISBN 校验ISBN格式
// 支持ISBN-10和ISBN-13,允许带分隔符(978-955-20-3051-X)。
// 简化实现:只检查位数,不校验校验位。
func isValidISBN(isbn string) bool {
	re := regexp.MustCompile(`[^0-9Xx]`)
	clean := re.ReplaceAllString(isbn, "")
	length := len(clean)
	return length == 10 || length == 13
}
