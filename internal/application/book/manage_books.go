package book

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/author"
	"github.com/thilan/bookshop/internal/domain/book"
	"github.com/thilan/bookshop/internal/domain/order"
	redisinfra "github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
)

// ManageBooksUseCase 图书管理用例(增删改)
// 设计说明:
// 1. 作者姓名在写入时从Author聚合冗余到图书上(快照),作者改名不回填
// 2. 删除前检查未归还的借阅明细,有则拒绝(Conflict)
// 3. 写路径失效图书缓存
type ManageBooksUseCase struct {
	bookService book.Service
	bookRepo    book.Repository
	authorRepo  author.Repository
	orderRepo   order.Repository
	cache       *redisinfra.CacheStore
}

// NewManageBooksUseCase 创建图书管理用例
func NewManageBooksUseCase(
	bookService book.Service,
	bookRepo book.Repository,
	authorRepo author.Repository,
	orderRepo order.Repository,
	cache *redisinfra.CacheStore,
) *ManageBooksUseCase {
	return &ManageBooksUseCase{
		bookService: bookService,
		bookRepo:    bookRepo,
		authorRepo:  authorRepo,
		orderRepo:   orderRepo,
		cache:       cache,
	}
}

// BookDTO 图书DTO
type BookDTO struct {
	ID         uint   `json:"id"`
	ISBN       string `json:"isbn"`
	Name       string `json:"name"`
	AuthorID   uint   `json:"author_id"`
	AuthorName string `json:"author_name"`
	Quantity   int    `json:"quantity"`
	CreatedAt  string `json:"created_at"`
}

// CreateBookRequest 新书入库请求
type CreateBookRequest struct {
	ISBN     string
	Name     string
	AuthorID uint
	Quantity int
}

// Create 新书入库
func (uc *ManageBooksUseCase) Create(ctx context.Context, req CreateBookRequest) (*BookDTO, error) {
	// 查作者取姓名快照
	a, err := uc.authorRepo.FindByID(ctx, req.AuthorID)
	if err != nil {
		return nil, err
	}

	b, err := uc.bookService.CreateBook(ctx, req.ISBN, req.Name, a.ID, a.Name, req.Quantity)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx)
	return toBookDTO(b), nil
}

// UpdateBookRequest 图书更新请求
type UpdateBookRequest struct {
	ID       uint
	ISBN     string
	Name     string
	AuthorID uint // 0表示不换作者
	Quantity int
}

// Update 更新图书
func (uc *ManageBooksUseCase) Update(ctx context.Context, req UpdateBookRequest) (*BookDTO, error) {
	authorName := ""
	if req.AuthorID != 0 {
		a, err := uc.authorRepo.FindByID(ctx, req.AuthorID)
		if err != nil {
			return nil, err
		}
		authorName = a.Name
	}

	b, err := uc.bookService.UpdateBook(ctx, req.ID, req.ISBN, req.Name, req.AuthorID, authorName, req.Quantity)
	if err != nil {
		return nil, err
	}

	uc.invalidate(ctx)
	return toBookDTO(b), nil
}

// Delete 删除图书
// 有未归还的借阅明细时拒绝删除。
func (uc *ManageBooksUseCase) Delete(ctx context.Context, id uint) error {
	pending, err := uc.orderRepo.CountPendingByBook(ctx, id)
	if err != nil {
		return err
	}
	if pending > 0 {
		return book.ErrBookInUse
	}

	if err := uc.bookRepo.Delete(ctx, id); err != nil {
		return err
	}

	uc.invalidate(ctx)
	return nil
}

// Get 图书详情(带缓存)
func (uc *ManageBooksUseCase) Get(ctx context.Context, id uint) (*BookDTO, error) {
	if uc.cache != nil {
		var cached BookDTO
		if uc.cache.Get(ctx, uc.cache.Key("books", "detail", id), &cached) {
			return &cached, nil
		}
	}

	b, err := uc.bookService.GetBookByID(ctx, id)
	if err != nil {
		return nil, err
	}

	dto := toBookDTO(b)
	if uc.cache != nil {
		uc.cache.Set(ctx, uc.cache.Key("books", "detail", id), dto, uc.cache.DetailTTL())
	}
	return dto, nil
}

// invalidate 失效图书相关缓存
func (uc *ManageBooksUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	uc.cache.DeletePattern(ctx, uc.cache.Key("books")+":*")
}

// toBookDTO 领域实体 → DTO
func toBookDTO(b *book.Book) *BookDTO {
	return &BookDTO{
		ID:         b.ID,
		ISBN:       b.ISBN,
		Name:       b.Name,
		AuthorID:   b.AuthorID,
		AuthorName: b.AuthorName,
		Quantity:   b.Quantity,
		CreatedAt:  b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
