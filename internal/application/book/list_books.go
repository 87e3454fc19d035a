package book

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/book"
	redisinfra "github.com/thilan/bookshop/internal/infrastructure/persistence/redis"
)

// ListBooksUseCase 图书列表用例(分页+搜索,带缓存)
type ListBooksUseCase struct {
	bookService book.Service
	cache       *redisinfra.CacheStore
}

// NewListBooksUseCase 创建列表用例
func NewListBooksUseCase(bookService book.Service, cache *redisinfra.CacheStore) *ListBooksUseCase {
	return &ListBooksUseCase{bookService: bookService, cache: cache}
}

// ListBooksRequest 列表请求DTO
type ListBooksRequest struct {
	Page     int
	PageSize int
	Keyword  string // 书名/作者/ISBN模糊搜索
}

// listCacheValue 列表缓存值
type listCacheValue struct {
	Books []BookDTO `json:"books"`
	Total int64     `json:"total"`
}

// Execute 分页查询图书列表
// Cache-Aside:先查缓存,未命中查数据库再回填。
// 缓存key包含全部查询参数,避免脏数据。
func (uc *ListBooksUseCase) Execute(ctx context.Context, req ListBooksRequest) ([]BookDTO, int64, error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 || req.PageSize > 100 {
		req.PageSize = 10
	}

	var cacheKey string
	if uc.cache != nil {
		cacheKey = uc.cache.Key("books", "list", req.Page, req.PageSize, req.Keyword)
		var cached listCacheValue
		if uc.cache.Get(ctx, cacheKey, &cached) {
			return cached.Books, cached.Total, nil
		}
	}

	books, total, err := uc.bookService.ListBooks(ctx, book.ListParams{
		Page:     req.Page,
		PageSize: req.PageSize,
		Keyword:  req.Keyword,
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]BookDTO, len(books))
	for i, b := range books {
		items[i] = *toBookDTO(b)
	}

	if uc.cache != nil {
		uc.cache.Set(ctx, cacheKey, listCacheValue{Books: items, Total: total}, uc.cache.ListTTL())
	}

	return items, total, nil
}
