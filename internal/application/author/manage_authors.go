package author

import (
	"context"

	"github.com/thilan/bookshop/internal/domain/author"
	"github.com/thilan/bookshop/internal/domain/book"
)

// ManageAuthorsUseCase 作者管理用例
// 删除前检查名下图书,有则拒绝(Conflict)。
type ManageAuthorsUseCase struct {
	authorRepo author.Repository
	bookRepo   book.Repository
}

// NewManageAuthorsUseCase 创建作者管理用例
func NewManageAuthorsUseCase(authorRepo author.Repository, bookRepo book.Repository) *ManageAuthorsUseCase {
	return &ManageAuthorsUseCase{authorRepo: authorRepo, bookRepo: bookRepo}
}

// AuthorDTO 作者DTO
type AuthorDTO struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Biography string `json:"biography"`
	CreatedAt string `json:"created_at"`
}

// Create 创建作者
func (uc *ManageAuthorsUseCase) Create(ctx context.Context, name, biography string) (*AuthorDTO, error) {
	a := author.NewAuthor(name, biography)
	if err := uc.authorRepo.Create(ctx, a); err != nil {
		return nil, err
	}
	return toAuthorDTO(a), nil
}

// Update 更新作者
// 作者改名后已有图书与历史借阅明细上的姓名快照不变。
func (uc *ManageAuthorsUseCase) Update(ctx context.Context, id uint, name, biography string) (*AuthorDTO, error) {
	a, err := uc.authorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.UpdateInfo(name, biography)
	if err := uc.authorRepo.Update(ctx, a); err != nil {
		return nil, err
	}
	return toAuthorDTO(a), nil
}

// Delete 删除作者
func (uc *ManageAuthorsUseCase) Delete(ctx context.Context, id uint) error {
	count, err := uc.bookRepo.CountByAuthor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return author.ErrAuthorInUse
	}

	return uc.authorRepo.Delete(ctx, id)
}

// Get 作者详情
func (uc *ManageAuthorsUseCase) Get(ctx context.Context, id uint) (*AuthorDTO, error) {
	a, err := uc.authorRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toAuthorDTO(a), nil
}

// List 分页查询作者列表
func (uc *ManageAuthorsUseCase) List(ctx context.Context, page, pageSize int, keyword string) ([]AuthorDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	authors, total, err := uc.authorRepo.List(ctx, author.ListParams{
		Page:     page,
		PageSize: pageSize,
		Keyword:  keyword,
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]AuthorDTO, len(authors))
	for i, a := range authors {
		items[i] = *toAuthorDTO(a)
	}
	return items, total, nil
}

// toAuthorDTO 领域实体 → DTO
func toAuthorDTO(a *author.Author) *AuthorDTO {
	return &AuthorDTO{
		ID:        a.ID,
		Name:      a.Name,
		Biography: a.Biography,
		CreatedAt: a.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
