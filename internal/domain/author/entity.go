package author

import (
	"time"
)

// Author 作者实体(聚合根)
// 图书通过AuthorID引用作者,书名快照在图书侧冗余,
// 作者改名不回填已有图书与历史借阅明细。
type Author struct {
	ID        uint
	Name      string // 作者姓名
	Biography string // 作者简介
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewAuthor 创建作者(工厂方法)
func NewAuthor(name, biography string) *Author {
	now := time.Now()
	return &Author{
		Name:      name,
		Biography: biography,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateInfo 更新作者信息
func (a *Author) UpdateInfo(name, biography string) {
	if name != "" {
		a.Name = name
	}
	if biography != "" {
		a.Biography = biography
	}
	a.UpdatedAt = time.Now()
}
