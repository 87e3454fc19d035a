package dto

// SaveAuthorRequest HTTP作者创建/更新请求
type SaveAuthorRequest struct {
	Name      string `json:"name" binding:"required,max=100" example:"余华"`
	Biography string `json:"biography" binding:"max=2000" example:"当代作家"`
}

// ListAuthorsRequest HTTP作者列表请求
type ListAuthorsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"余华"`
}
