package dto

// CreateBookRequest HTTP新书入库请求
// ISBN格式(10位/13位)在领域层校验
type CreateBookRequest struct {
	ISBN     string `json:"isbn" binding:"required,max=32" example:"9787115428028"`
	Name     string `json:"name" binding:"required,max=200" example:"活着"`
	AuthorID uint   `json:"author_id" binding:"required" example:"1"`
	Quantity int    `json:"quantity" binding:"min=0,max=9999" example:"10"`
}

// UpdateBookRequest HTTP图书更新请求
// AuthorID为0表示不更换作者
type UpdateBookRequest struct {
	ISBN     string `json:"isbn" binding:"required,max=32" example:"9787115428028"`
	Name     string `json:"name" binding:"required,max=200" example:"活着"`
	AuthorID uint   `json:"author_id" example:"1"`
	Quantity int    `json:"quantity" binding:"min=0,max=9999" example:"10"`
}

// ListBooksRequest HTTP图书列表请求
type ListBooksRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1" example:"1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100" example:"20"`
	Keyword  string `form:"keyword" binding:"omitempty,max=100" example:"活着"`
}
