package interfaces

import "agrimarket-backend/internal/model"

// CommentRepository 接口定义了商品评论仓库应该实现的方法
type CommentRepository interface {
	Create(comment *model.ProductComment) error
	FindByID(id int64) (*model.ProductComment, error)
	ListByProduct(productID int) ([]*model.ProductComment, error)
	ListReplies(rootID int64) ([]*model.ProductComment, error)
	Like(id int64) error
	DeleteTree(id int64) error
}
