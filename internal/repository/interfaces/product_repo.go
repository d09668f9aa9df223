package interfaces

import "agrimarket-backend/internal/model"

// ProductRepository 接口定义了农产品仓库应该实现的方法
type ProductRepository interface {
	Create(product *model.Product) error
	FindByID(id int) (*model.Product, error)
	FindAll(page, pageSize int) ([]*model.Product, error)
	FindListed(page, pageSize int) ([]*model.Product, error)
	FindByFarmer(userID int) ([]*model.Product, error)
	Search(keyword string, page, pageSize int) ([]*model.Product, error)
	Update(product *model.Product) error
	UpdateStatus(id, status int) error
	Delete(id int) error
	AddCartItem(item *model.CartItem) error
	GetCartItem(id int) (*model.CartItem, error)
	ListCartItems(userID int) ([]*model.CartItem, error)
	UpdateCartAmount(id, amount int) error
	RemoveCartItem(id int) error
}
