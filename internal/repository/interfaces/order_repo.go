package interfaces

import "agrimarket-backend/internal/model"

// OrderRepository 接口定义了订单仓库应该实现的方法
type OrderRepository interface {
	FindByID(id int) (*model.Purchase, error)
	FindByTradeNo(tradeNo string) (*model.Purchase, error)
	ListByBuyer(userID int) ([]*model.Purchase, error)
	ListByFarmer(farmerID int) ([]*model.Purchase, error)
	ListByProduct(productID int) ([]*model.Purchase, error)
	UpdateStatus(id, status int) error
}
