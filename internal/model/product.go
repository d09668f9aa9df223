package model

import "time"

// 商品上下架状态
const (
	ProductStatusListed   = 1 // 已上架
	ProductStatusDelisted = 2 // 已下架
)

// 订单状态
const (
	PurchaseStatusPending   = 1 // 待支付
	PurchaseStatusPaid      = 3 // 已支付
	PurchaseStatusShipped   = 4 // 已发货
	PurchaseStatusReceived  = 5 // 已收货
	PurchaseStatusCancelled = 6 // 已取消
	PurchaseStatusReturned  = 7 // 已退货
)

// Product 农产品模型
type Product struct {
	ID          int       `json:"product_id"`
	ProductName string    `json:"product_name"`
	Price       float64   `json:"price"`
	Producer    string    `json:"producer"`
	SalesVolume int       `json:"sales_volume"`
	ProductImg  string    `json:"product_img"`
	Surplus     int       `json:"surplus"`
	TotalVolume int       `json:"total_volume"`
	Status      int       `json:"status"`
	UserID      int       `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Purchase 订单模型
type Purchase struct {
	ID          int       `json:"purchase_id"`
	TradeNo     string    `json:"trade_no"`
	ProductID   int       `json:"product_id"`
	UserID      int       `json:"user_id"`
	Amount      int       `json:"amount"`
	GetAddress  string    `json:"get_address"`
	TotalPrice  float64   `json:"total_price"`
	Status      int       `json:"status"`
	CreateTime  time.Time `json:"create_time"`
	UpdateTime  time.Time `json:"update_time"`
	ProductName string    `json:"product_name,omitempty"`
	ProductImg  string    `json:"product_img,omitempty"`
	Price       float64   `json:"price,omitempty"`
}

// CartItem 购物车条目
type CartItem struct {
	ID          int       `json:"cart_id"`
	UserID      int       `json:"user_id"`
	ProductID   int       `json:"product_id"`
	Amount      int       `json:"amount"`
	CreatedAt   time.Time `json:"created_at"`
	ProductName string    `json:"product_name,omitempty"`
	ProductImg  string    `json:"product_img,omitempty"`
	Price       float64   `json:"price,omitempty"`
	Surplus     int       `json:"surplus,omitempty"`
	Producer    string    `json:"producer,omitempty"`
}
