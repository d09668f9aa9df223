package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
	"time"
)

// orderRepository 实现了 OrderRepository 接口
type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository 创建一个新的 orderRepository 实例
func NewOrderRepository(db *sql.DB) *orderRepository {
	return &orderRepository{db}
}

const purchaseColumns = `pu.purchase_id, pu.trade_no, pu.product_id, pu.user_id, pu.amount, pu.get_address,
       pu.total_price, pu.status, pu.create_time, pu.update_time,
       p.product_name, p.product_img, p.price`

func (r *orderRepository) queryPurchases(query string, args ...interface{}) ([]*model.Purchase, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var purchases []*model.Purchase
	for rows.Next() {
		var pu model.Purchase
		if err := rows.Scan(
			&pu.ID, &pu.TradeNo, &pu.ProductID, &pu.UserID, &pu.Amount, &pu.GetAddress,
			&pu.TotalPrice, &pu.Status, &pu.CreateTime, &pu.UpdateTime,
			&pu.ProductName, &pu.ProductImg, &pu.Price,
		); err != nil {
			return nil, err
		}
		purchases = append(purchases, &pu)
	}
	return purchases, rows.Err()
}

// FindByID 通过ID查找订单
func (r *orderRepository) FindByID(id int) (*model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase pu
              JOIN product p ON p.product_id = pu.product_id
              WHERE pu.purchase_id = ?`
	var pu model.Purchase
	err := r.db.QueryRow(query, id).Scan(
		&pu.ID, &pu.TradeNo, &pu.ProductID, &pu.UserID, &pu.Amount, &pu.GetAddress,
		&pu.TotalPrice, &pu.Status, &pu.CreateTime, &pu.UpdateTime,
		&pu.ProductName, &pu.ProductImg, &pu.Price,
	)
	if err != nil {
		log.Printf("查找订单失败：%v", err)
		return nil, err
	}
	return &pu, nil
}

// FindByTradeNo 通过交易号查找订单
func (r *orderRepository) FindByTradeNo(tradeNo string) (*model.Purchase, error) {
	query := `SELECT ` + purchaseColumns + ` FROM purchase pu
              JOIN product p ON p.product_id = pu.product_id
              WHERE pu.trade_no = ?`
	var pu model.Purchase
	err := r.db.QueryRow(query, tradeNo).Scan(
		&pu.ID, &pu.TradeNo, &pu.ProductID, &pu.UserID, &pu.Amount, &pu.GetAddress,
		&pu.TotalPrice, &pu.Status, &pu.CreateTime, &pu.UpdateTime,
		&pu.ProductName, &pu.ProductImg, &pu.Price,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &pu, nil
}

// ListByBuyer 查询买家的订单
func (r *orderRepository) ListByBuyer(userID int) ([]*model.Purchase, error) {
	return r.queryPurchases(`SELECT `+purchaseColumns+` FROM purchase pu
		JOIN product p ON p.product_id = pu.product_id
		WHERE pu.user_id = ?
		ORDER BY pu.create_time DESC`, userID)
}

// ListByFarmer 查询农户名下商品的全部订单
func (r *orderRepository) ListByFarmer(farmerID int) ([]*model.Purchase, error) {
	return r.queryPurchases(`SELECT `+purchaseColumns+` FROM purchase pu
		JOIN product p ON p.product_id = pu.product_id
		WHERE p.user_id = ?
		ORDER BY pu.create_time DESC`, farmerID)
}

// ListByProduct 查询某商品的全部订单
func (r *orderRepository) ListByProduct(productID int) ([]*model.Purchase, error) {
	return r.queryPurchases(`SELECT `+purchaseColumns+` FROM purchase pu
		JOIN product p ON p.product_id = pu.product_id
		WHERE pu.product_id = ?
		ORDER BY pu.create_time DESC`, productID)
}

// UpdateStatus 更新订单状态
func (r *orderRepository) UpdateStatus(id, status int) error {
	_, err := r.db.Exec(`UPDATE purchase SET status = ?, update_time = ? WHERE purchase_id = ?`,
		status, time.Now(), id)
	if err != nil {
		log.Printf("更新订单状态失败：%v", err)
	}
	return err
}
