package mysql

import (
	"agrimarket-backend/internal/model"
	"database/sql"
	"log"
	"time"
)

// productRepository 实现了 ProductRepository 接口
type productRepository struct {
	db *sql.DB
}

// NewProductRepository 创建一个新的 productRepository 实例
func NewProductRepository(db *sql.DB) *productRepository {
	return &productRepository{db}
}

const productColumns = `product_id, product_name, price, producer, sales_volume, product_img, surplus, total_volume, status, user_id, created_at, updated_at`

func scanProduct(scanner interface {
	Scan(dest ...interface{}) error
}) (*model.Product, error) {
	var p model.Product
	err := scanner.Scan(
		&p.ID, &p.ProductName, &p.Price, &p.Producer, &p.SalesVolume,
		&p.ProductImg, &p.Surplus, &p.TotalVolume, &p.Status, &p.UserID,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create 发布新农产品，初始库存等于总量
func (r *productRepository) Create(product *model.Product) error {
	log.Printf("尝试发布农产品：%s", product.ProductName)
	query := `INSERT INTO product (product_name, price, producer, sales_volume, product_img, surplus, total_volume, status, user_id)
              VALUES (?, ?, ?, 0, ?, ?, ?, ?, ?)`
	result, err := r.db.Exec(query, product.ProductName, product.Price, product.Producer,
		product.ProductImg, product.TotalVolume, product.TotalVolume, model.ProductStatusListed, product.UserID)
	if err != nil {
		log.Printf("发布农产品失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	product.ID = int(id)
	product.Surplus = product.TotalVolume
	product.Status = model.ProductStatusListed
	return nil
}

// FindByID 通过ID查找农产品
func (r *productRepository) FindByID(id int) (*model.Product, error) {
	row := r.db.QueryRow(`SELECT `+productColumns+` FROM product WHERE product_id = ?`, id)
	return scanProduct(row)
}

func (r *productRepository) queryProducts(query string, args ...interface{}) ([]*model.Product, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// FindAll 分页查询全部农产品
func (r *productRepository) FindAll(page, pageSize int) ([]*model.Product, error) {
	return r.queryProducts(`SELECT `+productColumns+` FROM product ORDER BY product_id DESC LIMIT ? OFFSET ?`,
		pageSize, (page-1)*pageSize)
}

// FindListed 分页查询已上架农产品
func (r *productRepository) FindListed(page, pageSize int) ([]*model.Product, error) {
	return r.queryProducts(`SELECT `+productColumns+` FROM product WHERE status = ? ORDER BY product_id DESC LIMIT ? OFFSET ?`,
		model.ProductStatusListed, pageSize, (page-1)*pageSize)
}

// FindByFarmer 查询农户发布的农产品
func (r *productRepository) FindByFarmer(userID int) ([]*model.Product, error) {
	return r.queryProducts(`SELECT `+productColumns+` FROM product WHERE user_id = ? ORDER BY product_id DESC`, userID)
}

// Search 按名称或产地模糊搜索已上架农产品
func (r *productRepository) Search(keyword string, page, pageSize int) ([]*model.Product, error) {
	like := "%" + keyword + "%"
	return r.queryProducts(`SELECT `+productColumns+` FROM product
		WHERE status = ? AND (product_name LIKE ? OR producer LIKE ?)
		ORDER BY sales_volume DESC LIMIT ? OFFSET ?`,
		model.ProductStatusListed, like, like, pageSize, (page-1)*pageSize)
}

// Update 更新农产品信息
func (r *productRepository) Update(product *model.Product) error {
	_, err := r.db.Exec(`
		UPDATE product
		SET product_name = ?, price = ?, producer = ?, product_img = ?, updated_at = ?
		WHERE product_id = ?`,
		product.ProductName, product.Price, product.Producer, product.ProductImg, time.Now(), product.ID)
	return err
}

// UpdateStatus 更新上下架状态
func (r *productRepository) UpdateStatus(id, status int) error {
	_, err := r.db.Exec(`UPDATE product SET status = ?, updated_at = ? WHERE product_id = ?`,
		status, time.Now(), id)
	if err != nil {
		log.Printf("更新农产品状态失败：%v", err)
	}
	return err
}

// Delete 删除农产品
func (r *productRepository) Delete(id int) error {
	_, err := r.db.Exec(`DELETE FROM product WHERE product_id = ?`, id)
	return err
}

// AddCartItem 加入购物车，同一商品重复添加时累加数量
func (r *productRepository) AddCartItem(item *model.CartItem) error {
	var existingID, existingAmount int
	err := r.db.QueryRow(`SELECT cart_id, amount FROM cart_item WHERE user_id = ? AND product_id = ?`,
		item.UserID, item.ProductID).Scan(&existingID, &existingAmount)
	if err == nil {
		item.ID = existingID
		item.Amount += existingAmount
		return r.UpdateCartAmount(existingID, item.Amount)
	}
	if err != sql.ErrNoRows {
		return err
	}

	result, err := r.db.Exec(`INSERT INTO cart_item (user_id, product_id, amount) VALUES (?, ?, ?)`,
		item.UserID, item.ProductID, item.Amount)
	if err != nil {
		log.Printf("加入购物车失败：%v", err)
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	item.ID = int(id)
	return nil
}

// GetCartItem 查询单个购物车条目
func (r *productRepository) GetCartItem(id int) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.QueryRow(`SELECT cart_id, user_id, product_id, amount, created_at FROM cart_item WHERE cart_id = ?`, id).
		Scan(&item.ID, &item.UserID, &item.ProductID, &item.Amount, &item.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ListCartItems 查询用户购物车，联表带出商品信息
func (r *productRepository) ListCartItems(userID int) ([]*model.CartItem, error) {
	query := `SELECT c.cart_id, c.user_id, c.product_id, c.amount, c.created_at,
                     p.product_name, p.product_img, p.price, p.surplus, p.producer
              FROM cart_item c
              JOIN product p ON p.product_id = c.product_id
              WHERE c.user_id = ?
              ORDER BY c.created_at DESC`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*model.CartItem
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ProductID, &item.Amount, &item.CreatedAt,
			&item.ProductName, &item.ProductImg, &item.Price, &item.Surplus, &item.Producer,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

// UpdateCartAmount 修改购物车条目数量
func (r *productRepository) UpdateCartAmount(id, amount int) error {
	_, err := r.db.Exec(`UPDATE cart_item SET amount = ? WHERE cart_id = ?`, amount, id)
	return err
}

// RemoveCartItem 删除购物车条目
func (r *productRepository) RemoveCartItem(id int) error {
	_, err := r.db.Exec(`DELETE FROM cart_item WHERE cart_id = ?`, id)
	return err
}
