package service

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/payment"
	"agrimarket-backend/internal/repository/interfaces"
	"agrimarket-backend/internal/util"
	"database/sql"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

type OrderService struct {
	orderRepo   interfaces.OrderRepository
	productRepo interfaces.ProductRepository
	userRepo    interfaces.UserRepository
	payClient   payment.Client
	node        *snowflake.Node
	db          *sql.DB
}

// NewOrderService 创建一个新的 OrderService 实例
func NewOrderService(
	orderRepo interfaces.OrderRepository,
	productRepo interfaces.ProductRepository,
	userRepo interfaces.UserRepository,
	payClient payment.Client,
	db *sql.DB,
) (*OrderService, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, fmt.Errorf("初始化雪花节点失败: %w", err)
	}
	return &OrderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		payClient:   payClient,
		node:        node,
		db:          db,
	}, nil
}

// createPurchaseTx 在事务中扣减库存并落单。库存不足或商品已下架时整体失败。
func (s *OrderService) createPurchaseTx(tx *sql.Tx, userID, productID, amount int, address string) (*model.Purchase, error) {
	var price float64
	var status int
	err := tx.QueryRow(`SELECT price, status FROM product WHERE product_id = ?`, productID).
		Scan(&price, &status)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New(errors.ErrProductNotFound, "商品不存在")
		}
		return nil, err
	}
	if status != model.ProductStatusListed {
		return nil, errors.New(errors.ErrOrderStateConflict, "商品已下架")
	}

	// 条件更新保证库存永不为负，同一行锁住并发购买
	result, err := tx.Exec(`
		UPDATE product
		SET surplus = surplus - ?, sales_volume = sales_volume + ?, updated_at = ?
		WHERE product_id = ? AND surplus >= ?`,
		amount, amount, time.Now(), productID, amount)
	if err != nil {
		util.Logger.Error("扣减库存失败", zap.Int("product_id", productID), zap.Error(err))
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, errors.New(errors.ErrInsufficientStock, "库存不足")
	}

	now := time.Now()
	purchase := &model.Purchase{
		TradeNo:    s.node.Generate().String(),
		ProductID:  productID,
		UserID:     userID,
		Amount:     amount,
		GetAddress: address,
		TotalPrice: price * float64(amount),
		Status:     model.PurchaseStatusPaid,
		CreateTime: now,
		UpdateTime: now,
	}

	res, err := tx.Exec(`
		INSERT INTO purchase (trade_no, product_id, user_id, amount, get_address, total_price, status, create_time, update_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		purchase.TradeNo, purchase.ProductID, purchase.UserID, purchase.Amount,
		purchase.GetAddress, purchase.TotalPrice, purchase.Status, purchase.CreateTime, purchase.UpdateTime)
	if err != nil {
		util.Logger.Error("创建订单失败", zap.Error(err))
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	purchase.ID = int(id)
	return purchase, nil
}

// PurchaseProduct 直接购买商品
func (s *OrderService) PurchaseProduct(userID, productID, amount, addressID int) (*model.Purchase, error) {
	if amount <= 0 {
		return nil, errors.New(errors.ErrValidation, "购买数量必须为正数")
	}

	address, err := s.userRepo.GetAddressByID(addressID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrResourceNotFound, "收货地址不存在", err)
	}
	if address.UserID != userID {
		return nil, errors.New(errors.ErrForbidden, "不能使用他人的收货地址")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	purchase, err := s.createPurchaseTx(tx, userID, productID, amount, address.AddressName)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	util.Logger.Info("下单成功",
		zap.Int("purchase_id", purchase.ID),
		zap.String("trade_no", purchase.TradeNo),
		zap.Int("user_id", userID))
	return purchase, nil
}

// BuyFromCart 从购物车结算，下单成功后删除购物车条目
func (s *OrderService) BuyFromCart(userID, cartID, addressID int) (*model.Purchase, error) {
	item, err := s.productRepo.GetCartItem(cartID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrResourceNotFound, "购物车条目不存在", err)
	}
	if item.UserID != userID {
		return nil, errors.New(errors.ErrForbidden, "不能结算他人的购物车")
	}

	address, err := s.userRepo.GetAddressByID(addressID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrResourceNotFound, "收货地址不存在", err)
	}
	if address.UserID != userID {
		return nil, errors.New(errors.ErrForbidden, "不能使用他人的收货地址")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return nil, err
	}
	defer tx.Rollback()

	purchase, err := s.createPurchaseTx(tx, userID, item.ProductID, item.Amount, address.AddressName)
	if err != nil {
		return nil, err
	}

	if _, err := tx.Exec(`DELETE FROM cart_item WHERE cart_id = ?`, cartID); err != nil {
		util.Logger.Error("删除购物车条目失败", zap.Int("cart_id", cartID), zap.Error(err))
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return purchase, nil
}

// CreatePayURL 为订单生成支付宝支付链接
func (s *OrderService) CreatePayURL(userID, purchaseID int) (string, error) {
	purchase, err := s.orderRepo.FindByID(purchaseID)
	if err != nil {
		return "", errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err)
	}
	if purchase.UserID != userID {
		return "", errors.New(errors.ErrForbidden, "不能支付他人的订单")
	}

	subject := fmt.Sprintf("农产品订单-%s", purchase.ProductName)
	return s.payClient.CreatePayURL(purchase.TradeNo, subject, purchase.TotalPrice)
}

// ConfirmPayment 处理支付宝异步通知，幂等确认订单支付状态
func (s *OrderService) ConfirmPayment(noti *payment.Notification) error {
	if noti.TradeStatus != "TRADE_SUCCESS" && noti.TradeStatus != "TRADE_FINISHED" {
		util.Logger.Info("忽略非成功的交易通知",
			zap.String("trade_no", noti.OutTradeNo),
			zap.String("trade_status", noti.TradeStatus))
		return nil
	}

	purchase, err := s.orderRepo.FindByTradeNo(noti.OutTradeNo)
	if err != nil {
		return err
	}
	if purchase == nil {
		return errors.New(errors.ErrResourceNotFound, "订单不存在")
	}

	// 订单在下单事务中已是已支付状态，重复通知直接成功
	if purchase.Status != model.PurchaseStatusPending {
		return nil
	}
	return s.orderRepo.UpdateStatus(purchase.ID, model.PurchaseStatusPaid)
}

// Ship 农户发货，仅允许已支付订单
func (s *OrderService) Ship(farmerID, purchaseID int) error {
	purchase, err := s.orderRepo.FindByID(purchaseID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err)
	}

	product, err := s.productRepo.FindByID(purchase.ProductID)
	if err != nil {
		return err
	}
	if product.UserID != farmerID {
		return errors.New(errors.ErrForbidden, "只能操作自己商品的订单")
	}

	if purchase.Status != model.PurchaseStatusPaid {
		return errors.New(errors.ErrOrderStateConflict, "当前状态不允许发货")
	}
	return s.orderRepo.UpdateStatus(purchaseID, model.PurchaseStatusShipped)
}

// Receive 买家确认收货，仅允许已发货订单
func (s *OrderService) Receive(userID, purchaseID int) error {
	purchase, err := s.orderRepo.FindByID(purchaseID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err)
	}
	if purchase.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能操作自己的订单")
	}
	if purchase.Status != model.PurchaseStatusShipped {
		return errors.New(errors.ErrOrderStateConflict, "当前状态不允许收货")
	}
	return s.orderRepo.UpdateStatus(purchaseID, model.PurchaseStatusReceived)
}

// Cancel 买家取消未发货订单并回补库存
func (s *OrderService) Cancel(userID, purchaseID int) error {
	purchase, err := s.orderRepo.FindByID(purchaseID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err)
	}
	if purchase.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能操作自己的订单")
	}
	if purchase.Status != model.PurchaseStatusPaid {
		return errors.New(errors.ErrOrderStateConflict, "当前状态不允许取消")
	}
	return s.closePurchaseAndRestock(purchase, model.PurchaseStatusCancelled)
}

// Return 买家退货并回补库存，仅允许已发货或已收货订单
func (s *OrderService) Return(userID, purchaseID int) error {
	purchase, err := s.orderRepo.FindByID(purchaseID)
	if err != nil {
		return errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err)
	}
	if purchase.UserID != userID {
		return errors.New(errors.ErrForbidden, "只能操作自己的订单")
	}
	if purchase.Status != model.PurchaseStatusShipped && purchase.Status != model.PurchaseStatusReceived {
		return errors.New(errors.ErrOrderStateConflict, "当前状态不允许退货")
	}
	return s.closePurchaseAndRestock(purchase, model.PurchaseStatusReturned)
}

// closePurchaseAndRestock 在事务中关闭订单并回补库存
func (s *OrderService) closePurchaseAndRestock(purchase *model.Purchase, targetStatus int) error {
	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	result, err := tx.Exec(`UPDATE purchase SET status = ?, update_time = ? WHERE purchase_id = ? AND status = ?`,
		targetStatus, time.Now(), purchase.ID, purchase.Status)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.New(errors.ErrOrderStateConflict, "订单状态已变更")
	}

	if _, err := tx.Exec(`
		UPDATE product
		SET surplus = surplus + ?, sales_volume = sales_volume - ?, updated_at = ?
		WHERE product_id = ?`,
		purchase.Amount, purchase.Amount, time.Now(), purchase.ProductID); err != nil {
		util.Logger.Error("回补库存失败", zap.Int("product_id", purchase.ProductID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("订单关闭并回补库存",
		zap.Int("purchase_id", purchase.ID),
		zap.Int("status", targetStatus))
	return nil
}

// DelistProduct 农户下架商品，强制取消进行中的订单但不回补库存
func (s *OrderService) DelistProduct(farmerID, productID int) error {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}
	if product.UserID != farmerID {
		return errors.New(errors.ErrForbidden, "只能下架自己的商品")
	}
	if product.Status == model.ProductStatusDelisted {
		return errors.New(errors.ErrOrderStateConflict, "商品已下架")
	}

	tx, err := s.db.Begin()
	if err != nil {
		util.Logger.Error("开始事务失败", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`UPDATE product SET status = ?, updated_at = ? WHERE product_id = ?`,
		model.ProductStatusDelisted, time.Now(), productID); err != nil {
		return err
	}

	// 下架属于卖方单方面终止，未发货订单一并取消
	if _, err := tx.Exec(`UPDATE purchase SET status = ?, update_time = ? WHERE product_id = ? AND status IN (?, ?)`,
		model.PurchaseStatusCancelled, time.Now(), productID,
		model.PurchaseStatusPending, model.PurchaseStatusPaid); err != nil {
		util.Logger.Error("取消在途订单失败", zap.Int("product_id", productID), zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	util.Logger.Info("商品下架成功", zap.Int("product_id", productID))
	return nil
}

// GetPurchase 查询单个订单
func (s *OrderService) GetPurchase(id int) (*model.Purchase, error) {
	return s.orderRepo.FindByID(id)
}

// ListBuyerOrders 查询买家订单
func (s *OrderService) ListBuyerOrders(userID int) ([]*model.Purchase, error) {
	return s.orderRepo.ListByBuyer(userID)
}

// ListProductOrders 农户查询单个商品的全部订单
func (s *OrderService) ListProductOrders(farmerID, productID int) ([]*model.Purchase, error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		return nil, errors.Wrap(errors.ErrProductNotFound, "商品不存在", err)
	}
	if product.UserID != farmerID {
		return nil, errors.New(errors.ErrForbidden, "只能查看自己商品的订单")
	}
	return s.orderRepo.ListByProduct(productID)
}

// ListFarmerOrders 查询农户名下商品的订单。status为0时不过滤。
func (s *OrderService) ListFarmerOrders(farmerID, status int) ([]*model.Purchase, error) {
	purchases, err := s.orderRepo.ListByFarmer(farmerID)
	if err != nil {
		return nil, err
	}
	if status == 0 {
		return purchases, nil
	}
	filtered := make([]*model.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.Status == status {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}
