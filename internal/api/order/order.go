package order

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// OrderHandler 处理订单相关的HTTP请求
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler 创建一个新的 OrderHandler 实例
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService}
}

// Purchase 直接购买商品
func (h *OrderHandler) Purchase(c *gin.Context) {
	userID := c.GetInt("user_id")

	var purchaseData struct {
		ProductID int `json:"product_id" binding:"required"`
		Amount    int `json:"amount" binding:"required"`
		AddressID int `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&purchaseData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	purchase, err := h.orderService.PurchaseProduct(userID, purchaseData.ProductID,
		purchaseData.Amount, purchaseData.AddressID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, purchase, "下单成功")
}

// BuyFromCart 从购物车结算
func (h *OrderHandler) BuyFromCart(c *gin.Context) {
	userID := c.GetInt("user_id")

	var buyData struct {
		CartID    int `json:"cart_id" binding:"required"`
		AddressID int `json:"address_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&buyData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	purchase, err := h.orderService.BuyFromCart(userID, buyData.CartID, buyData.AddressID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, purchase, "下单成功")
}

// GetOrder 查询订单详情
func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单ID", err))
		return
	}
	purchase, err := h.orderService.GetPurchase(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "订单不存在", err))
		return
	}
	errors.HandleSuccess(c, purchase, "")
}

// ListMine 买家查询自己的订单
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID := c.GetInt("user_id")
	purchases, err := h.orderService.ListBuyerOrders(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询订单失败", err))
		return
	}
	errors.HandleSuccess(c, purchases, "")
}

// ListProductOrders 农户查询单个商品的订单
func (h *OrderHandler) ListProductOrders(c *gin.Context) {
	userID := c.GetInt("user_id")
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}

	purchases, err := h.orderService.ListProductOrders(userID, productID)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, purchases, "")
}

// ListSales 农户查询名下商品的订单，可按状态过滤
func (h *OrderHandler) ListSales(c *gin.Context) {
	userID := c.GetInt("user_id")
	status, _ := strconv.Atoi(c.DefaultQuery("status", "0"))
	purchases, err := h.orderService.ListFarmerOrders(userID, status)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询订单失败", err))
		return
	}
	errors.HandleSuccess(c, purchases, "")
}

func (h *OrderHandler) orderAction(c *gin.Context, action func(userID, purchaseID int) error, message string) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单ID", err))
		return
	}
	if err := action(userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, message)
}

// Ship 农户发货
func (h *OrderHandler) Ship(c *gin.Context) {
	h.orderAction(c, h.orderService.Ship, "发货成功")
}

// Receive 买家确认收货
func (h *OrderHandler) Receive(c *gin.Context) {
	h.orderAction(c, h.orderService.Receive, "收货成功")
}

// Cancel 买家取消订单
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.orderAction(c, h.orderService.Cancel, "订单已取消")
}

// Return 买家退货
func (h *OrderHandler) Return(c *gin.Context) {
	h.orderAction(c, h.orderService.Return, "退货成功")
}
