package product

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CartHandler 处理购物车相关的HTTP请求
type CartHandler struct {
	productService *service.ProductService
}

// NewCartHandler 创建一个新的 CartHandler 实例
func NewCartHandler(productService *service.ProductService) *CartHandler {
	return &CartHandler{productService}
}

// Add 加入购物车
func (h *CartHandler) Add(c *gin.Context) {
	userID := c.GetInt("user_id")

	var cartData struct {
		ProductID int `json:"product_id" binding:"required"`
		Amount    int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&cartData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	item, err := h.productService.AddToCart(userID, cartData.ProductID, cartData.Amount)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, item, "已加入购物车")
}

// List 查询购物车
func (h *CartHandler) List(c *gin.Context) {
	userID := c.GetInt("user_id")
	items, err := h.productService.ListCart(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询购物车失败", err))
		return
	}
	errors.HandleSuccess(c, items, "")
}

// UpdateAmount 修改购物车条目数量
func (h *CartHandler) UpdateAmount(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的购物车ID", err))
		return
	}

	var cartData struct {
		Amount int `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&cartData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.productService.UpdateCartAmount(userID, id, cartData.Amount); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "修改成功")
}

// Remove 删除购物车条目
func (h *CartHandler) Remove(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的购物车ID", err))
		return
	}
	if err := h.productService.RemoveFromCart(userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
