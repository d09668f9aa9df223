package product

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProductHandler 处理农产品相关的HTTP请求
type ProductHandler struct {
	productService *service.ProductService
	orderService   *service.OrderService
}

// NewProductHandler 创建一个新的 ProductHandler 实例
func NewProductHandler(productService *service.ProductService, orderService *service.OrderService) *ProductHandler {
	return &ProductHandler{productService, orderService}
}

// Publish 农户发布农产品
func (h *ProductHandler) Publish(c *gin.Context) {
	userID := c.GetInt("user_id")

	var productData struct {
		ProductName string  `json:"product_name" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Producer    string  `json:"producer" binding:"required"`
		ProductImg  string  `json:"product_img"`
		TotalVolume int     `json:"total_volume" binding:"required"`
	}
	if err := c.ShouldBindJSON(&productData); err != nil {
		util.Logger.Warn("发布商品失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product := &model.Product{
		ProductName: productData.ProductName,
		Price:       productData.Price,
		Producer:    productData.Producer,
		ProductImg:  productData.ProductImg,
		TotalVolume: productData.TotalVolume,
		UserID:      userID,
	}
	if err := h.productService.Publish(product); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, product, "发布成功")
}

// UploadImage 上传商品图片
func (h *ProductHandler) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "未找到上传文件", err))
		return
	}
	url, err := h.productService.UploadImage(file)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"product_img": url}, "上传成功")
}

// GetProduct 查询商品详情
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}
	product, err := h.productService.GetProduct(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrProductNotFound, "商品不存在", err))
		return
	}
	errors.HandleSuccess(c, product, "")
}

// ListProducts 分页查询在售商品，带keyword时按名称或产地搜索
func (h *ProductHandler) ListProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")

	var products []*model.Product
	var err error
	if keyword != "" {
		products, err = h.productService.Search(keyword, page, pageSize)
	} else {
		products, err = h.productService.ListListed(page, pageSize)
	}
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询商品失败", err))
		return
	}
	errors.HandleSuccess(c, products, "")
}

// ListMine 农户查询自己发布的商品
func (h *ProductHandler) ListMine(c *gin.Context) {
	userID := c.GetInt("user_id")
	products, err := h.productService.ListByFarmer(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询商品失败", err))
		return
	}
	errors.HandleSuccess(c, products, "")
}

// Update 更新商品信息
func (h *ProductHandler) Update(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}

	var productData struct {
		ProductName string  `json:"product_name" binding:"required"`
		Price       float64 `json:"price" binding:"required"`
		Producer    string  `json:"producer" binding:"required"`
		ProductImg  string  `json:"product_img"`
	}
	if err := c.ShouldBindJSON(&productData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	product := &model.Product{
		ID:          id,
		ProductName: productData.ProductName,
		Price:       productData.Price,
		Producer:    productData.Producer,
		ProductImg:  productData.ProductImg,
	}
	if err := h.productService.Update(userID, product); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, product, "更新成功")
}

// Delist 下架商品
func (h *ProductHandler) Delist(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}
	if err := h.orderService.DelistProduct(userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "下架成功")
}

// Relist 重新上架商品
func (h *ProductHandler) Relist(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}
	if err := h.productService.Relist(userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "上架成功")
}
