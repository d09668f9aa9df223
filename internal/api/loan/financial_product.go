package loan

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FinancialProductHandler 处理金融产品相关的HTTP请求
type FinancialProductHandler struct {
	loanService *service.LoanService
}

// NewFinancialProductHandler 创建一个新的 FinancialProductHandler 实例
func NewFinancialProductHandler(loanService *service.LoanService) *FinancialProductHandler {
	return &FinancialProductHandler{loanService}
}

type financialProductData struct {
	FpName        string  `json:"fp_name" binding:"required"`
	FpDescription string  `json:"fp_description"`
	AnnualRate    float64 `json:"annual_rate" binding:"required"`
	Tags          string  `json:"tags"`
	MaxAmount     float64 `json:"max_amount" binding:"required"`
	MinAmount     float64 `json:"min_amount" binding:"required"`
	Term          int     `json:"term" binding:"required"`
}

// Create 银行创建金融产品
func (h *FinancialProductHandler) Create(c *gin.Context) {
	userID := c.GetInt("user_id")

	var data financialProductData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	fp := &model.FinancialProduct{
		FpName:        data.FpName,
		FpDescription: data.FpDescription,
		AnnualRate:    data.AnnualRate,
		Tags:          data.Tags,
		FpManagerID:   userID,
		MaxAmount:     data.MaxAmount,
		MinAmount:     data.MinAmount,
		Term:          data.Term,
	}
	if err := h.loanService.CreateFinancialProduct(fp); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, fp, "创建成功")
}

// Get 查询金融产品详情
func (h *FinancialProductHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的产品ID", err))
		return
	}
	fp, err := h.loanService.GetFinancialProduct(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "金融产品不存在", err))
		return
	}
	errors.HandleSuccess(c, fp, "")
}

// List 查询全部金融产品
func (h *FinancialProductHandler) List(c *gin.Context) {
	products, err := h.loanService.ListFinancialProducts()
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询金融产品失败", err))
		return
	}
	errors.HandleSuccess(c, products, "")
}

// Update 银行更新金融产品
func (h *FinancialProductHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的产品ID", err))
		return
	}

	var data financialProductData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	fp := &model.FinancialProduct{
		ID:            id,
		FpName:        data.FpName,
		FpDescription: data.FpDescription,
		AnnualRate:    data.AnnualRate,
		Tags:          data.Tags,
		MaxAmount:     data.MaxAmount,
		MinAmount:     data.MinAmount,
		Term:          data.Term,
	}
	if err := h.loanService.UpdateFinancialProduct(fp); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, fp, "更新成功")
}

// Delete 银行删除金融产品
func (h *FinancialProductHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的产品ID", err))
		return
	}
	if err := h.loanService.DeleteFinancialProduct(id); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "删除金融产品失败", err))
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
