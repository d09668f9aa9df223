package content

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ContentHandler 处理资讯、农业知识和求购信息相关的HTTP请求
type ContentHandler struct {
	contentService *service.ContentService
	userService    *service.UserService
}

// NewContentHandler 创建一个新的 ContentHandler 实例
func NewContentHandler(contentService *service.ContentService, userService *service.UserService) *ContentHandler {
	return &ContentHandler{contentService, userService}
}

type newsData struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	CoverImg string `json:"cover_img"`
}

// CreateNews 管理员发布资讯
func (h *ContentHandler) CreateNews(c *gin.Context) {
	var data newsData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	news := &model.News{
		Title:    data.Title,
		Content:  data.Content,
		CoverImg: data.CoverImg,
	}
	if err := h.contentService.CreateNews(news); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, news, "发布成功")
}

// GetNews 查询资讯详情
func (h *ContentHandler) GetNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的资讯ID", err))
		return
	}
	news, err := h.contentService.GetNews(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "资讯不存在", err))
		return
	}
	errors.HandleSuccess(c, news, "")
}

// ListNews 分页查询资讯
func (h *ContentHandler) ListNews(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	newsList, err := h.contentService.ListNews(page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询资讯失败", err))
		return
	}
	errors.HandleSuccess(c, newsList, "")
}

// UpdateNews 管理员更新资讯
func (h *ContentHandler) UpdateNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的资讯ID", err))
		return
	}
	var data newsData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	news := &model.News{
		ID:       id,
		Title:    data.Title,
		Content:  data.Content,
		CoverImg: data.CoverImg,
	}
	if err := h.contentService.UpdateNews(news); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, news, "更新成功")
}

// DeleteNews 管理员删除资讯
func (h *ContentHandler) DeleteNews(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的资讯ID", err))
		return
	}
	if err := h.contentService.DeleteNews(id); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "删除资讯失败", err))
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}

type knowledgeData struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Category string `json:"category"`
	CoverImg string `json:"cover_img"`
}

// CreateKnowledge 专家或管理员发布农业知识
func (h *ContentHandler) CreateKnowledge(c *gin.Context) {
	var data knowledgeData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	k := &model.AgricultureKnowledge{
		Title:    data.Title,
		Content:  data.Content,
		Category: data.Category,
		CoverImg: data.CoverImg,
	}
	if err := h.contentService.CreateKnowledge(k); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, k, "发布成功")
}

// GetKnowledge 查询农业知识详情
func (h *ContentHandler) GetKnowledge(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的知识ID", err))
		return
	}
	k, err := h.contentService.GetKnowledge(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "知识不存在", err))
		return
	}
	errors.HandleSuccess(c, k, "")
}

// ListKnowledge 分页查询农业知识
func (h *ContentHandler) ListKnowledge(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	category := c.Query("category")
	list, err := h.contentService.ListKnowledge(category, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询知识失败", err))
		return
	}
	errors.HandleSuccess(c, list, "")
}

// UpdateKnowledge 更新农业知识
func (h *ContentHandler) UpdateKnowledge(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的知识ID", err))
		return
	}
	var data knowledgeData
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}
	k := &model.AgricultureKnowledge{
		ID:       id,
		Title:    data.Title,
		Content:  data.Content,
		Category: data.Category,
		CoverImg: data.CoverImg,
	}
	if err := h.contentService.UpdateKnowledge(k); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, k, "更新成功")
}

// DeleteKnowledge 删除农业知识
func (h *ContentHandler) DeleteKnowledge(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的知识ID", err))
		return
	}
	if err := h.contentService.DeleteKnowledge(id); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "删除知识失败", err))
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}

// CreateBuyRequest 买家发布求购信息
func (h *ContentHandler) CreateBuyRequest(c *gin.Context) {
	userID := c.GetInt("user_id")

	var data struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Amount      int    `json:"amount" binding:"required"`
		Contact     string `json:"contact" binding:"required"`
	}
	if err := c.ShouldBindJSON(&data); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	req := &model.BuyRequest{
		UserID:      userID,
		Title:       data.Title,
		Description: data.Description,
		Amount:      data.Amount,
		Contact:     data.Contact,
	}
	if err := h.contentService.CreateBuyRequest(req); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, req, "发布成功")
}

// GetBuyRequest 查询求购信息详情
func (h *ContentHandler) GetBuyRequest(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的求购ID", err))
		return
	}
	req, err := h.contentService.GetBuyRequest(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "求购信息不存在", err))
		return
	}
	errors.HandleSuccess(c, req, "")
}

// ListBuyRequests 分页查询求购信息
func (h *ContentHandler) ListBuyRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	keyword := c.Query("keyword")
	requests, err := h.contentService.ListBuyRequests(keyword, page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询求购信息失败", err))
		return
	}
	errors.HandleSuccess(c, requests, "")
}

// DeleteBuyRequest 删除求购信息
func (h *ContentHandler) DeleteBuyRequest(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的求购ID", err))
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "用户不存在", err))
		return
	}

	if err := h.contentService.DeleteBuyRequest(userID, id, user.RoleType == model.RoleAdmin); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
