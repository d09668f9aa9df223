package comment

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CommentHandler 处理商品评论相关的HTTP请求
type CommentHandler struct {
	commentService *service.CommentService
	userService    *service.UserService
}

// NewCommentHandler 创建一个新的 CommentHandler 实例
func NewCommentHandler(commentService *service.CommentService, userService *service.UserService) *CommentHandler {
	return &CommentHandler{commentService, userService}
}

// Post 发表评论或回复
func (h *CommentHandler) Post(c *gin.Context) {
	userID := c.GetInt("user_id")

	var commentData struct {
		ProductID   int    `json:"product_id" binding:"required"`
		Content     string `json:"content" binding:"required"`
		ToCommentID int64  `json:"to_comment_id"`
	}
	if err := c.ShouldBindJSON(&commentData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	comment := &model.ProductComment{
		Content:     commentData.Content,
		UserID:      userID,
		ProductID:   commentData.ProductID,
		ToCommentID: commentData.ToCommentID,
	}
	if err := h.commentService.Post(comment); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, comment, "评论成功")
}

// ListByProduct 查询商品评论树
func (h *CommentHandler) ListByProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的商品ID", err))
		return
	}
	comments, err := h.commentService.GetCommentTree(productID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询评论失败", err))
		return
	}
	errors.HandleSuccess(c, comments, "")
}

// Like 点赞评论
func (h *CommentHandler) Like(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}
	if err := h.commentService.Like(id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "点赞成功")
}

// Delete 删除评论及其全部回复
func (h *CommentHandler) Delete(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的评论ID", err))
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "用户不存在", err))
		return
	}

	if err := h.commentService.Delete(int64(userID), user.RoleType, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
