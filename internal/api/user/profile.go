package user

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProfileHandler 处理用户资料相关的HTTP请求
type ProfileHandler struct {
	userService *service.UserService
}

// NewProfileHandler 创建一个新的 ProfileHandler 实例
func NewProfileHandler(userService *service.UserService) *ProfileHandler {
	return &ProfileHandler{userService}
}

// GetProfile 查询当前用户资料
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID := c.GetInt("user_id")
	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "用户不存在", err))
		return
	}
	errors.HandleSuccess(c, user, "")
}

// UpdateProfile 更新当前用户资料
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID := c.GetInt("user_id")

	var profileData struct {
		RealName string `json:"real_name"`
		Phone    string `json:"phone"`
		Email    string `json:"email" binding:"omitempty,email"`
		IDCard   string `json:"id_card"`
	}
	if err := c.ShouldBindJSON(&profileData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	user, err := h.userService.GetUserByID(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "用户不存在", err))
		return
	}

	if profileData.RealName != "" {
		user.RealName = profileData.RealName
	}
	if profileData.Phone != "" {
		user.Phone = profileData.Phone
	}
	if profileData.Email != "" {
		user.Email = profileData.Email
	}
	if profileData.IDCard != "" {
		user.IDCard = profileData.IDCard
	}

	if err := h.userService.UpdateProfile(user); err != nil {
		util.Logger.Error("更新用户资料失败", zap.Int("user_id", userID), zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "更新资料失败", err))
		return
	}
	errors.HandleSuccess(c, user, "更新成功")
}

// ChangePassword 修改当前用户密码
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	userID := c.GetInt("user_id")

	var passwordData struct {
		OldPassword string `json:"old_password" binding:"required"`
		NewPassword string `json:"new_password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&passwordData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.userService.ChangePassword(userID, passwordData.OldPassword, passwordData.NewPassword); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "密码修改成功")
}

// UploadAvatar 上传头像
func (h *ProfileHandler) UploadAvatar(c *gin.Context) {
	userID := c.GetInt("user_id")

	file, err := c.FormFile("avatar")
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "未找到上传文件", err))
		return
	}

	url, err := h.userService.UploadAvatar(userID, file)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"image_url": url}, "上传成功")
}

// GetUser 查询指定用户的公开资料
func (h *ProfileHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}
	user, err := h.userService.GetUserByID(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrUserNotFound, "用户不存在", err))
		return
	}
	errors.HandleSuccess(c, user, "")
}

// ListUsers 管理员分页查询用户列表
func (h *ProfileHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, total, err := h.userService.ListUsers(page, pageSize)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询用户列表失败", err))
		return
	}
	errors.HandleSuccess(c, gin.H{
		"users": users,
		"total": total,
	}, "")
}

// DeleteUser 管理员删除用户
func (h *ProfileHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的用户ID", err))
		return
	}
	if err := h.userService.DeleteUser(id); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "删除用户失败", err))
		return
	}
	errors.HandleSuccess(c, nil, "删除成功")
}
