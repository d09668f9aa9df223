package user

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

// AddressHandler 处理收货地址相关的HTTP请求
type AddressHandler struct {
	userService *service.UserService
}

// NewAddressHandler 创建一个新的 AddressHandler 实例
func NewAddressHandler(userService *service.UserService) *AddressHandler {
	return &AddressHandler{userService}
}

// CreateAddress 新增收货地址
func (h *AddressHandler) CreateAddress(c *gin.Context) {
	userID := c.GetInt("user_id")

	var addressData struct {
		AddressName string `json:"address_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&addressData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	address := &model.UserAddress{
		UserID:      userID,
		AddressName: addressData.AddressName,
	}
	if err := h.userService.CreateAddress(address); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, address, "地址添加成功")
}

// UpdateAddress 更新收货地址
func (h *AddressHandler) UpdateAddress(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的地址ID", err))
		return
	}

	var addressData struct {
		AddressName string `json:"address_name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&addressData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	address := &model.UserAddress{
		ID:          id,
		UserID:      userID,
		AddressName: addressData.AddressName,
	}
	if err := h.userService.UpdateAddress(userID, address); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, address, "地址更新成功")
}

// DeleteAddress 删除收货地址
func (h *AddressHandler) DeleteAddress(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的地址ID", err))
		return
	}
	if err := h.userService.DeleteAddress(userID, id); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "地址删除成功")
}

// ListAddresses 查询当前用户的收货地址
func (h *AddressHandler) ListAddresses(c *gin.Context) {
	userID := c.GetInt("user_id")
	addresses, err := h.userService.ListAddresses(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询地址失败", err))
		return
	}
	errors.HandleSuccess(c, addresses, "")
}
