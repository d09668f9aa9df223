package expert

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/model"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExpertHandler 处理专家预约相关的HTTP请求
type ExpertHandler struct {
	expertService *service.ExpertService
}

// NewExpertHandler 创建一个新的 ExpertHandler 实例
func NewExpertHandler(expertService *service.ExpertService) *ExpertHandler {
	return &ExpertHandler{expertService}
}

// ListExperts 查询专家名录
func (h *ExpertHandler) ListExperts(c *gin.Context) {
	experts, err := h.expertService.ListExperts(c.Query("keyword"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询专家列表失败", err))
		return
	}
	errors.HandleSuccess(c, experts, "")
}

// Book 预约专家
func (h *ExpertHandler) Book(c *gin.Context) {
	userID := c.GetInt("user_id")

	var bookData struct {
		ExpertID  int    `json:"expert_id" binding:"required"`
		Date      string `json:"date" binding:"required,future_date"`
		StartTime string `json:"start_time" binding:"required,clock_time"`
		EndTime   string `json:"end_time" binding:"required,clock_time"`
		Topic     string `json:"topic" binding:"required"`
		Remark    string `json:"remark"`
	}
	if err := c.ShouldBindJSON(&bookData); err != nil {
		util.Logger.Warn("预约失败，无效的请求数据", zap.Error(err))
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	appointment := &model.ExpertAppointment{
		ExpertID:  bookData.ExpertID,
		UserID:    userID,
		Date:      bookData.Date,
		StartTime: bookData.StartTime,
		EndTime:   bookData.EndTime,
		Topic:     bookData.Topic,
		Remark:    bookData.Remark,
	}
	if err := h.expertService.Book(appointment); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, appointment, "预约提交成功")
}

// UpdateStatus 更新预约状态
func (h *ExpertHandler) UpdateStatus(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的预约ID", err))
		return
	}

	var statusData struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&statusData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.expertService.UpdateStatus(userID, id, statusData.Status); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "状态更新成功")
}

// Review 填写评价或报告
func (h *ExpertHandler) Review(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的预约ID", err))
		return
	}

	var reviewData struct {
		Comment string `json:"comment"`
		Report  string `json:"report"`
	}
	if err := c.ShouldBindJSON(&reviewData); err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的请求数据", err))
		return
	}

	if err := h.expertService.Review(userID, id, reviewData.Comment, reviewData.Report); err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, nil, "提交成功")
}

// GetAppointment 查询预约详情
func (h *ExpertHandler) GetAppointment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的预约ID", err))
		return
	}
	appointment, err := h.expertService.GetAppointment(id)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrResourceNotFound, "预约不存在", err))
		return
	}
	errors.HandleSuccess(c, appointment, "")
}

// MySchedule 专家查询自己的预约安排
func (h *ExpertHandler) MySchedule(c *gin.Context) {
	userID := c.GetInt("user_id")
	appointments, err := h.expertService.ListExpertSchedule(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询预约安排失败", err))
		return
	}
	errors.HandleSuccess(c, appointments, "")
}

// MyAppointments 用户查询自己发起的预约
func (h *ExpertHandler) MyAppointments(c *gin.Context) {
	userID := c.GetInt("user_id")
	appointments, err := h.expertService.ListUserAppointments(userID)
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrDatabase, "查询预约失败", err))
		return
	}
	errors.HandleSuccess(c, appointments, "")
}
