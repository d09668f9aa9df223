package order

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/payment"
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PayHandler 处理支付宝支付相关的HTTP请求
type PayHandler struct {
	orderService *service.OrderService
	payClient    payment.Client
}

// NewPayHandler 创建一个新的 PayHandler 实例
func NewPayHandler(orderService *service.OrderService, payClient payment.Client) *PayHandler {
	return &PayHandler{orderService, payClient}
}

// CreatePayURL 为订单生成支付宝支付链接
func (h *PayHandler) CreatePayURL(c *gin.Context) {
	userID := c.GetInt("user_id")
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		errors.HandleError(c, errors.Wrap(errors.ErrValidation, "无效的订单ID", err))
		return
	}

	payURL, err := h.orderService.CreatePayURL(userID, id)
	if err != nil {
		errors.HandleError(c, err)
		return
	}
	errors.HandleSuccess(c, gin.H{"alipay_url": payURL}, "")
}

// Notify 支付宝异步通知。验签失败或处理失败时不返回success，支付宝会重试。
func (h *PayHandler) Notify(c *gin.Context) {
	noti, err := h.payClient.ParseNotification(c.Request)
	if err != nil {
		util.Logger.Warn("支付通知解析失败", zap.Error(err))
		c.String(http.StatusBadRequest, "fail")
		return
	}

	if err := h.orderService.ConfirmPayment(noti); err != nil {
		util.Logger.Error("支付确认失败",
			zap.String("trade_no", noti.OutTradeNo),
			zap.Error(err))
		c.String(http.StatusInternalServerError, "fail")
		return
	}
	c.String(http.StatusOK, "success")
}

// Return 支付宝同步回调，仅做订单状态展示
func (h *PayHandler) Return(c *gin.Context) {
	tradeNo := c.Query("out_trade_no")
	if tradeNo == "" {
		errors.HandleError(c, errors.New(errors.ErrValidation, "缺少交易号"))
		return
	}
	errors.HandleSuccess(c, gin.H{"trade_no": tradeNo}, "支付完成")
}
