package payment

import (
	"agrimarket-backend/config"
	"agrimarket-backend/internal/util"
	"fmt"
	"net/http"

	"github.com/smartwalle/alipay/v3"
	"go.uber.org/zap"
)

// Notification 支付宝异步通知的关键字段
type Notification struct {
	OutTradeNo  string
	TradeStatus string
	TotalAmount string
}

// Client 支付客户端接口，便于在测试中替换
type Client interface {
	CreatePayURL(tradeNo, subject string, totalAmount float64) (string, error)
	ParseNotification(req *http.Request) (*Notification, error)
}

type alipayClient struct {
	client *alipay.Client
}

// NewAlipayClient 创建支付宝客户端
func NewAlipayClient() (Client, error) {
	client, err := alipay.New(config.AppConfig.AlipayAppID, config.AppConfig.AlipayPrivateKey, false)
	if err != nil {
		return nil, fmt.Errorf("初始化支付宝客户端失败: %w", err)
	}
	if err := client.LoadAliPayPublicKey(config.AppConfig.AlipayPublicKey); err != nil {
		return nil, fmt.Errorf("加载支付宝公钥失败: %w", err)
	}
	return &alipayClient{client: client}, nil
}

// CreatePayURL 生成电脑网站支付跳转链接
func (c *alipayClient) CreatePayURL(tradeNo, subject string, totalAmount float64) (string, error) {
	p := alipay.TradePagePay{}
	p.NotifyURL = config.AppConfig.AlipayNotifyURL
	p.ReturnURL = config.AppConfig.AlipayReturnURL
	p.Subject = subject
	p.OutTradeNo = tradeNo
	p.TotalAmount = fmt.Sprintf("%.2f", totalAmount)
	p.ProductCode = "FAST_INSTANT_TRADE_PAY"

	payURL, err := c.client.TradePagePay(p)
	if err != nil {
		util.Logger.Error("生成支付链接失败", zap.String("trade_no", tradeNo), zap.Error(err))
		return "", err
	}
	return payURL.String(), nil
}

// ParseNotification 验签并解析支付宝异步通知
func (c *alipayClient) ParseNotification(req *http.Request) (*Notification, error) {
	noti, err := c.client.GetTradeNotification(req)
	if err != nil {
		util.Logger.Warn("支付宝通知验签失败", zap.Error(err))
		return nil, err
	}
	return &Notification{
		OutTradeNo:  noti.OutTradeNo,
		TradeStatus: string(noti.TradeStatus),
		TotalAmount: noti.TotalAmount,
	}, nil
}
