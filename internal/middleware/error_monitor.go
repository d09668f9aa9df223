package middleware

import (
	"agrimarket-backend/internal/errors"
	"agrimarket-backend/internal/util"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMonitor 按错误码统计请求处理失败次数
type ErrorMonitor struct {
	mu     sync.RWMutex
	counts map[errors.ErrorCode]int
}

func NewErrorMonitor() *ErrorMonitor {
	return &ErrorMonitor{counts: make(map[errors.ErrorCode]int)}
}

func (m *ErrorMonitor) Record(err error) {
	appErr, ok := err.(*errors.AppError)
	if !ok {
		return
	}
	m.mu.Lock()
	m.counts[appErr.Code]++
	count := m.counts[appErr.Code]
	m.mu.Unlock()

	// 同一错误码高频出现时提醒排查
	if count%100 == 0 {
		util.Logger.Warn("错误码出现次数较多",
			zap.Int("error_code", int(appErr.Code)),
			zap.Int("count", count))
	}
}

// Counts 返回各错误码的累计次数快照
func (m *ErrorMonitor) Counts() map[errors.ErrorCode]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot := make(map[errors.ErrorCode]int, len(m.counts))
	for code, count := range m.counts {
		snapshot[code] = count
	}
	return snapshot
}

// ErrorMonitorMiddleware 在请求结束后登记处理过程中产生的错误
func ErrorMonitorMiddleware(monitor *ErrorMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		for _, e := range c.Errors {
			monitor.Record(e.Err)
			if appErr, ok := e.Err.(*errors.AppError); ok {
				util.Logger.Error("请求处理错误",
					zap.Int("error_code", int(appErr.Code)),
					zap.String("error_message", appErr.Message),
					zap.Error(appErr.Err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method))
			}
		}
	}
}
