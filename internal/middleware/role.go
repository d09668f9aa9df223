package middleware

import (
	"agrimarket-backend/internal/service"
	"agrimarket-backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequireRole 确保只有指定角色的用户可以访问某些路由
func RequireRole(userService *service.UserService, roles ...int) gin.HandlerFunc {
	allowed := make(map[int]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		userID, exists := c.Get("user_id")
		if !exists {
			util.Logger.Warn("用户ID不存在")
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    401,
				"message": "需要认证",
				"error":   "User ID not found in context",
			})
			c.Abort()
			return
		}

		user, err := userService.GetUserByID(userID.(int))
		if err != nil || !allowed[user.RoleType] {
			util.Logger.Warn("角色权限不足",
				zap.Int("user_id", userID.(int)),
				zap.Error(err))
			c.JSON(http.StatusForbidden, gin.H{
				"code":    403,
				"message": "没有操作权限",
				"error":   "Role access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
