package middleware

import (
	"net/http"
	"strconv"

	"echoboard/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const CurrentAccountKey = "current_account"

// UnreadCountHeader 每个已登录响应都带的未读通知角标
const UnreadCountHeader = "X-Unread-Count"

// LoadUser 从会话中恢复当前用户并放入请求上下文，
// 未读通知数写进响应头给前端画角标。
// 认证状态只属于当前请求，服务层一律显式接收 principal 参数。
func LoadUser(gdb *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		accountID := session.Get("account_id")

		if accountID != nil {
			var account models.Account
			result := gdb.First(&account, accountID)
			if result.Error == nil {
				c.Set(CurrentAccountKey, &account)

				var count int64
				gdb.Model(&models.Notification{}).
					Where("account_id = ? AND checked = ?", account.ID, false).
					Count(&count)
				c.Header(UnreadCountHeader, strconv.FormatInt(count, 10))
			}
		}
		c.Next()
	}
}

// AuthRequired ensures a user is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CurrentAccountKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		c.Next()
	}
}
