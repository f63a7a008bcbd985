package handlers

import (
	"errors"
	"log"
	"net/http"

	"echoboard/internal/middleware"
	"echoboard/internal/models"
	"echoboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// currentAccount 取出 LoadUser 放进上下文的当前用户，未登录返回 nil
func currentAccount(c *gin.Context) *models.Account {
	if v, exists := c.Get(middleware.CurrentAccountKey); exists {
		if account, ok := v.(*models.Account); ok {
			return account
		}
	}
	return nil
}

// mustAccount 受 AuthRequired 保护的路由里直接取当前用户
func mustAccount(c *gin.Context) *models.Account {
	return c.MustGet(middleware.CurrentAccountKey).(*models.Account)
}

// bindSession 把账号绑定为当前会话主体（注册成功、验证成功后自动登录）
func bindSession(c *gin.Context, account *models.Account) {
	session := sessions.Default(c)
	session.Set("account_id", account.ID)
	session.Save()
}

// clearSession 登出和注销账号时清除会话
func clearSession(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
}

// respondError 把服务层的类型化错误翻译为 HTTP 状态码和提示文案
func respondError(c *gin.Context, err error) {
	var dup services.DuplicateError
	var val services.ValidationError

	switch {
	case errors.As(err, &dup):
		c.JSON(http.StatusConflict, gin.H{"error": "该" + fieldLabel(dup.Field) + "已被使用", "field": dup.Field})
	case errors.As(err, &val):
		c.JSON(http.StatusBadRequest, gin.H{"error": "输入有误", "field": val.Field, "reason": val.Reason})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "登录名或密码错误"})
	case errors.Is(err, services.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "账号不存在"})
	case errors.Is(err, services.ErrTokenMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "验证链接无效或已失效"})
	case errors.Is(err, services.ErrCooldownActive):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "验证邮件 1 小时内只能发送一次，请稍后再试"})
	case errors.Is(err, services.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "无权进行此操作"})
	case errors.Is(err, services.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "内容不存在"})
	default:
		log.Printf("unexpected error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "服务器开小差了，请稍后再试"})
	}
}

func fieldLabel(field string) string {
	switch field {
	case "login_id":
		return "登录名"
	case "nickname":
		return "昵称"
	case "email":
		return "邮箱"
	}
	return field
}

// visibilityFromSecret 表单里的 secret 开关翻译为可见性
func visibilityFromSecret(secret bool) models.Visibility {
	if secret {
		return models.VisibilityPrivate
	}
	return models.VisibilityPublic
}
