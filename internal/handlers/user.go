package handlers

import (
	"net/http"

	"echoboard/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	accounts *services.AccountService
}

func NewUserHandler(accounts *services.AccountService) *UserHandler {
	return &UserHandler{accounts: accounts}
}

// Profile - 用户主页 /profile/:nickname
func (h *UserHandler) Profile(c *gin.Context) {
	nickname := c.Param("nickname")

	account, err := h.accounts.GetByNickname(nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	isOwner := false
	if principal := currentAccount(c); principal != nil {
		isOwner = principal.LoginID == account.LoginID
	}

	c.JSON(http.StatusOK, gin.H{
		"account":  account,
		"is_owner": isOwner,
	})
}

// UpdateProfile 修改昵称和头像
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	account := mustAccount(c)

	var req struct {
		Nickname string `json:"nickname" binding:"required"`
		Avatar   string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.UpdateProfile(account, req.Nickname, req.Avatar); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "资料已更新", "account": account})
}

// UpdatePassword 修改密码
func (h *UserHandler) UpdatePassword(c *gin.Context) {
	account := mustAccount(c)

	var req struct {
		NewPassword     string `json:"new_password" binding:"required"`
		PasswordConfirm string `json:"password_confirm" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.UpdatePassword(account, req.NewPassword, req.PasswordConfirm); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "密码已修改"})
}

// UpdateNotification 开关评论通知
func (h *UserHandler) UpdateNotification(c *gin.Context) {
	account := mustAccount(c)

	var req struct {
		CommentNotificationEnabled *bool `json:"comment_notification_enabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.accounts.UpdateNotificationPreference(account, *req.CommentNotificationEnabled); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "通知设置已更新"})
}

// DeleteAccount 注销账号：级联删除名下内容，然后清除会话
func (h *UserHandler) DeleteAccount(c *gin.Context) {
	account := mustAccount(c)

	if err := h.accounts.DeleteAccount(account); err != nil {
		respondError(c, err)
		return
	}

	clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "账号已注销"})
}
