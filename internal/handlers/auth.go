package handlers

import (
	"net/http"

	"echoboard/internal/services"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	accounts *services.AccountService
}

func NewAuthHandler(accounts *services.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// SignUp 注册新账号，成功后直接登录（邮箱验证另行完成）
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req struct {
		LoginID         string `json:"login_id" binding:"required"`
		Password        string `json:"password" binding:"required"`
		PasswordConfirm string `json:"password_confirm" binding:"required"`
		Nickname        string `json:"nickname" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Register(services.SignUpForm{
		LoginID:         req.LoginID,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Nickname:        req.Nickname,
		Email:           req.Email,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	bindSession(c, account)
	c.JSON(http.StatusCreated, gin.H{
		"message": "注册成功！验证邮件已发送至您的邮箱。",
		"account": account,
	})
}

// CheckEmailToken 处理邮件里的验证链接 /check-email-token?token=&email=
func (h *AuthHandler) CheckEmailToken(c *gin.Context) {
	token := c.Query("token")
	email := c.Query("email")

	account, err := h.accounts.VerifyEmail(token, email)
	if err != nil {
		respondError(c, err)
		return
	}

	// 验证成功后自动登录
	bindSession(c, account)
	c.JSON(http.StatusOK, gin.H{
		"message": "邮箱验证成功",
		"account": account,
	})
}

// ResendConfirmEmail 重发验证邮件，1 小时冷却
func (h *AuthHandler) ResendConfirmEmail(c *gin.Context) {
	account := mustAccount(c)

	if err := h.accounts.ResendVerification(account); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "验证邮件已重新发送"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		LoginID  string `json:"login_id" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accounts.Login(req.LoginID, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	bindSession(c, account)
	c.JSON(http.StatusOK, gin.H{"message": "登录成功", "account": account})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	clearSession(c)
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// FindPassword 找回密码：登录名和邮箱必须同时匹配才会发临时密码
func (h *AuthHandler) FindPassword(c *gin.Context) {
	var req struct {
		LoginID string `json:"login_id" binding:"required"`
		Email   string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accounts.IssueTemporaryPassword(req.LoginID, req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "临时密码已发送至账号对应的邮箱，请查收后尽快修改密码。"})
}
