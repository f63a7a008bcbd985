package router

import (
	"echoboard/internal/handlers"
	"echoboard/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes 注册全部路由。Services 在 main 里装配好传进来。
func RegisterRoutes(
	r *gin.Engine,
	gdb *gorm.DB,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	notificationHandler *handlers.NotificationHandler,
) {
	r.Use(middleware.LoadUser(gdb))

	// 公共路由 (Public Routes)
	r.POST("/sign-up", authHandler.SignUp)                     // 注册
	r.POST("/login", authHandler.Login)                       // 登录
	r.GET("/check-email-token", authHandler.CheckEmailToken)  // 邮件里的验证链接
	r.POST("/find-password", authHandler.FindPassword)        // 找回密码
	r.GET("/post", postHandler.List)                          // 文章列表
	r.GET("/post/:id", postHandler.Detail)                    // 文章详情
	r.GET("/post/:id/comments", commentHandler.ListByPost)    // 文章下的评论
	r.GET("/profile/:nickname", userHandler.Profile)          // 用户主页

	// 登录后才能访问的路由
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/logout", authHandler.Logout)
		authorized.GET("/resend-confirm-email", authHandler.ResendConfirmEmail)

		authorized.POST("/post", postHandler.Create)
		authorized.PUT("/post/:id", postHandler.Update)
		authorized.DELETE("/post/:id", postHandler.Delete)

		authorized.POST("/comment", commentHandler.Create)
		authorized.PUT("/comment/:id", commentHandler.Update)
		authorized.DELETE("/comment/:id", commentHandler.Delete)

		authorized.GET("/notifications", notificationHandler.List)       // 未读（看过即已读）
		authorized.GET("/notifications/old", notificationHandler.ListOld)
		authorized.GET("/notifications/count", notificationHandler.Count)
		authorized.DELETE("/notifications", notificationHandler.DeleteRead)
	}

	// 设置中心
	settings := r.Group("/settings")
	settings.Use(middleware.AuthRequired())
	{
		settings.POST("/profile", userHandler.UpdateProfile)
		settings.POST("/password", userHandler.UpdatePassword)
		settings.POST("/notification", userHandler.UpdateNotification)
		settings.DELETE("/account", userHandler.DeleteAccount)
	}
}
