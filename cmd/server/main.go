package main

import (
	"log"
	"os"

	"echoboard/internal/db"
	"echoboard/internal/handlers"
	"echoboard/internal/router"
	"echoboard/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}

	// Initialize Database
	db.Init()

	// Services
	mailService := services.NewMailService()
	accountService := services.NewAccountService(db.DB, mailService)
	notificationService := services.NewNotificationService(db.DB)
	postService := services.NewPostService(db.DB)
	commentService := services.NewCommentService(db.DB, notificationService)

	// Initialize Gin
	r := gin.Default()

	// Setup Sessions
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		secret = "secret_key_change_me"
	}
	store := cookie.NewStore([]byte(secret))
	r.Use(sessions.Sessions("echoboard_session", store))

	// Handlers + Routes
	router.RegisterRoutes(
		r,
		db.DB,
		handlers.NewAuthHandler(accountService),
		handlers.NewUserHandler(accountService),
		handlers.NewPostHandler(postService),
		handlers.NewCommentHandler(commentService),
		handlers.NewNotificationHandler(notificationService),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("EchoBoard server starting on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
