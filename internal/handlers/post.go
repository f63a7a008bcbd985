package handlers

import (
	"net/http"

	"echoboard/internal/services"
	"echoboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	posts *services.PostService
}

func NewPostHandler(posts *services.PostService) *PostHandler {
	return &PostHandler{posts: posts}
}

// List 文章列表：公开的 + 自己的私密文章
func (h *PostHandler) List(c *gin.Context) {
	posts, err := h.posts.List(currentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// Detail 文章详情，正文渲染为 HTML
func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	detail, err := h.posts.Get(id, currentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         detail.Post,
		"content_html": detail.ContentHTML,
	})
}

// Create 发布文章
func (h *PostHandler) Create(c *gin.Context) {
	account := mustAccount(c)

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
		Secret  bool   `json:"secret"` // true 为仅自己可见
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Create(account, req.Title, req.Content, visibilityFromSecret(req.Secret))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "文章已发布", "post": post})
}

// Update 整体编辑：标题、正文、可见性一起提交
func (h *PostHandler) Update(c *gin.Context) {
	account := mustAccount(c)
	id := utils.StringToUint(c.Param("id"))

	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content"`
		Secret  bool   `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.posts.Update(account, id, req.Title, req.Content, visibilityFromSecret(req.Secret))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章已更新", "post": post})
}

// Delete 删除文章及其评论
func (h *PostHandler) Delete(c *gin.Context) {
	account := mustAccount(c)
	id := utils.StringToUint(c.Param("id"))

	if err := h.posts.Delete(account, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "文章已删除"})
}
