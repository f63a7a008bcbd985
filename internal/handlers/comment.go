package handlers

import (
	"net/http"

	"echoboard/internal/services"
	"echoboard/internal/utils"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	comments *services.CommentService
}

func NewCommentHandler(comments *services.CommentService) *CommentHandler {
	return &CommentHandler{comments: comments}
}

// ListByPost 文章下的评论列表 /post/:id/comments
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))

	comments, err := h.comments.ListByPost(postID, currentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments})
}

// Create 发表评论
func (h *CommentHandler) Create(c *gin.Context) {
	account := mustAccount(c)

	var req struct {
		PostID  uint   `json:"post_id" binding:"required"`
		Content string `json:"content" binding:"required"`
		Secret  bool   `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Create(account, req.PostID, req.Content, visibilityFromSecret(req.Secret))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "评论已发布", "comment": comment})
}

// Update 修改评论
func (h *CommentHandler) Update(c *gin.Context) {
	account := mustAccount(c)
	id := utils.StringToUint(c.Param("id"))

	var req struct {
		Content string `json:"content" binding:"required"`
		Secret  bool   `json:"secret"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.comments.Update(account, id, req.Content, visibilityFromSecret(req.Secret))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "评论已更新", "comment": comment})
}

// Delete 删除评论
func (h *CommentHandler) Delete(c *gin.Context) {
	account := mustAccount(c)
	id := utils.StringToUint(c.Param("id"))

	if err := h.comments.Delete(account, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "评论已删除"})
}
