package services

import (
	"errors"
	"fmt"
	"html/template"
	"time"

	"echoboard/internal/authz"
	"echoboard/internal/models"
	"echoboard/internal/utils"

	"gorm.io/gorm"
)

type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

// PostDetail 详情页载荷：原文 + 渲染后的正文
type PostDetail struct {
	Post        models.Post
	ContentHTML template.HTML
}

func detailCacheKey(id uint) string {
	return fmt.Sprintf("post:detail:%d", id)
}

// Create 发布文章，要求已登录且邮箱已验证
func (s *PostService) Create(principal *models.Account, title, content string, visibility models.Visibility) (*models.Post, error) {
	if !authz.CanWrite(principal) {
		return nil, ErrAccessDenied
	}
	if title == "" {
		return nil, ValidationError{Field: "title", Reason: "required"}
	}
	if !visibility.Valid() {
		return nil, ValidationError{Field: "visibility", Reason: "must be PUBLIC or PRIVATE"}
	}

	post := models.Post{
		AccountID:  principal.ID,
		Title:      title,
		Content:    content,
		Visibility: visibility,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	post.Account = *principal
	return &post, nil
}

// Get 读取文章详情。私密文章非作者返回 ErrAccessDenied（不是 404，
// 调用方据此区分"禁止"与"不存在"）。每次读取浏览量 +1。
// 渲染结果进共享缓存，可见性判定始终按当前请求的 principal 重新做。
func (s *PostService) Get(id uint, principal *models.Account) (*PostDetail, error) {
	cacheKey := detailCacheKey(id)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if detail, ok := cached.(PostDetail); ok {
			if !authz.CanReadPost(&detail.Post, principal) {
				return nil, ErrAccessDenied
			}
			s.db.Model(&models.Post{}).Where("id = ?", id).
				UpdateColumn("hits", gorm.Expr("hits + 1"))
			detail.Post.Hits++
			// 回写缓存，避免后续命中一直拿到首次加载的计数
			utils.GetCache().Set(cacheKey, detail, 5*time.Minute)
			return &detail, nil
		}
	}

	var post models.Post
	if err := s.db.Preload("Account").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	if !authz.CanReadPost(&post, principal) {
		return nil, ErrAccessDenied
	}

	s.db.Model(&post).UpdateColumn("hits", gorm.Expr("hits + 1"))
	post.Hits++

	var commentCount int64
	s.db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&commentCount)
	post.CommentCount = int(commentCount)

	detail := PostDetail{
		Post:        post,
		ContentHTML: utils.RenderMarkdown(post.Content),
	}
	utils.GetCache().Set(cacheKey, detail, 5*time.Minute)
	return &detail, nil
}

// List 列出 principal 可见的文章：所有公开的，加上自己的私密文章
func (s *PostService) List(principal *models.Account) ([]models.Post, error) {
	var posts []models.Post
	q := s.db.Preload("Account").Order("created_at DESC").Limit(50)
	if principal != nil {
		q = q.Where("visibility = ? OR account_id = ?", models.VisibilityPublic, principal.ID)
	} else {
		q = q.Where("visibility = ?", models.VisibilityPublic)
	}
	if err := q.Find(&posts).Error; err != nil {
		return nil, err
	}
	s.fillCommentCounts(posts)
	return posts, nil
}

// fillCommentCounts 批量填充文章的评论数量
func (s *PostService) fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	s.db.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

// Update 整体编辑：标题、正文、可见性一起替换，仅作者可操作。
// 可见性没有独立的切换入口。
func (s *PostService) Update(principal *models.Account, id uint, title, content string, visibility models.Visibility) (*models.Post, error) {
	var post models.Post
	if err := s.db.Preload("Account").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if !authz.CanMutatePost(&post, principal) {
		return nil, ErrAccessDenied
	}

	if title == "" {
		return nil, ValidationError{Field: "title", Reason: "required"}
	}
	if !visibility.Valid() {
		return nil, ValidationError{Field: "visibility", Reason: "must be PUBLIC or PRIVATE"}
	}

	post.Title = title
	post.Content = content
	post.Visibility = visibility
	if err := s.db.Save(&post).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Delete(detailCacheKey(post.ID))
	return &post, nil
}

// Delete 删除文章，连同文章下的所有评论
func (s *PostService) Delete(principal *models.Account, id uint) error {
	var post models.Post
	if err := s.db.Preload("Account").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if !authz.CanMutatePost(&post, principal) {
		return ErrAccessDenied
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", post.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		return err
	}

	utils.GetCache().Delete(detailCacheKey(post.ID))
	return nil
}
