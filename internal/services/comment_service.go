package services

import (
	"errors"

	"echoboard/internal/authz"
	"echoboard/internal/models"
	"echoboard/internal/utils"

	"gorm.io/gorm"
)

type CommentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewCommentService(db *gorm.DB, notifications *NotificationService) *CommentService {
	return &CommentService{db: db, notifications: notifications}
}

// Create 在已存在的文章下发表评论，要求已登录且邮箱已验证。
// 评论入库之后才把事件交给通知队列，通知写入的成败不影响本次请求。
func (s *CommentService) Create(principal *models.Account, postID uint, content string, visibility models.Visibility) (*models.Comment, error) {
	if !authz.CanWrite(principal) {
		return nil, ErrAccessDenied
	}
	if content == "" {
		return nil, ValidationError{Field: "content", Reason: "required"}
	}
	if !visibility.Valid() {
		return nil, ValidationError{Field: "visibility", Reason: "must be PUBLIC or PRIVATE"}
	}

	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}

	comment := models.Comment{
		PostID:     post.ID,
		AccountID:  principal.ID,
		Content:    content,
		Visibility: visibility,
	}
	if err := s.db.Create(&comment).Error; err != nil {
		return nil, err
	}
	comment.Account = *principal

	// 评论已持久化，详情页缓存失效，异步生成通知
	utils.GetCache().Delete(detailCacheKey(post.ID))
	s.notifications.OnNewComment(comment.ID)

	return &comment, nil
}

// ListByPost 列出文章下 principal 可见的评论：
// 文章本身必须可读，私密评论只有评论作者自己能看到。
func (s *CommentService) ListByPost(postID uint, principal *models.Account) ([]models.Comment, error) {
	var post models.Post
	if err := s.db.Preload("Account").First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if !authz.CanReadPost(&post, principal) {
		return nil, ErrAccessDenied
	}

	var comments []models.Comment
	if err := s.db.Preload("Account").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&comments).Error; err != nil {
		return nil, err
	}

	visible := make([]models.Comment, 0, len(comments))
	for _, c := range comments {
		if authz.CanReadComment(&c, principal) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// Update 修改评论正文和可见性，仅作者可操作
func (s *CommentService) Update(principal *models.Account, id uint, content string, visibility models.Visibility) (*models.Comment, error) {
	var comment models.Comment
	if err := s.db.Preload("Account").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResourceNotFound
		}
		return nil, err
	}
	if !authz.CanMutateComment(&comment, principal) {
		return nil, ErrAccessDenied
	}

	if content == "" {
		return nil, ValidationError{Field: "content", Reason: "required"}
	}
	if !visibility.Valid() {
		return nil, ValidationError{Field: "visibility", Reason: "must be PUBLIC or PRIVATE"}
	}

	comment.Content = content
	comment.Visibility = visibility
	if err := s.db.Save(&comment).Error; err != nil {
		return nil, err
	}

	utils.GetCache().Delete(detailCacheKey(comment.PostID))
	return &comment, nil
}

// Delete 删除评论，仅作者可操作
func (s *CommentService) Delete(principal *models.Account, id uint) error {
	var comment models.Comment
	if err := s.db.Preload("Account").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResourceNotFound
		}
		return err
	}
	if !authz.CanMutateComment(&comment, principal) {
		return ErrAccessDenied
	}

	if err := s.db.Delete(&comment).Error; err != nil {
		return err
	}
	utils.GetCache().Delete(detailCacheKey(comment.PostID))
	return nil
}
