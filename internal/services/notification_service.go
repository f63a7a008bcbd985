package services

import (
	"errors"
	"fmt"
	"log"

	"echoboard/internal/models"

	"gorm.io/gorm"
)

// NotificationService 消费"新评论"事件并落地站内通知。
// 事件经缓冲队列交给后台 worker，评论请求本身从不等待通知写入；
// 队列满或写库失败时丢弃并记日志，事件不可重放，因此语义为至多一次。
type NotificationService struct {
	db    *gorm.DB
	queue chan uint // 待处理的评论 ID
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	s := &NotificationService{
		db:    db,
		queue: make(chan uint, 1000), // 缓冲队列，防止阻塞
	}
	go s.worker()
	return s
}

// OnNewComment 将已提交的评论加入通知队列（非阻塞）
func (s *NotificationService) OnNewComment(commentID uint) {
	select {
	case s.queue <- commentID:
	default:
		log.Printf("通知队列已满，丢弃评论 %d 的通知", commentID)
	}
}

func (s *NotificationService) worker() {
	for commentID := range s.queue {
		s.processNewComment(commentID)
	}
}

// processNewComment 给文章作者生成一条通知。
// 作者评论自己的文章同样会收到通知，只看作者的通知开关。
func (s *NotificationService) processNewComment(commentID uint) {
	var comment models.Comment
	if err := s.db.Preload("Post").Preload("Post.Account").First(&comment, commentID).Error; err != nil {
		log.Printf("通知生成失败：评论 %d 不存在: %v", commentID, err)
		return
	}

	owner := comment.Post.Account
	if !owner.CommentNotificationEnabled {
		return
	}

	notification := models.Notification{
		AccountID: owner.ID,
		Message:   fmt.Sprintf("《%s》有新的评论", comment.Post.Title),
		Link:      fmt.Sprintf("/post/%d", comment.PostID),
	}
	if err := s.db.Create(&notification).Error; err != nil {
		log.Printf("通知写入失败 (comment=%d): %v", commentID, err)
	}
}

// ListUnread 返回未读通知（按创建时间倒序），并顺手把它们标记为已读。
// 已读是单向转换，正常流程不会翻回未读。
func (s *NotificationService) ListUnread(account *models.Account) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ? AND checked = ?", account.ID, false).
			Order("created_at DESC").
			Find(&notifications).Error; err != nil {
			return err
		}
		if len(notifications) == 0 {
			return nil
		}
		return tx.Model(&models.Notification{}).
			Where("account_id = ? AND checked = ?", account.ID, false).
			Update("checked", true).Error
	})
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// ListRead 返回已读通知，无副作用
func (s *NotificationService) ListRead(account *models.Account) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("account_id = ? AND checked = ?", account.ID, true).
		Order("created_at DESC").
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) CountUnread(account *models.Account) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("account_id = ? AND checked = ?", account.ID, false).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CountRead(account *models.Account) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).
		Where("account_id = ? AND checked = ?", account.ID, true).
		Count(&count).Error
	return count, err
}

// DeleteRead 清空已读通知，未读的不动
func (s *NotificationService) DeleteRead(account *models.Account) error {
	err := s.db.Where("account_id = ? AND checked = ?", account.ID, true).
		Delete(&models.Notification{}).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return nil
}
