package models

import (
	"time"
)

type Account struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	LoginID  string `gorm:"uniqueIndex;size:20;not null" json:"login_id"` // 登录名，注册后不可修改
	Nickname string `gorm:"uniqueIndex;size:20;not null" json:"nickname"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`                            // Hash
	Avatar   string `gorm:"default:🌱" json:"avatar"`                      // emoji 头像

	// 邮箱验证状态。令牌只在验证待定期间有值
	EmailVerified           bool       `gorm:"default:false" json:"email_verified"`
	EmailCheckToken         string     `gorm:"size:36" json:"-"`
	EmailCheckTokenIssuedAt *time.Time `json:"-"`
	JoinedAt                *time.Time `json:"joined_at"` // 首次验证通过时写入，之后不再变化

	// 有人评论我的文章时是否生成站内通知
	CommentNotificationEnabled bool `gorm:"default:true" json:"comment_notification_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	// No DeletedAt for hard delete
}
