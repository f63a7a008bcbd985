package models

import (
	"time"
)

type Comment struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	PostID     uint       `gorm:"not null;index" json:"post_id"`
	Post       Post       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"post"`
	AccountID  uint       `gorm:"not null;index" json:"account_id"`
	Account    Account    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Visibility Visibility `gorm:"type:varchar(10);not null;default:'PUBLIC'" json:"visibility"` // 与所属文章的可见性相互独立
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
