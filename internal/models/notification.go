package models

import (
	"time"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"` // Receiver
	Account   Account   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Message   string    `gorm:"type:text" json:"message"`
	Link      string    `json:"link"` // 跳转链接，如 /post/42
	Checked   bool      `gorm:"default:false;index" json:"checked"`
	CreatedAt time.Time `json:"created_at"`
}
