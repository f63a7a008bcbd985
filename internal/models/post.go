package models

import (
	"time"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE" // 仅作者本人可见
)

func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	AccountID  uint       `gorm:"not null;index" json:"account_id"`
	Account    Account    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"account"`
	Title      string     `gorm:"not null" json:"title"`
	Content    string     `gorm:"type:text" json:"content"`
	Visibility Visibility `gorm:"type:varchar(10);not null;default:'PUBLIC'" json:"visibility"`
	Hits       int        `gorm:"default:0" json:"hits"` // 浏览量
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// 非数据库字段，查询时填充
	CommentCount int `gorm:"-" json:"comment_count"`
}
