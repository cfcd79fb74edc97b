package model

import "time"

type Post struct {
	ID      uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	Title   string  `gorm:"type:varchar(255)" json:"title"`
	Content string  `gorm:"type:text;not null" json:"content"`
	Image   *string `gorm:"type:varchar(512)" json:"image"`
	UserID  uint    `gorm:"not null;index" json:"user_id"`
	// User 是帖子作者，列表/详情接口通过 Preload 带出（密码字段靠 json:"-" 隐藏）
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
