package model

import "time"

// 管理者アカウント。自己登録はなく、seedか運用で事前作成する。
type Admin struct {
	ID           int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UUID         string        `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	Name         string        `json:"name" gorm:"not null"`
	PasswordHash string        `json:"-" gorm:"column:password_hash;not null"`
	AvatarURL    *string       `json:"avatarUrl" gorm:"column:avatar_url"`
	Status       AccountStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

func (a *Admin) IsActive() bool {
	return a.Status == StatusActive
}
