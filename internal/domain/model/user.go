package model

import "time"

// アカウント状態。boolではなくenumにして将来の中間状態に備える。
type AccountStatus string

const (
	StatusActive   AccountStatus = "active"
	StatusDisabled AccountStatus = "disabled" // 無効化は終端状態（復帰ユースケースなし）
)

// 認証主体の種別（userとadminは同じトークン機構を共有する）
type OwnerType string

const (
	OwnerTypeUser  OwnerType = "user"
	OwnerTypeAdmin OwnerType = "admin"
)

type User struct {
	ID           int64         `json:"id" gorm:"primaryKey;autoIncrement"`
	UUID         string        `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"` // 外部公開用ID（不変）
	Email        string        `json:"email" gorm:"uniqueIndex;not null"`
	Name         string        `json:"name" gorm:"not null"`
	PasswordHash string        `json:"-" gorm:"column:password_hash;not null"`
	AvatarURL    *string       `json:"avatarUrl" gorm:"column:avatar_url"`
	Status       AccountStatus `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ログイン可能かどうか
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
