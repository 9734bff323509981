package model

import "time"

// アカウント（user/admin共通）の1:1拡張。owner_type+owner_idで引く。
type Profile struct {
	ID         int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	OwnerType  OwnerType `json:"ownerType" gorm:"type:varchar(20);not null;uniqueIndex:idx_profile_owner"`
	OwnerID    int64     `json:"ownerId" gorm:"not null;uniqueIndex:idx_profile_owner"`
	Phone      *string   `json:"phone"`
	Address    *string   `json:"address"`
	City       *string   `json:"city"`
	PostalCode *string   `json:"postalCode" gorm:"column:postal_code"`
	Country    *string   `json:"country"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
