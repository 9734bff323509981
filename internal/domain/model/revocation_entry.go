package model

import "time"

// 失効理由
const (
	RevokeReasonLogout         = "logout"
	RevokeReasonAdminLogout    = "admin_logout"
	RevokeReasonRotated        = "rotated_by_refresh"
	RevokeReasonPasswordChange = "password_change"
	RevokeReasonForceLogout    = "force_logout"
)

// 自然期限前に強制失効させたアクセストークン（blacklist）。
// 全認証リクエストでjti参照されるため、jtiが主キー。
// exp経過後の行は意味を持たないので定期的にpurgeする。
type RevocationEntry struct {
	JTI       string    `json:"jti" gorm:"type:uuid;primaryKey"`
	OwnerType OwnerType `json:"ownerType" gorm:"type:varchar(20);not null"`
	OwnerID   int64     `json:"ownerId" gorm:"not null;index"`
	Token     *string   `json:"-" gorm:"type:text"` // 監査用の生トークン（任意）
	IssuedAt  time.Time `json:"issuedAt" gorm:"not null"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"not null;index"`
	RevokedAt time.Time `json:"revokedAt" gorm:"not null;index"`
	Reason    *string   `json:"reason"`
}
