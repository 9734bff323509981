package model

import "time"

// 発行済みリフレッシュトークン1件分のサーバー側記録（whitelist）。
// 物理削除せずrevoked_atで失効させる（監査のため）。
type RefreshSession struct {
	ID        int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int64      `json:"userId" gorm:"not null;index"`
	JTI       string     `json:"jti" gorm:"type:uuid;uniqueIndex;not null"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null;index"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt" gorm:"index"`
	Reason    *string    `json:"reason"`
}

// activeの定義はここ1箇所：未失効かつ未期限切れ。
// 期限切れは書き込まずクエリ時に判定する。
func (s *RefreshSession) Active(now time.Time) bool {
	return s.RevokedAt == nil && s.ExpiresAt.After(now)
}
