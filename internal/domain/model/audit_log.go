package model

import "time"

// 認証イベントの種類
type AuditAction string

const (
	AuditActionRegister       AuditAction = "REGISTER"
	AuditActionLogin          AuditAction = "LOGIN"
	AuditActionLogout         AuditAction = "LOGOUT"
	AuditActionForceLogout    AuditAction = "FORCE_LOGOUT"
	AuditActionPasswordChange AuditAction = "PASSWORD_CHANGE"
)

// 監査ログ（認証イベントログ）。
// 「誰が」「何を」「いつ」行ったかを残す。
type AuditLog struct {
	//IDは監査ログの主キー
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//操作した主体の種別（user/admin）とID。
	ActorType OwnerType `gorm:"type:varchar(20);not null;index" json:"actor_type"`
	ActorID   int64     `gorm:"not null;index" json:"actor_id"`

	//Actionはイベントの種類（LOGIN / LOGOUT など）。
	Action AuditAction `gorm:"type:varchar(50);not null;index" json:"action"`

	//補足情報（失効件数など）をJSON文字列で保存する。
	DetailJSON string `gorm:"type:text" json:"detail_json"`

	//作成時刻
	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
