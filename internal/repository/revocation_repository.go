package repository

import (
	"context"
	"time"

	"zerowaste/internal/domain/model"
)

// アクセストークンのblacklist。
// 全認証リクエストでIsRevokedが呼ばれるため、jtiで高速に引けること。
// Addは同じjtiの再登録でエラーを出さない（logoutの二重送信・リトライが競合するため）。
type RevocationRepository interface {
	//insert-or-ignore。既存jtiならno-op
	Add(ctx context.Context, entry *model.RevocationEntry) error
	//未期限切れのエントリが存在する場合のみtrue。
	//期限切れ済みトークンのエントリは無意味なのでfalseでよい
	IsRevoked(ctx context.Context, jti string, now time.Time) (bool, error)
	//exp経過済みの行を削除して件数を返す
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}
