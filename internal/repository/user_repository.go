package repository

import (
	"context"
	"errors"

	"zerowaste/internal/domain/model"
)

// email重複（uniqueインデックス違反をこのエラーに翻訳する）
var ErrDuplicateEmail = errors.New("email already in use")

// ユーザーの保存・取得を約束。
// password_hashはこの層より外に出さない（modelのjson:"-"で遮断）。
type UserRepository interface {
	//新規ユーザー作成。email重複はErrDuplicateEmailを返す
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。見つからなければnil
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを1件取得する。検索前に小文字化すること
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	//emailが既に使われているか
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// ユーザー情報の更新=>パスワード変更・プロフィール編集など
	Update(ctx context.Context, user *model.User) error
}
