// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/naoki/shopadmin/internal/model"
)

// ProductFilter は商品一覧の絞り込み条件を表す。
// ゼロ値のフィールドは条件として適用されない。
type ProductFilter struct {
	// Keyword は商品名または説明文に対する部分一致キーワード。
	Keyword string
	// Category は定義済みカテゴリによる絞り込み。
	Category string
	// MinPrice / MaxPrice は価格帯による絞り込み。nilは未指定を表す。
	MinPrice *int
	MaxPrice *int
}

// ProductRepository は商品データの永続化インターフェース。
type ProductRepository interface {
	// FindByID は指定IDの商品を取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// List はフィルタ条件に一致する商品を作成順で返す。
	List(ctx context.Context, filter ProductFilter) ([]*model.Product, error)

	// Count は商品の総数を返す。サンプルデータ投入の判定に使用する。
	Count(ctx context.Context) (int, error)

	// Create は商品を作成する。
	Create(ctx context.Context, product *model.Product) error

	// Update は商品情報を更新する。
	Update(ctx context.Context, product *model.Product) error

	// DeleteByID は指定IDの商品を削除する。
	DeleteByID(ctx context.Context, id string) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。存在しないIDに対しても成功する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}
