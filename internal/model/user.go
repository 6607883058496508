// Package model はドメインモデルを定義する。
package model

import (
	"fmt"
	"time"
)

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleAdmin は管理者権限。商品の登録・削除が許可される。
	RoleAdmin Role = "admin"
	// RoleUser は一般ユーザー権限。閲覧と編集のみ許可される。
	RoleUser Role = "user"
)

// User はログイン可能なユーザーを表す。
type User struct {
	ID   string
	Role Role
}

// DisplayLabel はヘッダーに表示するユーザー識別ラベルを返す。
// フォーマットは「<ユーザーID> (<ロール>)」。管理者アカウントでは
// IDとロールが一致するため「admin (admin)」と表示される。
func (u *User) DisplayLabel() string {
	return fmt.Sprintf("%s (%s)", u.ID, u.Role)
}

// IsAdmin は管理者権限を持つかどうかを判定する。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	Role      Role
	ExpiresAt time.Time
	CreatedAt time.Time
}
