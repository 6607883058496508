// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/naoki/shopadmin/internal/flash"
	"github.com/naoki/shopadmin/internal/model"
)

// SessionCookieName はセッションIDを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// userContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var userContextKey = contextKey("user")

// SessionFinder はセッションの検索に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionFinder interface {
	FindByID(ctx context.Context, id string) (*model.Session, error)
}

// NewSessionMiddleware はHTTP Only Cookieからセッションを読み取り、
// 有効性を検証するミドルウェアを返す。
// 認証済みユーザーをリクエストコンテキストに注入する。
// 未認証リクエストには警告フラッシュを積んでログイン画面へリダイレクトする。
func NewSessionMiddleware(sessionFinder SessionFinder, flashConfig flash.CookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. CookieからセッションIDを取得
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				redirectToLogin(w, r, flashConfig)
				return
			}

			// 2. セッションの有効性を検証
			session, err := sessionFinder.FindByID(r.Context(), cookie.Value)
			if err != nil {
				slog.Error("failed to find session",
					slog.String("error", err.Error()),
				)
				redirectToLogin(w, r, flashConfig)
				return
			}
			if session == nil {
				redirectToLogin(w, r, flashConfig)
				return
			}

			// 3. 認証済みユーザーをコンテキストに注入
			user := &model.User{ID: session.UserID, Role: session.Role}
			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewAdminOnlyMiddleware は管理者権限を要求するミドルウェアを返す。
// 権限不足の場合はエラーフラッシュを積んで商品一覧へリダイレクトする。
// SessionMiddlewareの後に配置すること。
func NewAdminOnlyMiddleware(flashConfig flash.CookieConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := UserFromContext(r.Context())
			if err != nil {
				redirectToLogin(w, r, flashConfig)
				return
			}

			if !user.IsAdmin() {
				slog.Warn("permission denied",
					slog.String("user_id", user.ID),
					slog.String("path", r.URL.Path),
				)
				q := flash.NewQueue(flashConfig)
				q.Add(flash.LevelError, "権限が不足しています。")
				q.Save(w)
				http.Redirect(w, r, "/products", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// redirectToLogin は警告フラッシュを積んでログイン画面へリダイレクトする。
func redirectToLogin(w http.ResponseWriter, r *http.Request, flashConfig flash.CookieConfig) {
	q := flash.NewQueue(flashConfig)
	q.Add(flash.LevelWarning, "ログインが必要です。")
	q.Save(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// UserFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func UserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(userContextKey).(*model.User)
	if !ok || user == nil {
		return nil, fmt.Errorf("user not found in context")
	}
	return user, nil
}

// ContextWithUser はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}
