package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/naoki/shopadmin/internal/auth"
	"github.com/naoki/shopadmin/internal/flash"
	"github.com/naoki/shopadmin/internal/metrics"
	"github.com/naoki/shopadmin/internal/middleware"
	"github.com/naoki/shopadmin/internal/model"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, userID, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	config   AuthHandlerConfig
	renderer *Renderer
	metrics  metrics.MetricsCollector
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, config AuthHandlerConfig, renderer *Renderer, collector metrics.MetricsCollector) *AuthHandler {
	return &AuthHandler{
		service:  service,
		config:   config,
		renderer: renderer,
		metrics:  collector,
	}
}

// flashConfig はハンドラー設定から導出したフラッシュCookie設定を返す。
func (h *AuthHandler) flashConfig() flash.CookieConfig {
	return flash.CookieConfig{
		Secure: h.config.CookieSecure,
		Domain: h.config.CookieDomain,
	}
}

// loginData はログイン画面の描画データ。
type loginData struct {
	baseData
}

// Home はトップページへのアクセスを振り分ける。
// GET /
// ログイン済みなら商品一覧へ、未ログインならログイン画面へリダイレクトする。
func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		user, err := h.service.CurrentUser(r.Context(), cookie.Value)
		if err != nil {
			slog.Error("failed to resolve current user", slog.String("error", err.Error()))
		}
		if user != nil {
			http.Redirect(w, r, "/products", http.StatusSeeOther)
			return
		}
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// LoginForm はログインフォームを表示する。
// GET /login
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, nil)
}

// Login はログインを処理する。
// POST /login
// 認証成功時はセッションCookieを設定し、成功フラッシュを積んで商品一覧へ
// リダイレクトする。失敗時はエラーフラッシュとともにログインフォームを
// 再表示する（どちらのフィールドが誤っていたかは通知しない）。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.PostFormValue("user_id"))
	password := r.PostFormValue("password")

	session, err := h.service.Login(r.Context(), userID, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.metrics.RecordLoginFailure()
			h.renderLogin(w, r, []flash.Message{
				{Level: flash.LevelError, Text: "IDまたはパスワードが正しくありません。"},
			})
			return
		}
		slog.Error("login failed", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordLoginSuccess()

	// セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	q := flash.NewQueue(h.flashConfig())
	q.Add(flash.LevelSuccess, "ログインしました。")
	q.Save(w)

	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Logout はセッションを破棄する。
// POST /logout
// 破棄済みセッションに対しても成功し、常にログイン画面へリダイレクトする。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	// セッションCookieをクリア
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	q := flash.NewQueue(h.flashConfig())
	q.Add(flash.LevelInfo, "ログアウトしました。")
	q.Save(w)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// renderLogin はログイン画面を描画する。
// Cookieに積まれたフラッシュと、このリクエストで発生したローカルな
// メッセージを合わせて表示する。
func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, local []flash.Message) {
	flashes := flash.Pop(w, r, h.flashConfig())
	flashes = append(flashes, local...)

	h.renderer.Render(w, "login.html", loginData{
		baseData: baseData{
			Title:     "ログイン",
			Flashes:   flashes,
			CSRFToken: middleware.CSRFTokenFromRequest(r),
		},
	})
}
