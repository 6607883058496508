package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/naoki/shopadmin/internal/flash"
	"github.com/naoki/shopadmin/internal/metrics"
	"github.com/naoki/shopadmin/internal/middleware"
)

// HealthChecker はヘルスチェックに必要なインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker HealthChecker
	SessionFinder middleware.SessionFinder
	RateLimiter   *middleware.RateLimiter
	Collector     *metrics.Collector
	Gatherer      prometheus.Gatherer

	// 画面描画
	Renderer *Renderer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// 商品
	ProductService ProductServiceInterface
	ProductConfig  ProductHandlerConfig
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Metrics → Logging → CSRF
//
// 商品ルート（/products*）はさらにSessionミドルウェアで保護され、
// 登録と削除は管理者権限を要求する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	flashConfig := flash.CookieConfig{
		Secure: deps.AuthConfig.CookieSecure,
		Domain: deps.AuthConfig.CookieDomain,
	}
	csrfConfig := middleware.CSRFConfig{
		CookieSecure: deps.AuthConfig.CookieSecure,
		CookieDomain: deps.AuthConfig.CookieDomain,
	}

	var collector metrics.MetricsCollector = metrics.NopCollector{}
	if deps.Collector != nil {
		collector = deps.Collector
	}

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Collector != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.Collector))
	}
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewCSRFMiddleware(csrfConfig))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig, deps.Renderer, collector)
	productHandler := NewProductHandler(deps.ProductService, deps.ProductConfig, deps.Renderer, collector)

	// --- 認証不要のルート ---

	r.Get("/", authHandler.Home)
	r.Get("/login", authHandler.LoginForm)
	r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
	r.Post("/logout", authHandler.Logout)

	// ヘルスチェック
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.HealthChecker.PingContext(r.Context()); err != nil {
			slog.Error("health check failed", slog.String("error", err.Error()))
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Prometheusスクレイプ
	if deps.Gatherer != nil {
		r.Get("/metrics", metrics.Handler(deps.Gatherer).ServeHTTP)
	}

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder, flashConfig))

		r.Get("/products", productHandler.List)

		// 商品登録と削除は管理者のみ
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewAdminOnlyMiddleware(flashConfig))
			r.Get("/products/new", productHandler.NewForm)
			r.Post("/products/new", productHandler.Create)
			r.Post("/products/{id}/delete", productHandler.Delete)
		})

		r.Get("/products/{id}/edit", productHandler.EditForm)
		r.Post("/products/{id}/edit", productHandler.Update)
	})

	return r
}
