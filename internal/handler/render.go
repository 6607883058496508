// Package handler はHTTPハンドラーと画面描画を提供する。
package handler

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/naoki/shopadmin/internal/flash"
	"github.com/naoki/shopadmin/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ページテンプレートの一覧。各ページはlayout.htmlと組で解析される。
var pageTemplates = []string{
	"login.html",
	"products.html",
	"product_form.html",
}

// Renderer は埋め込みテンプレートによる画面描画を提供する。
type Renderer struct {
	templates map[string]*template.Template
}

// NewRenderer は全ページテンプレートを解析したRendererを生成する。
// テンプレートに不備がある場合は起動時に失敗させる。
func NewRenderer() (*Renderer, error) {
	funcs := template.FuncMap{
		// sanitize済みの説明文マークアップをエスケープせずに埋め込む。
		// 必ずinternal/securityのサニタイザを通した値にのみ使うこと。
		"safeHTML": func(s string) template.HTML { return template.HTML(s) },
	}

	templates := make(map[string]*template.Template, len(pageTemplates))
	for _, page := range pageTemplates {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			templatesFS,
			"templates/layout.html",
			"templates/"+page,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{templates: templates}, nil
}

// Render は指定ページをレスポンスに描画する。
// 描画エラーはログに残し、レスポンスは書きかけのまま閉じる
// （ヘッダー送信後に500へ切り替えることはできない）。
func (r *Renderer) Render(w http.ResponseWriter, page string, data any) {
	t, ok := r.templates[page]
	if !ok {
		slog.Error("unknown template", slog.String("page", page))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// baseData は全ページ共通の描画データ。
type baseData struct {
	Title     string
	User      *model.User
	Flashes   []flash.Message
	CSRFToken string
}
