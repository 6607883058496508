package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/naoki/shopadmin/internal/flash"
	"github.com/naoki/shopadmin/internal/metrics"
	"github.com/naoki/shopadmin/internal/middleware"
	"github.com/naoki/shopadmin/internal/model"
	"github.com/naoki/shopadmin/internal/product"
)

// ProductServiceInterface は商品ハンドラーが必要とするサービスインターフェース。
type ProductServiceInterface interface {
	List(ctx context.Context, query product.ListQuery) (*product.ListResult, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, form product.Form) (*model.Product, *product.FormErrors, error)
	Update(ctx context.Context, id string, form product.Form) (*model.Product, *product.FormErrors, error)
	Delete(ctx context.Context, id string) error
}

// ProductHandlerConfig は商品ハンドラーの設定。
type ProductHandlerConfig struct {
	CookieDomain string
	CookieSecure bool
}

// ProductHandler は商品管理画面のHTTPハンドラー。
type ProductHandler struct {
	service  ProductServiceInterface
	config   ProductHandlerConfig
	renderer *Renderer
	metrics  metrics.MetricsCollector
}

// NewProductHandler はProductHandlerを生成する。
func NewProductHandler(service ProductServiceInterface, config ProductHandlerConfig, renderer *Renderer, collector metrics.MetricsCollector) *ProductHandler {
	return &ProductHandler{
		service:  service,
		config:   config,
		renderer: renderer,
		metrics:  collector,
	}
}

// flashConfig はハンドラー設定から導出したフラッシュCookie設定を返す。
func (h *ProductHandler) flashConfig() flash.CookieConfig {
	return flash.CookieConfig{
		Secure: h.config.CookieSecure,
		Domain: h.config.CookieDomain,
	}
}

// productsData は商品一覧画面の描画データ。
type productsData struct {
	baseData
	Rows             []product.Row
	Categories       []model.Category
	Keyword          string
	SelectedCategory string
	MinPrice         string
	MaxPrice         string
}

// productFormData は商品フォーム画面の描画データ。
// Formには送信された生の値をそのまま保持する。検証エラー時も値を
// 変更せずに再表示するため、不正な入力値もそのまま残る。
type productFormData struct {
	baseData
	Form          product.Form
	Errors        map[string]string
	Categories    []model.Category
	StatusOptions []model.Status
	FormAction    string
	SubmitLabel   string
	IsNew         bool
}

// List は商品一覧を表示する。
// GET /products
// キーワード・カテゴリ・価格帯での絞り込みに対応する。価格フィルタに
// 数値でない値が指定された場合は警告フラッシュを表示し、該当フィルタは
// 無視される。
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	query := product.ListQuery{
		Keyword:  r.URL.Query().Get("keyword"),
		Category: r.URL.Query().Get("category"),
		MinPrice: r.URL.Query().Get("min_price"),
		MaxPrice: r.URL.Query().Get("max_price"),
	}

	result, err := h.service.List(r.Context(), query)
	if err != nil {
		slog.Error("failed to list products", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}

	flashes := flash.Pop(w, r, h.flashConfig())
	if result.InvalidPriceFilter {
		flashes = append(flashes, flash.Message{
			Level: flash.LevelWarning,
			Text:  "価格は数値で入力してください。",
		})
	}

	h.renderer.Render(w, "products.html", productsData{
		baseData: baseData{
			Title:     "商品一覧",
			User:      user,
			Flashes:   flashes,
			CSRFToken: middleware.CSRFTokenFromRequest(r),
		},
		Rows:             result.Rows,
		Categories:       model.Categories(),
		Keyword:          query.Keyword,
		SelectedCategory: query.Category,
		MinPrice:         query.MinPrice,
		MaxPrice:         query.MaxPrice,
	})
}

// NewForm は商品登録フォームを表示する。
// GET /products/new
func (h *ProductHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	h.renderForm(w, r, user, product.Form{}, nil, true, "")
}

// Create は商品登録を処理する。
// POST /products/new
// 検証エラーの場合は送信された値をそのまま保持したフォームを再表示し、
// フィールド別エラーと固定順の集約フラッシュを表示する。
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	form := formFromRequest(r)

	_, errs, err := h.service.Create(r.Context(), form)
	if err != nil {
		slog.Error("failed to create product", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}
	if errs != nil && !errs.Empty() {
		h.recordValidationFailures(errs)
		h.renderForm(w, r, user, form, errs, true, "")
		return
	}

	h.metrics.RecordProductMutation("create")

	q := flash.NewQueue(h.flashConfig())
	q.Add(flash.LevelSuccess, "商品を登録しました。")
	q.Save(w)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// EditForm は商品編集フォームを表示する。
// GET /products/{id}/edit
// 商品が存在しない場合は404を返す。
func (h *ProductHandler) EditForm(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id := chi.URLParam(r, "id")
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to get product", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}

	h.renderForm(w, r, user, formFromProduct(p), nil, false, id)
}

// Update は商品更新を処理する。
// POST /products/{id}/edit
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := middleware.UserFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	id := chi.URLParam(r, "id")
	form := formFromRequest(r)

	_, errs, err := h.service.Update(r.Context(), id, form)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to update product", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}
	if errs != nil && !errs.Empty() {
		h.recordValidationFailures(errs)
		h.renderForm(w, r, user, form, errs, false, id)
		return
	}

	h.metrics.RecordProductMutation("update")

	q := flash.NewQueue(h.flashConfig())
	q.Add(flash.LevelSuccess, "商品情報を更新しました。")
	q.Save(w)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// Delete は商品削除を処理する。
// POST /products/{id}/delete
// 商品が存在しない場合は404を返す。
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			http.NotFound(w, r)
			return
		}
		slog.Error("failed to delete product", slog.String("error", err.Error()))
		http.Error(w, "サーバーエラーが発生しました。", http.StatusInternalServerError)
		return
	}

	h.metrics.RecordProductMutation("delete")

	q := flash.NewQueue(h.flashConfig())
	q.Add(flash.LevelInfo, "商品を削除しました。")
	q.Save(w)
	http.Redirect(w, r, "/products", http.StatusSeeOther)
}

// renderForm は商品フォーム画面を描画する。
// 検証エラーがある場合は「フィールド名: メッセージ」形式の集約エラーを
// 固定順（name, category, price, stock, status）のフラッシュとして表示する。
func (h *ProductHandler) renderForm(w http.ResponseWriter, r *http.Request, user *model.User, form product.Form, errs *product.FormErrors, isNew bool, id string) {
	flashes := flash.Pop(w, r, h.flashConfig())

	errorMap := make(map[string]string)
	if errs != nil {
		for _, fe := range errs.Ordered() {
			errorMap[string(fe.Field)] = fe.Message
		}
		for _, line := range errs.FlashLines() {
			flashes = append(flashes, flash.Message{Level: flash.LevelError, Text: line})
		}
	}

	data := productFormData{
		baseData: baseData{
			User:      user,
			Flashes:   flashes,
			CSRFToken: middleware.CSRFTokenFromRequest(r),
		},
		Form:       form,
		Errors:     errorMap,
		Categories: model.Categories(),
	}

	if isNew {
		data.Title = "商品登録"
		data.StatusOptions = []model.Status{model.StatusDraft}
		data.FormAction = "/products/new"
		data.SubmitLabel = "登録"
		data.IsNew = true
	} else {
		data.Title = "商品編集"
		data.StatusOptions = model.Statuses()
		data.FormAction = fmt.Sprintf("/products/%s/edit", id)
		data.SubmitLabel = "更新"
	}

	h.renderer.Render(w, "product_form.html", data)
}

// recordValidationFailures はフィールド別のバリデーション失敗をメトリクスに記録する。
func (h *ProductHandler) recordValidationFailures(errs *product.FormErrors) {
	for _, fe := range errs.Ordered() {
		h.metrics.RecordValidationFailure(string(fe.Field))
	}
}

// formFromRequest は送信されたフォーム値をそのまま読み取る。
// ここでは値の加工は行わない（検証・再表示とも生の値を使う）。
func formFromRequest(r *http.Request) product.Form {
	return product.Form{
		Name:        r.PostFormValue("name"),
		Category:    r.PostFormValue("category"),
		Price:       r.PostFormValue("price"),
		Stock:       r.PostFormValue("stock"),
		Description: r.PostFormValue("description"),
		Status:      r.PostFormValue("status"),
	}
}

// formFromProduct は既存商品の値を編集フォームの初期値に変換する。
func formFromProduct(p *model.Product) product.Form {
	return product.Form{
		Name:        p.Name,
		Category:    string(p.Category),
		Price:       strconv.Itoa(p.Price),
		Stock:       strconv.Itoa(p.Stock),
		Description: p.Description,
		Status:      string(p.Status),
	}
}
