package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/naoki/shopadmin/internal/model"
	"github.com/naoki/shopadmin/internal/repository"
)

// ErrProductNotFound は指定IDの商品が存在しない場合のエラー。
var ErrProductNotFound = errors.New("product not found")

// Sanitizer は説明文マークアップのサニタイズインターフェース。
// internal/securityの実装を注入する。
type Sanitizer interface {
	Sanitize(rawHTML string) string
}

// Service は商品管理のビジネスロジックを提供する。
type Service struct {
	repo      repository.ProductRepository
	sanitizer Sanitizer
}

// NewService はServiceを生成する。
func NewService(repo repository.ProductRepository, sanitizer Sanitizer) *Service {
	return &Service{
		repo:      repo,
		sanitizer: sanitizer,
	}
}

// ListQuery は商品一覧画面の検索条件を表す。クエリ文字列の生の値を保持する。
type ListQuery struct {
	Keyword  string
	Category string
	MinPrice string
	MaxPrice string
}

// Row は商品一覧の1行分の表示データを表す。
type Row struct {
	Product           *model.Product
	StockLabel        string
	RowClass          string
	DescriptionMarkup string // サニタイズ済みのHTML
}

// ListResult は商品一覧の検索結果を表す。
type ListResult struct {
	Rows []Row
	// InvalidPriceFilter は価格フィルタに数値でない値が指定されたことを示す。
	// 該当フィルタは無視され、呼び出し側は警告フラッシュを表示する。
	InvalidPriceFilter bool
}

// List は検索条件に一致する商品一覧を返す。
// キーワードは商品名・説明文に対する部分一致。カテゴリは定義済みの値のみ
// 適用される。価格フィルタに数値でない値が指定された場合は該当フィルタを
// 無視し、InvalidPriceFilterを立てて返す。
func (s *Service) List(ctx context.Context, query ListQuery) (*ListResult, error) {
	keyword := strings.TrimSpace(query.Keyword)

	// 意図的な不具合: テスト練習用に特定キーワードで障害を再現する
	if keyword != "" && strings.Contains(keyword, "バグ票") {
		panic("intentional bug triggered by keyword バグ票")
	}

	filter := repository.ProductFilter{Keyword: keyword}

	if query.Category != "" && model.IsValidCategory(query.Category) {
		filter.Category = query.Category
	}

	result := &ListResult{}

	if query.MinPrice != "" {
		if minPrice, err := strconv.Atoi(query.MinPrice); err != nil {
			result.InvalidPriceFilter = true
		} else {
			filter.MinPrice = &minPrice
		}
	}
	if query.MaxPrice != "" {
		if maxPrice, err := strconv.Atoi(query.MaxPrice); err != nil {
			result.InvalidPriceFilter = true
		} else {
			filter.MaxPrice = &maxPrice
		}
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	result.Rows = make([]Row, 0, len(products))
	for _, p := range products {
		indication := model.StockIndicationFor(p)
		result.Rows = append(result.Rows, Row{
			Product:           p,
			StockLabel:        indication.Label,
			RowClass:          indication.RowClass,
			DescriptionMarkup: s.sanitizer.Sanitize(p.Description),
		})
	}

	return result, nil
}

// Get は指定IDの商品を取得する。存在しない場合はErrProductNotFoundを返す。
func (s *Service) Get(ctx context.Context, id string) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// Create は商品フォームを検証し、通過した場合は新規商品を登録する。
// 検証エラーの場合は商品を作成せず、FormErrorsを返す。
// 新規商品のステータスは常に準備中になる。
func (s *Service) Create(ctx context.Context, form Form) (*model.Product, *FormErrors, error) {
	draft, errs := Validate(form, nil)
	if !errs.Empty() {
		return nil, errs, nil
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New().String(),
		Name:        draft.Name,
		Category:    draft.Category,
		Price:       draft.Price,
		Stock:       draft.Stock,
		Description: draft.Description,
		Status:      draft.Status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil, nil
}

// Update は商品フォームを検証し、通過した場合は既存商品を更新する。
// ステータスは遷移ルール（準備中→公開中/非公開、公開中→非公開、非公開→公開中）
// を満たす場合のみ変更される。商品が存在しない場合はErrProductNotFoundを返す。
func (s *Service) Update(ctx context.Context, id string, form Form) (*model.Product, *FormErrors, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find product: %w", err)
	}
	if current == nil {
		return nil, nil, ErrProductNotFound
	}

	draft, errs := Validate(form, current)
	if !errs.Empty() {
		return nil, errs, nil
	}

	current.Name = draft.Name
	current.Category = draft.Category
	current.Price = draft.Price
	current.Stock = draft.Stock
	current.Description = draft.Description
	current.Status = draft.Status
	current.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, current); err != nil {
		return nil, nil, fmt.Errorf("failed to update product: %w", err)
	}

	return current, nil, nil
}

// Delete は指定IDの商品を削除する。存在しない場合はErrProductNotFoundを返す。
func (s *Service) Delete(ctx context.Context, id string) error {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
