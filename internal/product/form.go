// Package product は商品管理のビジネスロジックとフォームバリデーションを提供する。
package product

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/naoki/shopadmin/internal/model"
)

// 商品名の文字数制限（文字数はruneで数える）。
const (
	nameMinLength = 1
	nameMaxLength = 50
)

// 価格と在庫数の許容範囲（両端を含む）。
const (
	priceMin = 0
	priceMax = 1_000_000
	stockMin = 0
	stockMax = 999
)

// Field はフォームの入力フィールドを識別するキー。
type Field string

const (
	// FieldName は商品名フィールド。
	FieldName Field = "name"
	// FieldCategory はカテゴリフィールド。
	FieldCategory Field = "category"
	// FieldPrice は価格フィールド。
	FieldPrice Field = "price"
	// FieldStock は在庫数フィールド。
	FieldStock Field = "stock"
	// FieldStatus はステータスフィールド。編集時のみ検証対象になる。
	FieldStatus Field = "status"
)

// fieldOrder は集約エラーの表示順を固定するフィールド列。
// マップの列挙順に依存せず、常にこの順でエラーを並べる。
var fieldOrder = []Field{FieldName, FieldCategory, FieldPrice, FieldStock, FieldStatus}

// Form はクライアントが送信した商品フォームの生の値を保持する。
// バリデーションはこの値を一切変更しない。拒否時はこの値をそのまま
// 再表示に使うため、不正な値（"-1"や"abc"等）も保持される。
type Form struct {
	Name        string
	Category    string
	Price       string
	Stock       string
	Description string
	Status      string
}

// Draft は検証を通過した商品フォームの変換済みの値を表す。
// 数値フィールドはintに変換済みで、永続化層にそのまま渡せる。
type Draft struct {
	Name        string
	Category    model.Category
	Price       int
	Stock       int
	Description string
	Status      model.Status
}

// FieldError はフィールドとエラーメッセージの組を表す。
type FieldError struct {
	Field   Field
	Message string
}

// FormErrors は1回の送信に対するフィールド別エラーの集合を表す。
// 各フィールドは最初に失敗したルールのメッセージのみを保持する。
type FormErrors struct {
	messages map[Field]string
}

// NewFormErrors は空のFormErrorsを生成する。
func NewFormErrors() *FormErrors {
	return &FormErrors{messages: make(map[Field]string)}
}

// Add はフィールドにエラーメッセージを追加する。
// 既にエラーが記録されているフィールドは変更しない（先勝ち）。
func (e *FormErrors) Add(field Field, message string) {
	if _, exists := e.messages[field]; exists {
		return
	}
	e.messages[field] = message
}

// Has は指定フィールドにエラーがあるかを返す。
func (e *FormErrors) Has(field Field) bool {
	_, ok := e.messages[field]
	return ok
}

// Message は指定フィールドのエラーメッセージを返す。エラーがなければ空文字列。
func (e *FormErrors) Message(field Field) string {
	return e.messages[field]
}

// Empty はエラーが1件もないかを返す。
func (e *FormErrors) Empty() bool {
	return len(e.messages) == 0
}

// Len はエラー件数を返す。
func (e *FormErrors) Len() int {
	return len(e.messages)
}

// Ordered はフィールド別エラーを固定順（name, category, price, stock, status）で返す。
func (e *FormErrors) Ordered() []FieldError {
	ordered := make([]FieldError, 0, len(e.messages))
	for _, field := range fieldOrder {
		if msg, ok := e.messages[field]; ok {
			ordered = append(ordered, FieldError{Field: field, Message: msg})
		}
	}
	return ordered
}

// FlashLines は「フィールド名: メッセージ」形式の集約エラー一覧を固定順で返す。
// フラッシュメッセージとして画面上部に表示される。
func (e *FormErrors) FlashLines() []string {
	ordered := e.Ordered()
	lines := make([]string, 0, len(ordered))
	for _, fe := range ordered {
		lines = append(lines, fmt.Sprintf("%s: %s", fe.Field, fe.Message))
	}
	return lines
}

// Validate は商品フォームを検証し、変換済みのDraftまたはエラー集合を返す。
// 各フィールドは独立に検証され、1フィールドにつき最初に失敗したルールの
// メッセージのみが記録される。currentがnilの場合は新規登録として扱い、
// ステータスは常に準備中になる。currentが指定された場合は編集として扱い、
// ステータス遷移ルールも検証する。
// エラーがある場合はDraftはnilを返し、呼び出し側は送信された生の値を
// そのまま再表示する。
func Validate(form Form, current *model.Product) (*Draft, *FormErrors) {
	errs := NewFormErrors()
	draft := &Draft{}

	// 商品名: 必須 → 文字数[1,50]
	name := strings.TrimSpace(form.Name)
	if name == "" {
		errs.Add(FieldName, "商品名は必須です。")
	} else if n := utf8.RuneCountInString(name); n < nameMinLength || n > nameMaxLength {
		errs.Add(FieldName, "商品名は1文字以上50文字以下で入力してください。")
	}
	draft.Name = name

	// カテゴリ: 定義済みの選択肢のみ許可（未選択・未知の値は同一エラー）
	if !model.IsValidCategory(form.Category) {
		errs.Add(FieldCategory, "カテゴリを選択してください。")
	}
	draft.Category = model.Category(form.Category)

	// 価格: 必須 → 数値 → 範囲[0,1000000]
	if price, ok := parseIntField(form.Price, FieldPrice, priceMin, priceMax, errs); ok {
		draft.Price = price
	}

	// 在庫数: 必須 → 数値 → 範囲[0,999]
	if stock, ok := parseIntField(form.Stock, FieldStock, stockMin, stockMax, errs); ok {
		draft.Stock = stock
	}

	draft.Description = form.Description

	// ステータス: 新規は常に準備中。編集時のみ選択値と遷移ルールを検証する。
	if current == nil {
		draft.Status = model.StatusDraft
	} else {
		requested := form.Status
		if requested == "" {
			requested = string(model.StatusDraft)
		}
		switch {
		case !model.IsValidStatus(requested):
			errs.Add(FieldStatus, "ステータスを選択してください。")
		case !current.CanTransitionTo(model.Status(requested)):
			errs.Add(FieldStatus, "このステータスには変更できません。")
		default:
			draft.Status = model.Status(requested)
		}
	}

	if !errs.Empty() {
		return nil, errs
	}
	return draft, errs
}

// parseIntField は数値フィールドを検証する。
// 空欄チェック → 数値チェック → 範囲チェックの順に評価し、最初に失敗した
// ルールのメッセージのみを記録する。数値として解釈できない値は範囲エラー
// ではなくパースエラーとして報告される。
func parseIntField(value string, field Field, minValue, maxValue int, errs *FormErrors) (int, bool) {
	if value == "" {
		errs.Add(field, "必須入力です。")
		return 0, false
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		errs.Add(field, "数値を入力してください。")
		return 0, false
	}
	if number < minValue || number > maxValue {
		errs.Add(field, fmt.Sprintf("%d以上%d以下で入力してください。", minValue, maxValue))
		return 0, false
	}
	return number, true
}
