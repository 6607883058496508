// Package model はドメインモデルを定義する。
package model

import "time"

// Category は商品カテゴリを表す。
type Category string

const (
	// CategoryBook は書籍カテゴリ。
	CategoryBook Category = "書籍"
	// CategoryAppliance は家電カテゴリ。
	CategoryAppliance Category = "家電"
	// CategoryFood は食品カテゴリ。
	CategoryFood Category = "食品"
	// CategoryOther はその他カテゴリ。
	CategoryOther Category = "その他"
)

// Categories は商品カテゴリの選択肢を表示順で返す。
func Categories() []Category {
	return []Category{CategoryBook, CategoryAppliance, CategoryFood, CategoryOther}
}

// IsValidCategory は値が定義済みカテゴリかどうかを判定する。
func IsValidCategory(value string) bool {
	for _, c := range Categories() {
		if string(c) == value {
			return true
		}
	}
	return false
}

// Status は商品の公開ステータスを表す。
type Status string

const (
	// StatusDraft は準備中ステータス。新規登録時の初期値。
	StatusDraft Status = "準備中"
	// StatusPublished は公開中ステータス。
	StatusPublished Status = "公開中"
	// StatusHidden は非公開ステータス。
	StatusHidden Status = "非公開"
)

// Statuses は商品ステータスの選択肢を表示順で返す。
func Statuses() []Status {
	return []Status{StatusDraft, StatusPublished, StatusHidden}
}

// IsValidStatus は値が定義済みステータスかどうかを判定する。
func IsValidStatus(value string) bool {
	for _, s := range Statuses() {
		if string(s) == value {
			return true
		}
	}
	return false
}

// Product は管理対象の商品を表す。
type Product struct {
	ID          string
	Name        string
	Category    Category
	Price       int
	Stock       int
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AllowedStatusTransitions は現在のステータスから遷移可能なステータス一覧を返す。
// 準備中からは公開中・非公開へ、公開中からは非公開のみ、非公開からは公開中のみ遷移できる。
func (p *Product) AllowedStatusTransitions() []Status {
	switch p.Status {
	case StatusDraft:
		return []Status{StatusPublished, StatusHidden}
	case StatusPublished:
		return []Status{StatusHidden}
	case StatusHidden:
		return []Status{StatusPublished}
	default:
		return nil
	}
}

// CanTransitionTo は指定ステータスへの遷移が許可されているかを判定する。
// 現在と同じステータスへの「遷移」は常に許可される。
func (p *Product) CanTransitionTo(next Status) bool {
	if next == p.Status {
		return true
	}
	for _, s := range p.AllowedStatusTransitions() {
		if s == next {
			return true
		}
	}
	return false
}

// StockIndication は在庫数に応じた表示ラベルとCSSクラスを表す。
type StockIndication struct {
	Label    string
	RowClass string
}

// StockIndicationFor は商品の在庫数に応じた在庫表示を返す。
// 在庫0は「在庫切れ」、1〜10は「残りわずか」、それ以外は「在庫あり」。
func StockIndicationFor(p *Product) StockIndication {
	switch {
	case p.Stock == 0:
		return StockIndication{Label: "在庫切れ", RowClass: "stock-empty"}
	case p.Stock >= 1 && p.Stock <= 10:
		return StockIndication{Label: "残りわずか", RowClass: "stock-low"}
	default:
		return StockIndication{Label: "在庫あり", RowClass: "stock-ok"}
	}
}
