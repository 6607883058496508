package model

import "testing"

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !IsValidCategory(string(c)) {
			t.Errorf("IsValidCategory(%q) = false, want true", c)
		}
	}
	for _, v := range []string{"", "家具", "book", "書籍 "} {
		if IsValidCategory(v) {
			t.Errorf("IsValidCategory(%q) = true, want false", v)
		}
	}
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range Statuses() {
		if !IsValidStatus(string(s)) {
			t.Errorf("IsValidStatus(%q) = false, want true", s)
		}
	}
	for _, v := range []string{"", "販売終了", "draft"} {
		if IsValidStatus(v) {
			t.Errorf("IsValidStatus(%q) = true, want false", v)
		}
	}
}

func TestAllowedStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		want    []Status
	}{
		{"準備中からは公開中と非公開", StatusDraft, []Status{StatusPublished, StatusHidden}},
		{"公開中からは非公開のみ", StatusPublished, []Status{StatusHidden}},
		{"非公開からは公開中のみ", StatusHidden, []Status{StatusPublished}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Status: tt.current}
			got := p.AllowedStatusTransitions()
			if len(got) != len(tt.want) {
				t.Fatalf("transitions = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("transitions[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		current Status
		next    Status
		want    bool
	}{
		{"準備中から公開中", StatusDraft, StatusPublished, true},
		{"準備中から非公開", StatusDraft, StatusHidden, true},
		{"公開中から非公開", StatusPublished, StatusHidden, true},
		{"公開中から準備中は不可", StatusPublished, StatusDraft, false},
		{"非公開から公開中", StatusHidden, StatusPublished, true},
		{"非公開から準備中は不可", StatusHidden, StatusDraft, false},
		{"同一ステータスは常に許可", StatusPublished, StatusPublished, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Product{Status: tt.current}
			if got := p.CanTransitionTo(tt.next); got != tt.want {
				t.Errorf("CanTransitionTo(%q) = %v, want %v", tt.next, got, tt.want)
			}
		})
	}
}

func TestStockIndicationFor(t *testing.T) {
	tests := []struct {
		name      string
		stock     int
		wantLabel string
		wantClass string
	}{
		{"在庫0は在庫切れ", 0, "在庫切れ", "stock-empty"},
		{"在庫1は残りわずか", 1, "残りわずか", "stock-low"},
		{"在庫10は残りわずか", 10, "残りわずか", "stock-low"},
		{"在庫11は在庫あり", 11, "在庫あり", "stock-ok"},
		{"在庫999は在庫あり", 999, "在庫あり", "stock-ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StockIndicationFor(&Product{Stock: tt.stock})
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %q, want %q", got.Label, tt.wantLabel)
			}
			if got.RowClass != tt.wantClass {
				t.Errorf("RowClass = %q, want %q", got.RowClass, tt.wantClass)
			}
		})
	}
}
