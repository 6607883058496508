package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/naoki/shopadmin/internal/model"
	"github.com/naoki/shopadmin/internal/repository"
)

// sampleProducts はQA練習用のサンプル商品データ。
// 在庫切れ・残りわずか・在庫あり、各ステータスが一通り含まれるよう構成している。
func sampleProducts(now time.Time) []*model.Product {
	samples := []*model.Product{
		{
			Name:        "自動テスト入門",
			Category:    model.CategoryBook,
			Price:       3200,
			Stock:       5,
			Description: "自動テストの基礎を学べる書籍です。",
			Status:      model.StatusPublished,
		},
		{
			Name:        "デバッグマスター",
			Category:    model.CategoryBook,
			Price:       2800,
			Stock:       0,
			Description: "開発者とQAのためのデバッグ虎の巻。",
			Status:      model.StatusHidden,
		},
		{
			Name:        "テスト自動化トレーニングキット",
			Category:    model.CategoryAppliance,
			Price:       58000,
			Stock:       12,
			Description: "Selenium対応のラボ環境デバイス。",
			Status:      model.StatusDraft,
		},
		{
			Name:        "集中力を保つ栄養バー",
			Category:    model.CategoryFood,
			Price:       380,
			Stock:       9,
			Description: "テスト実行前に最適なスナック。",
			Status:      model.StatusPublished,
		},
	}

	for i, p := range samples {
		p.ID = uuid.New().String()
		// 作成順が一覧の表示順になるため、時刻をずらして順序を固定する
		p.CreatedAt = now.Add(time.Duration(i) * time.Millisecond)
		p.UpdatedAt = p.CreatedAt
	}
	return samples
}

// SeedSampleProducts はサンプル商品データを投入する。
// 既に商品が1件でも存在する場合は何もしない（冪等）。
func SeedSampleProducts(ctx context.Context, repo repository.ProductRepository) error {
	count, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		slog.Info("products already exist, skipping sample data", slog.Int("count", count))
		return nil
	}

	for _, p := range sampleProducts(time.Now()) {
		if err := repo.Create(ctx, p); err != nil {
			return fmt.Errorf("failed to insert sample product %q: %w", p.Name, err)
		}
	}

	slog.Info("sample products inserted")
	return nil
}
