package catalog

import (
	"context"
	"strings"
	"sync/atomic"
)

// MemoryRepository 記憶體目錄，用於測試與本地開發
type MemoryRepository struct {
	recipes     []Recipe
	ingredients []Ingredient

	open    atomic.Int64
	queries atomic.Int64
	// Err 非 nil 時 Open 與 Ping 皆回傳此錯誤
	Err error
}

// NewMemoryRepository 以固定資料建立記憶體目錄
func NewMemoryRepository(recipes []Recipe, ingredients []Ingredient) *MemoryRepository {
	return &MemoryRepository{recipes: recipes, ingredients: ingredients}
}

// Open 開啟一個 session
func (r *MemoryRepository) Open(ctx context.Context) (Session, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	r.open.Add(1)
	return &memorySession{repo: r}, nil
}

// Ping 檢查可用性
func (r *MemoryRepository) Ping(ctx context.Context) error {
	return r.Err
}

// OpenSessions 尚未 Close 的 session 數
func (r *MemoryRepository) OpenSessions() int64 {
	return r.open.Load()
}

// Queries 已執行的查詢次數
func (r *MemoryRepository) Queries() int64 {
	return r.queries.Load()
}

type memorySession struct {
	repo   *MemoryRepository
	closed bool
}

func (s *memorySession) SearchRecipes(ctx context.Context, name string) ([]Recipe, error) {
	s.repo.queries.Add(1)
	var results []Recipe
	for _, rec := range s.repo.recipes {
		if containsFold(rec.Name, name) {
			results = append(results, rec)
		}
	}
	return results, nil
}

func (s *memorySession) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	s.repo.queries.Add(1)
	var results []Ingredient
	for _, ing := range s.repo.ingredients {
		if containsFold(ing.NameTH, name) {
			results = append(results, ing)
		}
	}
	return results, nil
}

func (s *memorySession) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.repo.open.Add(-1)
}

// containsFold 與 ILIKE '%s%' 相同語意
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
