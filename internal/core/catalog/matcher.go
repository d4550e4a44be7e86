package catalog

import (
	"context"
	"errors"

	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
)

// Matcher 以 AI 猜測的名稱比對目錄
type Matcher struct {
	repo Repository
}

// NewMatcher 創建比對器
func NewMatcher(repo Repository) *Matcher {
	return &Matcher{repo: repo}
}

// MatchFood 以菜名做一次子字串查詢，沒有結果時回傳空切片
func (m *Matcher) MatchFood(ctx context.Context, name string) ([]Recipe, error) {
	session, err := m.repo.Open(ctx)
	if err != nil {
		return nil, asDatabaseError(err)
	}
	defer session.Close()

	recipes, err := session.SearchRecipes(ctx, name)
	if err != nil {
		return nil, asDatabaseError(err)
	}

	common.LogDebug("Recipe catalog matched",
		zap.String("name", name),
		zap.Int("matches", len(recipes)),
		zap.String("request_id", common.RequestIDFromContext(ctx)),
	)
	return recipes, nil
}

// MatchIngredients 逐一以泰文名稱查詢，結果依查詢順序串接且不去重
func (m *Matcher) MatchIngredients(ctx context.Context, namesTH []string) ([]Ingredient, error) {
	session, err := m.repo.Open(ctx)
	if err != nil {
		return nil, asDatabaseError(err)
	}
	defer session.Close()

	matched := []Ingredient{}
	for _, name := range namesTH {
		rows, err := session.SearchIngredients(ctx, name)
		if err != nil {
			return nil, asDatabaseError(err)
		}
		matched = append(matched, rows...)
	}

	common.LogDebug("Ingredient catalog matched",
		zap.Strings("names", namesTH),
		zap.Int("matches", len(matched)),
		zap.String("request_id", common.RequestIDFromContext(ctx)),
	)
	return matched, nil
}

// Ping 檢查目錄是否可用
func (m *Matcher) Ping(ctx context.Context) error {
	return m.repo.Ping(ctx)
}

func asDatabaseError(err error) error {
	var ce *common.CustomError
	if errors.As(err, &ce) {
		return err
	}
	return common.Wrap(common.ErrDatabase, "", err)
}
