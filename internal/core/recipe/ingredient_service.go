package recipe

import (
	"context"

	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
)

// IngredientService 食材辨識服務
type IngredientService struct {
	*Service
}

// NewIngredientService 創建新的食材辨識服務
func NewIngredientService(base *Service) *IngredientService {
	return &IngredientService{Service: base}
}

// DetectIngredients 辨識圖片中的食材並以泰文名稱比對食材表；完全比對不到時回傳 ErrNoMatch
func (s *IngredientService) DetectIngredients(ctx context.Context, img *Image) (*IngredientDetectionResult, error) {
	var result *IngredientDetectionResult
	p := prompt{
		flow:      "ingredient",
		system:    ingredientSystemPrompt,
		user:      ingredientPrompt,
		maxTokens: ingredientMaxTokens,
	}

	err := s.run(ctx, img, p, func(raw string, advance func(Stage)) error {
		guesses, err := ParseIngredients(raw)
		if err != nil {
			common.LogWarn("AI 響應解析失敗",
				zap.String("flow", p.flow),
				zap.String("raw", raw),
				zap.String("request_id", common.RequestIDFromContext(ctx)),
				zap.Error(err),
			)
			return err
		}
		advance(StageParsed)

		namesTH := make([]string, len(guesses))
		for i, g := range guesses {
			namesTH[i] = g.NameTH
		}

		ingredients, err := s.matcher.MatchIngredients(ctx, namesTH)
		if err != nil {
			return err
		}
		advance(StageMatched)
		if len(ingredients) == 0 {
			return common.Wrap(common.ErrNoMatch, "", nil)
		}

		result = &IngredientDetectionResult{
			IngredientsAI: guesses,
			Ingredients:   ingredients,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
