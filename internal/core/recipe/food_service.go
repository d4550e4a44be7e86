package recipe

import (
	"context"

	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
)

// FoodService 食物辨識服務
type FoodService struct {
	*Service
}

// NewFoodService 創建新的食物辨識服務
func NewFoodService(base *Service) *FoodService {
	return &FoodService{Service: base}
}

// DetectFoods 辨識圖片中的菜名並比對菜單；比對不到時 recipes 為 NoRecipeFound
func (s *FoodService) DetectFoods(ctx context.Context, img *Image) (*FoodDetectionResult, error) {
	var result *FoodDetectionResult
	p := prompt{
		flow:      "food",
		system:    foodSystemPrompt,
		user:      foodPrompt,
		maxTokens: foodMaxTokens,
	}

	err := s.run(ctx, img, p, func(raw string, advance func(Stage)) error {
		guess, err := ParseFood(raw)
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

		recipes, err := s.matcher.MatchFood(ctx, guess.Name)
		if err != nil {
			return err
		}
		advance(StageMatched)

		result = &FoodDetectionResult{
			RecipesAI: []FoodGuess{*guess},
			Recipes:   recipes,
		}
		if len(recipes) == 0 {
			result.Recipes = NoRecipeFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
