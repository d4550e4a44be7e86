package recipe

import (
	"food-detection-api/internal/core/catalog"
)

// NoRecipeFound 食物流程比對不到菜單時放在 recipes 欄位的字串
const NoRecipeFound = "no recipe found matching the identified name"

// Stage 單一請求的處理階段
type Stage string

const (
	StageReceived   Stage = "received"
	StageUploaded   Stage = "uploaded"
	StageClassified Stage = "classified"
	StageParsed     Stage = "parsed"
	StageMatched    Stage = "matched"
	StageResponded  Stage = "responded"
	StageCleanup    Stage = "cleanup"
)

// Image 上傳的圖片
type Image struct {
	Data        []byte
	ContentType string
	Filename    string
}

// FoodGuess AI 猜測的菜名，ID 固定為 0
type FoodGuess struct {
	ID   int    `json:"recipes_id"`
	Name string `json:"recipes_name"`
}

// IngredientGuess AI 猜測的食材，Index 為在回應中的位置
type IngredientGuess struct {
	Index  int    `json:"id"`
	NameTH string `json:"ingredient_name"`
	NameEN string `json:"ingredient_name_eng"`
}

// FoodDetectionResult 食物辨識結果；Recipes 為 []catalog.Recipe 或 NoRecipeFound
type FoodDetectionResult struct {
	RecipesAI []FoodGuess `json:"recipes_ai"`
	Recipes   interface{} `json:"recipes"`
}

// IngredientDetectionResult 食材辨識結果
type IngredientDetectionResult struct {
	IngredientsAI []IngredientGuess    `json:"ingredients_ai"`
	Ingredients   []catalog.Ingredient `json:"ingredients"`
}
