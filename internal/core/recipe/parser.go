package recipe

import (
	"fmt"
	"strings"

	"food-detection-api/internal/pkg/common"
)

const (
	msgUnableToParseJSON = "unable to parse JSON"
	msgInvalidDataFormat = "invalid data format"
)

// StripCodeFence 去掉 ```json 與 ``` 標記及前後空白
func StripCodeFence(raw string) string {
	cleaned := strings.ReplaceAll(raw, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	return strings.TrimSpace(cleaned)
}

// ParseFood 解析食物辨識回應，格式為 ["菜名"]，只取第一個元素
func ParseFood(raw string) (*FoodGuess, error) {
	var parsed interface{}
	if err := common.ParseJSON(StripCodeFence(raw), &parsed); err != nil {
		return nil, common.Wrap(common.ErrMalformedOutput, msgUnableToParseJSON, err)
	}

	items, ok := parsed.([]interface{})
	if !ok || len(items) == 0 {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat,
			fmt.Errorf("expected a non-empty array, got %T", parsed))
	}

	name, ok := items[0].(string)
	if !ok || name == "" {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat,
			fmt.Errorf("expected a dish name, got %v", items[0]))
	}

	return &FoodGuess{ID: 0, Name: name}, nil
}

// ParseIngredients 解析食材辨識回應，格式為 [[泰文...], [英文...]]，兩個陣列長度必須相同
func ParseIngredients(raw string) ([]IngredientGuess, error) {
	var parsed interface{}
	if err := common.ParseJSON(StripCodeFence(raw), &parsed); err != nil {
		return nil, common.Wrap(common.ErrMalformedOutput, msgUnableToParseJSON, err)
	}

	outer, ok := parsed.([]interface{})
	if !ok || len(outer) != 2 {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat,
			fmt.Errorf("expected [[thai...], [english...]]"))
	}

	namesTH, err := stringList(outer[0])
	if err != nil {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat, err)
	}
	namesEN, err := stringList(outer[1])
	if err != nil {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat, err)
	}
	if len(namesTH) != len(namesEN) {
		return nil, common.Wrap(common.ErrMalformedOutput, msgInvalidDataFormat,
			fmt.Errorf("thai and english lists differ in length: %d != %d", len(namesTH), len(namesEN)))
	}

	guesses := make([]IngredientGuess, len(namesTH))
	for i := range namesTH {
		guesses[i] = IngredientGuess{
			Index:  i,
			NameTH: namesTH[i],
			NameEN: namesEN[i],
		}
	}
	return guesses, nil
}

func stringList(v interface{}) ([]string, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array, got %T", v)
	}
	names := make([]string, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string at position %d, got %T", i, item)
		}
		names[i] = s
	}
	return names, nil
}
