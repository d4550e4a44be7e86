package catalog

import "context"

// Recipe recipes 表的一筆資料
type Recipe struct {
	ID   int    `json:"recipes_id"`
	Name string `json:"recipes_name"`
}

// Ingredient ingredients 表的一筆資料
type Ingredient struct {
	ID     int    `json:"id"`
	NameTH string `json:"ingredient_name"`
	NameEN string `json:"ingredient_name_eng"`
}

// Repository 目錄資料來源；每個請求開一個 Session，用完必須 Close
type Repository interface {
	Open(ctx context.Context) (Session, error)
	Ping(ctx context.Context) error
}

// Session 單一請求期間持有的連線，查詢皆為不分大小寫的子字串比對
type Session interface {
	SearchRecipes(ctx context.Context, name string) ([]Recipe, error)
	SearchIngredients(ctx context.Context, name string) ([]Ingredient, error)
	Close()
}
