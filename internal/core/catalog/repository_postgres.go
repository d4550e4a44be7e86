package catalog

import (
	"context"
	"strings"

	"food-detection-api/internal/pkg/common"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	searchRecipesSQL = `
		SELECT recipe_id, recipe_name
		FROM recipes
		WHERE recipe_name ILIKE $1`

	searchIngredientsSQL = `
		SELECT ingredient_id, ingredient_name, COALESCE(ingredient_name_eng, '')
		FROM ingredients
		WHERE ingredient_name ILIKE $1`
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern 產生 ILIKE 子字串樣式，猜測值裡的萬用字元會被跳脫
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// PostgresRepository 以 pgx 連線池查詢目錄
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository 創建 Postgres 目錄
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Open 從連線池取得一條連線
func (r *PostgresRepository) Open(ctx context.Context) (Session, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, common.Wrap(common.ErrDatabase, "failed to connect to database", err)
	}
	return &postgresSession{conn: conn}, nil
}

// Ping 檢查資料庫是否可用
func (r *PostgresRepository) Ping(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return common.Wrap(common.ErrDatabase, "database unavailable", err)
	}
	return nil
}

type postgresSession struct {
	conn *pgxpool.Conn
}

func (s *postgresSession) SearchRecipes(ctx context.Context, name string) ([]Recipe, error) {
	rows, err := s.conn.Query(ctx, searchRecipesSQL, containsPattern(name))
	if err != nil {
		return nil, common.Wrap(common.ErrDatabase, "failed to query recipes", err)
	}
	defer rows.Close()

	var results []Recipe
	for rows.Next() {
		var rec Recipe
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			return nil, common.Wrap(common.ErrDatabase, "failed to read recipes", err)
		}
		results = append(results, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Wrap(common.ErrDatabase, "failed to read recipes", err)
	}
	return results, nil
}

func (s *postgresSession) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	rows, err := s.conn.Query(ctx, searchIngredientsSQL, containsPattern(name))
	if err != nil {
		return nil, common.Wrap(common.ErrDatabase, "failed to query ingredients", err)
	}
	defer rows.Close()

	var results []Ingredient
	for rows.Next() {
		var ing Ingredient
		if err := rows.Scan(&ing.ID, &ing.NameTH, &ing.NameEN); err != nil {
			return nil, common.Wrap(common.ErrDatabase, "failed to read ingredients", err)
		}
		results = append(results, ing)
	}
	if err := rows.Err(); err != nil {
		return nil, common.Wrap(common.ErrDatabase, "failed to read ingredients", err)
	}
	return results, nil
}

func (s *postgresSession) Close() {
	s.conn.Release()
}
