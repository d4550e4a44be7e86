package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"food-detection-api/internal/pkg/common"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// ErrCacheMiss 快取中沒有該鍵
var ErrCacheMiss = errors.New("cache miss")

// CacheStore 快取儲存介面
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RedisStore 以 Redis 實作 CacheStore
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore 建立 Redis 連線並測試
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Get 讀取快取
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	return data, err
}

// Set 寫入快取
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

// Close 關閉連線
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// CachedRepository 目錄查詢的 read-through 快取；目錄為唯讀資料
type CachedRepository struct {
	next  Repository
	store CacheStore
	ttl   time.Duration
}

// NewCachedRepository 包裝既有目錄
func NewCachedRepository(next Repository, store CacheStore, ttl time.Duration) *CachedRepository {
	return &CachedRepository{next: next, store: store, ttl: ttl}
}

// Open 延遲到第一次快取未命中才向下層取得連線
func (r *CachedRepository) Open(ctx context.Context) (Session, error) {
	return &cachedSession{repo: r}, nil
}

// Ping 檢查下層目錄
func (r *CachedRepository) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}

type cachedSession struct {
	repo  *CachedRepository
	inner Session
}

func (s *cachedSession) session(ctx context.Context) (Session, error) {
	if s.inner != nil {
		return s.inner, nil
	}
	inner, err := s.repo.next.Open(ctx)
	if err != nil {
		return nil, err
	}
	s.inner = inner
	return inner, nil
}

func (s *cachedSession) SearchRecipes(ctx context.Context, name string) ([]Recipe, error) {
	key := "catalog:recipes:" + name
	var cached []Recipe
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	inner, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	results, err := inner.SearchRecipes(ctx, name)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, results)
	return results, nil
}

func (s *cachedSession) SearchIngredients(ctx context.Context, name string) ([]Ingredient, error) {
	key := "catalog:ingredients:" + name
	var cached []Ingredient
	if s.lookup(ctx, key, &cached) {
		return cached, nil
	}

	inner, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	results, err := inner.SearchIngredients(ctx, name)
	if err != nil {
		return nil, err
	}
	s.save(ctx, key, results)
	return results, nil
}

func (s *cachedSession) Close() {
	if s.inner != nil {
		s.inner.Close()
		s.inner = nil
	}
}

// lookup 快取錯誤只記錄，不影響查詢
func (s *cachedSession) lookup(ctx context.Context, key string, v interface{}) bool {
	data, err := s.repo.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			common.LogWarn("Catalog cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		common.LogWarn("Catalog cache entry corrupted", zap.String("key", key), zap.Error(err))
		return false
	}
	common.LogDebug("Catalog cache hit", zap.String("key", key))
	return true
}

func (s *cachedSession) save(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.repo.store.Set(ctx, key, data, s.repo.ttl); err != nil {
		common.LogWarn("Catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}
