package recipe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"food-detection-api/internal/core/ai"
	"food-detection-api/internal/core/catalog"
	imagesvc "food-detection-api/internal/core/image"
	"food-detection-api/internal/pkg/common"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fakeUploader struct {
	mu sync.Mutex

	storeErr  error
	removeErr error

	stored       [][]byte
	contentTypes []string
	removed      []string
}

func (u *fakeUploader) Store(ctx context.Context, body io.Reader, contentType string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.storeErr != nil {
		return "", u.storeErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	u.stored = append(u.stored, data)
	u.contentTypes = append(u.contentTypes, contentType)
	return "https://storage.googleapis.com/food-images/abc.jpg", nil
}

func (u *fakeUploader) Remove(ctx context.Context, publicURL string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.removed = append(u.removed, publicURL)
	return u.removeErr
}

type fakeClassifier struct {
	raw  string
	err  error
	reqs []*ai.ClassifyRequest
}

func (c *fakeClassifier) Classify(ctx context.Context, req *ai.ClassifyRequest) (string, error) {
	c.reqs = append(c.reqs, req)
	return c.raw, c.err
}

func newCatalog() *catalog.MemoryRepository {
	return catalog.NewMemoryRepository(
		[]catalog.Recipe{
			{ID: 5, Name: "ต้มยำกุ้ง"},
			{ID: 6, Name: "ผัดกะเพรา"},
		},
		[]catalog.Ingredient{
			{ID: 10, NameTH: "ข้าว", NameEN: "rice"},
			{ID: 11, NameTH: "ไข่", NameEN: "egg"},
			{ID: 12, NameTH: "ไข่เค็ม", NameEN: "salted egg"},
		},
	)
}

func testImage() *Image {
	return &Image{Data: []byte("fake-jpeg"), ContentType: "image/jpeg", Filename: "food.jpg"}
}

func newTestService(u *fakeUploader, c *fakeClassifier, repo catalog.Repository) *Service {
	return NewService(u, c, catalog.NewMatcher(repo), nil)
}

func TestDetectFoods_AssemblesMatches(t *testing.T) {
	uploader := &fakeUploader{}
	classifier := &fakeClassifier{raw: "```json\n[\"ต้มยำ\"]\n```"}
	repo := newCatalog()
	svc := NewFoodService(newTestService(uploader, classifier, repo))

	result, err := svc.DetectFoods(context.Background(), testImage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	body, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"recipes_ai":[{"recipes_id":0,"recipes_name":"ต้มยำ"}],"recipes":[{"recipes_id":5,"recipes_name":"ต้มยำกุ้ง"}]}`
	if string(body) != want {
		t.Errorf("unexpected body\n got: %s\nwant: %s", body, want)
	}

	if len(classifier.reqs) != 1 {
		t.Fatalf("expected one AI call, got %d", len(classifier.reqs))
	}
	req := classifier.reqs[0]
	if req.ImageURL != "https://storage.googleapis.com/food-images/abc.jpg" {
		t.Errorf("unexpected image url %s", req.ImageURL)
	}
	if req.MaxTokens != foodMaxTokens || req.SystemPrompt != foodSystemPrompt || req.Prompt != foodPrompt {
		t.Errorf("unexpected food prompt settings %+v", req)
	}
	if !bytes.Equal(uploader.stored[0], []byte("fake-jpeg")) {
		t.Errorf("unexpected stored bytes %q", uploader.stored[0])
	}
	if len(uploader.removed) != 1 || uploader.removed[0] != req.ImageURL {
		t.Errorf("expected uploaded image to be removed, got %v", uploader.removed)
	}
	if repo.OpenSessions() != 0 {
		t.Errorf("expected all sessions released, %d open", repo.OpenSessions())
	}
}

func TestDetectFoods_NoMatchReturnsSentinel(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewFoodService(newTestService(uploader, &fakeClassifier{raw: `["ส้มตำ"]`}, newCatalog()))

	result, err := svc.DetectFoods(context.Background(), testImage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Recipes != NoRecipeFound {
		t.Errorf("expected sentinel, got %v", result.Recipes)
	}
	if len(result.RecipesAI) != 1 || result.RecipesAI[0].Name != "ส้มตำ" {
		t.Errorf("unexpected recipes_ai %+v", result.RecipesAI)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup, got %d removals", len(uploader.removed))
	}
}

func TestDetectFoods_MalformedOutput(t *testing.T) {
	uploader := &fakeUploader{}
	svc := NewFoodService(newTestService(uploader, &fakeClassifier{raw: "ไม่สามารถตรวจภาพที่ไม่ใช่อาหารได้"}, newCatalog()))

	_, err := svc.DetectFoods(context.Background(), testImage())
	if !errors.Is(err, common.ErrMalformedOutput) {
		t.Fatalf("expected malformed output, got %v", err)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup after parse failure, got %d removals", len(uploader.removed))
	}
}

func TestDetectFoods_AIFailureStillCleansUp(t *testing.T) {
	uploader := &fakeUploader{}
	classifier := &fakeClassifier{err: errors.New("connection reset by peer")}
	repo := newCatalog()
	svc := NewFoodService(newTestService(uploader, classifier, repo))

	_, err := svc.DetectFoods(context.Background(), testImage())
	if !errors.Is(err, common.ErrAIService) {
		t.Fatalf("expected AI service error, got %v", err)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected exactly one removal, got %d", len(uploader.removed))
	}
	if repo.Queries() != 0 {
		t.Errorf("expected no catalog queries after AI failure, got %d", repo.Queries())
	}
}

func TestDetectFoods_UploadFailure(t *testing.T) {
	uploader := &fakeUploader{storeErr: errors.New("quota exceeded")}
	classifier := &fakeClassifier{raw: `["ต้มยำ"]`}
	svc := NewFoodService(newTestService(uploader, classifier, newCatalog()))

	_, err := svc.DetectFoods(context.Background(), testImage())
	if !errors.Is(err, common.ErrStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if len(classifier.reqs) != 0 {
		t.Errorf("expected no AI call when upload fails")
	}
	if len(uploader.removed) != 0 {
		t.Errorf("expected nothing to remove, got %v", uploader.removed)
	}
}

func TestDetectFoods_CleanupFailureDoesNotShadowSuccess(t *testing.T) {
	uploader := &fakeUploader{removeErr: common.Wrap(common.ErrStorage, "failed to delete object", errors.New("403"))}
	svc := NewFoodService(newTestService(uploader, &fakeClassifier{raw: `["ต้มยำ"]`}, newCatalog()))

	result, err := svc.DetectFoods(context.Background(), testImage())
	if err != nil {
		t.Fatalf("cleanup failure must not replace the result: %v", err)
	}
	if recipes, ok := result.Recipes.([]catalog.Recipe); !ok || len(recipes) != 1 {
		t.Errorf("unexpected recipes %v", result.Recipes)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected removal attempt")
	}
}

func TestDetectFoods_DatabaseError(t *testing.T) {
	uploader := &fakeUploader{}
	repo := newCatalog()
	repo.Err = errors.New("connection refused")
	svc := NewFoodService(newTestService(uploader, &fakeClassifier{raw: `["ต้มยำ"]`}, repo))

	_, err := svc.DetectFoods(context.Background(), testImage())
	if !errors.Is(err, common.ErrDatabase) {
		t.Fatalf("expected database error, got %v", err)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup after database failure")
	}
}

func TestDetectFoods_CancelledContextStillCleansUp(t *testing.T) {
	uploader := &fakeUploader{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	svc := NewFoodService(newTestService(uploader, &fakeClassifier{err: context.Canceled}, newCatalog()))

	if _, err := svc.DetectFoods(ctx, testImage()); err == nil {
		t.Fatal("expected error")
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup for cancelled request")
	}
}

func TestDetectIngredients_AssemblesMatches(t *testing.T) {
	uploader := &fakeUploader{}
	classifier := &fakeClassifier{raw: `[["ไข่","ข้าว"],["egg","rice"]]`}
	svc := NewIngredientService(newTestService(uploader, classifier, newCatalog()))

	result, err := svc.DetectIngredients(context.Background(), testImage())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.IngredientsAI) != 2 || result.IngredientsAI[1].Index != 1 || result.IngredientsAI[1].NameEN != "rice" {
		t.Errorf("unexpected ingredients_ai %+v", result.IngredientsAI)
	}

	// ไข่ matches ไข่ and ไข่เค็ม, then ข้าว
	var ids []int
	for _, ing := range result.Ingredients {
		ids = append(ids, ing.ID)
	}
	want := []int{11, 12, 10}
	if len(ids) != len(want) {
		t.Fatalf("expected ids %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Fatalf("expected ids %v, got %v", want, ids)
		}
	}

	req := classifier.reqs[0]
	if req.MaxTokens != ingredientMaxTokens || req.SystemPrompt != ingredientSystemPrompt {
		t.Errorf("unexpected ingredient prompt settings %+v", req)
	}
	if !strings.Contains(req.Prompt, "unable to detect") {
		t.Errorf("ingredient prompt must carry the unable-to-detect rule")
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup")
	}
}

func TestDetectIngredients_UnableToDetectIsNoMatch(t *testing.T) {
	uploader := &fakeUploader{}
	classifier := &fakeClassifier{raw: `[["ไม่สามารถตรวจจับได้"],["unable to detect"]]`}
	svc := NewIngredientService(newTestService(uploader, classifier, newCatalog()))

	_, err := svc.DetectIngredients(context.Background(), testImage())
	if !errors.Is(err, common.ErrNoMatch) {
		t.Fatalf("expected no match error, got %v", err)
	}
	if status := common.AsCustomError(err).Status; status != 400 {
		t.Errorf("expected 400, got %d", status)
	}
	if len(uploader.removed) != 1 {
		t.Errorf("expected cleanup")
	}
}

func TestDetectIngredients_UnequalLengths(t *testing.T) {
	uploader := &fakeUploader{}
	repo := newCatalog()
	svc := NewIngredientService(newTestService(uploader, &fakeClassifier{raw: `[["ข้าว","ไข่"],["rice"]]`}, repo))

	_, err := svc.DetectIngredients(context.Background(), testImage())
	if !errors.Is(err, common.ErrMalformedOutput) {
		t.Fatalf("expected malformed output, got %v", err)
	}
	if repo.Queries() != 0 {
		t.Errorf("expected no catalog queries, got %d", repo.Queries())
	}
}

func TestRun_ValidatesImageBeforeUpload(t *testing.T) {
	uploader := &fakeUploader{}
	base := NewService(uploader, &fakeClassifier{raw: `["ต้มยำ"]`}, catalog.NewMatcher(newCatalog()), imagesvc.NewService(1<<20))
	svc := NewFoodService(base)

	_, err := svc.DetectFoods(context.Background(), testImage())
	if !errors.Is(err, common.ErrInvalidImage) {
		t.Fatalf("expected invalid image, got %v", err)
	}
	if len(uploader.stored) != 0 {
		t.Errorf("invalid image must not be uploaded")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	img := &Image{Data: buf.Bytes(), ContentType: "application/octet-stream"}
	if _, err := svc.DetectFoods(context.Background(), img); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if uploader.contentTypes[0] != "image/png" {
		t.Errorf("expected sniffed content type, got %s", uploader.contentTypes[0])
	}
}

// slowUploader 的 Remove 會等到 context 結束
type slowUploader struct {
	fakeUploader
	removeErr error
}

func (u *slowUploader) Remove(ctx context.Context, publicURL string) error {
	<-ctx.Done()
	u.removeErr = ctx.Err()
	return ctx.Err()
}

func TestDetectFoods_CleanupIsBounded(t *testing.T) {
	uploader := &slowUploader{}
	base := newTestService(&uploader.fakeUploader, &fakeClassifier{raw: `["ต้มยำ"]`}, newCatalog())
	base.uploader = uploader
	base.cleanupTimeout = 20 * time.Millisecond
	svc := NewFoodService(base)

	done := make(chan error, 1)
	go func() {
		_, err := svc.DetectFoods(context.Background(), testImage())
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("a slow cleanup must not fail the request: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cleanup was not bounded by a timeout")
	}
	if !errors.Is(uploader.removeErr, context.DeadlineExceeded) {
		t.Errorf("expected cleanup deadline, got %v", uploader.removeErr)
	}
}

func TestRun_LogsUploadFilename(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	prev := common.Logger
	common.Logger = zap.New(core)
	t.Cleanup(func() { common.Logger = prev })

	svc := NewFoodService(newTestService(&fakeUploader{}, &fakeClassifier{raw: `["ต้มยำ"]`}, newCatalog()))
	if _, err := svc.DetectFoods(common.WithRequestID(context.Background(), "req-1"), testImage()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	entries := logs.FilterField(zap.String("filename", "food.jpg")).All()
	if len(entries) != 1 {
		t.Fatalf("expected filename to be logged once, got %d", len(entries))
	}
	if entries[0].ContextMap()["request_id"] != "req-1" {
		t.Errorf("expected request id on the upload log, got %v", entries[0].ContextMap())
	}
}
