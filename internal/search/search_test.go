package search

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/foodgram/foodgram-server/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestIndex creates a temporary search index for testing.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	return index
}

func testDoc(id int64, name, text string, ingredients, tags []string) *RecipeDocument {
	return &RecipeDocument{
		ID:          DocumentID(id),
		Name:        name,
		Text:        text,
		Ingredients: ingredients,
		Tags:        tags,
		AuthorID:    1,
	}
}

func TestNewSearchIndex(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestNewSearchIndex_ReopensExisting(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexDocument(testDoc(1, "Pancakes", "", nil, nil)))
	require.NoError(t, index.Close())

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestNewSearchIndex_RebuildsOnVersionMismatch(t *testing.T) {
	dir := t.TempDir()

	index, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	require.NoError(t, index.IndexDocument(testDoc(1, "Pancakes", "", nil, nil)))
	require.NoError(t, index.Close())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "search.version"), []byte("0"), 0o600))

	reopened, err := NewSearchIndex(Options{DataPath: dir})
	require.NoError(t, err)
	defer reopened.Close()

	count, err := reopened.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	version, err := os.ReadFile(filepath.Join(dir, "search.version"))
	require.NoError(t, err)
	assert.Equal(t, mappingVersion, string(version))
}

func TestSearchIndex_IndexAndDelete(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocuments([]*RecipeDocument{
		testDoc(1, "Pancakes", "Whisk and fry.", []string{"flour", "milk"}, []string{"Breakfast"}),
		testDoc(2, "Tomato soup", "Simmer.", []string{"tomato"}, []string{"Lunch"}),
	}))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	require.NoError(t, index.DeleteDocument(1))
	require.NoError(t, index.DeleteDocument(42))

	count, err = index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)
}

func TestSearchIndex_Search(t *testing.T) {
	index := setupTestIndex(t)
	ctx := context.Background()

	require.NoError(t, index.IndexDocuments([]*RecipeDocument{
		testDoc(1, "Pancakes", "Whisk and fry.", []string{"flour", "milk"}, []string{"Breakfast"}),
		testDoc(2, "Tomato soup", "Simmer the tomatoes.", []string{"tomato", "salt"}, []string{"Lunch"}),
		testDoc(3, "Bread", "Knead the dough.", []string{"flour", "yeast"}, []string{"Dinner"}),
	}))

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{"by name", "soup", []int64{2}},
		{"case insensitive", "PANCAKES", []int64{1}},
		{"by ingredient", "yeast", []int64{3}},
		{"by tag", "breakfast", []int64{1}},
		{"by text", "knead", []int64{3}},
		{"name prefix", "panc", []int64{1}},
		{"no match", "chocolate", []int64{}},
		{"blank", "   ", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := index.Search(ctx, tt.query, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchIndex_SearchSharedIngredient(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocuments([]*RecipeDocument{
		testDoc(1, "Pancakes", "", []string{"flour"}, nil),
		testDoc(2, "Tomato soup", "", []string{"tomato"}, nil),
		testDoc(3, "Bread", "", []string{"flour"}, nil),
	}))

	ids, err := index.Search(context.Background(), "flour", 10)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{1, 3}, ids)
}

func TestSearchIndex_SearchReturnsEveryMatch(t *testing.T) {
	index := setupTestIndex(t)

	prev := hitBatchSize
	hitBatchSize = 2
	t.Cleanup(func() { hitBatchSize = prev })

	docs := make([]*RecipeDocument, 0, 7)
	want := make([]int64, 0, 7)
	for id := int64(1); id <= 7; id++ {
		docs = append(docs, testDoc(id, "Soup", "", []string{"water"}, nil))
		want = append(want, id)
	}
	require.NoError(t, index.IndexDocuments(docs))

	ids, err := index.Search(context.Background(), "soup", 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, want, ids)

	limited, err := index.Search(context.Background(), "soup", 3)
	require.NoError(t, err)
	assert.Len(t, limited, 3)
}

func TestSearchIndex_NameOutranksIngredient(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocuments([]*RecipeDocument{
		testDoc(1, "Garlic bread", "", []string{"bread", "garlic"}, nil),
		testDoc(2, "Soup", "", []string{"garlic"}, nil),
	}))

	ids, err := index.Search(context.Background(), "garlic", 10)
	require.NoError(t, err)
	require.Len(t, ids, 2)
	assert.Equal(t, int64(1), ids[0])
}

func TestSearchIndex_Rebuild(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.IndexDocument(testDoc(1, "Pancakes", "", nil, nil)))
	require.NoError(t, index.Rebuild())

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)

	require.NoError(t, index.IndexDocument(testDoc(2, "Soup", "", nil, nil)))
	ids, err := index.Search(context.Background(), "soup", 0)
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, ids)
}

func TestNewRecipeDocument(t *testing.T) {
	r := &domain.Recipe{ID: 7, AuthorID: 3, Name: "Pancakes", Text: "Fry."}
	tags := []domain.Tag{{ID: 1, Name: "Breakfast", Slug: "breakfast"}}
	ingredients := []domain.IngredientAmount{
		{Ingredient: domain.Ingredient{ID: 1, Name: "flour", MeasurementUnit: "g"}, Amount: 200},
	}

	doc := NewRecipeDocument(r, tags, ingredients)

	assert.Equal(t, "7", doc.ID)
	assert.Equal(t, []string{"Breakfast"}, doc.Tags)
	assert.Equal(t, []string{"flour"}, doc.Ingredients)

	m := doc.ToMap()
	assert.Equal(t, "Pancakes", m["name"])
	assert.Equal(t, float64(3), m["author_id"])
}
