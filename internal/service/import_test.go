package service

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/foodgram/foodgram-server/internal/errors"
	"github.com/foodgram/foodgram-server/internal/validation"
)

func newTestImportService(t *testing.T) (*ImportService, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	return NewImportService(env.store, validation.New(), slog.New(slog.DiscardHandler)), env
}

func TestImportService_IngredientsCSV(t *testing.T) {
	svc, env := newTestImportService(t)
	ctx := context.Background()

	csvData := "name,measurement_unit\nflour,g\nsugar, g\n\"salt, sea\",pinch\n"
	result, err := svc.ImportIngredientsCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Read)
	assert.Equal(t, 3, result.Inserted)

	// Importing again is a no-op.
	result, err = svc.ImportIngredientsCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Read)
	assert.Zero(t, result.Inserted)

	list, err := env.store.ListIngredients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "salt, sea", list[1].Name)
}

func TestImportService_IngredientsCSVWithoutHeader(t *testing.T) {
	svc, _ := newTestImportService(t)

	result, err := svc.ImportIngredientsCSV(context.Background(), strings.NewReader("eggs,pcs\nmilk,ml\n"))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
}

func TestImportService_IngredientsCSVMalformed(t *testing.T) {
	svc, _ := newTestImportService(t)

	_, err := svc.ImportIngredientsCSV(context.Background(), strings.NewReader("eggs\n"))
	assert.Error(t, err)

	_, err = svc.ImportIngredientsCSV(context.Background(), strings.NewReader("eggs,\n"))
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}

func TestImportService_IngredientsJSON(t *testing.T) {
	svc, _ := newTestImportService(t)

	result, err := svc.ImportIngredientsJSON(context.Background(),
		strings.NewReader(`[{"name":"flour","measurement_unit":"g"},{"name":"milk","measurement_unit":"ml"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)
}

func TestImportService_TagsJSON(t *testing.T) {
	svc, env := newTestImportService(t)
	ctx := context.Background()

	result, err := svc.ImportTagsJSON(ctx, strings.NewReader(`[{"name":"Breakfast","slug":"breakfast"},{"name":"Late Dinner"}]`))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Inserted)

	tags, err := env.store.ListTags(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "late-dinner", tags[1].Slug)

	_, err = svc.ImportTagsJSON(ctx, strings.NewReader(`[{"name":"Бранч"}]`))
	assert.ErrorIs(t, err, domainerrors.ErrValidation, "a name without latin letters cannot produce a slug")
}
