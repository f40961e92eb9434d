package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"nutrichef/internal/catalog"
	"nutrichef/internal/platform/mealdb"
	"nutrichef/internal/recipe"
)

// mockSource replays a fixed sequence of meals and errors.
type mockSource struct {
	meals []*mealdb.Meal
	errs  []error
	calls int
}

func (m *mockSource) Random(ctx context.Context) (*mealdb.Meal, error) {
	i := m.calls
	m.calls++
	if i < len(m.errs) && m.errs[i] != nil {
		return nil, m.errs[i]
	}
	if i < len(m.meals) {
		return m.meals[i], nil
	}
	return nil, mealdb.ErrNoMeal
}

// identityTranslator returns its input unchanged.
type identityTranslator struct{}

func (identityTranslator) Translate(ctx context.Context, text string) string {
	return text
}

// mockResolver assigns ids by order of first sight, case-insensitively.
type mockResolver struct {
	ids      map[string]int64
	next     int64
	resolved []string
}

func newMockResolver() *mockResolver {
	return &mockResolver{ids: make(map[string]int64), next: 1}
}

func (m *mockResolver) Resolve(ctx context.Context, kind catalog.Kind, name string) (int64, error) {
	key := string(kind) + "/" + strings.ToLower(name)
	if id, ok := m.ids[key]; ok {
		return id, nil
	}
	id := m.next
	m.next++
	m.ids[key] = id
	m.resolved = append(m.resolved, key)
	return id, nil
}

func (m *mockResolver) ResolveCategory(ctx context.Context, label string) (int64, error) {
	return m.Resolve(ctx, catalog.KindCategory, label)
}

// mockWriter records writes and assigns sequential recipe ids.
type mockWriter struct {
	nextID  int64
	err     error
	recipes []*recipe.Recipe
	lines   [][]recipe.IngredientLine
	steps   [][]string
}

func (m *mockWriter) Write(ctx context.Context, rec *recipe.Recipe, lines []recipe.IngredientLine, utensilIDs []int64, steps []string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.nextID++
	m.recipes = append(m.recipes, rec)
	m.lines = append(m.lines, lines)
	m.steps = append(m.steps, steps)
	return m.nextID, nil
}

func testMeal(name string) *mealdb.Meal {
	return &mealdb.Meal{
		Name:         name,
		Category:     "Chicken",
		Area:         "Indian",
		Instructions: "Cook everything together until done.",
		Ingredients: []mealdb.Ingredient{
			{Name: "Rice", Measure: "1 cup"},
			{Name: "Chicken Breast", Measure: "2"},
		},
	}
}

func newTestImporter(source MealSource, writer Writer, resolver Resolver) *Importer {
	return NewImporter(source, identityTranslator{}, resolver, writer, nil, Defaults{
		Servings:        1,
		DifficultyID:    1,
		PrepTimeMinutes: 30,
	}, zap.NewNop())
}

func TestImportOneEndToEnd(t *testing.T) {
	meal := &mealdb.Meal{
		Name:         "Chicken Curry",
		Category:     "Chicken",
		Instructions: "Simmer the chicken with the rice and the spices.",
		Ingredients: []mealdb.Ingredient{
			{Name: "1 cup rice"},
			{Name: "2 chicken breast"},
		},
	}
	source := &mockSource{meals: []*mealdb.Meal{meal}}
	resolver := newMockResolver()
	writer := &mockWriter{}

	id, err := newTestImporter(source, writer, resolver).ImportOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	// Quantity/unit tokens stripped before catalog resolution.
	assert.Contains(t, resolver.resolved, "ingrediente/rice")
	assert.Contains(t, resolver.resolved, "ingrediente/chicken breast")
	assert.Contains(t, resolver.resolved, "categoria/chicken")

	require.Len(t, writer.recipes, 1)
	rec := writer.recipes[0]
	assert.Equal(t, "Chicken Curry", rec.Name)
	assert.Equal(t, 1, rec.Servings)
	assert.Equal(t, int64(1), rec.DifficultyID)
	assert.Equal(t, 30, rec.PrepTimeMinutes)
	assert.Len(t, writer.lines[0], 2)

	// Only an instructions blob, no discrete steps.
	assert.Empty(t, writer.steps[0])
}

func TestImportOneNoCandidate(t *testing.T) {
	source := &mockSource{errs: []error{mealdb.ErrNoMeal}}
	_, err := newTestImporter(source, &mockWriter{}, newMockResolver()).ImportOne(context.Background())
	assert.ErrorIs(t, err, ErrNoCandidate)
}

func TestImportOneMissingNameIsValidationError(t *testing.T) {
	source := &mockSource{meals: []*mealdb.Meal{testMeal("  ")}}
	_, err := newTestImporter(source, &mockWriter{}, newMockResolver()).ImportOne(context.Background())

	var validationErr *ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestImportOneEmptyIngredientNameIsValidationError(t *testing.T) {
	meal := testMeal("Bolo de Cenoura")
	meal.Ingredients = append(meal.Ingredients, mealdb.Ingredient{Name: "200 g", Measure: ""})
	source := &mockSource{meals: []*mealdb.Meal{meal}}
	writer := &mockWriter{}

	_, err := newTestImporter(source, writer, newMockResolver()).ImportOne(context.Background())

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	// Nothing reached the writer: the failed cycle retains no partial state.
	assert.Empty(t, writer.recipes)
}

func TestImportOneWriterFailurePropagates(t *testing.T) {
	source := &mockSource{meals: []*mealdb.Meal{testMeal("Frango Assado")}}
	writer := &mockWriter{err: errors.New("insert failed")}

	_, err := newTestImporter(source, writer, newMockResolver()).ImportOne(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestBatchRunTalliesFailuresWithoutAborting(t *testing.T) {
	// Attempts 2 and 5 fail, the other three succeed.
	fetchErr := errors.New("source unreachable")
	source := &mockSource{
		meals: []*mealdb.Meal{
			testMeal("Receita 1"), nil, testMeal("Receita 3"), testMeal("Receita 4"), nil,
		},
		errs: []error{nil, fetchErr, nil, nil, fetchErr},
	}
	importer := newTestImporter(source, &mockWriter{}, newMockResolver())

	result := NewBatch(importer, zap.NewNop()).Run(context.Background(), 5)

	assert.Len(t, result.Imported, 3)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, 5, source.calls)
}

func TestBatchRunAlwaysMakesCountAttempts(t *testing.T) {
	source := &mockSource{errs: []error{
		fmt.Errorf("down"), fmt.Errorf("down"), fmt.Errorf("down"),
	}}
	importer := newTestImporter(source, &mockWriter{}, newMockResolver())

	result := NewBatch(importer, zap.NewNop()).Run(context.Background(), 3)

	assert.Empty(t, result.Imported)
	assert.Equal(t, 3, result.Failed)
	assert.Equal(t, 3, source.calls)
}
