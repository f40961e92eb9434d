// Package ingest implements the external-recipe import pipeline: fetch a
// candidate from the source, translate its text fields, decompose the
// ingredient list against the catalog and persist everything atomically.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"nutrichef/internal/catalog"
	"nutrichef/internal/platform/mealdb"
	"nutrichef/internal/recipe"
)

// ErrNoCandidate is returned when the external source has no recipe to offer.
var ErrNoCandidate = errors.New("no candidate recipe returned by the source")

// ValidationError aborts a single import cycle because the source data cannot
// be normalized, e.g. a missing recipe name or an ingredient line that
// reduces to nothing.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// MealSource fetches candidate recipes from the external catalog.
type MealSource interface {
	Random(ctx context.Context) (*mealdb.Meal, error)
}

// Translator translates a text fragment, degrading to the original on failure.
type Translator interface {
	Translate(ctx context.Context, text string) string
}

// Resolver resolves catalog names to ids, creating rows on first sight.
type Resolver interface {
	Resolve(ctx context.Context, kind catalog.Kind, name string) (int64, error)
	ResolveCategory(ctx context.Context, label string) (int64, error)
}

// Writer persists a normalized recipe and its child rows atomically.
type Writer interface {
	Write(ctx context.Context, rec *recipe.Recipe, lines []recipe.IngredientLine, utensilIDs []int64, steps []string) (int64, error)
}

// ThumbSaver stores a local copy of a remote thumbnail and returns its path.
type ThumbSaver interface {
	Save(ctx context.Context, url string) (string, error)
}

// Defaults fills the recipe fields the external source does not provide.
type Defaults struct {
	Servings        int
	Cost            float64
	DifficultyID    int64
	PrepTimeMinutes int
}

// Importer runs one import cycle end to end.
type Importer struct {
	source     MealSource
	translator Translator
	resolver   Resolver
	writer     Writer
	thumbs     ThumbSaver // optional
	defaults   Defaults
	logger     *zap.Logger
}

// NewImporter creates an Importer. thumbs may be nil to keep remote image
// URLs as-is.
func NewImporter(source MealSource, translator Translator, resolver Resolver, writer Writer, thumbs ThumbSaver, defaults Defaults, logger *zap.Logger) *Importer {
	return &Importer{
		source:     source,
		translator: translator,
		resolver:   resolver,
		writer:     writer,
		thumbs:     thumbs,
		defaults:   defaults,
		logger:     logger,
	}
}

// ImportOne fetches, normalizes and persists a single external recipe,
// returning the assigned recipe id. Translation failures degrade to the
// original text; everything else aborts this cycle only.
func (imp *Importer) ImportOne(ctx context.Context) (int64, error) {
	meal, err := imp.source.Random(ctx)
	if err != nil {
		if errors.Is(err, mealdb.ErrNoMeal) {
			return 0, ErrNoCandidate
		}
		return 0, fmt.Errorf("failed to fetch candidate: %w", err)
	}
	if strings.TrimSpace(meal.Name) == "" {
		return 0, &ValidationError{Reason: "candidate recipe has no name"}
	}

	name := imp.translator.Translate(ctx, meal.Name)
	description := imp.translator.Translate(ctx, meal.Instructions)
	if description == "" {
		description = "Sem descrição"
	}
	categoryLabel := meal.Category
	if categoryLabel == "" {
		categoryLabel = "Sem categoria"
	} else {
		categoryLabel = imp.translator.Translate(ctx, categoryLabel)
	}

	categoryID, err := imp.resolver.ResolveCategory(ctx, categoryLabel)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve category %q: %w", categoryLabel, err)
	}

	lines := make([]recipe.IngredientLine, 0, len(meal.Ingredients))
	for _, ing := range meal.Ingredients {
		extracted := ExtractName(ing.Name)
		if extracted == "" {
			return 0, &ValidationError{Reason: fmt.Sprintf("ingredient line %q has no name", ing.Name)}
		}
		ingredientID, err := imp.resolver.Resolve(ctx, catalog.KindIngredient, extracted)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve ingredient %q: %w", extracted, err)
		}
		quantity, unit := ParseMeasure(ing.Measure)
		lines = append(lines, recipe.IngredientLine{
			IngredientID: ingredientID,
			Quantity:     quantity,
			Unit:         unit,
		})
	}

	image := meal.Thumb
	if image == "" {
		image = "default.jpg"
	} else if imp.thumbs != nil {
		local, err := imp.thumbs.Save(ctx, meal.Thumb)
		if err != nil {
			imp.logger.Warn("failed to save thumbnail, keeping remote url",
				zap.String("url", meal.Thumb), zap.Error(err))
		} else {
			image = local
		}
	}

	rec := &recipe.Recipe{
		Name:            name,
		Description:     description,
		Servings:        imp.defaults.Servings,
		ApproximateCost: imp.defaults.Cost,
		DifficultyID:    imp.defaults.DifficultyID,
		CategoryID:      categoryID,
		PrepTimeMinutes: imp.defaults.PrepTimeMinutes,
		Image:           image,
	}

	// The source only offers an instructions blob, never discrete steps or
	// utensils, so those child tables stay empty for imported recipes.
	id, err := imp.writer.Write(ctx, rec, lines, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to persist recipe %q: %w", name, err)
	}

	imp.logger.Info("recipe imported",
		zap.Int64("id", id),
		zap.String("nome", name),
		zap.String("origem", meal.Area),
		zap.Int("ingredientes", len(lines)))
	return id, nil
}
