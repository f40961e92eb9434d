package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nutrichef/internal/ingest"
	"nutrichef/internal/recipe"
)

// Importer runs a single external-recipe import cycle.
type Importer interface {
	ImportOne(ctx context.Context) (int64, error)
}

// BatchRunner runs repeated import cycles, tallying per-cycle failures.
type BatchRunner interface {
	Run(ctx context.Context, count int) ingest.Result
}

// RecipeStore defines the read side of the recipe catalog.
type RecipeStore interface {
	ListRecipes(ctx context.Context) ([]recipe.Summary, error)
	SearchRecipes(ctx context.Context, term string) ([]recipe.SearchResult, error)
	RecipesByCategory(ctx context.Context, name string) ([]recipe.Summary, error)
	RecipeByID(ctx context.Context, id int64) (*recipe.Detail, error)
	Categories(ctx context.Context) ([]recipe.Category, error)
}

// Handler handles HTTP requests.
type Handler struct {
	Importer         Importer
	Batch            BatchRunner
	RecipeStore      RecipeStore
	DefaultBatchSize int
	Logger           *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(importer Importer, batch BatchRunner, store RecipeStore, defaultBatchSize int, logger *zap.Logger) *Handler {
	return &Handler{
		Importer:         importer,
		Batch:            batch,
		RecipeStore:      store,
		DefaultBatchSize: defaultBatchSize,
		Logger:           logger,
	}
}

// ImportBatch starts a fixed-size batch import. It always answers 200 with a
// success/failure tally; individual cycle errors are logged, never surfaced.
func (h *Handler) ImportBatch(c *gin.Context) {
	total := h.DefaultBatchSize
	if raw := c.Query("total"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "total inválido"})
			return
		}
		total = parsed
	}

	result := h.Batch.Run(c.Request.Context(), total)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"totalImportadas": len(result.Imported),
		"importadas":      result.Imported,
		"falhas":          result.Failed,
	})
}

// ImportOne imports a single random recipe from the external source.
func (h *Handler) ImportOne(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	id, err := h.Importer.ImportOne(ctx)
	if err != nil {
		if errors.Is(err, ingest.ErrNoCandidate) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Receita não encontrada."})
			return
		}
		h.Logger.Error("import failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao importar receita."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Receita importada com sucesso!",
		"id":      id,
	})
}

// GetRecipes lists all recipes.
func (h *Handler) GetRecipes(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.ListRecipes(ctx)
	if err != nil {
		h.Logger.Error("failed to list recipes", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar receitas"})
		return
	}
	c.JSON(http.StatusOK, recipes)
}

// Search looks recipes up by a free-text term.
func (h *Handler) Search(c *gin.Context) {
	term := c.Query("q")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.SearchRecipes(ctx, term)
	if err != nil {
		h.Logger.Error("failed to search recipes", zap.String("termo", term), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"erro": "Erro ao buscar receitas"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"receitas": recipes, "termo": term})
}

// GetRecipe returns one full recipe by id.
func (h *Handler) GetRecipe(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	detail, err := h.RecipeStore.RecipeByID(ctx, id)
	if err != nil {
		h.Logger.Error("failed to load recipe", zap.Int64("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Erro ao carregar receita"})
		return
	}
	if detail == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Receita não encontrada"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetByCategory lists the recipes of one category.
func (h *Handler) GetByCategory(c *gin.Context) {
	name := c.Param("nome")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	recipes, err := h.RecipeStore.RecipesByCategory(ctx, name)
	if err != nil {
		h.Logger.Error("failed to list recipes by category", zap.String("categoria", name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar receitas por categoria"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categoria": name, "receitas": recipes})
}

// GetCategories lists all catalog categories.
func (h *Handler) GetCategories(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	categories, err := h.RecipeStore.Categories(ctx)
	if err != nil {
		h.Logger.Error("failed to list categories", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao buscar categorias"})
		return
	}
	c.JSON(http.StatusOK, categories)
}
