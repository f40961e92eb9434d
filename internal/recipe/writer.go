package recipe

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Writer persists one normalized recipe and all of its child rows in a single
// transaction: the recipe is either fully visible afterwards or not at all.
type Writer struct {
	db *sqlx.DB
}

// NewWriter creates a new Writer.
func NewWriter(db *sqlx.DB) *Writer {
	return &Writer{db: db}
}

// Write inserts the recipe row, its ingredient links, its utensil links and
// its steps. Steps are numbered by their position in the input, starting at 1.
// Any insert failure rolls the whole transaction back and no rows persist.
// Duplicate ingredient links for the same ingredient are suppressed.
func (w *Writer) Write(ctx context.Context, rec *Recipe, lines []IngredientLine, utensilIDs []int64, steps []string) (int64, error) {
	tx, err := w.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	err = tx.QueryRowContext(ctx,
		`INSERT INTO receitas
		 (nome, descricao, porcoes, custo_aproximado, id_dificuldade, id_categoria, id_ingrediente_base, tempo_preparo, imagem)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id_receitas`,
		rec.Name, rec.Description, rec.Servings, rec.ApproximateCost,
		rec.DifficultyID, rec.CategoryID, rec.BaseIngredientID,
		rec.PrepTimeMinutes, rec.Image,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to insert recipe: %w", err)
	}

	seen := make(map[int64]bool, len(lines))
	for _, line := range lines {
		if seen[line.IngredientID] {
			continue
		}
		seen[line.IngredientID] = true
		_, err := tx.ExecContext(ctx,
			`INSERT INTO receita_ingredientes (id_receitas, id_ingrediente, quantidade, unidade)
			 VALUES ($1, $2, $3, $4)`,
			id, line.IngredientID, line.Quantity, line.Unit)
		if err != nil {
			return 0, fmt.Errorf("failed to insert ingredient link: %w", err)
		}
	}

	for _, utensilID := range utensilIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO receita_utensilios (id_receitas, id_utensilio) VALUES ($1, $2)",
			id, utensilID)
		if err != nil {
			return 0, fmt.Errorf("failed to insert utensil link: %w", err)
		}
	}

	for i, description := range steps {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO receita_passos (id_receitas, descricao, ordem) VALUES ($1, $2, $3)",
			id, description, i+1)
		if err != nil {
			return 0, fmt.Errorf("failed to insert step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recipe: %w", err)
	}
	return id, nil
}
