package recipe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// defaultAuthor is credited on recipes that carry no author of their own,
// which includes everything the import pipeline creates.
const defaultAuthor = "NutriChef"

// Connect opens the relational store.
func Connect(dataSourceName string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", dataSourceName)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Store exposes the read side of the recipe catalog.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new Store.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the catalog tables when they do not exist yet and
// seeds the difficulty levels.
func (s *Store) EnsureSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS categorias (
		id_categorias SERIAL PRIMARY KEY,
		nome TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS ingredientes (
		id_ingrediente SERIAL PRIMARY KEY,
		nome TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS utensilios (
		id_utensilio SERIAL PRIMARY KEY,
		nome TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS dificuldade (
		id_dificuldade SERIAL PRIMARY KEY,
		nome TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS receitas (
		id_receitas SERIAL PRIMARY KEY,
		nome TEXT NOT NULL,
		descricao TEXT,
		porcoes INTEGER,
		custo_aproximado NUMERIC,
		id_dificuldade INTEGER REFERENCES dificuldade (id_dificuldade),
		id_categoria INTEGER REFERENCES categorias (id_categorias),
		id_ingrediente_base INTEGER REFERENCES ingredientes (id_ingrediente),
		tempo_preparo INTEGER,
		imagem TEXT
	);
	CREATE TABLE IF NOT EXISTS receita_ingredientes (
		id_receitas INTEGER NOT NULL REFERENCES receitas (id_receitas),
		id_ingrediente INTEGER NOT NULL REFERENCES ingredientes (id_ingrediente),
		quantidade NUMERIC,
		unidade TEXT,
		PRIMARY KEY (id_receitas, id_ingrediente)
	);
	CREATE TABLE IF NOT EXISTS receita_utensilios (
		id_receitas INTEGER NOT NULL REFERENCES receitas (id_receitas),
		id_utensilio INTEGER NOT NULL REFERENCES utensilios (id_utensilio),
		PRIMARY KEY (id_receitas, id_utensilio)
	);
	CREATE TABLE IF NOT EXISTS receita_passos (
		id_receitas INTEGER NOT NULL REFERENCES receitas (id_receitas),
		descricao TEXT NOT NULL,
		ordem INTEGER NOT NULL,
		PRIMARY KEY (id_receitas, ordem)
	);
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	seed := `
	INSERT INTO dificuldade (id_dificuldade, nome)
	VALUES (1, 'Fácil'), (2, 'Médio'), (3, 'Difícil')
	ON CONFLICT (id_dificuldade) DO NOTHING;
	`
	if _, err := s.db.ExecContext(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed difficulty levels: %w", err)
	}
	return nil
}

// ListRecipes returns the summary of every recipe, newest first.
func (s *Store) ListRecipes(ctx context.Context) ([]Summary, error) {
	var recipes []Summary
	err := s.db.SelectContext(ctx, &recipes,
		"SELECT id_receitas, nome, tempo_preparo, imagem FROM receitas ORDER BY id_receitas DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return recipes, nil
}

// SearchRecipes returns recipes whose name or description matches the term,
// case-insensitively.
func (s *Store) SearchRecipes(ctx context.Context, term string) ([]SearchResult, error) {
	pattern := "%" + strings.ToLower(term) + "%"
	var results []SearchResult
	err := s.db.SelectContext(ctx, &results,
		`SELECT id_receitas, nome, descricao FROM receitas
		 WHERE LOWER(nome) LIKE $1 OR LOWER(descricao) LIKE $1
		 ORDER BY id_receitas DESC`, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return results, nil
}

// RecipesByCategory returns the summaries of all recipes in the named category.
func (s *Store) RecipesByCategory(ctx context.Context, name string) ([]Summary, error) {
	var recipes []Summary
	err := s.db.SelectContext(ctx, &recipes,
		`SELECT r.id_receitas, r.nome, r.tempo_preparo, r.imagem
		 FROM receitas r
		 INNER JOIN categorias c ON r.id_categoria = c.id_categorias
		 WHERE LOWER(c.nome) = LOWER($1)
		 ORDER BY r.id_receitas DESC`, name)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recipes by category: %w", err)
	}
	return recipes, nil
}

// Categories returns every catalog category.
func (s *Store) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	err := s.db.SelectContext(ctx, &categories,
		"SELECT id_categorias, nome FROM categorias ORDER BY nome")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// RecipeByID returns the full recipe view, or nil when the recipe does not
// exist.
func (s *Store) RecipeByID(ctx context.Context, id int64) (*Detail, error) {
	var detail Detail
	err := s.db.GetContext(ctx, &detail.Recipe,
		`SELECT id_receitas, nome, descricao, porcoes, custo_aproximado,
		        id_dificuldade, id_categoria, id_ingrediente_base, tempo_preparo, imagem
		 FROM receitas WHERE id_receitas = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get recipe by id: %w", err)
	}
	detail.Author = defaultAuthor

	type lineRow struct {
		Name     string   `db:"nome"`
		Quantity *float64 `db:"quantidade"`
		Unit     *string  `db:"unidade"`
	}
	var lines []lineRow
	err = s.db.SelectContext(ctx, &lines,
		`SELECT i.nome, ri.quantidade, ri.unidade
		 FROM receita_ingredientes ri
		 JOIN ingredientes i ON i.id_ingrediente = ri.id_ingrediente
		 WHERE ri.id_receitas = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe ingredients: %w", err)
	}
	detail.Ingredients = make([]string, 0, len(lines))
	for _, line := range lines {
		detail.Ingredients = append(detail.Ingredients, formatLine(line.Quantity, line.Unit, line.Name))
	}

	err = s.db.SelectContext(ctx, &detail.Utensils,
		`SELECT u.nome
		 FROM receita_utensilios ru
		 JOIN utensilios u ON u.id_utensilio = ru.id_utensilio
		 WHERE ru.id_receitas = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe utensils: %w", err)
	}

	err = s.db.SelectContext(ctx, &detail.Steps,
		"SELECT descricao FROM receita_passos WHERE id_receitas = $1 ORDER BY ordem", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get recipe steps: %w", err)
	}

	return &detail, nil
}

// formatLine renders an ingredient line for display, skipping the parts the
// source never provided.
func formatLine(quantity *float64, unit *string, name string) string {
	parts := make([]string, 0, 3)
	if quantity != nil {
		parts = append(parts, strconv.FormatFloat(*quantity, 'f', -1, 64))
	}
	if unit != nil && *unit != "" {
		parts = append(parts, *unit)
	}
	parts = append(parts, name)
	return strings.Join(parts, " ")
}
