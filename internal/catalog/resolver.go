// Package catalog resolves names against the reusable reference tables
// (ingredients, categories, utensils), creating rows on first sight.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Kind selects which catalog table a name resolves against.
type Kind string

const (
	KindIngredient Kind = "ingrediente"
	KindCategory   Kind = "categoria"
	KindUtensil    Kind = "utensilio"
)

type table struct {
	name     string
	idColumn string
}

var tables = map[Kind]table{
	KindIngredient: {name: "ingredientes", idColumn: "id_ingrediente"},
	KindCategory:   {name: "categorias", idColumn: "id_categorias"},
	KindUtensil:    {name: "utensilios", idColumn: "id_utensilio"},
}

// Cache memoizes resolved ids for one batch. It is explicit scoped state: the
// caller decides how long resolved names stay pinned.
type Cache map[string]int64

// NewCache creates an empty resolver cache.
func NewCache() Cache {
	return make(Cache)
}

// Resolver looks catalog names up by case-insensitive exact match and creates
// missing rows, preserving the casing the name arrived with.
//
// The lookup-then-insert sequence is not atomic: two resolvers racing on the
// same unseen name can create duplicate rows. Batches run sequentially, so a
// single process never hits the race; a parallel caller must serialize
// resolution per normalized name.
type Resolver struct {
	db     *sqlx.DB
	cache  Cache
	logger *zap.Logger

	// CategoryKeywords is an optional fast path for ResolveCategory: a
	// case-insensitive substring match against the external label that maps
	// straight to a category id, skipping the lookup-or-create path.
	CategoryKeywords map[string]int64
}

// NewResolver creates a Resolver backed by the given store and cache.
func NewResolver(db *sqlx.DB, cache Cache, logger *zap.Logger) *Resolver {
	return &Resolver{db: db, cache: cache, logger: logger}
}

// Resolve returns the id of the catalog row for kind whose name matches
// case-insensitively, inserting a new row when none exists.
func (r *Resolver) Resolve(ctx context.Context, kind Kind, name string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("cannot resolve %s with an empty name", kind)
	}
	t, ok := tables[kind]
	if !ok {
		return 0, fmt.Errorf("unknown catalog kind %q", kind)
	}

	key := string(kind) + "\x00" + strings.ToLower(name)
	if id, ok := r.cache[key]; ok {
		return id, nil
	}

	var id int64
	err := r.db.GetContext(ctx, &id,
		fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(nome) = LOWER($1)", t.idColumn, t.name), name)
	switch {
	case err == nil:
	case errors.Is(err, sql.ErrNoRows):
		err = r.db.QueryRowContext(ctx,
			fmt.Sprintf("INSERT INTO %s (nome) VALUES ($1) RETURNING %s", t.name, t.idColumn),
			name).Scan(&id)
		if err != nil {
			return 0, fmt.Errorf("failed to create %s %q: %w", kind, name, err)
		}
		r.logger.Debug("catalog row created", zap.String("kind", string(kind)), zap.String("nome", name), zap.Int64("id", id))
	default:
		return 0, fmt.Errorf("failed to look up %s %q: %w", kind, name, err)
	}

	r.cache[key] = id
	return id, nil
}

// ResolveCategory maps an external category label to a category id. The
// keyword table is tried first; when nothing matches, the label falls back to
// the exact-match-or-create path of Resolve.
func (r *Resolver) ResolveCategory(ctx context.Context, label string) (int64, error) {
	lower := strings.ToLower(label)
	keywords := make([]string, 0, len(r.CategoryKeywords))
	for keyword := range r.CategoryKeywords {
		keywords = append(keywords, keyword)
	}
	sort.Strings(keywords)
	for _, keyword := range keywords {
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return r.CategoryKeywords[keyword], nil
		}
	}
	return r.Resolve(ctx, KindCategory, label)
}
