package recipe

// Recipe is the normalized recipe row produced by one import cycle. The
// Writer owns it until it is persisted; afterwards the store owns it under
// the assigned id.
type Recipe struct {
	ID               int64   `json:"id" db:"id_receitas"`
	Name             string  `json:"nome" db:"nome"`
	Description      string  `json:"descricao" db:"descricao"`
	Servings         int     `json:"porcoes" db:"porcoes"`
	ApproximateCost  float64 `json:"custo_aproximado" db:"custo_aproximado"`
	DifficultyID     int64   `json:"id_dificuldade" db:"id_dificuldade"`
	CategoryID       int64   `json:"id_categoria" db:"id_categoria"`
	BaseIngredientID *int64  `json:"id_ingrediente_base,omitempty" db:"id_ingrediente_base"`
	PrepTimeMinutes  int     `json:"tempo_preparo" db:"tempo_preparo"`
	Image            string  `json:"imagem" db:"imagem"`
}

// IngredientLine links a recipe to one catalog ingredient. Quantity and unit
// are null when the source measure did not carry them; an absent unit is
// never stored as an empty placeholder.
type IngredientLine struct {
	IngredientID int64
	Quantity     *float64
	Unit         *string
}

// Summary is the listing shape of a recipe.
type Summary struct {
	ID       int64  `json:"id_receitas" db:"id_receitas"`
	Name     string `json:"nome" db:"nome"`
	PrepTime int    `json:"tempo_preparo" db:"tempo_preparo"`
	Image    string `json:"imagem" db:"imagem"`
}

// SearchResult is one hit of a free-text recipe search.
type SearchResult struct {
	ID          int64  `json:"id_receitas" db:"id_receitas"`
	Name        string `json:"nome" db:"nome"`
	Description string `json:"descricao" db:"descricao"`
}

// Detail is the full recipe view: the recipe row plus its ingredient lines
// formatted for display, its utensils and its ordered steps.
type Detail struct {
	Recipe
	Author      string   `json:"autor"`
	Ingredients []string `json:"ingredientes"`
	Utensils    []string `json:"utensilios"`
	Steps       []string `json:"passos"`
}

// Category is a catalog category row.
type Category struct {
	ID   int64  `json:"id_categorias" db:"id_categorias"`
	Name string `json:"nome" db:"nome"`
}
