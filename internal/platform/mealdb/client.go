package mealdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// maxIngredientSlots is the number of numbered ingredient/measure field pairs
// the source API exposes per meal.
const maxIngredientSlots = 20

// ErrNoMeal is returned when the source responds without a candidate meal.
var ErrNoMeal = errors.New("no meal returned by the source")

// Client fetches recipes from a TheMealDB-compatible API.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for the external recipe source.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
	}
}

// Ingredient is one (name, measure) pair of a meal.
type Ingredient struct {
	Name    string
	Measure string
}

// Meal is the raw payload of one recipe as returned by the source API.
// It is transient; it exists only for the duration of one import cycle.
type Meal struct {
	Name         string
	Category     string
	Area         string
	Instructions string
	Thumb        string
	Ingredients  []Ingredient
}

// UnmarshalJSON flattens the numbered strIngredientN/strMeasureN field pairs
// into the Ingredients slice, keeping slot order and skipping empty slots.
func (m *Meal) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	get := func(key string) string {
		if v := raw[key]; v != nil {
			return strings.TrimSpace(*v)
		}
		return ""
	}

	m.Name = get("strMeal")
	m.Category = get("strCategory")
	m.Area = get("strArea")
	m.Instructions = get("strInstructions")
	m.Thumb = get("strMealThumb")

	for i := 1; i <= maxIngredientSlots; i++ {
		name := get(fmt.Sprintf("strIngredient%d", i))
		if name == "" {
			continue
		}
		m.Ingredients = append(m.Ingredients, Ingredient{
			Name:    name,
			Measure: get(fmt.Sprintf("strMeasure%d", i)),
		})
	}
	return nil
}

// Random fetches one randomly selected meal from the source.
func (c *Client) Random(ctx context.Context) (*Meal, error) {
	var envelope struct {
		Meals []Meal `json:"meals"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/random.php")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch random meal: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("meal source returned status %d", resp.StatusCode())
	}
	if len(envelope.Meals) == 0 {
		return nil, ErrNoMeal
	}
	return &envelope.Meals[0], nil
}
