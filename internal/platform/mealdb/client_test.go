package mealdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const randomMealFixture = `{
	"meals": [
		{
			"idMeal": "52795",
			"strMeal": "Chicken Handi",
			"strCategory": "Chicken",
			"strArea": "Indian",
			"strInstructions": "Heat oil and fry the onions.",
			"strMealThumb": "https://www.themealdb.com/images/media/meals/wyxwsp1486979827.jpg",
			"strIngredient1": "Chicken",
			"strIngredient2": " Onion ",
			"strIngredient3": "Garlic",
			"strIngredient4": "",
			"strIngredient5": null,
			"strMeasure1": "1.2 kg",
			"strMeasure2": "5 thinly sliced",
			"strMeasure3": "8 cloves chopped",
			"strMeasure4": "",
			"strMeasure5": null
		}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(url, 5*time.Second)
}

func TestRandomParsesMeal(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/random.php", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(randomMealFixture))
	}))
	defer ts.Close()

	meal, err := newTestClient(ts.URL).Random(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Chicken Handi", meal.Name)
	assert.Equal(t, "Chicken", meal.Category)
	assert.Equal(t, "Indian", meal.Area)
	assert.Equal(t, "Heat oil and fry the onions.", meal.Instructions)
	assert.Equal(t, "https://www.themealdb.com/images/media/meals/wyxwsp1486979827.jpg", meal.Thumb)

	// Empty and null slots are skipped, names are trimmed, slot order kept.
	require.Len(t, meal.Ingredients, 3)
	assert.Equal(t, Ingredient{Name: "Chicken", Measure: "1.2 kg"}, meal.Ingredients[0])
	assert.Equal(t, Ingredient{Name: "Onion", Measure: "5 thinly sliced"}, meal.Ingredients[1])
	assert.Equal(t, Ingredient{Name: "Garlic", Measure: "8 cloves chopped"}, meal.Ingredients[2])
}

func TestRandomNoCandidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"null meals", `{"meals": null}`},
		{"empty meals", `{"meals": []}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer ts.Close()

			_, err := newTestClient(ts.URL).Random(context.Background())
			assert.ErrorIs(t, err, ErrNoMeal)
		})
	}
}

func TestRandomServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := newTestClient(ts.URL).Random(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoMeal)
}
