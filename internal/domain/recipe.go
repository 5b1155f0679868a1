package domain

import "fmt"

// Ingredient - вид и количество
type Ingredient struct {
	Kind  BlockKind `json:"kind"`
	Count uint      `json:"count"`
}

// Recipe - статичный рецепт крафта. В рантайме не меняется.
type Recipe struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Result      BlockKind    `json:"result"`
	Ingredients []Ingredient `json:"ingredients"`
}

// RecipeBook - упорядоченный набор рецептов
type RecipeBook struct {
	recipes []Recipe
}

// DefaultRecipes - рецепты оригинальной игры
func DefaultRecipes() []Recipe {
	return []Recipe{
		{
			ID:          "planks",
			Name:        "Доски",
			Result:      BlockWood,
			Ingredients: []Ingredient{{Kind: BlockGrass, Count: 2}},
		},
		{
			ID:          "stone",
			Name:        "Камень",
			Result:      BlockStone,
			Ingredients: []Ingredient{{Kind: BlockDirt, Count: 3}},
		},
	}
}

// NewRecipeBook проверяет рецепты и собирает книгу
func NewRecipeBook(recipes []Recipe) (*RecipeBook, error) {
	seen := make(map[string]bool, len(recipes))
	for _, r := range recipes {
		if r.ID == "" {
			return nil, fmt.Errorf("recipe %q: empty id", r.Name)
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("recipe %q: duplicate id", r.ID)
		}
		seen[r.ID] = true

		if r.Result == BlockAir {
			return nil, fmt.Errorf("recipe %q: result cannot be air", r.ID)
		}
		if len(r.Ingredients) == 0 {
			return nil, fmt.Errorf("recipe %q: no ingredients", r.ID)
		}
		for _, ing := range r.Ingredients {
			if ing.Count == 0 {
				return nil, fmt.Errorf("recipe %q: ingredient %s: %w", r.ID, ing.Kind, ErrInvalidQuantity)
			}
		}
	}

	book := &RecipeBook{recipes: make([]Recipe, len(recipes))}
	copy(book.recipes, recipes)
	return book, nil
}

// Get ищет рецепт по ID
func (b *RecipeBook) Get(id string) (Recipe, error) {
	for _, r := range b.recipes {
		if r.ID == id {
			return r, nil
		}
	}
	return Recipe{}, fmt.Errorf("%q: %w", id, ErrUnknownRecipe)
}

// All - рецепты в порядке книги
func (b *RecipeBook) All() []Recipe {
	out := make([]Recipe, len(b.recipes))
	copy(out, b.recipes)
	return out
}
