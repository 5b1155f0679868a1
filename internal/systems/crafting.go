package systems

import (
	"fmt"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// CraftResult - итог попытки крафта. Нехватка ресурсов - не ошибка.
type CraftResult struct {
	Crafted bool
	Recipe  domain.Recipe
	Message string
}

// TryCraft ищет рецепт и проводит атомарную транзакцию над инвентарем.
// Ошибка возвращается только для неизвестного рецепта.
func TryCraft(inv *domain.Inventory, book *domain.RecipeBook, recipeID string) (CraftResult, error) {
	recipe, err := book.Get(recipeID)
	if err != nil {
		return CraftResult{}, fmt.Errorf("craft: %w", err)
	}

	crafted := inv.Craft(recipe)

	logger.Log.WithFields(logrus.Fields{
		"component": "crafting_system",
		"recipe":    recipe.ID,
		"crafted":   crafted,
	}).Debug("Craft attempt")

	if !crafted {
		return CraftResult{
			Recipe:  recipe,
			Message: fmt.Sprintf("Не хватает ресурсов: %s.", recipe.Name),
		}, nil
	}

	return CraftResult{
		Crafted: true,
		Recipe:  recipe,
		Message: fmt.Sprintf("Создано: %s.", recipe.Name),
	}, nil
}
