package tuning

import (
	"errors"
	"fmt"
	"os"

	"sandbox-server/internal/domain"

	"gopkg.in/yaml.v3"
)

// Tuning - игровые параметры, которые можно переопределить YAML-файлом
type Tuning struct {
	// Период настенного тикера инстанса (как часто двигаем логические часы)
	TickMs int `yaml:"tick_ms"`

	BotPeriodMs   int  `yaml:"bot_period_ms"`
	BotCount      int  `yaml:"bot_count"`
	CreativeStock uint `yaml:"creative_stock"`

	// Буфер канала индекса аудита
	AuditBuffer int `yaml:"audit_buffer"`

	Difficulty map[string]DifficultyTuning `yaml:"difficulty"`
	Recipes    []RecipeDef                 `yaml:"recipes"`
}

// DifficultyTuning - хуки сложности. По умолчанию меняется только число врагов.
type DifficultyTuning struct {
	Hostiles        int `yaml:"hostiles"`
	ContactDamage   int `yaml:"contact_damage"`
	HostilePeriodMs int `yaml:"hostile_period_ms"`
	HungerPeriodMs  int `yaml:"hunger_period_ms"` // 0 - голод выключен
	HungerAmount    int `yaml:"hunger_amount"`
}

type RecipeDef struct {
	ID          string          `yaml:"id"`
	Name        string          `yaml:"name"`
	Result      string          `yaml:"result"`
	Ingredients []IngredientDef `yaml:"ingredients"`
}

type IngredientDef struct {
	Kind  string `yaml:"kind"`
	Count uint   `yaml:"count"`
}

func defaultLevel(hostiles int) DifficultyTuning {
	return DifficultyTuning{
		Hostiles:        hostiles,
		ContactDamage:   domain.ContactDamage,
		HostilePeriodMs: domain.HostileTickMs,
		HungerAmount:    1,
	}
}

// Default - значения, с которыми игра работает без файла
func Default() Tuning {
	t := Tuning{
		TickMs:        100,
		BotPeriodMs:   domain.BotTickMs,
		BotCount:      2,
		CreativeStock: domain.CreativeStock,
		AuditBuffer:   256,
		Difficulty: map[string]DifficultyTuning{
			domain.DifficultyPeaceful.String(): defaultLevel(0),
			domain.DifficultyEasy.String():     defaultLevel(1),
			domain.DifficultyNormal.String():   defaultLevel(2),
			domain.DifficultyHard.String():     defaultLevel(3),
			domain.DifficultyNoMobs.String():   defaultLevel(0),
		},
	}
	for _, r := range domain.DefaultRecipes() {
		def := RecipeDef{ID: r.ID, Name: r.Name, Result: r.Result.String()}
		for _, ing := range r.Ingredients {
			def.Ingredients = append(def.Ingredients, IngredientDef{Kind: ing.Kind.String(), Count: ing.Count})
		}
		t.Recipes = append(t.Recipes, def)
	}
	return t
}

// Load читает YAML поверх значений по умолчанию и валидирует результат.
// Пустой путь - только значения по умолчанию.
func Load(path string) (Tuning, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

// Validate проверяет согласованность параметров
func (t Tuning) Validate() error {
	var errs []error

	if t.TickMs <= 0 {
		errs = append(errs, fmt.Errorf("tick_ms must be positive, got %d", t.TickMs))
	}
	if t.BotPeriodMs <= 0 {
		errs = append(errs, fmt.Errorf("bot_period_ms must be positive, got %d", t.BotPeriodMs))
	}
	if t.BotCount < 0 {
		errs = append(errs, fmt.Errorf("bot_count must not be negative, got %d", t.BotCount))
	}
	if t.AuditBuffer <= 0 {
		errs = append(errs, fmt.Errorf("audit_buffer must be positive, got %d", t.AuditBuffer))
	}

	for name, d := range t.Difficulty {
		if _, ok := domain.ParseDifficulty(name); !ok {
			errs = append(errs, fmt.Errorf("difficulty %q: unknown level", name))
			continue
		}
		if d.Hostiles < 0 {
			errs = append(errs, fmt.Errorf("difficulty %q: hostiles must not be negative", name))
		}
		if d.ContactDamage < 0 {
			errs = append(errs, fmt.Errorf("difficulty %q: contact_damage must not be negative", name))
		}
		if d.HostilePeriodMs <= 0 {
			errs = append(errs, fmt.Errorf("difficulty %q: hostile_period_ms must be positive", name))
		}
		if d.HungerPeriodMs < 0 || d.HungerAmount < 0 {
			errs = append(errs, fmt.Errorf("difficulty %q: hunger settings must not be negative", name))
		}
	}

	if _, err := t.RecipeBook(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// ForDifficulty возвращает параметры уровня. Для peaceful/nomobs врагов нет при любом файле.
func (t Tuning) ForDifficulty(d domain.Difficulty) DifficultyTuning {
	level, ok := t.Difficulty[d.String()]
	if !ok {
		level = defaultLevel(0)
	}
	if !d.AllowsMobs() {
		level.Hostiles = 0
	}
	return level
}

// RecipeBook собирает доменную книгу рецептов
func (t Tuning) RecipeBook() (*domain.RecipeBook, error) {
	recipes := make([]domain.Recipe, 0, len(t.Recipes))
	for _, def := range t.Recipes {
		result, ok := domain.ParseBlockKind(def.Result)
		if !ok {
			return nil, fmt.Errorf("recipe %q: unknown result %q", def.ID, def.Result)
		}

		r := domain.Recipe{ID: def.ID, Name: def.Name, Result: result}
		for _, ing := range def.Ingredients {
			kind, ok := domain.ParseBlockKind(ing.Kind)
			if !ok {
				return nil, fmt.Errorf("recipe %q: unknown ingredient %q", def.ID, ing.Kind)
			}
			r.Ingredients = append(r.Ingredients, domain.Ingredient{Kind: kind, Count: ing.Count})
		}
		recipes = append(recipes, r)
	}
	return domain.NewRecipeBook(recipes)
}
