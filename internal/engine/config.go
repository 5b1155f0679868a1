package engine

import (
	"fmt"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/utils"
)

// Config хранит параметры сессии по умолчанию (флаги сервера) и итоговые параметры сессии
type Config struct {
	// Seed - зерно мира. Один сид дает один и тот же мир.
	Seed        int64
	Mode        domain.GameMode
	Difficulty  domain.Difficulty
	Multiplayer bool
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	return Config{
		Seed:       utils.RandomSeed(),
		Mode:       domain.ModeSurvival,
		Difficulty: domain.DifficultyNormal,
	}
}

// Resolve накладывает параметры START поверх значений по умолчанию.
// Пустое поле - значение по умолчанию, неизвестная строка - ошибка.
func (c Config) Resolve(p api.StartPayload) (Config, error) {
	out := c

	if p.Mode != "" {
		m, ok := domain.ParseMode(p.Mode)
		if !ok {
			return c, fmt.Errorf("unknown mode %q", p.Mode)
		}
		out.Mode = m
	}
	if p.Difficulty != "" {
		d, ok := domain.ParseDifficulty(p.Difficulty)
		if !ok {
			return c, fmt.Errorf("unknown difficulty %q", p.Difficulty)
		}
		out.Difficulty = d
	}
	if p.Seed != nil {
		out.Seed = *p.Seed
	}
	if p.Multiplayer != nil {
		out.Multiplayer = *p.Multiplayer
	}
	return out, nil
}
