package domain

import "strings"

// GameMode - режим сессии
type GameMode uint8

const (
	ModeSurvival GameMode = iota
	ModeCreative
	ModeZombie
)

var modeStringToMode = map[string]GameMode{
	"SURVIVAL": ModeSurvival,
	"CREATIVE": ModeCreative,
	"ZOMBIE":   ModeZombie,
}

// ParseMode конвертирует строку в GameMode
func ParseMode(s string) (GameMode, bool) {
	m, ok := modeStringToMode[strings.ToUpper(strings.TrimSpace(s))]
	return m, ok
}

func (m GameMode) String() string {
	switch m {
	case ModeSurvival:
		return "survival"
	case ModeCreative:
		return "creative"
	case ModeZombie:
		return "zombie"
	}
	return "unknown"
}

// Difficulty - сложность. Пока влияет только на враждебных мобов.
type Difficulty uint8

const (
	DifficultyPeaceful Difficulty = iota
	DifficultyEasy
	DifficultyNormal
	DifficultyHard
	DifficultyNoMobs
)

var difficultyStringToDifficulty = map[string]Difficulty{
	"PEACEFUL": DifficultyPeaceful,
	"EASY":     DifficultyEasy,
	"NORMAL":   DifficultyNormal,
	"HARD":     DifficultyHard,
	"NOMOBS":   DifficultyNoMobs,
}

// ParseDifficulty конвертирует строку в Difficulty
func ParseDifficulty(s string) (Difficulty, bool) {
	d, ok := difficultyStringToDifficulty[strings.ToUpper(strings.TrimSpace(s))]
	return d, ok
}

func (d Difficulty) String() string {
	switch d {
	case DifficultyPeaceful:
		return "peaceful"
	case DifficultyEasy:
		return "easy"
	case DifficultyNormal:
		return "normal"
	case DifficultyHard:
		return "hard"
	case DifficultyNoMobs:
		return "nomobs"
	}
	return "unknown"
}

// AllowsMobs - false для peaceful и nomobs
func (d Difficulty) AllowsMobs() bool {
	return d != DifficultyPeaceful && d != DifficultyNoMobs
}

// SessionState - жизненный цикл сессии
type SessionState uint8

const (
	SessionActive SessionState = iota
	SessionDefeated
	SessionEnded
)

func (s SessionState) String() string {
	switch s {
	case SessionActive:
		return "ACTIVE"
	case SessionDefeated:
		return "DEFEATED"
	case SessionEnded:
		return "ENDED"
	}
	return "UNKNOWN"
}
