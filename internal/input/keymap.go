// Package input переводит клавиши клиента в направления движения игрока.
package input

import (
	"unicode"
	"unicode/utf8"

	"sandbox-server/internal/domain"
)

var (
	up    = domain.Position{X: 0, Y: -1}
	down  = domain.Position{X: 0, Y: 1}
	left  = domain.Position{X: -1, Y: 0}
	right = domain.Position{X: 1, Y: 0}
)

// Физические коды клавиш (не зависят от раскладки)
var codeDirs = map[string]domain.Position{
	"KeyW":       up,
	"KeyA":       left,
	"KeyS":       down,
	"KeyD":       right,
	"ArrowUp":    up,
	"ArrowDown":  down,
	"ArrowLeft":  left,
	"ArrowRight": right,
}

// ParseKey возвращает направление по значению клавиши и/или ее физическому коду.
// Сначала смотрим код (так работают ЦФЫВ на русской раскладке), затем значение.
// Второй результат false, если клавиша не про движение.
func ParseKey(key, code string) (domain.Position, bool) {
	if dir, ok := codeDirs[code]; ok {
		return dir, true
	}
	if dir, ok := codeDirs[key]; ok {
		return dir, true
	}

	if utf8.RuneCountInString(key) != 1 {
		return domain.Position{}, false
	}
	ch, _ := utf8.DecodeRuneInString(key)
	return parseLetter(unicode.ToLower(ch))
}

func parseLetter(ch rune) (domain.Position, bool) {
	switch ch {
	case 'w', 'ц':
		return up, true
	case 'a', 'ф':
		return left, true
	case 's', 'ы':
		return down, true
	case 'd', 'в':
		return right, true
	}
	return domain.Position{}, false
}
