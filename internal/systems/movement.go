package systems

import (
	"sandbox-server/internal/domain"
)

// MovementResult - результат вычисления движения
type MovementResult struct {
	NewX, NewY int
	HasMoved   bool
	IsWall     bool // Если врезались в непроходимый блок
	Clamped    bool // Если уперлись в край карты
}

// CalculateMove вычисляет новую позицию. Не меняет состояние мира!
// Кандидат прижимается к границам сетки (без заворачивания), затем проверяется проходимость.
// Сущности друг друга не блокируют.
func CalculateMove(e *domain.Entity, dx, dy int, w *domain.World) MovementResult {
	// Shift возвращает новую структуру Position, не меняя текущую
	raw := e.Pos.Shift(dx, dy)
	target := raw.Clamp(w.Width, w.Height)

	res := MovementResult{NewX: e.Pos.X, NewY: e.Pos.Y, Clamped: raw != target}

	if target == e.Pos {
		return res
	}

	if !w.IsPassable(target.X, target.Y) {
		res.IsWall = true
		return res
	}

	res.NewX, res.NewY = target.X, target.Y
	res.HasMoved = true
	return res
}

// AttemptMove - единая точка движения для игрока, ботов и врагов.
// При удаче позиция сущности обновляется, при блокировке остается прежней.
func AttemptMove(e *domain.Entity, dx, dy int, w *domain.World) MovementResult {
	res := CalculateMove(e, dx, dy, w)
	if res.HasMoved {
		e.Pos = domain.Position{X: res.NewX, Y: res.NewY}
	}
	return res
}
