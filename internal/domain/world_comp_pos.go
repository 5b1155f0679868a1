package domain

// Shift возвращает новую позицию со смещением (не меняя текущую)
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Clamp прижимает позицию к границам сетки (без заворачивания)
func (p Position) Clamp(width, height int) Position {
	return Position{X: clamp(p.X, 0, width-1), Y: clamp(p.Y, 0, height-1)}
}

// ChebyshevTo - расстояние "по королю": max(|dx|, |dy|)
func (p Position) ChebyshevTo(other Position) int {
	dx := abs(p.X - other.X)
	dy := abs(p.Y - other.Y)
	if dx > dy {
		return dx
	}
	return dy
}

// InReach - цель в пределах ±reach по обеим осям
func (p Position) InReach(other Position, reach int) bool {
	return p.ChebyshevTo(other) <= reach
}

// DirectionTo возвращает знаки смещения до цели (-1, 0, 1) по каждой оси
func (p Position) DirectionTo(other Position) (int, int) {
	return sign(other.X - p.X), sign(other.Y - p.Y)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}
