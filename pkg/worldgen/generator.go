package worldgen

import (
	"math"

	"sandbox-server/internal/domain"
)

// Константы генерации рельефа
const (
	BaseGround  = 6   // базовый уровень земли (y растет вниз)
	GroundRange = 2   // смещение уровня: 0 или 1
	DirtDepth   = 2   // столько рядов земли, заканчивая уровнем ground
	StoneChance = 0.3 // вероятность камня в ряду над землей
)

// GroundLevel - уровень земли для колонки
func GroundLevel(seed int64, x int) int {
	return BaseGround + int(math.Floor(ColumnHash(seed, x)*GroundRange))
}

// KindAt - чистое правило генерации для одной клетки
func KindAt(seed int64, x, y int) domain.BlockKind {
	ground := GroundLevel(seed, x)

	switch {
	case y > ground:
		return domain.BlockGrass
	case y > ground-DirtDepth:
		return domain.BlockDirt
	case y == ground-DirtDepth:
		if CellHash(seed, x, y) < StoneChance {
			return domain.BlockStone
		}
	}
	return domain.BlockAir
}

// Generate создает новый мир фиксированного размера.
// Функция чистая: один и тот же сид всегда дает одну и ту же сетку.
func Generate(seed int64) *domain.World {
	world := domain.NewWorld(domain.WorldWidth, domain.WorldHeight, seed)

	for y := 0; y < world.Height; y++ {
		for x := 0; x < world.Width; x++ {
			// Координаты внутри сетки, ошибки быть не может
			_ = world.SetKind(x, y, KindAt(seed, x, y))
		}
	}
	return world
}
