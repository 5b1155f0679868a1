package worldgen

import "sandbox-server/internal/domain"

// SkyRows - ряды [0, SkyRows) всегда воздух при любом сиде:
// самый высокий камень лежит на BaseGround - DirtDepth.
const SkyRows = BaseGround - DirtDepth

// Layout - стартовые позиции всех сущностей
type Layout struct {
	Player   domain.Position
	Bots     []domain.Position
	Hostiles []domain.Position
}

// SpawnLayout раскладывает сущности детерминированно.
// Все клетки лежат в "небе", поэтому проходимы при любом сиде.
// Враги появляются у краев карты (чет - слева, нечет - справа), боты - в ряду игрока по обе стороны.
func SpawnLayout(bots, hostiles int) Layout {
	l := Layout{
		Player:   domain.Position{X: domain.SpawnX, Y: domain.SpawnY},
		Bots:     make([]domain.Position, 0, max(bots, 0)),
		Hostiles: make([]domain.Position, 0, max(hostiles, 0)),
	}

	for i := 0; i < bots; i++ {
		offset := (i/2 + 1) * 2
		if i%2 == 1 {
			offset = -offset
		}
		pos := domain.Position{X: domain.SpawnX + offset, Y: domain.SpawnY}
		l.Bots = append(l.Bots, pos.Clamp(domain.WorldWidth, SkyRows))
	}

	for i := 0; i < hostiles; i++ {
		x := 0
		if i%2 == 1 {
			x = domain.WorldWidth - 1
		}
		pos := domain.Position{X: x, Y: 1 + i/2}
		l.Hostiles = append(l.Hostiles, pos.Clamp(domain.WorldWidth, SkyRows))
	}

	return l
}
