package systems

import (
	"math/rand"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Cardinals - четыре направления для случайного блуждания ботов
var Cardinals = [4]domain.Position{
	{X: 0, Y: -1},
	{X: 0, Y: 1},
	{X: -1, Y: 0},
	{X: 1, Y: 0},
}

// RandomCardinal выбирает направление равновероятно
func RandomCardinal(rng *rand.Rand) (int, int) {
	d := Cardinals[rng.Intn(len(Cardinals))]
	return d.X, d.Y
}

// PursuitStep - жадный шаг к цели: по оси с большим разрывом, при равенстве - по Y.
// Направление - знак разницы координат.
func PursuitStep(from, to domain.Position) (int, int) {
	dxRaw := to.X - from.X
	dyRaw := to.Y - from.Y

	stepX, stepY := from.DirectionTo(to)

	if abs(dxRaw) > abs(dyRaw) {
		return stepX, 0
	}
	return 0, stepY
}

// StepBot - намерение бота: один случайный шаг
func StepBot(bot *domain.Entity, rng *rand.Rand, w *domain.World) MovementResult {
	dx, dy := RandomCardinal(rng)
	return AttemptMove(bot, dx, dy, w)
}

// StepHostile - намерение врага: один жадный шаг к игроку.
// Возвращает true, если враг оказался в клетке игрока (контакт).
func StepHostile(hostile, player *domain.Entity, w *domain.World) (MovementResult, bool) {
	dx, dy := PursuitStep(hostile.Pos, player.Pos)
	res := AttemptMove(hostile, dx, dy, w)

	contact := hostile.Pos == player.Pos

	logger.Log.WithFields(logrus.Fields{
		"component": "ai_system",
		"entity_id": hostile.ID,
		"dx":        dx,
		"dy":        dy,
		"moved":     res.HasMoved,
		"blocked":   res.IsWall,
		"contact":   contact,
	}).Debug("Hostile pursuit step")

	return res, contact
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
