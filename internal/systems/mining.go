package systems

import (
	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ActivateOutcome - чем закончилась попытка взаимодействия с клеткой
type ActivateOutcome uint8

const (
	ActivateIgnored ActivateOutcome = iota // вне карты или вне досягаемости
	ActivateDug
	ActivatePlaced
	ActivateNoStock   // нечего ставить
	ActivateOccupied  // в клетке стоит сущность
	ActivateAirSelect // выбран воздух
)

// ActivateResult - итог dig/place
type ActivateResult struct {
	Outcome ActivateOutcome
	Change  *domain.BlockChange // не nil только при успешной мутации
}

// OccupiedFunc сообщает, занята ли клетка какой-либо сущностью
type OccupiedFunc func(domain.Position) bool

// ActivateCell - протокол мутации клетки.
// Непустая клетка выкапывается (+1 в инвентарь), пустая - застраивается выбранным блоком (-1 из инвентаря).
// Любая неудача - тихий no-op, состояние не меняется.
func ActivateCell(actor *domain.Entity, target domain.Position, selected domain.BlockKind,
	w *domain.World, inv *domain.Inventory, occupied OccupiedFunc) ActivateResult {

	cellLogger := logger.Log.WithFields(logrus.Fields{
		"component": "mining_system",
		"actor_id":  actor.ID,
		"target":    target,
	})

	block, err := w.BlockAt(target.X, target.Y)
	if err != nil {
		// Из валидного UI такого не приходит
		cellLogger.WithError(err).Warn("Activate ignored: target outside the grid")
		return ActivateResult{Outcome: ActivateIgnored}
	}

	if !actor.Pos.InReach(target, domain.ReachRadius) {
		cellLogger.Debug("Activate ignored: target out of reach")
		return ActivateResult{Outcome: ActivateIgnored}
	}

	// --- DIG ---
	if block.Kind != domain.BlockAir {
		_ = w.SetKind(target.X, target.Y, domain.BlockAir)
		_ = inv.Add(block.Kind, 1)

		cellLogger.WithField("kind", block.Kind).Debug("Block dug")
		return ActivateResult{
			Outcome: ActivateDug,
			Change: &domain.BlockChange{
				Event: domain.EventBlockDug, Actor: actor.ID,
				X: target.X, Y: target.Y, From: block.Kind, To: domain.BlockAir,
			},
		}
	}

	// --- PLACE ---
	if selected == domain.BlockAir {
		return ActivateResult{Outcome: ActivateAirSelect}
	}
	if occupied != nil && occupied(target) {
		return ActivateResult{Outcome: ActivateOccupied}
	}
	if !inv.Remove(selected, 1) {
		return ActivateResult{Outcome: ActivateNoStock}
	}

	_ = w.SetKind(target.X, target.Y, selected)

	cellLogger.WithField("kind", selected).Debug("Block placed")
	return ActivateResult{
		Outcome: ActivatePlaced,
		Change: &domain.BlockChange{
			Event: domain.EventBlockPlaced, Actor: actor.ID,
			X: target.X, Y: target.Y, From: domain.BlockAir, To: selected,
		},
	}
}
