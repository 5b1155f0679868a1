package systems

import (
	"fmt"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// ApplyContactDamage - урон от касания врага. Каждый враг наносит урон отдельно (урон складывается).
// Возвращает true, если игрок только что был повержен, и сообщение для игрового лога.
func ApplyContactDamage(attacker, target *domain.Entity, vitals *domain.Vitals, amount int) (bool, string) {
	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component":   "combat_system",
		"attacker_id": attacker.ID,
		"target_id":   target.ID,
	})

	if vitals.IsDefeated() {
		combatLogger.Debug("Contact ignored: target already defeated.")
		return false, ""
	}

	hpBefore := vitals.Health
	defeated := vitals.TakeDamage(amount)

	combatLogger.WithFields(logrus.Fields{
		"damage":    amount,
		"hp_before": hpBefore,
		"hp_after":  vitals.Health,
		"defeated":  defeated,
	}).Info("Contact damage resolved.")

	msg := fmt.Sprintf("%s наносит %d урона.", attacker.Name, amount)
	if defeated {
		msg += " Вы повержены."
	}
	return defeated, msg
}

// ApplyHunger - шаг голода, сытость не уходит ниже 0
func ApplyHunger(vitals *domain.Vitals, amount int) {
	before := vitals.Hunger
	vitals.Starve(amount)

	logger.Log.WithFields(logrus.Fields{
		"component":     "combat_system",
		"hunger_before": before,
		"hunger_after":  vitals.Hunger,
	}).Debug("Hunger tick.")
}
