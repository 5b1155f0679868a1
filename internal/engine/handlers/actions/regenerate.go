package actions

import (
	"fmt"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/utils"
)

// HandleRegenerate пересоздает мир. Без сида берется случайный.
func HandleRegenerate(ctx handlers.Context, p api.RegeneratePayload) (handlers.Result, error) {
	seed := utils.RandomSeed()
	if p.Seed != nil {
		seed = *p.Seed
	}

	if !ctx.Game.Regenerate(seed) {
		return handlers.EmptyResult(), nil
	}
	return handlers.Result{
		Msg:     fmt.Sprintf("Мир создан заново (сид %d).", seed),
		MsgType: api.LogSystem,
		Event:   domain.EventRegenerated,
	}, nil
}
