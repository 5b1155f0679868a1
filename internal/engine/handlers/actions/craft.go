package actions

import (
	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
)

// HandleCraft - атомарный крафт. Нехватка ресурсов попадает в игровой лог, а не в ошибку.
func HandleCraft(ctx handlers.Context, p api.CraftPayload) (handlers.Result, error) {
	res, err := ctx.Game.Craft(p.RecipeID)
	if err != nil {
		return handlers.EmptyResult(), err
	}
	if res.Message == "" {
		return handlers.EmptyResult(), nil
	}
	if !res.Crafted {
		return handlers.Result{Msg: res.Message, MsgType: api.LogError}, nil
	}
	return handlers.Result{Msg: res.Message, MsgType: api.LogCraft, Event: domain.EventCrafted}, nil
}
