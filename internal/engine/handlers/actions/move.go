package actions

import (
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
)

// HandleMove - шаг игрока кнопкой направления. Упереться в блок - не ошибка.
func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	ctx.Game.MovePlayer(p.Dx, p.Dy)
	return handlers.EmptyResult(), nil
}

// HandleKey - шаг игрока клавишей (стрелки, WASD, ЦФЫВ). Прочие клавиши игнорируются.
func HandleKey(ctx handlers.Context, p api.KeyPayload) (handlers.Result, error) {
	ctx.Game.PressKey(p.Key, p.Code)
	return handlers.EmptyResult(), nil
}
