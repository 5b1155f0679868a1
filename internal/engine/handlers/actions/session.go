package actions

import (
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
)

// HandleInit ничего не меняет: инстанс в ответ разошлет свежий снимок
func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.EmptyResult(), nil
}

// HandleExit завершает сессию
func HandleExit(ctx handlers.Context) (handlers.Result, error) {
	ctx.Game.Exit()
	return handlers.Result{Msg: "Сессия завершена.", MsgType: api.LogSystem}, nil
}
