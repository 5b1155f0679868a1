package actions

import (
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/internal/systems"
	"sandbox-server/pkg/api"
)

// HandleActivateCell - клик по клетке: копать непустую, строить в пустой.
// Неудачи (вне досягаемости, нет блоков) - тихий no-op.
func HandleActivateCell(ctx handlers.Context, p api.CellPayload) (handlers.Result, error) {
	res := ctx.Game.ActivateCell(p.X, p.Y)

	switch res.Outcome {
	case systems.ActivateDug, systems.ActivatePlaced:
		return handlers.Result{Event: res.Change.Event}, nil
	}
	return handlers.EmptyResult(), nil
}
