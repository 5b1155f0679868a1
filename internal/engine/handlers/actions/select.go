package actions

import (
	"fmt"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
)

// HandleSelectSlot выбирает блок для постройки
func HandleSelectSlot(ctx handlers.Context, p api.SlotPayload) (handlers.Result, error) {
	kind, ok := domain.ParseBlockKind(p.Kind)
	if !ok {
		return handlers.EmptyResult(), fmt.Errorf("select slot: unknown block kind %q", p.Kind)
	}
	ctx.Game.SelectSlot(kind)
	return handlers.EmptyResult(), nil
}
