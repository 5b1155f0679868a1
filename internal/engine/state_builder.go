package engine

import (
	"sandbox-server/internal/domain"
	"sandbox-server/pkg/api"
)

// Snapshot создает полный "снимок" сессии для клиента.
// Все срезы - копии, снимок можно отдавать в другую горутину.
func (s *Session) Snapshot() api.ServerResponse {
	msgType := api.MsgUpdate
	if s.state == domain.SessionEnded {
		msgType = api.MsgEnded
	}

	resp := api.ServerResponse{
		Type:       msgType,
		SessionID:  s.ID,
		Tick:       s.Scheduler.Tick(),
		ClockMs:    s.Scheduler.ClockMs(),
		State:      s.state.String(),
		Mode:       s.Config.Mode.String(),
		Difficulty: s.Config.Difficulty.String(),
		Seed:       s.Config.Seed,
		Grid:       &api.GridMeta{Width: s.World.Width, Height: s.World.Height},
		Selected:   s.Selected.String(),
		Bots:       make([]api.EntityView, 0, len(s.Bots)),
		Hostiles:   make([]api.EntityView, 0, len(s.Hostiles)),
	}

	// 1. Сетка (построчно)
	blocks := s.World.Blocks()
	resp.Blocks = make([]api.BlockView, 0, len(blocks))
	for _, b := range blocks {
		resp.Blocks = append(resp.Blocks, api.BlockView{
			X: b.X, Y: b.Y,
			Kind:    b.Kind.String(),
			Name:    b.Kind.DisplayName(),
			Color:   b.Kind.Color(),
			IsSolid: !b.Kind.IsPassable(),
		})
	}

	// 2. Инвентарь в порядке получения
	entries := s.Inventory.Entries()
	resp.Inventory = make([]api.InventoryEntryView, 0, len(entries))
	for _, e := range entries {
		resp.Inventory = append(resp.Inventory, toEntryView(e.Kind, e.Count))
	}

	// 3. Рецепты с признаком доступности
	for _, r := range s.Recipes.All() {
		view := api.RecipeView{
			ID:          r.ID,
			Name:        r.Name,
			Result:      r.Result.String(),
			Ingredients: make([]api.InventoryEntryView, 0, len(r.Ingredients)),
			CanCraft:    s.isActive() && s.Inventory.CanCraft(r),
		}
		for _, ing := range r.Ingredients {
			view.Ingredients = append(view.Ingredients, toEntryView(ing.Kind, ing.Count))
		}
		resp.Recipes = append(resp.Recipes, view)
	}

	// 4. Сущности
	player := toEntityView(s.Player)
	resp.Player = &player
	for _, e := range s.Bots {
		resp.Bots = append(resp.Bots, toEntityView(e))
	}
	for _, e := range s.Hostiles {
		resp.Hostiles = append(resp.Hostiles, toEntityView(e))
	}

	resp.Vitals = &api.VitalsView{
		Health:    s.Vitals.Health,
		MaxHealth: s.Vitals.MaxHealth,
		Hunger:    s.Vitals.Hunger,
		MaxHunger: s.Vitals.MaxHunger,
	}

	// Копия логов, чтобы не было гонки данных
	if len(s.Logs) > 0 {
		resp.Logs = make([]api.LogEntry, len(s.Logs))
		copy(resp.Logs, s.Logs)
	}

	return resp
}

func toEntryView(kind domain.BlockKind, count uint) api.InventoryEntryView {
	return api.InventoryEntryView{
		Kind:  kind.String(),
		Name:  kind.DisplayName(),
		Color: kind.Color(),
		Count: count,
	}
}

// toEntityView конвертирует доменную сущность в DTO для отправки клиенту.
func toEntityView(e *domain.Entity) api.EntityView {
	view := api.EntityView{
		ID:   e.ID.String(),
		Role: e.Role.String(),
		Name: e.Name,
	}
	view.Pos.X = e.Pos.X
	view.Pos.Y = e.Pos.Y

	if e.Render != nil {
		view.Render.Label = e.Render.Label
		view.Render.Color = e.Render.Color
	} else {
		view.Render.Label = "?"
		view.Render.Color = "#fff"
	}
	return view
}
