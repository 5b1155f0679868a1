package domain

// RenderComponent - Визуализация (Клиент)
type RenderComponent struct {
	Label string `json:"label"` // Подпись над сущностью (Вы, B, Z)
	Color string `json:"color"`
}
