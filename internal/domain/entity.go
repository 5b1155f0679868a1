package domain

// EntityRole - роль сущности. Движение у всех общее, различается только "намерение".
type EntityRole uint8

const (
	RolePlayer EntityRole = iota + 1
	RoleBot
	RoleHostile
)

func (r EntityRole) String() string {
	switch r {
	case RolePlayer:
		return "PLAYER"
	case RoleBot:
		return "BOT"
	case RoleHostile:
		return "HOSTILE"
	}
	return "UNKNOWN"
}

type Entity struct {
	ID   EntityID   `json:"id"`
	Role EntityRole `json:"role"`
	Name string     `json:"name"`
	Pos  Position   `json:"pos"`

	Render *RenderComponent `json:"render,omitempty"`
}

// NewEntity собирает сущность с визуалом по умолчанию для роли
func NewEntity(role EntityRole, index uint64, pos Position) *Entity {
	e := &Entity{
		ID:   PackEntityID(role, index),
		Role: role,
		Pos:  pos,
	}
	switch role {
	case RolePlayer:
		e.Name = "Игрок"
		e.Render = &RenderComponent{Label: "Вы", Color: "#22D3EE"}
	case RoleBot:
		e.Name = "Бот"
		e.Render = &RenderComponent{Label: "B", Color: "#3B82F6"}
	case RoleHostile:
		e.Name = "Зомби"
		e.Render = &RenderComponent{Label: "Z", Color: "#16A34A"}
	}
	return e
}

// Clone - копия сущности (компоненты тоже копируются)
func (e *Entity) Clone() *Entity {
	c := *e
	if e.Render != nil {
		r := *e.Render
		c.Render = &r
	}
	return &c
}
