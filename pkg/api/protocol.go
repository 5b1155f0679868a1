package api

import (
	"encoding/json"
)

// Типы сообщений сервер -> клиент
const (
	MsgUpdate = "UPDATE"
	MsgEnded  = "ENDED"
	MsgError  = "ERROR"
)

// Типы записей игрового лога (LogEntry.Type)
const (
	LogInfo   = "INFO"
	LogCombat = "COMBAT"
	LogCraft  = "CRAFT"
	LogSystem = "SYSTEM"
	LogError  = "ERROR"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" сессии: сетка, инвентарь, сущности и жизненные показатели.
// Отправляется после каждой обработанной команды и после каждого тика, который что-то изменил.
type ServerResponse struct {
	// Type тип сообщения: UPDATE, ENDED или ERROR.
	Type string `json:"type"`

	// SessionID идентификатор сессии. Клиент передает его как token для переподключения.
	SessionID string `json:"sessionId,omitempty"`

	// Tick счетчик шагов планировщика. ClockMs - логическое время сессии.
	Tick    uint64 `json:"tick"`
	ClockMs int64  `json:"clockMs"`

	// State ACTIVE, DEFEATED или ENDED.
	State      string `json:"state,omitempty"`
	Mode       string `json:"mode,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Seed       int64  `json:"seed"`

	// Grid метаданные о размере всей карты.
	Grid *GridMeta `json:"grid,omitempty"`

	// Blocks все клетки сетки в построчном порядке.
	Blocks []BlockView `json:"blocks,omitempty"`

	// Inventory записи в порядке получения. Пустой инвентарь - пустой массив.
	Inventory []InventoryEntryView `json:"inventory"`
	Selected  string               `json:"selected,omitempty"`

	Recipes []RecipeView `json:"recipes,omitempty"`

	Player   *EntityView  `json:"player,omitempty"`
	Bots     []EntityView `json:"bots"`
	Hostiles []EntityView `json:"hostiles"`

	Vitals *VitalsView `json:"vitals,omitempty"`

	// Logs срез новых сообщений с прошлого снимка.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки для Type == ERROR.
	Error string `json:"error,omitempty"`
}

// GridMeta содержит общие размеры карты, чтобы клиент знал,
// какую сетку для рендеринга нужно подготовить.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// BlockView это DTO (Data Transfer Object) для одной клетки.
type BlockView struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`

	// Name и Color - визуальное представление (например "Трава", "#228B22").
	Name  string `json:"name"`
	Color string `json:"color"`

	// IsSolid true, если клетка непроходима.
	IsSolid bool `json:"isSolid"`
}

// InventoryEntryView одна запись инвентаря
type InventoryEntryView struct {
	Kind  string `json:"kind"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Count uint   `json:"count"`
}

// RecipeView рецепт и признак доступности (для кнопки крафта)
type RecipeView struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Result      string               `json:"result"`
	Ingredients []InventoryEntryView `json:"ingredients"`
	CanCraft    bool                 `json:"canCraft"`
}

// EntityView это DTO для игровой сущности.
type EntityView struct {
	ID   string `json:"id"`
	Role string `json:"role"` // PLAYER, BOT, HOSTILE
	Name string `json:"name"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`

	Render struct {
		Label string `json:"label"`
		Color string `json:"color"`
	} `json:"render"`
}

// VitalsView здоровье и сытость игрока
type VitalsView struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Hunger    int `json:"hunger"`
	MaxHunger int `json:"maxHunger"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"` // ULID, сортируется по времени
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, CRAFT, SYSTEM, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Token ID сессии. Пустой только в первом сообщении START.
	Token string `json:"token,omitempty"`

	// Action название действия, которое нужно выполнить.
	Action string `json:"action"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// StartPayload параметры новой сессии (START). Пустые поля берутся из конфига сервера.
type StartPayload struct {
	Mode        string `json:"mode,omitempty"`       // survival | creative | zombie
	Difficulty  string `json:"difficulty,omitempty"` // peaceful | easy | normal | hard | nomobs
	Seed        *int64 `json:"seed,omitempty"`
	Multiplayer *bool  `json:"multiplayer,omitempty"`

	// Compress просит присылать снимки бинарными zstd-кадрами
	Compress bool `json:"compress,omitempty"`
}

// CellPayload используется для ACTIVATE_CELL (клик по клетке: копать или ставить).
type CellPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// DirectionPayload используется для MOVE (кнопки направления).
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// KeyPayload используется для KEY: значение клавиши и физический код.
type KeyPayload struct {
	Key  string `json:"key"`
	Code string `json:"code,omitempty"`
}

// SlotPayload используется для SELECT_SLOT.
type SlotPayload struct {
	Kind string `json:"kind"`
}

// CraftPayload используется для CRAFT.
type CraftPayload struct {
	RecipeID string `json:"recipeId"`
}

// RegeneratePayload используется для REGENERATE. Без сида берется случайный.
type RegeneratePayload struct {
	Seed *int64 `json:"seed,omitempty"`
}
