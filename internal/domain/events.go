package domain

import "strings"

// EventType - Внутренний числовой идентификатор игрового события (для аудита и лога)
type EventType uint8

const (
	EventUnknown EventType = iota
	EventBlockDug
	EventBlockPlaced
	EventCrafted
	EventDamaged
	EventDefeated
	EventRegenerated
)

// Маппинг для конвертации JSON -> Domain
var eventStringToCmd = map[string]EventType{
	"BLOCK_DUG":    EventBlockDug,
	"BLOCK_PLACED": EventBlockPlaced,
	"CRAFTED":      EventCrafted,
	"DAMAGED":      EventDamaged,
	"DEFEATED":     EventDefeated,
	"REGENERATED":  EventRegenerated,
}

// Маппинг для логов Domain -> String
var eventCmdToString = map[EventType]string{
	EventBlockDug:    "BLOCK_DUG",
	EventBlockPlaced: "BLOCK_PLACED",
	EventCrafted:     "CRAFTED",
	EventDamaged:     "DAMAGED",
	EventDefeated:    "DEFEATED",
	EventRegenerated: "REGENERATED",
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	upper := strings.ToUpper(s)
	if val, ok := eventStringToCmd[upper]; ok {
		return val
	}
	return EventUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a EventType) String() string {
	if val, ok := eventCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// BlockChange - факт изменения клетки (копать/ставить). Уходит в индекс аудита.
type BlockChange struct {
	Event EventType
	Actor EntityID
	X, Y  int
	From  BlockKind
	To    BlockKind
}
