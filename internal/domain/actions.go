package domain

import "strings"

// ActionType - Внутренний числовой идентификатор действия
type ActionType uint8

const (
	ActionUnknown ActionType = iota
	ActionInit
	ActionStart
	ActionActivateCell
	ActionMove
	ActionKey
	ActionSelectSlot
	ActionCraft
	ActionRegenerate
	ActionExit
)

// Маппинг для конвертации JSON -> Domain
var actionStringToCmd = map[string]ActionType{
	"INIT":          ActionInit,
	"START":         ActionStart,
	"ACTIVATE_CELL": ActionActivateCell,
	"MOVE":          ActionMove,
	"KEY":           ActionKey,
	"SELECT_SLOT":   ActionSelectSlot,
	"CRAFT":         ActionCraft,
	"REGENERATE":    ActionRegenerate,
	"EXIT":          ActionExit,
}

// Маппинг для логов Domain -> String
var actionCmdToString = map[ActionType]string{
	ActionInit:         "INIT",
	ActionStart:        "START",
	ActionActivateCell: "ACTIVATE_CELL",
	ActionMove:         "MOVE",
	ActionKey:          "KEY",
	ActionSelectSlot:   "SELECT_SLOT",
	ActionCraft:        "CRAFT",
	ActionRegenerate:   "REGENERATE",
	ActionExit:         "EXIT",
}

// ParseAction конвертирует строку из JSON в ActionType
func ParseAction(s string) ActionType {
	// Делаем нечувствительным к регистру для надежности
	upper := strings.ToUpper(s)
	if val, ok := actionStringToCmd[upper]; ok {
		return val
	}
	return ActionUnknown
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (a ActionType) String() string {
	if val, ok := actionCmdToString[a]; ok {
		return val
	}
	return "UNKNOWN"
}

// IsGameplay - действие меняет мир (после поражения такие игнорируются)
func (a ActionType) IsGameplay() bool {
	switch a {
	case ActionActivateCell, ActionMove, ActionKey, ActionSelectSlot, ActionCraft, ActionRegenerate:
		return true
	}
	return false
}
