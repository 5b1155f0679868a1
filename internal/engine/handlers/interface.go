package handlers

import (
	"encoding/json"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/systems"
)

// Game описывает операции сессии, доступные хендлерам.
// engine.Session неявно реализует этот интерфейс.
type Game interface {
	State() domain.SessionState
	ActivateCell(x, y int) systems.ActivateResult
	MovePlayer(dx, dy int) systems.MovementResult
	PressKey(key, code string) (systems.MovementResult, bool)
	SelectSlot(kind domain.BlockKind) bool
	Craft(recipeID string) (systems.CraftResult, error)
	Regenerate(seed int64) bool
	Exit()
}

// Context передает хендлеру сессию, над которой выполняется команда.
type Context struct {
	Game      Game
	SessionID string
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в логи сессии напрямую, он возвращает данные.
type Result struct {
	Msg     string           // Текст лога
	MsgType string           // Тип лога (INFO, COMBAT, CRAFT, SYSTEM, ERROR)
	Event   domain.EventType // Что произошло (для лога сервера)
}

// HandlerFunc - это контракт для любой команды (MOVE, CRAFT, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
