package agent

import (
	"encoding/json"
	"errors"
	"math/rand"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine"
	"sandbox-server/internal/systems"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Bot представляет собой "Игрока-компьютера" (Headless Agent).
// Это пример ВНЕШНЕГО клиента: он запускает сессию через GameService так же,
// как это делает WebSocket-клиент, получает снимки и отвечает командами.
//
// Жизненный цикл:
//  1. NewBot -> StartSession, получение личного канала (Inbox).
//  2. Run -> слушает Inbox, на каждый снимок отвечает одной командой.
//  3. После MaxActions команд отправляет EXIT и ждет закрытия канала.
type Bot struct {
	SessionID  string
	Service    *engine.GameService
	Inbox      <-chan api.ServerResponse
	MaxActions int

	rng     *rand.Rand
	actions int
	log     *logrus.Entry
}

func NewBot(service *engine.GameService, start api.StartPayload, maxActions int, seed int64) (*Bot, error) {
	id, inbox, err := service.StartSession(start)
	if err != nil {
		return nil, err
	}
	return &Bot{
		SessionID:  id,
		Service:    service,
		Inbox:      inbox,
		MaxActions: maxActions,
		rng:        rand.New(rand.NewSource(seed)),
		log:        logger.Component("agent").WithField("session_id", id),
	}, nil
}

// Actions - сколько команд бот уже отправил
func (b *Bot) Actions() int {
	return b.actions
}

// Run запускает цикл жизни бота. Возвращает последний полученный снимок.
func (b *Bot) Run() api.ServerResponse {
	b.log.Info("Agent started")

	var last api.ServerResponse
	exitSent := false

	for event := range b.Inbox {
		// Ошибки команд приходят отдельными сообщениями, на них не отвечаем
		if event.Type == api.MsgError {
			b.log.WithField("error", event.Error).Debug("Agent command rejected")
			continue
		}
		last = event

		if event.Type == api.MsgEnded || exitSent {
			continue
		}
		if event.State != domain.SessionActive.String() || b.actions >= b.MaxActions {
			b.send(domain.ActionExit, nil)
			exitSent = true
			continue
		}

		action, payload := Decide(event, b.rng)
		b.send(action, payload)
	}

	b.log.WithField("actions", b.actions).Info("Agent shut down")
	return last
}

// Decide - мозг бота: крафт, если можно, иначе копать ближайший блок, иначе шаг.
func Decide(state api.ServerResponse, rng *rand.Rand) (domain.ActionType, any) {
	// --- ШАГ 1: КРАФТ ---
	for _, r := range state.Recipes {
		if r.CanCraft {
			return domain.ActionCraft, api.CraftPayload{RecipeID: r.ID}
		}
	}

	if state.Player == nil {
		return domain.ActionInit, nil
	}

	// --- ШАГ 2: ВОССОЗДАНИЕ ЛОКАЛЬНОЙ КАРТИНЫ МИРА ---
	me := domain.Position{X: state.Player.Pos.X, Y: state.Player.Pos.Y}
	localWorld := buildLocalWorld(state)

	// --- ШАГ 3: БЛИЖАЙШИЙ БЛОК В ДОСЯГАЕМОСТИ ---
	if target, ok := nearestSolid(localWorld, me); ok {
		return domain.ActionActivateCell, api.CellPayload{X: target.X, Y: target.Y}
	}

	// --- ШАГ 4: БЛУЖДАНИЕ ---
	dx, dy := systems.RandomCardinal(rng)
	return domain.ActionMove, api.DirectionPayload{Dx: dx, Dy: dy}
}

// buildLocalWorld создает локальную копию мира из данных, полученных от сервера.
func buildLocalWorld(state api.ServerResponse) *domain.World {
	width, height := domain.WorldWidth, domain.WorldHeight // Дефолт, если грид не пришел
	if state.Grid != nil {
		width, height = state.Grid.Width, state.Grid.Height
	}

	localWorld := domain.NewWorld(width, height, state.Seed)
	for _, bv := range state.Blocks {
		kind, ok := domain.ParseBlockKind(bv.Kind)
		if !ok {
			continue
		}
		_ = localWorld.SetKind(bv.X, bv.Y, kind)
	}
	return localWorld
}

// nearestSolid ищет непустую клетку в радиусе досягаемости (сначала ближние, затем по строкам)
func nearestSolid(w *domain.World, from domain.Position) (domain.Position, bool) {
	for r := 1; r <= domain.ReachRadius; r++ {
		for y := from.Y - r; y <= from.Y+r; y++ {
			for x := from.X - r; x <= from.X+r; x++ {
				p := domain.Position{X: x, Y: y}
				if from.ChebyshevTo(p) != r || !w.InBounds(x, y) {
					continue
				}
				if !w.IsPassable(x, y) {
					return p, true
				}
			}
		}
	}
	return domain.Position{}, false
}

// --- Хелперы для отправки команд на сервер ---

func (b *Bot) send(action domain.ActionType, payload any) {
	var payloadBytes json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			b.log.WithError(err).Error("Error marshalling payload")
			return
		}
		payloadBytes = raw
	}

	err := b.Service.ProcessCommand(api.ClientCommand{
		Action:  action.String(),
		Payload: payloadBytes,
		Token:   b.SessionID,
	})
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		b.log.WithError(err).Warn("Agent command failed")
		return
	}
	b.actions++
}
