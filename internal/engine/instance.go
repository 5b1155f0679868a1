package engine

import (
	"context"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Instance - горутина, которая единолично владеет одной сессией.
// Все изменения сессии идут через ее каналы.
type Instance struct {
	Session *Session

	// Каналы коммуникации
	CommandChan chan domain.InternalCommand // Команды от клиента
	queryChan   chan func(*Session)         // Чтение для отладочных ручек

	// Ссылка на Service для доступа к Hub и хендлерам
	Service *GameService

	tick time.Duration
	done chan struct{}
	log  *logrus.Entry
}

func NewInstance(session *Session, service *GameService) *Instance {
	return &Instance{
		Session:     session,
		CommandChan: make(chan domain.InternalCommand, 100),
		queryChan:   make(chan func(*Session)),
		Service:     service,
		tick:        time.Duration(service.Tuning.TickMs) * time.Millisecond,
		done:        make(chan struct{}),
		log:         logger.Component("instance").WithField("session_id", session.ID),
	}
}

// Done закрывается, когда цикл инстанса завершился
func (i *Instance) Done() <-chan struct{} {
	return i.done
}

// Run запускает игровой цикл ЭТОГО инстанса.
// Настенный тикер двигает логические часы сессии на фиксированный шаг,
// поэтому поведение сессии зависит только от числа тиков, а не от задержек.
func (i *Instance) Run(ctx context.Context) {
	defer close(i.done)

	i.log.Info("Instance loop started")
	defer i.log.Info("Instance loop stopped")

	ticker := time.NewTicker(i.tick)
	defer ticker.Stop()
	tickC := ticker.C

	// Первый снимок сразу после старта
	i.publish()

	for {
		select {
		case <-ctx.Done():
			return

		case cmd := <-i.CommandChan:
			i.executeCommand(cmd)
			i.publish()

		case q := <-i.queryChan:
			q(i.Session)

		case <-tickC:
			if i.Session.Advance(i.tick.Milliseconds()) > 0 {
				i.publish()
			}
		}

		switch i.Session.State() {
		case domain.SessionEnded:
			return
		case domain.SessionDefeated:
			// Шагов ИИ больше не будет, тикер не нужен
			if tickC != nil {
				ticker.Stop()
				tickC = nil
			}
		}
	}
}

// executeCommand выполняет команду в контексте сессии
func (i *Instance) executeCommand(cmd domain.InternalCommand) {
	cmdLog := i.log.WithField("action", cmd.Action.String())

	if cmd.Action.IsGameplay() && i.Session.State() != domain.SessionActive {
		cmdLog.WithField("state", i.Session.State().String()).Debug("Gameplay command ignored")
		return
	}

	handler, ok := i.Service.handlers[cmd.Action]
	if !ok {
		cmdLog.Warn("No handler for action")
		return
	}

	ctx := handlers.Context{
		Game:      i.Session,
		SessionID: i.Session.ID,
	}

	result, err := handler(ctx, cmd.Payload)
	if err != nil {
		cmdLog.WithError(err).Warn("Command rejected")
		i.Service.Hub.SendTo(i.Session.ID, api.ServerResponse{
			Type:      api.MsgError,
			SessionID: i.Session.ID,
			Error:     err.Error(),
		})
		return
	}

	if result.Msg != "" {
		msgType := result.MsgType
		if msgType == "" {
			msgType = api.LogInfo
		}
		i.Session.AddLog(result.Msg, msgType)
	}

	if result.Event != domain.EventUnknown {
		cmdLog.WithField("event", result.Event.String()).Debug("Command applied")
	}
}

// publish рассылает снимок подписчику сессии и очищает отправленные логи
func (i *Instance) publish() {
	i.Service.Hub.SendTo(i.Session.ID, i.Session.Snapshot())
	i.Session.ClearLogs()
}

// query выполняет fn внутри цикла инстанса.
// false - инстанс уже завершился.
func (i *Instance) query(fn func(*Session)) bool {
	finished := make(chan struct{})
	wrapped := func(s *Session) {
		fn(s)
		close(finished)
	}

	select {
	case i.queryChan <- wrapped:
	case <-i.done:
		return false
	}

	<-finished
	return true
}
