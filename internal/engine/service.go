package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine/handlers"
	"sandbox-server/internal/engine/handlers/actions"
	"sandbox-server/internal/network"
	"sandbox-server/internal/tuning"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"
	"sandbox-server/pkg/utils"

	"github.com/sirupsen/logrus"
)

// ShutdownNotice - текст ошибки, которую получают клиенты при остановке сервера
const ShutdownNotice = "server is shutting down"

// SessionInfo - краткая сводка для /debug/sessions
type SessionInfo struct {
	ID         string `json:"id"`
	State      string `json:"state"`
	Mode       string `json:"mode"`
	Difficulty string `json:"difficulty"`
	Seed       int64  `json:"seed"`
	Tick       uint64 `json:"tick"`
	ClockMs    int64  `json:"clockMs"`
	Bots       int    `json:"bots"`
	Hostiles   int    `json:"hostiles"`
}

// GameService - реестр сессий. Каждой сессией владеет своя горутина (Instance).
type GameService struct {
	Config  Config
	Tuning  tuning.Tuning
	Auditor Auditor
	Hub     *network.Broadcaster

	mu        sync.RWMutex
	instances map[string]*Instance

	handlers map[domain.ActionType]handlers.HandlerFunc

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	log    *logrus.Entry
}

// NewService создает реестр. auditor может быть nil.
func NewService(cfg Config, t tuning.Tuning, auditor Auditor) *GameService {
	ctx, cancel := context.WithCancel(context.Background())

	s := &GameService{
		Config:    cfg,
		Tuning:    t,
		Auditor:   auditor,
		Hub:       network.NewBroadcaster(),
		instances: make(map[string]*Instance),
		handlers:  make(map[domain.ActionType]handlers.HandlerFunc),
		ctx:       ctx,
		cancel:    cancel,
		log:       logger.Component("game_service"),
	}

	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionActivateCell] = handlers.WithPayload(actions.HandleActivateCell)
	s.handlers[domain.ActionMove] = handlers.WithPayload(actions.HandleMove)
	s.handlers[domain.ActionKey] = handlers.WithPayload(actions.HandleKey)
	s.handlers[domain.ActionSelectSlot] = handlers.WithPayload(actions.HandleSelectSlot)
	s.handlers[domain.ActionCraft] = handlers.WithPayload(actions.HandleCraft)
	s.handlers[domain.ActionRegenerate] = handlers.WithPayload(actions.HandleRegenerate)
	s.handlers[domain.ActionExit] = handlers.WithEmptyPayload(actions.HandleExit)
}

// StartSession создает сессию по параметрам START и запускает ее инстанс.
// Канал подписчика регистрируется до старта, поэтому первый снимок не теряется.
func (s *GameService) StartSession(p api.StartPayload) (string, <-chan api.ServerResponse, error) {
	cfg, err := s.Config.Resolve(p)
	if err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}

	id := utils.NewSessionID()
	session, err := NewSession(id, cfg, s.Tuning, s.Auditor)
	if err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return "", nil, fmt.Errorf("start session: service is shutting down")
	}
	inst := NewInstance(session, s)
	s.instances[id] = inst
	s.wg.Add(1)
	s.mu.Unlock()

	ch := s.Hub.Register(id)

	go func() {
		defer s.wg.Done()
		inst.Run(s.ctx)
		s.removeInstance(id)
	}()

	return id, ch, nil
}

// removeInstance убирает завершенный инстанс и закрывает канал подписчика
func (s *GameService) removeInstance(id string) {
	s.mu.Lock()
	delete(s.instances, id)
	s.mu.Unlock()

	s.Hub.Unregister(id)
	s.log.WithField("session_id", id).Info("Session removed")
}

func (s *GameService) instance(id string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inst, ok := s.instances[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return inst, nil
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// Token - ID сессии. START сюда не приходит, для него есть StartSession.
func (s *GameService) ProcessCommand(cmd api.ClientCommand) error {
	actionType := domain.ParseAction(cmd.Action)
	if actionType == domain.ActionUnknown || actionType == domain.ActionStart {
		return fmt.Errorf("unexpected action %q", cmd.Action)
	}

	inst, err := s.instance(cmd.Token)
	if err != nil {
		return err
	}

	select {
	case inst.CommandChan <- domain.InternalCommand{
		Action:  actionType,
		Token:   cmd.Token,
		Payload: cmd.Payload,
	}:
		return nil
	case <-inst.Done():
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, cmd.Token)
	}
}

// EndSession завершает сессию так же, как команда EXIT
func (s *GameService) EndSession(id string) error {
	return s.ProcessCommand(api.ClientCommand{
		Token:   id,
		Action:  domain.ActionExit.String(),
		Payload: json.RawMessage("{}"),
	})
}

// Shutdown предупреждает подписчиков, останавливает все инстансы и ждет их завершения
func (s *GameService) Shutdown() {
	if s.Hub.SubscriberCount() > 0 {
		sent := s.Hub.Broadcast(api.ServerResponse{Type: api.MsgError, Error: ShutdownNotice})
		s.log.WithField("notified", sent).Info("Shutdown notice sent")
	}

	s.mu.Lock()
	s.cancel()
	s.mu.Unlock()

	s.wg.Wait()
	s.log.Info("All sessions stopped")
}

// Inspect возвращает снимок сессии, не трогая ее логи
func (s *GameService) Inspect(id string) (api.ServerResponse, error) {
	inst, err := s.instance(id)
	if err != nil {
		return api.ServerResponse{}, err
	}

	var snap api.ServerResponse
	if !inst.query(func(sess *Session) { snap = sess.Snapshot() }) {
		return api.ServerResponse{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return snap, nil
}

// Schedule возвращает очередь планировщика сессии
func (s *GameService) Schedule(id string) ([]ScheduleView, error) {
	inst, err := s.instance(id)
	if err != nil {
		return nil, err
	}

	var views []ScheduleView
	if !inst.query(func(sess *Session) { views = sess.Scheduler.DebugDump() }) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return views, nil
}

// Sessions - сводка по всем живым сессиям, отсортированная по ID
func (s *GameService) Sessions() []SessionInfo {
	s.mu.RLock()
	list := make([]*Instance, 0, len(s.instances))
	for _, inst := range s.instances {
		list = append(list, inst)
	}
	s.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(list))
	for _, inst := range list {
		var info SessionInfo
		ok := inst.query(func(sess *Session) {
			info = SessionInfo{
				ID:         sess.ID,
				State:      sess.State().String(),
				Mode:       sess.Config.Mode.String(),
				Difficulty: sess.Config.Difficulty.String(),
				Seed:       sess.Config.Seed,
				Tick:       sess.Scheduler.Tick(),
				ClockMs:    sess.Scheduler.ClockMs(),
				Bots:       len(sess.Bots),
				Hostiles:   len(sess.Hostiles),
			}
		})
		if ok {
			infos = append(infos, info)
		}
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}
