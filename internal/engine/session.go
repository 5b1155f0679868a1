package engine

import (
	"fmt"
	"math/rand"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/input"
	"sandbox-server/internal/systems"
	"sandbox-server/internal/tuning"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"
	"sandbox-server/pkg/worldgen"

	"github.com/sirupsen/logrus"
)

// Имена регистраций планировщика
const (
	regBots     = "bots"
	regHostiles = "hostiles"
	regHunger   = "hunger"
)

// Соль для зерна ГСЧ ботов, чтобы он не совпадал с генератором мира
const botRngSalt = 0xB07

// Auditor принимает факты изменения клеток. Не должен блокировать.
type Auditor interface {
	RecordChange(sessionID string, tick uint64, change domain.BlockChange)
}

// Session - явный владелец состояния одной игры.
// Не потокобезопасна: все вызовы идут из одной горутины (Instance.Run).
type Session struct {
	ID     string
	Config Config

	state domain.SessionState

	World     *domain.World
	Inventory *domain.Inventory
	Selected  domain.BlockKind
	Vitals    domain.Vitals

	Player   *domain.Entity
	Bots     []*domain.Entity
	Hostiles []*domain.Entity

	Recipes   *domain.RecipeBook
	Scheduler *Scheduler

	Logs []api.LogEntry // Новые записи с прошлого снимка

	rng     *rand.Rand
	tuning  tuning.Tuning
	level   tuning.DifficultyTuning
	auditor Auditor
	log     *logrus.Entry
}

// NewSession строит мир по сиду, расставляет сущности и регистрирует шаги ИИ.
// auditor может быть nil.
func NewSession(id string, cfg Config, t tuning.Tuning, auditor Auditor) (*Session, error) {
	book, err := t.RecipeBook()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	s := &Session{
		ID:        id,
		Config:    cfg,
		state:     domain.SessionActive,
		Selected:  domain.BlockGrass,
		Vitals:    domain.NewVitals(),
		Recipes:   book,
		Scheduler: NewScheduler(),
		Logs:      []api.LogEntry{},
		tuning:    t,
		level:     t.ForDifficulty(cfg.Difficulty),
		auditor:   auditor,
		log: logger.Log.WithFields(logrus.Fields{
			"component":  "session",
			"session_id": id,
		}),
	}

	if cfg.Mode == domain.ModeCreative {
		s.Inventory = domain.NewCreativeInventory(t.CreativeStock)
	} else {
		s.Inventory = domain.NewInventory()
	}

	bots := 0
	if cfg.Multiplayer {
		bots = t.BotCount
	}
	hostiles := 0
	if cfg.Mode == domain.ModeZombie {
		hostiles = s.level.Hostiles
	}

	layout := worldgen.SpawnLayout(bots, hostiles)
	s.Player = domain.NewEntity(domain.RolePlayer, 0, layout.Player)
	for i, pos := range layout.Bots {
		s.Bots = append(s.Bots, domain.NewEntity(domain.RoleBot, uint64(i), pos))
	}
	for i, pos := range layout.Hostiles {
		s.Hostiles = append(s.Hostiles, domain.NewEntity(domain.RoleHostile, uint64(i), pos))
	}

	s.loadWorld(cfg.Seed)

	s.log.WithFields(logrus.Fields{
		"seed":       cfg.Seed,
		"mode":       cfg.Mode.String(),
		"difficulty": cfg.Difficulty.String(),
		"bots":       len(s.Bots),
		"hostiles":   len(s.Hostiles),
	}).Info("Session created")

	return s, nil
}

// State - текущее состояние жизненного цикла
func (s *Session) State() domain.SessionState {
	return s.state
}

func (s *Session) isActive() bool {
	return s.state == domain.SessionActive
}

// loadWorld генерирует мир, пересеивает ГСЧ ботов и пересобирает регистрации
func (s *Session) loadWorld(seed int64) {
	s.Config.Seed = seed
	s.World = worldgen.Generate(seed)
	s.rng = rand.New(rand.NewSource(worldgen.DeriveSeed(seed, botRngSalt)))
	s.rebuildSchedule()
}

// rebuildSchedule регистрирует шаги заново. Пустая популяция - нет регистрации.
func (s *Session) rebuildSchedule() {
	s.Scheduler.Clear()

	if len(s.Bots) > 0 {
		s.Scheduler.Register(regBots, int64(s.tuning.BotPeriodMs), s.stepBots)
	}
	if len(s.Hostiles) > 0 {
		s.Scheduler.Register(regHostiles, int64(s.level.HostilePeriodMs), s.stepHostiles)
	}
	if s.level.HungerPeriodMs > 0 {
		s.Scheduler.Register(regHunger, int64(s.level.HungerPeriodMs), s.stepHunger)
	}
}

func (s *Session) stepBots(int64) {
	for _, bot := range s.Bots {
		systems.StepBot(bot, s.rng, s.World)
	}
}

// stepHostiles двигает врагов по очереди. Каждый контакт наносит урон отдельно.
func (s *Session) stepHostiles(int64) {
	for _, h := range s.Hostiles {
		_, contact := systems.StepHostile(h, s.Player, s.World)
		if !contact {
			continue
		}

		defeated, msg := systems.ApplyContactDamage(h, s.Player, &s.Vitals, s.level.ContactDamage)
		if msg != "" {
			s.AddLog(msg, api.LogCombat)
		}
		if defeated {
			s.defeat()
			return
		}
	}
}

func (s *Session) stepHunger(int64) {
	systems.ApplyHunger(&s.Vitals, s.level.HungerAmount)
}

// defeat - терминальное состояние: шаги ИИ снимаются, принимается только выход
func (s *Session) defeat() {
	s.state = domain.SessionDefeated
	s.Scheduler.Clear()
	s.log.WithField("clock_ms", s.Scheduler.ClockMs()).Info("Player defeated")
}

// isOccupied - стоит ли в клетке какая-либо сущность
func (s *Session) isOccupied(p domain.Position) bool {
	if s.Player.Pos == p {
		return true
	}
	for _, e := range s.Bots {
		if e.Pos == p {
			return true
		}
	}
	for _, e := range s.Hostiles {
		if e.Pos == p {
			return true
		}
	}
	return false
}

// ActivateCell - клик по клетке: копать или ставить выбранный блок
func (s *Session) ActivateCell(x, y int) systems.ActivateResult {
	if !s.isActive() {
		return systems.ActivateResult{Outcome: systems.ActivateIgnored}
	}

	res := systems.ActivateCell(s.Player, domain.Position{X: x, Y: y}, s.Selected,
		s.World, s.Inventory, s.isOccupied)

	if res.Change != nil && s.auditor != nil {
		s.auditor.RecordChange(s.ID, s.Scheduler.Tick(), *res.Change)
	}
	return res
}

// MovePlayer - один шаг игрока
func (s *Session) MovePlayer(dx, dy int) systems.MovementResult {
	if !s.isActive() {
		return systems.MovementResult{NewX: s.Player.Pos.X, NewY: s.Player.Pos.Y}
	}
	return systems.AttemptMove(s.Player, dx, dy, s.World)
}

// PressKey переводит клавишу в направление. false - клавиша не про движение.
func (s *Session) PressKey(key, code string) (systems.MovementResult, bool) {
	dir, ok := input.ParseKey(key, code)
	if !ok {
		return systems.MovementResult{NewX: s.Player.Pos.X, NewY: s.Player.Pos.Y}, false
	}
	return s.MovePlayer(dir.X, dir.Y), true
}

// SelectSlot выбирает блок для постройки. Воздух выбрать нельзя.
func (s *Session) SelectSlot(kind domain.BlockKind) bool {
	if !s.isActive() || kind == domain.BlockAir {
		return false
	}
	s.Selected = kind
	return true
}

// Craft - атомарный крафт по ID рецепта
func (s *Session) Craft(recipeID string) (systems.CraftResult, error) {
	if !s.isActive() {
		return systems.CraftResult{}, nil
	}
	return systems.TryCraft(s.Inventory, s.Recipes, recipeID)
}

// Regenerate заменяет мир, возвращает сущности на точки появления и пересобирает регистрации.
// Инвентарь и показатели сохраняются.
func (s *Session) Regenerate(seed int64) bool {
	if !s.isActive() {
		return false
	}

	layout := worldgen.SpawnLayout(len(s.Bots), len(s.Hostiles))
	s.Player.Pos = layout.Player
	for i, e := range s.Bots {
		e.Pos = layout.Bots[i]
	}
	for i, e := range s.Hostiles {
		e.Pos = layout.Hostiles[i]
	}

	s.loadWorld(seed)
	s.log.WithField("seed", seed).Info("World regenerated")
	return true
}

// Exit завершает сессию. Повторный вызов ничего не делает.
func (s *Session) Exit() {
	if s.state == domain.SessionEnded {
		return
	}
	s.state = domain.SessionEnded
	s.Scheduler.Clear()
	s.log.Info("Session ended")
}

// Advance двигает логические часы. Возвращает число сработавших шагов.
func (s *Session) Advance(ms int64) int {
	if s.state == domain.SessionEnded {
		return 0
	}
	return s.Scheduler.Advance(ms)
}

// ClearLogs сбрасывает записи, уже отправленные клиенту
func (s *Session) ClearLogs() {
	s.Logs = []api.LogEntry{}
}
