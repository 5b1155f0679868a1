package engine

import (
	"container/heap"
	"sort"

	"sandbox-server/pkg/logger"
)

// StepFunc вызывается, когда регистрация наступила. now - логическое время срабатывания.
type StepFunc func(nowMs int64)

// Scheduler - логические часы сессии. Держит регистрации по ролям в куче по времени срабатывания.
// Отмена = снятие регистрации. Не потокобезопасен: им владеет единственная горутина сессии.
type Scheduler struct {
	clockMs int64
	tick    uint64

	queue   scheduleQueue
	byName  map[string]*Registration
	nextSeq uint64
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		queue:  make(scheduleQueue, 0),
		byName: make(map[string]*Registration),
	}
}

// Register добавляет периодический шаг. Первое срабатывание - через period от текущего времени.
// Регистрация с тем же именем заменяется.
func (s *Scheduler) Register(name string, periodMs int64, step StepFunc) {
	if periodMs <= 0 || step == nil {
		return
	}
	s.Unregister(name)

	item := &Registration{
		Name:     name,
		PeriodMs: periodMs,
		DueMs:    s.clockMs + periodMs,
		seq:      s.nextSeq,
		step:     step,
	}
	s.nextSeq++

	heap.Push(&s.queue, item)
	s.byName[name] = item

	logger.Log.WithField("registration", name).Debug("Registration added to Scheduler")
}

// Unregister снимает регистрацию. Безопасно вызывать изнутри шага.
func (s *Scheduler) Unregister(name string) bool {
	item, ok := s.byName[name]
	if !ok {
		return false
	}
	if item.Index >= 0 {
		heap.Remove(&s.queue, item.Index)
	}
	delete(s.byName, name)
	return true
}

// Clear снимает все регистрации (выход, поражение, перегенерация)
func (s *Scheduler) Clear() {
	for _, item := range s.queue {
		item.Index = -1
	}
	s.queue = s.queue[:0]
	s.byName = make(map[string]*Registration)
}

// Has - есть ли активная регистрация
func (s *Scheduler) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

func (s *Scheduler) Len() int {
	return s.queue.Len()
}

// ClockMs - текущее логическое время
func (s *Scheduler) ClockMs() int64 {
	return s.clockMs
}

// Tick - сколько шагов выполнено с начала сессии
func (s *Scheduler) Tick() uint64 {
	return s.tick
}

// Advance двигает часы на d миллисекунд и выполняет все шаги, которые наступили, в порядке времени.
// Возвращает число выполненных шагов.
func (s *Scheduler) Advance(d int64) int {
	if d < 0 {
		return 0
	}
	target := s.clockMs + d
	fired := 0

	for s.queue.Len() > 0 {
		next := s.queue[0]
		if next.DueMs > target {
			break
		}

		s.clockMs = next.DueMs
		s.tick++
		fired++

		next.step(s.clockMs)

		// Шаг мог снять сам себя или все регистрации
		if cur, ok := s.byName[next.Name]; ok && cur == next && next.Index >= 0 {
			s.queue.update(next, next.DueMs+next.PeriodMs)
		}
	}

	s.clockMs = target
	return fired
}

// ScheduleView - снимок регистрации для отладки
type ScheduleView struct {
	Name     string `json:"name"`
	PeriodMs int64  `json:"period_ms"`
	DueMs    int64  `json:"due_ms"`
}

// DebugDump возвращает регистрации в порядке срабатывания
func (s *Scheduler) DebugDump() []ScheduleView {
	// Инициализируем как пустой слайс, а не nil. Тогда в JSON это будет "[]", а не "null"
	result := make([]ScheduleView, 0, len(s.queue))
	items := make([]*Registration, len(s.queue))
	copy(items, s.queue)

	sort.Slice(items, func(i, j int) bool {
		if items[i].DueMs != items[j].DueMs {
			return items[i].DueMs < items[j].DueMs
		}
		return items[i].seq < items[j].seq
	})
	for _, item := range items {
		result = append(result, ScheduleView{Name: item.Name, PeriodMs: item.PeriodMs, DueMs: item.DueMs})
	}
	return result
}
