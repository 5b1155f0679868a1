// Package audit хранит журнал мутаций клеток (копать/ставить) в SQLite.
// По умолчанию база живет в памяти и умирает вместе с процессом.
package audit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/pkg/logger"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// MemoryDSN - база в памяти процесса
const MemoryDSN = ":memory:"

// Entry - одна строка журнала
type Entry struct {
	ID         int64  `json:"id"`
	SessionID  string `json:"sessionId"`
	Tick       uint64 `json:"tick"`
	Actor      string `json:"actor"`
	Action     string `json:"action"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	From       string `json:"from"`
	To         string `json:"to"`
	RecordedAt string `json:"recordedAt"`
}

type reqKind int

const (
	reqAudit reqKind = iota + 1
	reqFlush
)

type req struct {
	kind  reqKind
	entry Entry
	done  chan struct{}
}

// Index - индекс аудита. Запись идет через буферизированный канал и отдельную горутину,
// поэтому симуляция никогда не блокируется на диске.
type Index struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	// mu защищает closed и отправку в ch от одновременного Close
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Int64
}

// Open открывает (или создает) базу и запускает писателя
func Open(dsn string, buffer int) (*Index, error) {
	if dsn == "" {
		dsn = MemoryDSN
	}
	if buffer <= 0 {
		return nil, fmt.Errorf("audit buffer must be positive, got %d", buffer)
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Одно соединение: для :memory: каждое новое соединение - это новая пустая база
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	idx := &Index{
		db: db,
		ch: make(chan req, buffer),
	}
	idx.wg.Add(1)
	go func() {
		defer idx.wg.Done()
		idx.loop()
	}()
	return idx, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS audits (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			tick INTEGER NOT NULL,
			actor TEXT NOT NULL,
			action TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			from_block TEXT NOT NULL,
			to_block TEXT NOT NULL,
			recorded_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_session ON audits(session_id, id);`,
		`CREATE INDEX IF NOT EXISTS idx_audits_pos ON audits(session_id, x, y);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

// RecordChange ставит изменение клетки в очередь на запись.
// Никогда не блокирует: при переполненном буфере запись отбрасывается с предупреждением.
func (x *Index) RecordChange(sessionID string, tick uint64, change domain.BlockChange) {
	if x == nil {
		return
	}

	e := Entry{
		SessionID:  sessionID,
		Tick:       tick,
		Actor:      change.Actor.String(),
		Action:     change.Event.String(),
		X:          change.X,
		Y:          change.Y,
		From:       change.From.String(),
		To:         change.To.String(),
		RecordedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}

	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.closed {
		return
	}

	select {
	case x.ch <- req{kind: reqAudit, entry: e}:
	default:
		n := x.dropped.Add(1)
		logger.Log.WithFields(logrus.Fields{
			"component":  "audit_index",
			"session_id": sessionID,
			"dropped":    n,
		}).Warn("Audit buffer full, change dropped")
	}
}

// Flush ждет, пока писатель обработает все, что было поставлено в очередь до вызова
func (x *Index) Flush(ctx context.Context) error {
	done := make(chan struct{})
	if err := x.enqueue(ctx, req{kind: reqFlush, done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue блокирующе ставит запрос писателю. Писатель разбирает очередь до закрытия,
// поэтому Close ждет только уже начатые отправки.
func (x *Index) enqueue(ctx context.Context, r req) error {
	x.mu.RLock()
	defer x.mu.RUnlock()
	if x.closed {
		return errors.New("audit index closed")
	}
	select {
	case x.ch <- r:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Query возвращает последние записи сессии, новые первыми
func (x *Index) Query(ctx context.Context, sessionID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := x.db.QueryContext(ctx,
		`SELECT id, session_id, tick, actor, action, x, y, from_block, to_block, recorded_at
		 FROM audits WHERE session_id = ? ORDER BY id DESC LIMIT ?`, sessionID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audits: %w", err)
	}
	defer rows.Close()

	out := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var tick int64
		if err := rows.Scan(&e.ID, &e.SessionID, &tick, &e.Actor, &e.Action, &e.X, &e.Y, &e.From, &e.To, &e.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan audit: %w", err)
		}
		e.Tick = uint64(tick)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Count - число записей сессии
func (x *Index) Count(ctx context.Context, sessionID string) (int, error) {
	var n int
	err := x.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM audits WHERE session_id = ?`, sessionID).Scan(&n)
	return n, err
}

// Dropped - сколько записей потеряно из-за переполнения буфера
func (x *Index) Dropped() int64 {
	return x.dropped.Load()
}

func (x *Index) Close() error {
	var err error
	x.once.Do(func() {
		x.mu.Lock()
		x.closed = true
		close(x.ch)
		x.mu.Unlock()
		x.wg.Wait()
		err = x.db.Close()
	})
	return err
}

func (x *Index) loop() {
	log := logger.Component("audit_index")

	insert, err := x.db.Prepare(`INSERT INTO audits(session_id,tick,actor,action,x,y,from_block,to_block,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		log.WithError(err).Error("Prepare insert failed, audit disabled")
	}
	defer func() {
		if insert != nil {
			_ = insert.Close()
		}
	}()

	for r := range x.ch {
		switch r.kind {
		case reqFlush:
			close(r.done)

		case reqAudit:
			if insert == nil {
				continue
			}
			e := r.entry
			if _, err := insert.Exec(e.SessionID, int64(e.Tick), e.Actor, e.Action, e.X, e.Y, e.From, e.To, e.RecordedAt); err != nil {
				log.WithError(err).WithField("session_id", e.SessionID).Warn("Audit insert failed")
			}
		}
	}
}
