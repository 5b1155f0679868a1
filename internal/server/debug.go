package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine"
	"sandbox-server/internal/infrastructure/audit"
	"sandbox-server/pkg/logger"
	"sandbox-server/pkg/utils"
)

// AuditReader - чтение журнала изменений клеток
type AuditReader interface {
	Flush(ctx context.Context) error
	Query(ctx context.Context, sessionID string, limit int) ([]audit.Entry, error)
}

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
	Audit   AuditReader // может быть nil
}

func NewDebugHandler(s *engine.GameService, a AuditReader) *DebugHandler {
	return &DebugHandler{Service: s, Audit: a}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
	mux.HandleFunc("/debug/session", h.handleSession)
	mux.HandleFunc("/debug/schedule", h.handleSchedule)
	mux.HandleFunc("/debug/audit", h.handleAudit)
}

// /debug/sessions - список живых сессий
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Sessions())
}

// /debug/session?id=... - полный снимок сессии (логи не сбрасываются)
func (h *DebugHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	snap, err := h.Service.Inspect(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, snap)
}

// /debug/schedule?id=... - регистрации планировщика в порядке срабатывания
func (h *DebugHandler) handleSchedule(w http.ResponseWriter, r *http.Request) {
	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	views, err := h.Service.Schedule(id)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, views)
}

// /debug/audit?id=...&limit=50 - последние изменения клеток сессии
func (h *DebugHandler) handleAudit(w http.ResponseWriter, r *http.Request) {
	if h.Audit == nil {
		http.Error(w, "Audit index is disabled", http.StatusServiceUnavailable)
		return
	}

	id, ok := sessionIDParam(w, r)
	if !ok {
		return
	}
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	// Дожидаемся записи того, что уже в буфере
	if err := h.Audit.Flush(ctx); err != nil {
		logger.Log.WithError(err).Warn("audit flush failed")
	}
	entries, err := h.Audit.Query(ctx, id, limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, entries)
}

// sessionIDParam читает ?id= и отвечает 400, если это не идентификатор сессии
func sessionIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "id is required", http.StatusBadRequest)
		return "", false
	}
	if !utils.IsSessionID(id) {
		http.Error(w, "id is not a session id", http.StatusBadRequest)
		return "", false
	}
	return id, true
}

func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug response encode failed")
	}
}
