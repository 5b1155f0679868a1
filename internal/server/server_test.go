package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"sandbox-server/internal/domain"
	"sandbox-server/internal/engine"
	"sandbox-server/internal/infrastructure/audit"
	"sandbox-server/internal/tuning"
	"sandbox-server/pkg/api"
	"sandbox-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type testEnv struct {
	svc   *engine.GameService
	index *audit.Index
	http  *httptest.Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	index, err := audit.Open(audit.MemoryDSN, 64)
	require.NoError(t, err)

	cfg := engine.Config{Seed: 1, Mode: domain.ModeSurvival, Difficulty: domain.DifficultyNormal}
	svc := engine.NewService(cfg, tuning.Default(), index)

	srv, err := New(svc, index, "0")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		svc.Shutdown()
		_ = index.Close()
	})
	return &testEnv{svc: svc, index: index, http: ts}
}

func (e *testEnv) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.http.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn) api.ServerResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	var msg api.ServerResponse
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWS_StartAndMove(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "START",
		"payload": map[string]any{"mode": "survival", "seed": 3},
	}))

	first := readJSON(t, conn)
	require.Equal(t, api.MsgUpdate, first.Type)
	assert.NotEmpty(t, first.SessionID)
	assert.Equal(t, int64(3), first.Seed)
	assert.Len(t, first.Blocks, domain.WorldWidth*domain.WorldHeight)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "KEY",
		"payload": map[string]any{"key": "a", "code": "KeyA"},
	}))
	moved := readJSON(t, conn)
	assert.Equal(t, 6, moved.Player.Pos.X)

	// Кадр не проходит схему
	require.NoError(t, conn.WriteJSON(map[string]any{"action": "FLY"}))
	rejected := readJSON(t, conn)
	assert.Equal(t, api.MsgError, rejected.Type)

	require.NoError(t, conn.WriteJSON(map[string]any{"action": "EXIT"}))
	ended := readJSON(t, conn)
	assert.Equal(t, api.MsgEnded, ended.Type)
	assert.Equal(t, "ENDED", ended.State)
}

func TestWS_FirstFrameMustBeStart(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "MOVE",
		"payload": map[string]any{"dx": 1, "dy": 0},
	}))
	msg := readJSON(t, conn)
	assert.Equal(t, api.MsgError, msg.Type)
	assert.Contains(t, msg.Error, "START")
	assert.Empty(t, env.svc.Sessions())
}

func TestWS_CompressedFrames(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "START",
		"payload": map[string]any{"compress": true},
	}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	kind, frame, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.BinaryMessage, kind)

	codec, err := api.NewFrameCodec()
	require.NoError(t, err)
	defer codec.Close()

	var msg api.ServerResponse
	require.NoError(t, codec.Decode(frame, &msg))
	assert.Equal(t, api.MsgUpdate, msg.Type)
	assert.Equal(t, int64(1), msg.Seed)
}

func TestDebug_AuditAndSessions(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "START",
		"payload": map[string]any{"mode": "creative"},
	}))
	id := readJSON(t, conn).SessionID

	require.NoError(t, conn.WriteJSON(map[string]any{
		"action":  "ACTIVATE_CELL",
		"payload": map[string]any{"x": 6, "y": 2},
	}))
	placed := readJSON(t, conn)
	assert.Equal(t, uint(domain.CreativeStock-1), placed.Inventory[0].Count)

	// /debug/sessions
	resp, err := http.Get(env.http.URL + "/debug/sessions")
	require.NoError(t, err)
	var infos []engine.SessionInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&infos))
	resp.Body.Close()
	require.Len(t, infos, 1)
	assert.Equal(t, id, infos[0].ID)
	assert.Equal(t, "creative", infos[0].Mode)

	// /debug/audit
	resp, err = http.Get(env.http.URL + "/debug/audit?id=" + id)
	require.NoError(t, err)
	var entries []audit.Entry
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entries))
	resp.Body.Close()
	require.Len(t, entries, 1)
	assert.Equal(t, "BLOCK_PLACED", entries[0].Action)
	assert.Equal(t, 6, entries[0].X)
	assert.Equal(t, 2, entries[0].Y)

	// /debug/schedule для сессии без ИИ - пустой массив
	resp, err = http.Get(env.http.URL + "/debug/schedule?id=" + id)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestDebug_NotFoundAndBadRequest(t *testing.T) {
	env := newTestEnv(t)
	const unknownID = "00000000-0000-4000-8000-000000000000"

	tests := []struct {
		path string
		code int
	}{
		{"/debug/session?id=" + unknownID, http.StatusNotFound},
		{"/debug/schedule?id=" + unknownID, http.StatusNotFound},
		{"/debug/session?id=missing", http.StatusBadRequest},
		{"/debug/schedule", http.StatusBadRequest},
		{"/debug/audit", http.StatusBadRequest},
		{"/debug/audit?id=x", http.StatusBadRequest},
		{"/debug/audit?id=" + unknownID + "&limit=-1", http.StatusBadRequest},
		{"/health", http.StatusOK},
		{"/version", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(env.http.URL + tt.path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.code, resp.StatusCode)
		})
	}
}

func TestDebug_AuditDisabled(t *testing.T) {
	svc := engine.NewService(engine.NewConfig(), tuning.Default(), nil)
	defer svc.Shutdown()

	h := NewDebugHandler(svc, nil)
	rec := httptest.NewRecorder()
	h.handleAudit(rec, httptest.NewRequest(http.MethodGet, "/debug/audit?id=x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
