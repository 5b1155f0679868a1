package engine

import (
	"time"

	"sandbox-server/pkg/api"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// AddLog добавляет запись в игровой лог сессии.
// ID - ULID, поэтому записи сортируются по времени создания.
func (s *Session) AddLog(text, logType string) {
	now := time.Now()
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        ulid.Make().String(),
		Text:      text,
		Type:      logType,
		Timestamp: now.UnixMilli(),
	})
	s.log.WithFields(logrus.Fields{
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}
