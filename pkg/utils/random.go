package utils

import (
	"crypto/rand"
	"encoding/binary"
	"time"

	"github.com/google/uuid"
)

// NewSessionID создает идентификатор сессии (UUID v4)
func NewSessionID() string {
	return uuid.NewString()
}

// IsSessionID проверяет, что строка похожа на идентификатор сессии
func IsSessionID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// RandomSeed возвращает случайное зерно мира.
// Если crypto/rand недоступен, откатывается на время.
func RandomSeed() int64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return time.Now().UnixNano()
	}
	// Сид держим неотрицательным, так его проще передавать руками
	return int64(binary.LittleEndian.Uint64(b[:]) >> 1)
}
