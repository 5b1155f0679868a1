package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Role + Index)
type EntityID uint64

// Конфигурация битов
const (
	bitsIndex = 40
	bitsRole  = 8

	shiftRole = bitsIndex

	maskIndex = (1 << bitsIndex) - 1 // 0x000000FFFFFFFFFF
	maskRole  = (1 << bitsRole) - 1  // 0xFF
)

// PackEntityID создает ID из роли и порядкового номера
func PackEntityID(role EntityRole, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(role) & maskRole) << shiftRole
	return EntityID(id)
}

func (id EntityID) Role() EntityRole {
	return EntityRole((id >> shiftRole) & maskRole)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// String для логов: [Role:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d]", id.Role(), id.Index())
}
