package domain

// Размер мира фиксирован
const (
	WorldWidth  = 16
	WorldHeight = 10
)

// Точка появления игрока
const (
	SpawnX = 7
	SpawnY = 3
)

// Параметры игрока и правил
const (
	MaxVitals     = 20
	CreativeStock = 999
	ReachRadius   = 2
	ContactDamage = 2
)

// Периоды ИИ в миллисекундах
const (
	BotTickMs     = 1000
	HostileTickMs = 800
)
