package domain

import "strings"

// BlockKind - материал, занимающий клетку сетки
type BlockKind uint8

const (
	BlockAir BlockKind = iota
	BlockGrass
	BlockDirt
	BlockStone
	BlockWood
)

// PlaceableKinds - все виды блоков, которые можно держать в инвентаре (без воздуха).
// Порядок используется для креативного инвентаря.
var PlaceableKinds = []BlockKind{BlockGrass, BlockDirt, BlockStone, BlockWood}

// Маппинг для конвертации JSON -> Domain
var blockStringToKind = map[string]BlockKind{
	"AIR":   BlockAir,
	"GRASS": BlockGrass,
	"DIRT":  BlockDirt,
	"STONE": BlockStone,
	"WOOD":  BlockWood,
}

var blockKindToString = map[BlockKind]string{
	BlockAir:   "AIR",
	BlockGrass: "GRASS",
	BlockDirt:  "DIRT",
	BlockStone: "STONE",
	BlockWood:  "WOOD",
}

// Названия для игрового лога и интерфейса
var blockDisplayNames = map[BlockKind]string{
	BlockAir:   "Воздух",
	BlockGrass: "Трава",
	BlockDirt:  "Земля",
	BlockStone: "Камень",
	BlockWood:  "Доски",
}

var blockColors = map[BlockKind]string{
	BlockAir:   "transparent",
	BlockGrass: "#228B22",
	BlockDirt:  "#8B4513",
	BlockStone: "#808080",
	BlockWood:  "#D2691E",
}

// ParseBlockKind конвертирует строку из JSON в BlockKind.
// Второе значение false, если вид неизвестен.
func ParseBlockKind(s string) (BlockKind, bool) {
	kind, ok := blockStringToKind[strings.ToUpper(strings.TrimSpace(s))]
	return kind, ok
}

// String реализует интерфейс Stringer
func (k BlockKind) String() string {
	if val, ok := blockKindToString[k]; ok {
		return val
	}
	return "UNKNOWN"
}

// DisplayName возвращает русское название блока
func (k BlockKind) DisplayName() string {
	if val, ok := blockDisplayNames[k]; ok {
		return val
	}
	return "?"
}

// Color возвращает цвет для рендера
func (k BlockKind) Color() string {
	if val, ok := blockColors[k]; ok {
		return val
	}
	return "#FF00FF"
}

// IsPassable - можно ли стоять в клетке с таким блоком
func (k BlockKind) IsPassable() bool {
	return k == BlockAir
}

// Block - одна клетка сетки
type Block struct {
	Kind BlockKind `json:"kind"`
	X    int       `json:"x"`
	Y    int       `json:"y"`
}
