package worldgen

import "math"

// Константы тригонометрического хеша (классический "shader hash")
const (
	seedScale  = 12.9898
	coordScale = 78.233
	scramble   = 43758.5453
)

// fract - дробная часть, всегда в [0,1) (в том числе для отрицательных)
func fract(v float64) float64 {
	return v - math.Floor(v)
}

// exactSeedLimit - сиды по модулю не больше этого значения идут в хеш как есть.
// У больших float64 шаг между соседними значениями больше x*coordScale, и колонки сливаются.
const exactSeedLimit = 1 << 24

// hashSeed приводит сид к диапазону, где float64 различает колонки.
// Большие сиды перемешиваются и сворачиваются в [0, exactSeedLimit).
func hashSeed(seed int64) float64 {
	if seed >= -exactSeedLimit && seed <= exactSeedLimit {
		return float64(seed)
	}
	return float64(Mix64(uint64(seed)) >> 40)
}

// ColumnHash - псевдослучайное значение в [0,1) для пары (seed, x)
func ColumnHash(seed int64, x int) float64 {
	return fract(math.Sin(hashSeed(seed)*seedScale+float64(x)*coordScale) * scramble)
}

// CellHash - второй хеш для пары (seed, x*y), решает судьбу камня
func CellHash(seed int64, x, y int) float64 {
	return ColumnHash(seed, x*y)
}

// Mix64 - целочисленное перемешивание (финализатор в стиле Murmur).
// Нужен там, где из сида мира надо вывести независимый сид (например, для ГСЧ ботов).
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

// DeriveSeed возвращает стабильный подсид для заданной соли
func DeriveSeed(seed int64, salt uint64) int64 {
	return int64(Mix64(uint64(seed) ^ (salt * 0x9e3779b97f4a7c15)))
}
