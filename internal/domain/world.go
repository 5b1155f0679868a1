package domain

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// World - авторитетное хранилище блоков (сетка фиксированного размера).
// Blocks хранятся построчно: индекс = Y * Width + X.
type World struct {
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Seed   int64 `json:"seed"`

	blocks []Block
}

// NewWorld создает сетку, целиком заполненную воздухом
func NewWorld(width, height int, seed int64) *World {
	w := &World{
		Width:  width,
		Height: height,
		Seed:   seed,
		blocks: make([]Block, width*height),
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			w.blocks[w.GetIndex(x, y)] = Block{Kind: BlockAir, X: x, Y: y}
		}
	}
	return w
}
