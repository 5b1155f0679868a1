package domain

import "fmt"

func (w *World) GetIndex(x, y int) int {
	return y*w.Width + x
}

// InBounds проверяет, что координата внутри сетки
func (w *World) InBounds(x, y int) bool {
	return x >= 0 && x < w.Width && y >= 0 && y < w.Height
}

// BlockAt возвращает блок по координате
func (w *World) BlockAt(x, y int) (Block, error) {
	if !w.InBounds(x, y) {
		return Block{}, fmt.Errorf("block (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	return w.blocks[w.GetIndex(x, y)], nil
}

// IsPassable - true, если в клетке воздух. За пределами сетки всегда false.
func (w *World) IsPassable(x, y int) bool {
	if !w.InBounds(x, y) {
		return false
	}
	return w.blocks[w.GetIndex(x, y)].Kind.IsPassable()
}

// SetKind меняет вид блока на месте.
// Проверяются только границы, игровые правила (нельзя ставить в занятую клетку) - забота вызывающего.
func (w *World) SetKind(x, y int, kind BlockKind) error {
	if !w.InBounds(x, y) {
		return fmt.Errorf("set (%d,%d): %w", x, y, ErrOutOfBounds)
	}
	w.blocks[w.GetIndex(x, y)].Kind = kind
	return nil
}

// Blocks возвращает копию всех блоков в порядке строк (для снапшота)
func (w *World) Blocks() []Block {
	out := make([]Block, len(w.blocks))
	copy(out, w.blocks)
	return out
}

// Clone - глубокая копия мира
func (w *World) Clone() *World {
	return &World{
		Width:  w.Width,
		Height: w.Height,
		Seed:   w.Seed,
		blocks: w.Blocks(),
	}
}

// Equal сравнивает размеры и все клетки (сид не учитывается)
func (w *World) Equal(other *World) bool {
	if other == nil || w.Width != other.Width || w.Height != other.Height {
		return false
	}
	for i := range w.blocks {
		if w.blocks[i] != other.blocks[i] {
			return false
		}
	}
	return true
}

// CountKind считает блоки заданного вида
func (w *World) CountKind(kind BlockKind) int {
	n := 0
	for _, b := range w.blocks {
		if b.Kind == kind {
			n++
		}
	}
	return n
}
