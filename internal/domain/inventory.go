package domain

import "fmt"

// InventoryEntry - стак одного вида блоков. Count всегда >= 1, нулевые записи удаляются.
type InventoryEntry struct {
	Kind  BlockKind `json:"kind"`
	Count uint      `json:"count"`
}

// Inventory - учет количества блоков по видам.
// Порядок записей - порядок первого получения (так их видит игрок).
type Inventory struct {
	entries []InventoryEntry
}

func NewInventory() *Inventory {
	return &Inventory{entries: make([]InventoryEntry, 0, len(PlaceableKinds))}
}

// NewCreativeInventory - бесконечный (практически) запас каждого вида
func NewCreativeInventory(stock uint) *Inventory {
	inv := NewInventory()
	for _, kind := range PlaceableKinds {
		inv.entries = append(inv.entries, InventoryEntry{Kind: kind, Count: stock})
	}
	return inv
}

func (inv *Inventory) find(kind BlockKind) int {
	for i := range inv.entries {
		if inv.entries[i].Kind == kind {
			return i
		}
	}
	return -1
}

// Add добавляет n единиц, создавая запись при первом получении
func (inv *Inventory) Add(kind BlockKind, n uint) error {
	if n == 0 {
		return fmt.Errorf("add %s: %w", kind, ErrInvalidQuantity)
	}
	if idx := inv.find(kind); idx >= 0 {
		inv.entries[idx].Count += n
		return nil
	}
	inv.entries = append(inv.entries, InventoryEntry{Kind: kind, Count: n})
	return nil
}

// Remove списывает n единиц. Возвращает false (и ничего не меняет), если не хватает.
func (inv *Inventory) Remove(kind BlockKind, n uint) bool {
	if n == 0 {
		return false
	}
	idx := inv.find(kind)
	if idx < 0 || inv.entries[idx].Count < n {
		return false
	}

	inv.entries[idx].Count -= n
	if inv.entries[idx].Count == 0 {
		// Сохраняем порядок остальных записей
		inv.entries = append(inv.entries[:idx], inv.entries[idx+1:]...)
	}
	return true
}

// Count - текущее количество (0, если записи нет)
func (inv *Inventory) Count(kind BlockKind) uint {
	if idx := inv.find(kind); idx >= 0 {
		return inv.entries[idx].Count
	}
	return 0
}

// CanCraft проверяет все ингредиенты, ничего не меняя
func (inv *Inventory) CanCraft(r Recipe) bool {
	for _, ing := range r.Ingredients {
		if inv.Count(ing.Kind) < ing.Count {
			return false
		}
	}
	return true
}

// Craft - атомарная транзакция: либо списаны все ингредиенты и выдан результат, либо ничего.
func (inv *Inventory) Craft(r Recipe) bool {
	if !inv.CanCraft(r) {
		return false
	}

	// Проверка выше гарантирует, что ни одно списание не провалится
	for _, ing := range r.Ingredients {
		inv.Remove(ing.Kind, ing.Count)
	}
	_ = inv.Add(r.Result, 1)
	return true
}

// Entries - копия записей в порядке получения
func (inv *Inventory) Entries() []InventoryEntry {
	out := make([]InventoryEntry, len(inv.entries))
	copy(out, inv.entries)
	return out
}

// Total - сумма всех количеств
func (inv *Inventory) Total() uint {
	var total uint
	for _, e := range inv.entries {
		total += e.Count
	}
	return total
}

func (inv *Inventory) Clone() *Inventory {
	return &Inventory{entries: inv.Entries()}
}

// Equal - побайтовое сравнение записей с учетом порядка
func (inv *Inventory) Equal(other *Inventory) bool {
	if other == nil || len(inv.entries) != len(other.entries) {
		return false
	}
	for i := range inv.entries {
		if inv.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}
