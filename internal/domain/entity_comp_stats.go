package domain

// Vitals - здоровье и сытость игрока. Принадлежат сессии, меняются только планировщиком.
type Vitals struct {
	Health    int `json:"health"`
	MaxHealth int `json:"maxHealth"`
	Hunger    int `json:"hunger"`
	MaxHunger int `json:"maxHunger"`
}

func NewVitals() Vitals {
	return Vitals{
		Health:    MaxVitals,
		MaxHealth: MaxVitals,
		Hunger:    MaxVitals,
		MaxHunger: MaxVitals,
	}
}

// TakeDamage наносит урон с полом в 0. Возвращает true, если здоровье только что кончилось.
func (v *Vitals) TakeDamage(amount int) bool {
	if v.Health <= 0 {
		return false
	}
	if amount < 0 {
		amount = 0
	}

	v.Health -= amount

	if v.Health <= 0 {
		v.Health = 0
		return true
	}
	return false
}

// Starve уменьшает сытость с полом в 0
func (v *Vitals) Starve(amount int) {
	if amount < 0 {
		return
	}
	v.Hunger -= amount
	if v.Hunger < 0 {
		v.Hunger = 0
	}
}

// IsDefeated - здоровье кончилось
func (v *Vitals) IsDefeated() bool {
	return v.Health <= 0
}
